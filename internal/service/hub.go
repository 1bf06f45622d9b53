package service

import (
	"sync"

	"github.com/gorilla/websocket"

	"alarm-service/internal/logging"
	"alarm-service/internal/models"
)

// maxConnections caps how many WebSocket clients may watch the stream.
const maxConnections = 10

// Hub tracks WebSocket clients of the notification display surface. Every
// change to the notification list is sent as the full current list, so a
// client's latest message is always the complete state.
type Hub struct {
	mu          sync.Mutex
	connections map[*websocket.Conn]bool
	logger      *logging.Logger
}

func NewHub(logger *logging.Logger) *Hub {
	return &Hub{
		connections: make(map[*websocket.Conn]bool),
		logger:      logger,
	}
}

// Add registers a connection and reports whether there was room for it.
func (h *Hub) Add(conn *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.connections) >= maxConnections {
		h.logger.Warnf("Max WebSocket connections reached, rejecting client")
		return false
	}
	h.connections[conn] = true
	h.logger.Infof("Added WebSocket connection (total: %d)", len(h.connections))
	return true
}

// Remove drops a connection.
func (h *Hub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.connections[conn]; ok {
		delete(h.connections, conn)
		h.logger.Infof("Removed WebSocket connection (remaining: %d)", len(h.connections))
	}
}

// Broadcast sends the notification list to every client, dropping clients
// that fail to accept the write.
func (h *Hub) Broadcast(notifications []models.AlarmNotification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if notifications == nil {
		notifications = []models.AlarmNotification{}
	}
	for conn := range h.connections {
		if err := conn.WriteJSON(notifications); err != nil {
			h.logger.Errorf("Failed to send WebSocket message: %v", err)
			delete(h.connections, conn)
			_ = conn.Close()
		}
	}
}
