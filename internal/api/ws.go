package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"alarm-service/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// NotificationStream upgrades the request to a WebSocket and streams the
// notification list. The first message is the current list; every change
// after that delivers the full replacement list.
func (h *Handler) NotificationStream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("WebSocket upgrade failed: %v", err)
		return
	}

	if !h.svc.Hub().Add(conn) {
		_ = conn.Close()
		return
	}

	notifications := h.svc.Engine().Notifications()
	if notifications == nil {
		notifications = []models.AlarmNotification{}
	}
	if err := conn.WriteJSON(notifications); err != nil {
		h.logger.Errorf("Failed to send initial notification list: %v", err)
		h.svc.Hub().Remove(conn)
		_ = conn.Close()
		return
	}

	// Drain client reads so close frames are processed; the stream is
	// one-way otherwise.
	go func() {
		defer func() {
			h.svc.Hub().Remove(conn)
			_ = conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
