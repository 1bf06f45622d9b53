package service

import (
	"context"
	"sync"

	"alarm-service/internal/alarm"
	"alarm-service/internal/config"
	"alarm-service/internal/db"
	"alarm-service/internal/logging"
)

// ReloadRequest asks the service to refresh the engine's task set from the
// database for one user and local day.
type ReloadRequest struct {
	RequestID string
	UserID    int
	DateLocal string
}

// Service glues the task source to the alarm engine: reload requests from
// Kafka or the API are queued, a worker pool resolves them against Postgres,
// and the engine's notification stream is fanned out to WebSocket clients.
type Service struct {
	db      *db.DB
	logger  *logging.Logger
	config  config.Config
	engine  *alarm.Engine
	reloads chan ReloadRequest
	ctx     context.Context
	cancel  context.CancelFunc
	wg      *sync.WaitGroup
	hub     *Hub
}

// New constructs a Service around an already-built engine.
func New(database *db.DB, logger *logging.Logger, cfg config.Config, engine *alarm.Engine) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		db:      database,
		logger:  logger,
		config:  cfg,
		engine:  engine,
		reloads: make(chan ReloadRequest, cfg.Service.QueueSize),
		ctx:     ctx,
		cancel:  cancel,
		hub:     NewHub(logger),
	}
}

// Logger exposes the Service's logger to the Kafka consumer.
func (s *Service) Logger() *logging.Logger {
	return s.logger
}

// Engine exposes the alarm engine to the API layer.
func (s *Service) Engine() *alarm.Engine {
	return s.engine
}

// Hub exposes the WebSocket hub to the API layer.
func (s *Service) Hub() *Hub {
	return s.hub
}

// Start launches the reload workers and the notification broadcaster.
func (s *Service) Start(wg *sync.WaitGroup) {
	s.wg = wg
	for i := 0; i < s.config.Service.MaxWorkers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go s.broadcast()
}

// Stop cancels the workers and broadcaster.
func (s *Service) Stop() {
	s.cancel()
}

// QueueReload enqueues a reload request, dropping it when the queue is full.
func (s *Service) QueueReload(req ReloadRequest) {
	select {
	case s.reloads <- req:
		s.logger.Infof("Queued task reload: request_id=%s user=%d date=%s", req.RequestID, req.UserID, req.DateLocal)
	default:
		s.logger.Errorf("Reload queue full, dropping request: request_id=%s", req.RequestID)
	}
}

// worker processes reload requests until the service stops.
func (s *Service) worker(id int) {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			s.logger.Infof("Reload worker %d stopped", id)
			return
		case req := <-s.reloads:
			s.handleReload(req)
		}
	}
}

// handleReload swaps the engine's task set for the requested day and forces
// an immediate scan so status changes get instant alarm feedback.
func (s *Service) handleReload(req ReloadRequest) {
	tasks, err := s.db.GetTasksForDay(s.ctx, req.UserID, req.DateLocal)
	if err != nil {
		s.logger.Errorf("Failed to load tasks for user %d on %s: %v", req.UserID, req.DateLocal, err)
		return
	}

	s.engine.SetTasks(tasks)
	s.engine.ForceCheckAlarms()
	s.logger.Infof("Reloaded %d tasks for user %d on %s (request_id=%s)", len(tasks), req.UserID, req.DateLocal, req.RequestID)
}

// broadcast forwards every notification-list snapshot to the hub.
func (s *Service) broadcast() {
	defer s.wg.Done()

	snapshots, unsubscribe := s.engine.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-s.ctx.Done():
			return
		case snapshot, ok := <-snapshots:
			if !ok {
				return
			}
			s.hub.Broadcast(snapshot)
		}
	}
}
