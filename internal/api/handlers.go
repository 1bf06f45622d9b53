package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"alarm-service/internal/db"
	"alarm-service/internal/logging"
	"alarm-service/internal/models"
	"alarm-service/internal/service"
)

type Handler struct {
	db     *db.DB
	logger *logging.Logger
	svc    *service.Service
}

func NewHandler(database *db.DB, logger *logging.Logger, svc *service.Service) *Handler {
	return &Handler{db: database, logger: logger, svc: svc}
}

func (h *Handler) GetAlarmConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Engine().Config())
}

func (h *Handler) UpdateAlarmConfig(c *gin.Context) {
	var update models.AlarmConfigUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		h.logger.Errorf("Invalid request body for config update: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	h.svc.Engine().UpdateConfig(update)
	cfg := h.svc.Engine().Config()
	h.logger.Infof("Updated alarm config: %+v", cfg)
	c.JSON(http.StatusOK, cfg)
}

func (h *Handler) ForceCheck(c *gin.Context) {
	h.svc.Engine().ForceCheckAlarms()
	c.JSON(http.StatusOK, gin.H{"message": "Alarm check completed"})
}

func (h *Handler) ConfirmUrgentAlarm(c *gin.Context) {
	h.svc.Engine().ConfirmUrgentAlarm()
	c.JSON(http.StatusOK, gin.H{"message": "Urgent alarm confirmed"})
}

func (h *Handler) ClearTriggeredCache(c *gin.Context) {
	h.svc.Engine().ClearTriggeredAlarmsCache()
	h.logger.Infof("Cleared triggered alarm markers")
	c.JSON(http.StatusOK, gin.H{"message": "Triggered alarm cache cleared"})
}

func (h *Handler) GetNotifications(c *gin.Context) {
	notifications := h.svc.Engine().Notifications()
	if notifications == nil {
		notifications = []models.AlarmNotification{}
	}
	c.JSON(http.StatusOK, notifications)
}

func (h *Handler) DismissNotification(c *gin.Context) {
	id := c.Param("id")
	h.svc.Engine().DismissNotification(id)
	h.logger.Infof("Dismissed notification %s", id)
	c.JSON(http.StatusOK, gin.H{"message": "Notification dismissed"})
}

func (h *Handler) ClearNotifications(c *gin.Context) {
	h.svc.Engine().ClearAllNotifications()
	c.JSON(http.StatusOK, gin.H{"message": "Notifications cleared"})
}

func (h *Handler) GetTasks(c *gin.Context) {
	tasks := h.svc.Engine().Tasks()
	if tasks == nil {
		tasks = []models.ScheduledTask{}
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) FixMissingDates(c *gin.Context) {
	h.svc.Engine().FixMissingDates()
	c.JSON(http.StatusOK, gin.H{"message": "Missing dates filled"})
}

func (h *Handler) ReloadTasks(c *gin.Context) {
	type ReloadRequest struct {
		UserID    int    `json:"user_id" binding:"required"`
		DateLocal string `json:"date_local" binding:"required"`
	}

	var req ReloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("Invalid request body for task reload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	requestID := uuid.New().String()
	h.svc.QueueReload(service.ReloadRequest{
		RequestID: requestID,
		UserID:    req.UserID,
		DateLocal: req.DateLocal,
	})
	c.JSON(http.StatusAccepted, gin.H{"message": "Reload queued", "request_id": requestID})
}

func (h *Handler) UpdateTaskStatus(c *gin.Context) {
	type StatusRequest struct {
		Status    string `json:"status" binding:"required"`
		UserID    int    `json:"user_id" binding:"required"`
		DateLocal string `json:"date_local" binding:"required"`
	}

	id := c.Param("id")
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("Invalid request body for task status: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	switch req.Status {
	case models.TaskStatusPending, models.TaskStatusInProgress, models.TaskStatusCompleted,
		models.TaskStatusSkipped, models.TaskStatusMissed:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	if err := h.db.UpdateTaskStatus(c.Request.Context(), id, req.Status); err != nil {
		h.logger.Errorf("Failed to update task %s status: %v", id, err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	// Refresh the engine's task set so the status change takes effect on the
	// next scan, which the reload forces immediately.
	h.svc.QueueReload(service.ReloadRequest{
		RequestID: uuid.New().String(),
		UserID:    req.UserID,
		DateLocal: req.DateLocal,
	})

	h.logger.Infof("Updated task %s status to %s", id, req.Status)
	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}
