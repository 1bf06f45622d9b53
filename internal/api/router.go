package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alarm-service/internal/config"
	"alarm-service/internal/logging"
)

func NewRouter(logger *logging.Logger, cfg config.Config, h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLoggingMiddleware(logger))

	api := r.Group(cfg.API.BasePath)
	{
		// Alarm engine
		api.GET("/alarms/config", h.GetAlarmConfig)
		api.PATCH("/alarms/config", h.UpdateAlarmConfig)
		api.POST("/alarms/check", h.ForceCheck)
		api.POST("/alarms/confirm", h.ConfirmUrgentAlarm)
		api.DELETE("/alarms/cache", h.ClearTriggeredCache)

		// Notifications
		api.GET("/notifications", h.GetNotifications)
		api.DELETE("/notifications/:id", h.DismissNotification)
		api.DELETE("/notifications", h.ClearNotifications)

		// Tasks
		api.GET("/tasks", h.GetTasks)
		api.POST("/tasks/reload", h.ReloadTasks)
		api.POST("/tasks/fix-dates", h.FixMissingDates)
		api.PATCH("/tasks/:id/status", h.UpdateTaskStatus)

		// Notification stream
		api.GET("/ws", h.NotificationStream)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}
