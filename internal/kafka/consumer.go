package kafka

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"alarm-service/internal/config"
	"alarm-service/internal/logging"
	"alarm-service/internal/service"
)

// taskEvent is the payload published by the routine backend whenever a
// user's task list changes.
type taskEvent struct {
	RequestID string `json:"request_id"`
	UserID    int    `json:"user_id"`
	DateLocal string `json:"date_local"`
	Event     string `json:"event"` // created | updated | completed | skipped | deleted
}

// Consumer reads task-change events and queues task reloads on the service.
type Consumer struct {
	reader *kafka.Reader
	svc    *service.Service
	logger *logging.Logger
	cancel context.CancelFunc
}

func NewConsumer(cfg config.Config, svc *service.Service) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{cfg.Kafka.Broker},
		Topic:    cfg.Kafka.Topic,
		GroupID:  cfg.Kafka.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &Consumer{reader: reader, svc: svc, logger: svc.Logger()}
}

func (c *Consumer) Start(wg *sync.WaitGroup) {
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	wg.Add(1)
	go func() {
		defer wg.Done()
		c.logger.Infof("Kafka consumer started on topic %s", c.reader.Config().Topic)

		for {
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.Errorf("Read message failed: %v", err)
				continue
			}

			var event taskEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				c.logger.Errorf("Unmarshal message failed: %v", err)
				continue
			}

			if event.UserID < 1 || event.DateLocal == "" {
				c.logger.Errorf("Invalid message: missing user_id or date_local")
				continue
			}
			if event.RequestID == "" {
				event.RequestID = uuid.New().String()
			}

			c.svc.QueueReload(service.ReloadRequest{
				RequestID: event.RequestID,
				UserID:    event.UserID,
				DateLocal: event.DateLocal,
			})
			c.logger.Infof("Processed task event %s (request_id=%s)", event.Event, event.RequestID)
		}
	}()
}

func (c *Consumer) Close() {
	if c.cancel != nil {
		c.cancel()
	}
	if err := c.reader.Close(); err != nil {
		c.logger.Errorf("Kafka reader close failed: %v", err)
	}
}
