package main

import (
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"alarm-service/internal/alarm"
	"alarm-service/internal/api"
	"alarm-service/internal/config"
	"alarm-service/internal/db"
	"alarm-service/internal/kafka"
	"alarm-service/internal/logging"
	"alarm-service/internal/providers"
	"alarm-service/internal/service"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	// Connect to database
	dbConn, err := db.New(cfg.DB.DSN)
	if err != nil {
		logger.Errorf("Failed to connect to database: %v", err)
		log.Fatalf("Database connection failed: %v", err)
	}
	defer dbConn.Close()

	// Build the notification sink
	sink := &providers.Sink{
		Tone:   providers.NewTonePlayer(logger),
		Visual: providers.NewTelegramNotifier(logger, cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Alarm.Cooldown),
	}

	// Build and start the alarm engine
	engine := alarm.NewEngine(logger, alarm.SystemClock(), dbConn, sink, alarm.Options{
		ScanInterval:   cfg.Alarm.ScanInterval,
		InitialDelay:   cfg.Alarm.InitialDelay,
		RepeatInterval: cfg.Alarm.RepeatInterval,
		Cooldown:       cfg.Alarm.Cooldown,
	})
	engine.StartMonitoring()
	defer engine.Close()

	// Initialize the glue service
	svc := service.New(dbConn, logger, cfg, engine)
	var wg sync.WaitGroup
	svc.Start(&wg)

	// Start Kafka consumer
	consumer := kafka.NewConsumer(cfg, svc)
	consumer.Start(&wg)

	// Start API server
	handler := api.NewHandler(dbConn, logger, svc)
	router := api.NewRouter(logger, cfg, handler)
	go func() {
		logger.Infof("Starting API server on %s", cfg.API.Port)
		if err := router.Run(cfg.API.Port); err != nil {
			logger.Errorf("API server failed: %v", err)
		}
	}()

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	logger.Infof("Shutting down...")
	consumer.Close()
	svc.Stop()
	engine.Close()
	wg.Wait()
	logger.Infof("Service stopped")
}
