package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Kafka struct {
		Broker  string
		Topic   string
		GroupID string
	}
	DB struct {
		DSN string
	}
	API struct {
		Port     string
		BasePath string
	}
	Telegram struct {
		BotToken string
		ChatID   int64
	}
	Alarm struct {
		ScanInterval   time.Duration
		InitialDelay   time.Duration
		RepeatInterval time.Duration
		Cooldown       time.Duration
	}
	Service struct {
		QueueSize  int
		MaxWorkers int
	}
	Logging struct {
		Dir   string
		Level string
	}
}

// Load reads environment variables, applies defaults, and returns a Config.
func Load() (Config, error) {
	// Load .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config

	// Kafka settings
	cfg.Kafka.Broker = os.Getenv("KAFKA_BROKER")
	cfg.Kafka.Topic = os.Getenv("KAFKA_TOPIC")
	cfg.Kafka.GroupID = os.Getenv("KAFKA_GROUP_ID")

	// Database DSN
	cfg.DB.DSN = os.Getenv("DB_DSN")

	// API settings
	cfg.API.Port = os.Getenv("API_PORT")
	cfg.API.BasePath = os.Getenv("API_BASE_PATH")

	// Telegram settings for the visual notification channel
	cfg.Telegram.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if id, err := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64); err == nil {
		cfg.Telegram.ChatID = id
	}

	// Alarm engine tunables
	if s, err := strconv.Atoi(os.Getenv("ALARM_SCAN_INTERVAL_SEC")); err == nil && s > 0 {
		cfg.Alarm.ScanInterval = time.Duration(s) * time.Second
	}
	if m, err := strconv.Atoi(os.Getenv("ALARM_COOLDOWN_MIN")); err == nil && m > 0 {
		cfg.Alarm.Cooldown = time.Duration(m) * time.Minute
	}

	// Service worker settings
	if qs, err := strconv.Atoi(os.Getenv("QUEUE_SIZE")); err == nil {
		cfg.Service.QueueSize = qs
	}
	if mw, err := strconv.Atoi(os.Getenv("MAX_WORKERS")); err == nil {
		cfg.Service.MaxWorkers = mw
	}

	// Logging settings
	cfg.Logging.Dir = os.Getenv("LOG_DIR")
	cfg.Logging.Level = os.Getenv("LOG_LEVEL")

	// Validate required settings
	missing := []string{}
	if cfg.DB.DSN == "" {
		missing = append(missing, "DB_DSN")
	}
	if cfg.Kafka.Broker == "" {
		missing = append(missing, "KAFKA_BROKER")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required configurations: %v", missing)
	}

	// Apply defaults
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "task_events"
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = "alarm-service"
	}
	if cfg.API.Port == "" {
		cfg.API.Port = ":8080"
	}
	if cfg.API.BasePath == "" {
		cfg.API.BasePath = "/api/v0"
	}
	if cfg.Alarm.ScanInterval == 0 {
		cfg.Alarm.ScanInterval = 15 * time.Second
	}
	if cfg.Alarm.InitialDelay == 0 {
		cfg.Alarm.InitialDelay = time.Second
	}
	if cfg.Alarm.RepeatInterval == 0 {
		cfg.Alarm.RepeatInterval = 1500 * time.Millisecond
	}
	if cfg.Alarm.Cooldown == 0 {
		cfg.Alarm.Cooldown = 10 * time.Minute
	}
	if cfg.Service.QueueSize == 0 {
		cfg.Service.QueueSize = 100
	}
	if cfg.Service.MaxWorkers == 0 {
		cfg.Service.MaxWorkers = 4
	}
	if cfg.Logging.Dir == "" {
		cfg.Logging.Dir = "logs"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	return cfg, nil
}
