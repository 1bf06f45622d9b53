package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps logrus with file rotation plus console output.
type Logger struct {
	log *logrus.Logger
}

// New creates a Logger writing to dir/alarm-service.log (rotated) and stdout.
// Level is one of debug, info, warn, error; anything else falls back to info.
func New(dir, level string) (*Logger, error) {
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "alarm-service.log"),
		MaxSize:    20, // MB
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}

	l := logrus.New()
	l.SetOutput(io.MultiWriter(rotator, os.Stdout))
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	l.SetLevel(parsed)

	return &Logger{log: l}, nil
}

func (l *Logger) Debugf(msg string, args ...interface{}) {
	l.log.Debugf(msg, args...)
}

func (l *Logger) Infof(msg string, args ...interface{}) {
	l.log.Infof(msg, args...)
}

func (l *Logger) Warnf(msg string, args ...interface{}) {
	l.log.Warnf(msg, args...)
}

func (l *Logger) Errorf(msg string, args ...interface{}) {
	l.log.Errorf(msg, args...)
}

// WithRequestID returns a logrus entry tagged with a request id for log
// correlation across the kafka and api paths.
func (l *Logger) WithRequestID(requestID string) *logrus.Entry {
	return l.log.WithField("request_id", requestID)
}
