package providers

import (
	"time"

	"alarm-service/internal/alarm"
)

// Sink combines the tone and visual channels into the engine's
// NotificationSink. Either side may be nil; the corresponding channel then
// degrades silently.
type Sink struct {
	Tone   *TonePlayer
	Visual *TelegramNotifier
}

func (s *Sink) PlayTone(frequencyHz float64, duration time.Duration) {
	if s.Tone == nil {
		return
	}
	s.Tone.PlayTone(frequencyHz, duration)
}

func (s *Sink) Permission() alarm.Permission {
	if s.Visual == nil {
		return alarm.PermissionDenied
	}
	return s.Visual.Permission()
}

func (s *Sink) RequestPermission() {
	if s.Visual == nil {
		return
	}
	s.Visual.RequestPermission()
}

func (s *Sink) ShowNotification(title, body, tag string) {
	if s.Visual == nil {
		return
	}
	s.Visual.ShowNotification(title, body, tag)
}
