package alarm

import "time"

// Permission mirrors the three-state notification permission model of the
// visual channel.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// NotificationSink is the engine's output capability. Implementations must
// be fire-and-forget: the engine never waits on a dispatch and tolerates a
// sink that can do nothing.
type NotificationSink interface {
	// PlayTone plays a short tone at the given frequency.
	PlayTone(frequencyHz float64, duration time.Duration)
	// Permission reports the visual channel's permission state.
	Permission() Permission
	// RequestPermission asks the channel to resolve a "default" permission.
	RequestPermission()
	// ShowNotification displays a visual notification. The tag dedupes
	// repeated displays of the same notification downstream.
	ShowNotification(title, body, tag string)
}

// NopSink discards everything; used when no output channel is configured.
type NopSink struct{}

func (NopSink) PlayTone(float64, time.Duration)     {}
func (NopSink) Permission() Permission              { return PermissionDenied }
func (NopSink) RequestPermission()                  {}
func (NopSink) ShowNotification(string, string, string) {}
