package models

import "time"

// Notification types. Warning corresponds to the 5-minute threshold,
// urgent to the 1-minute threshold.
const (
	AlarmTypeWarning = "warning"
	AlarmTypeUrgent  = "urgent"
)

// Threshold tags used to build notification IDs ({taskID}-{tag}).
const (
	ThresholdTag5Min = "5min"
	ThresholdTag1Min = "1min"
)

// MarkerKeyPrefix is the reserved key namespace for persisted dedup markers.
const MarkerKeyPrefix = "alarm_triggered_"

// AlarmNotification is a transient event produced when a task crosses an
// alarm threshold. ID is "{taskID}-{thresholdTag}" and doubles as the dedup
// tag for downstream channels.
type AlarmNotification struct {
	ID               string        `json:"id"`
	Task             ScheduledTask `json:"task"`
	Type             string        `json:"type"`
	Timestamp        time.Time     `json:"timestamp"`
	MinutesUntilTask int           `json:"minutes_until_task"`
}

// AlarmConfig controls which alarm channels and thresholds are active.
type AlarmConfig struct {
	Enabled        bool `json:"enabled"`
	Sound          bool `json:"sound"`
	Visual         bool `json:"visual"`
	Minutes5Before bool `json:"minutes_5_before"`
	Minutes1Before bool `json:"minutes_1_before"`
}

// DefaultAlarmConfig returns the configuration applied at engine start:
// everything on.
func DefaultAlarmConfig() AlarmConfig {
	return AlarmConfig{
		Enabled:        true,
		Sound:          true,
		Visual:         true,
		Minutes5Before: true,
		Minutes1Before: true,
	}
}

// AlarmConfigUpdate is a partial config change; nil fields are left as-is.
type AlarmConfigUpdate struct {
	Enabled        *bool `json:"enabled,omitempty"`
	Sound          *bool `json:"sound,omitempty"`
	Visual         *bool `json:"visual,omitempty"`
	Minutes5Before *bool `json:"minutes_5_before,omitempty"`
	Minutes1Before *bool `json:"minutes_1_before,omitempty"`
}

// Apply merges the update into cfg and returns the result.
func (u AlarmConfigUpdate) Apply(cfg AlarmConfig) AlarmConfig {
	if u.Enabled != nil {
		cfg.Enabled = *u.Enabled
	}
	if u.Sound != nil {
		cfg.Sound = *u.Sound
	}
	if u.Visual != nil {
		cfg.Visual = *u.Visual
	}
	if u.Minutes5Before != nil {
		cfg.Minutes5Before = *u.Minutes5Before
	}
	if u.Minutes1Before != nil {
		cfg.Minutes1Before = *u.Minutes1Before
	}
	return cfg
}
