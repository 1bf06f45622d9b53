package models

import "time"

// TaskStatus values mirror the routine backend's task lifecycle.
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
	TaskStatusSkipped    = "skipped"
	TaskStatusMissed     = "missed"
)

// Task priorities as stored by the routine backend.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// ScheduledTask is one task instance scheduled for a given local day.
// TimeLocal is wall-clock HH:MM or HH:MM:SS and DateLocal is YYYY-MM-DD,
// both in the user's local timezone with no offset attached. Only pending
// tasks with both fields set are eligible for alarm evaluation.
type ScheduledTask struct {
	ID          string    `json:"id"`
	RoutineID   string    `json:"routine_id"`
	RoutineName string    `json:"routine_name"`
	UserID      int       `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DateLocal   string    `json:"date_local"`
	TimeLocal   string    `json:"time_local"`
	DurationMin int       `json:"duration_min"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
