package db

import (
	"context"
	"fmt"

	"alarm-service/internal/models"
)

// GetTasksForDay fetches a user's scheduled task instances for one local
// calendar day, ordered by wall-clock time.
func (d *DB) GetTasksForDay(ctx context.Context, userID int, dateLocal string) ([]models.ScheduledTask, error) {
	query := `
	SELECT id, routine_id, routine_name, user_id, title, description,
	       date_local, time_local, duration_min, priority, status,
	       created_at, updated_at
	FROM routine_tasks
	WHERE user_id = $1 AND date_local = $2
	ORDER BY time_local ASC`

	rows, err := d.Pool.Query(ctx, query, userID, dateLocal)
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks for user %d on %s: %w", userID, dateLocal, err)
	}
	defer rows.Close()

	var tasks []models.ScheduledTask
	for rows.Next() {
		var t models.ScheduledTask
		err := rows.Scan(
			&t.ID,
			&t.RoutineID,
			&t.RoutineName,
			&t.UserID,
			&t.Title,
			&t.Description,
			&t.DateLocal,
			&t.TimeLocal,
			&t.DurationMin,
			&t.Priority,
			&t.Status,
			&t.CreatedAt,
			&t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpdateTaskStatus transitions one task. Status changes trigger an immediate
// alarm re-scan upstream.
func (d *DB) UpdateTaskStatus(ctx context.Context, taskID, status string) error {
	query := `
	UPDATE routine_tasks
	SET status = $1, updated_at = NOW()
	WHERE id = $2`
	result, err := d.Pool.Exec(ctx, query, status, taskID)
	if err != nil {
		return fmt.Errorf("failed to update task %s status: %w", taskID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("no task found with id %s", taskID)
	}
	return nil
}
