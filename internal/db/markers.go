package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// The alarm_markers table is a plain key-value store for alarm dedup
// markers:
//
//	CREATE TABLE alarm_markers (
//	    key        text PRIMARY KEY,
//	    value      text NOT NULL,
//	    updated_at timestamptz NOT NULL DEFAULT now()
//	);

// Get returns the marker value for key, or "" when no marker exists.
func (d *DB) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := d.Pool.QueryRow(ctx, `SELECT value FROM alarm_markers WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get marker %s: %w", key, err)
	}
	return value, nil
}

// Set upserts a marker.
func (d *DB) Set(ctx context.Context, key, value string) error {
	query := `
	INSERT INTO alarm_markers (key, value, updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	if _, err := d.Pool.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set marker %s: %w", key, err)
	}
	return nil
}

// Remove deletes a marker. Removing a missing key is not an error.
func (d *DB) Remove(ctx context.Context, key string) error {
	if _, err := d.Pool.Exec(ctx, `DELETE FROM alarm_markers WHERE key = $1`, key); err != nil {
		return fmt.Errorf("failed to remove marker %s: %w", key, err)
	}
	return nil
}

// Keys returns all marker keys starting with prefix.
func (d *DB) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := d.Pool.Query(ctx, `SELECT key FROM alarm_markers WHERE key LIKE $1 || '%'`, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list marker keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan marker key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
