package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/j-veylop/pianolog/internal/models"
)

// InsertReminder stores a reminder and sets its ID.
func (db *DB) InsertReminder(r *models.Reminder) error {
	query := `
		INSERT INTO reminders (weekday, hour, minute, message, enabled, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	result, err := db.ExecContext(context.Background(), query,
		int(r.Weekday),
		r.Hour,
		r.Minute,
		nullString(r.Message),
		r.Enabled,
		formatTime(createdAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert reminder: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		r.ID = id
	}
	r.CreatedAt = createdAt

	return nil
}

// ListReminders returns every reminder ordered by weekday and time.
func (db *DB) ListReminders() ([]models.Reminder, error) {
	query := `
		SELECT id, weekday, hour, minute, message, enabled, created_at
		FROM reminders
		ORDER BY weekday, hour, minute, id
	`

	rows, err := db.QueryContext(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var reminders []models.Reminder
	for rows.Next() {
		var r models.Reminder
		var weekday int
		var message, createdAt sql.NullString

		if err := rows.Scan(&r.ID, &weekday, &r.Hour, &r.Minute, &message, &r.Enabled, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}

		r.Weekday = time.Weekday(weekday)
		r.Message = message.String
		if createdAt.Valid {
			if t, ok := parseTimeString(createdAt.String); ok {
				r.CreatedAt = t
			}
		}
		reminders = append(reminders, r)
	}

	return reminders, rows.Err()
}

// SetReminderEnabled toggles a reminder.
func (db *DB) SetReminderEnabled(id int64, enabled bool) error {
	result, err := db.ExecContext(context.Background(),
		"UPDATE reminders SET enabled = ? WHERE id = ?", enabled, id)
	if err != nil {
		return fmt.Errorf("failed to update reminder: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteReminder removes a reminder.
func (db *DB) DeleteReminder(id int64) error {
	result, err := db.ExecContext(context.Background(), "DELETE FROM reminders WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
