package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/j-veylop/pianolog/internal/logger"
	"github.com/j-veylop/pianolog/internal/models"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// InsertSession stores a new session and its activities. A session without an
// end time is the active one; only one may exist at a time.
func (db *DB) InsertSession(s *models.Session) error {
	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if s.IsActive() {
		var n int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM practice_sessions WHERE end_time IS NULL").Scan(&n); err != nil {
			return fmt.Errorf("failed to check active session: %w", err)
		}
		if n > 0 {
			return ErrActiveSession
		}
	}

	query := `
		INSERT INTO practice_sessions (` + sessionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := tx.ExecContext(ctx, query,
		s.ID,
		formatTime(s.StartTime),
		nullTime(s.EndTime),
		s.Duration.Milliseconds(),
		s.Intensity,
		s.Satisfaction,
		nullString(s.Notes),
	); err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	if err := insertActivities(ctx, tx, s.ID, s.Activities); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}

// UpdateSession overwrites every field of an existing session.
func (db *DB) UpdateSession(s *models.Session) error {
	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		UPDATE practice_sessions
		SET start_time = ?, end_time = ?, duration_ms = ?, intensity = ?,
			satisfaction = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	result, err := tx.ExecContext(ctx, query,
		formatTime(s.StartTime),
		nullTime(s.EndTime),
		s.Duration.Milliseconds(),
		s.Intensity,
		s.Satisfaction,
		nullString(s.Notes),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM session_activities WHERE session_id = ?", s.ID); err != nil {
		return fmt.Errorf("failed to clear session activities: %w", err)
	}
	if err := insertActivities(ctx, tx, s.ID, s.Activities); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}

// DeleteSession removes a session and its activities.
func (db *DB) DeleteSession(id string) error {
	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM session_activities WHERE session_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete session activities: %w", err)
	}
	result, err := tx.ExecContext(ctx, "DELETE FROM practice_sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

// GetSession returns one session by id, or ErrNotFound.
func (db *DB) GetSession(id string) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM practice_sessions WHERE id = ?`

	s, err := scanSession(db.QueryRowContext(context.Background(), query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	sessions := []models.Session{*s}
	if err := db.loadActivities(sessions); err != nil {
		return nil, err
	}
	return &sessions[0], nil
}

// GetActiveSession returns the session without an end time, or nil.
func (db *DB) GetActiveSession() (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM practice_sessions WHERE end_time IS NULL LIMIT 1`

	s, err := scanSession(db.QueryRowContext(context.Background(), query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active session: %w", err)
	}

	sessions := []models.Session{*s}
	if err := db.loadActivities(sessions); err != nil {
		return nil, err
	}
	return &sessions[0], nil
}

// GetSessionsInRange returns completed sessions that intersect [from, to),
// oldest first.
func (db *DB) GetSessionsInRange(from, to time.Time) ([]models.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM practice_sessions
		WHERE end_time IS NOT NULL AND start_time < ? AND end_time > ?
		ORDER BY start_time ASC
	`
	return db.querySessions(query, formatTime(to), formatTime(from))
}

// ListSessions returns the most recent completed sessions, newest first.
// A limit of zero or less returns all of them.
func (db *DB) ListSessions(limit int) ([]models.Session, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `
		SELECT ` + sessionColumns + `
		FROM practice_sessions
		WHERE end_time IS NOT NULL
		ORDER BY start_time DESC
		LIMIT ?
	`
	return db.querySessions(query, limit)
}

// AllSessions returns every completed session, oldest first.
func (db *DB) AllSessions() ([]models.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM practice_sessions
		WHERE end_time IS NOT NULL
		ORDER BY start_time ASC
	`
	return db.querySessions(query)
}

func (db *DB) querySessions(query string, args ...any) ([]models.Session, error) {
	rows, err := db.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	var sessions []models.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	_ = rows.Close()

	if err := db.loadActivities(sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// loadActivities fills Activities for every session in one query.
func (db *DB) loadActivities(sessions []models.Session) error {
	if len(sessions) == 0 {
		return nil
	}

	index := make(map[string]int, len(sessions))
	args := make([]any, 0, len(sessions))
	for i := range sessions {
		index[sessions[i].ID] = i
		args = append(args, sessions[i].ID)
	}

	// SQLite caps bound parameters; load in chunks.
	const chunk = 500
	for lo := 0; lo < len(args); lo += chunk {
		hi := min(lo+chunk, len(args))
		query := `
			SELECT session_id, activity_id
			FROM session_activities
			WHERE session_id IN (?` + strings.Repeat(", ?", hi-lo-1) + `)
			ORDER BY session_id, position
		`
		if err := db.scanActivities(query, args[lo:hi], sessions, index); err != nil {
			return err
		}
	}
	return nil
}

func (db *DB) scanActivities(query string, args []any, sessions []models.Session, index map[string]int) error {
	rows, err := db.QueryContext(context.Background(), query, args...)
	if err != nil {
		return fmt.Errorf("failed to query session activities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var sessionID, activityID string
		if err := rows.Scan(&sessionID, &activityID); err != nil {
			return fmt.Errorf("failed to scan session activity: %w", err)
		}
		if i, ok := index[sessionID]; ok {
			sessions[i].Activities = append(sessions[i].Activities, activityID)
		}
	}
	return rows.Err()
}

func insertActivities(ctx context.Context, tx *sql.Tx, sessionID string, activities []string) error {
	seen := make(map[string]struct{}, len(activities))
	for i, id := range activities {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO session_activities (session_id, activity_id, position) VALUES (?, ?, ?)",
			sessionID, id, i,
		); err != nil {
			return fmt.Errorf("failed to insert session activity: %w", err)
		}
	}
	return nil
}

func scanSession(row rowScanner) (*models.Session, error) {
	var s models.Session
	var start string
	var end, notes sql.NullString
	var durationMs int64

	if err := row.Scan(&s.ID, &start, &end, &durationMs, &s.Intensity, &s.Satisfaction, &notes); err != nil {
		return nil, err
	}

	t, ok := parseTimeString(start)
	if !ok {
		return nil, fmt.Errorf("invalid start time %q for session %s", start, s.ID)
	}
	s.StartTime = t
	if end.Valid && end.String != "" {
		t, ok := parseTimeString(end.String)
		if !ok {
			return nil, fmt.Errorf("invalid end time %q for session %s", end.String, s.ID)
		}
		s.EndTime = t
	}
	s.Duration = time.Duration(durationMs) * time.Millisecond
	s.Notes = notes.String

	return &s, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(t), Valid: true}
}

// nullString returns a sql.NullString from a string.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
