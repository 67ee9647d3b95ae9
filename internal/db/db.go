// Package db manages the database connection
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	// Import modernc.org/sqlite as a blank import to register the driver
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a row addressed by id does not exist.
var ErrNotFound = errors.New("not found")

// ErrActiveSession is returned when inserting a second session without an end time.
var ErrActiveSession = errors.New("a session is already in progress")

// DB wraps the SQL database connection with application-specific methods.
type DB struct {
	*sql.DB
	path string
}

// New creates a new database connection and initializes the schema.
func New(path string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlDB.PingContext(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{
		DB:   sqlDB,
		path: path,
	}

	if err := db.configure(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	if err := db.createSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	if err := db.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// configure sets up database pragmas for optimal performance.
func (db *DB) configure() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA cache_size=-16000",
		"PRAGMA temp_store=MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(context.Background(), pragma); err != nil {
			return fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}

	return nil
}

func (db *DB) createSchema() error {
	if err := db.createSessionsTable(); err != nil {
		return err
	}
	if err := db.createSessionActivitiesTable(); err != nil {
		return err
	}
	return db.createRemindersTable()
}

func (db *DB) createSessionsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS practice_sessions (
		id TEXT PRIMARY KEY,
		start_time TEXT NOT NULL,
		end_time TEXT,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		intensity INTEGER NOT NULL DEFAULT 0,
		satisfaction INTEGER NOT NULL DEFAULT 0,
		notes TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_practice_sessions_start ON practice_sessions(start_time);
	CREATE INDEX IF NOT EXISTS idx_practice_sessions_end ON practice_sessions(end_time);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_practice_sessions_active
		ON practice_sessions((end_time IS NULL)) WHERE end_time IS NULL;
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

func (db *DB) createSessionActivitiesTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS session_activities (
		session_id TEXT NOT NULL REFERENCES practice_sessions(id) ON DELETE CASCADE,
		activity_id TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (session_id, activity_id)
	);
	CREATE INDEX IF NOT EXISTS idx_session_activities_activity ON session_activities(activity_id);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

func (db *DB) createRemindersTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS reminders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		weekday INTEGER NOT NULL,
		hour INTEGER NOT NULL,
		minute INTEGER NOT NULL,
		message TEXT,
		enabled INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

// Close closes the database connection gracefully.
func (db *DB) Close() error {
	// Checkpoint WAL before closing
	_, _ = db.ExecContext(context.Background(), "PRAGMA wal_checkpoint(TRUNCATE)")
	return db.DB.Close()
}
