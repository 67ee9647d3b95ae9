package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	if db.Path() != dbPath {
		t.Errorf("Expected path %s, got %s", dbPath, db.Path())
	}

	// Verify file exists
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestNew_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "nested", "test.db")

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create database with nested path: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Dir(dbPath)); os.IsNotExist(err) {
		t.Error("Nested directories were not created")
	}
}

func TestSchema_TablesExist(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	tables := []string{
		"practice_sessions",
		"session_activities",
		"reminders",
	}

	for _, table := range tables {
		var name string
		err := db.QueryRowContext(context.Background(), "SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s does not exist: %v", table, err)
		}
	}
}

func TestMigrate_SetsVersion(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	version, err := db.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion() failed: %v", err)
	}
	if version != len(migrations) {
		t.Errorf("SchemaVersion() = %d, want %d", version, len(migrations))
	}

	// Running again is a no-op.
	if err := db.migrate(); err != nil {
		t.Errorf("migrate() second run failed: %v", err)
	}
}

func TestMigrate_FixesLegacyRows(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	_, err := db.ExecContext(context.Background(), `
		INSERT INTO practice_sessions (id, start_time, end_time, duration_ms)
		VALUES ('legacy', '2024-01-08 09:00:00 +0000 UTC', '2024-01-08 10:30:00 +0000 UTC', 0)`)
	if err != nil {
		t.Fatalf("insert legacy row failed: %v", err)
	}
	if _, err := db.ExecContext(context.Background(), "PRAGMA user_version = 0"); err != nil {
		t.Fatalf("reset user_version failed: %v", err)
	}

	if err := db.migrate(); err != nil {
		t.Fatalf("migrate() failed: %v", err)
	}

	s, err := db.GetSession("legacy")
	if err != nil {
		t.Fatalf("GetSession() failed: %v", err)
	}
	if want := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC); !s.StartTime.Equal(want) {
		t.Errorf("StartTime = %v, want %v", s.StartTime, want)
	}
	if s.Duration != 90*time.Minute {
		t.Errorf("Duration = %v, want 1h30m", s.Duration)
	}
}


func TestClose(t *testing.T) {
	db := newTestDB(t)

	if err := db.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}

	// Verify database is closed by trying to query
	_, err := db.QueryContext(context.Background(), "SELECT 1")
	if err == nil {
		t.Error("Expected error querying closed database")
	}
}

// Helper to create a test database
func newTestDB(t *testing.T) *DB {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	return db
}
