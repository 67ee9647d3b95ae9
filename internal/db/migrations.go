package db

import (
	"context"
	"fmt"
)

// migrations run in order; entry i brings the schema to user_version i+1.
var migrations = [][]string{
	// 1: timestamps written as Go's default time.Time string
	// ("2024-01-08 09:00:00 +0000 UTC") become the fixed-width layout.
	{
		`UPDATE practice_sessions
		 SET start_time = SUBSTR(start_time, 1, 19) || '.000'
		 WHERE length(start_time) > 23 AND start_time LIKE '% UTC'`,
		`UPDATE practice_sessions
		 SET end_time = SUBSTR(end_time, 1, 19) || '.000'
		 WHERE end_time IS NOT NULL AND length(end_time) > 23 AND end_time LIKE '% UTC'`,
	},
	// 2: sessions stored with a stale duration take it from their interval.
	{
		`UPDATE practice_sessions
		 SET duration_ms = CAST(ROUND((julianday(end_time) - julianday(start_time)) * 86400000) AS INTEGER)
		 WHERE end_time IS NOT NULL AND duration_ms = 0 AND end_time > start_time`,
	},
}

// SchemaVersion returns the applied migration count.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	if err := db.QueryRowContext(context.Background(), "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// migrate applies every migration newer than the stored user_version.
func (db *DB) migrate() error {
	version, err := db.SchemaVersion()
	if err != nil {
		return err
	}

	for i := version; i < len(migrations); i++ {
		tx, err := db.BeginTx(context.Background(), nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", i+1, err)
		}
		for _, query := range migrations[i] {
			if _, err := tx.ExecContext(context.Background(), query); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("failed to apply migration %d: %w", i+1, err)
			}
		}
		if _, err := tx.ExecContext(context.Background(), fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", i+1, err)
		}
	}

	return nil
}
