package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/j-veylop/pianolog/internal/models"
)

var timeFormats = []string{
	timeLayout,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05 -0700 MST",
	"2006-01-02 15:04:05 +0000 UTC",
}

func parseTimeString(s string) (time.Time, bool) {
	for _, format := range timeFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// GetLifetimeStats returns all-time totals over completed sessions. Days and
// streaks are counted on the calendar of loc by session start.
func (db *DB) GetLifetimeStats(loc *time.Location) (*models.LifetimeStats, error) {
	stats := &models.LifetimeStats{}

	if err := db.getTotals(stats); err != nil {
		return nil, err
	}
	if stats.SessionCount == 0 {
		return stats, nil
	}

	days, err := db.getPracticeDays(loc)
	if err != nil {
		return nil, err
	}
	stats.DaysPracticed = len(days)
	stats.LongestStreak = longestStreak(days)

	return stats, nil
}

func (db *DB) getTotals(stats *models.LifetimeStats) error {
	query := `
		SELECT
			COUNT(*) as session_count,
			COALESCE(SUM(duration_ms), 0) as total_ms,
			COALESCE(AVG(intensity), 0) as avg_intensity,
			COALESCE(AVG(satisfaction), 0) as avg_satisfaction,
			MIN(start_time) as first_session,
			MAX(start_time) as last_session
		FROM practice_sessions
		WHERE end_time IS NOT NULL
	`

	var totalMs int64
	var first, last sql.NullString
	if err := db.QueryRowContext(context.Background(), query).Scan(
		&stats.SessionCount, &totalMs, &stats.AvgIntensity, &stats.AvgSatisfaction,
		&first, &last,
	); err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to scan lifetime totals: %w", err)
	}

	stats.TotalDuration = time.Duration(totalMs) * time.Millisecond
	if first.Valid {
		if t, ok := parseTimeString(first.String); ok {
			stats.FirstSession = t
		}
	}
	if last.Valid {
		if t, ok := parseTimeString(last.String); ok {
			stats.LastSession = t
		}
	}
	return nil
}

// getPracticeDays returns the distinct local days with a session start,
// oldest first.
func (db *DB) getPracticeDays(loc *time.Location) ([]time.Time, error) {
	rows, err := db.QueryContext(context.Background(),
		"SELECT start_time FROM practice_sessions WHERE end_time IS NOT NULL ORDER BY start_time ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query practice days: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var days []time.Time
	for rows.Next() {
		var start string
		if err := rows.Scan(&start); err != nil {
			return nil, fmt.Errorf("failed to scan practice day: %w", err)
		}
		t, ok := parseTimeString(start)
		if !ok {
			continue
		}
		t = t.In(loc)
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		if n := len(days); n == 0 || !days[n-1].Equal(day) {
			days = append(days, day)
		}
	}

	return days, rows.Err()
}

// longestStreak counts the longest run of consecutive days in a sorted,
// deduplicated list.
func longestStreak(days []time.Time) int {
	best, run := 0, 0
	for i, d := range days {
		if i > 0 && days[i-1].AddDate(0, 0, 1).Equal(d) {
			run++
		} else {
			run = 1
		}
		best = max(best, run)
	}
	return best
}

// GetActivityTotals returns all-time stored duration per activity id.
func (db *DB) GetActivityTotals() (map[string]time.Duration, error) {
	query := `
		SELECT sa.activity_id, COALESCE(SUM(ps.duration_ms), 0)
		FROM session_activities sa
		JOIN practice_sessions ps ON ps.id = sa.session_id
		WHERE ps.end_time IS NOT NULL
		GROUP BY sa.activity_id
	`

	rows, err := db.QueryContext(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	totals := make(map[string]time.Duration)
	for rows.Next() {
		var id string
		var ms int64
		if err := rows.Scan(&id, &ms); err != nil {
			return nil, fmt.Errorf("failed to scan activity total: %w", err)
		}
		totals[id] = time.Duration(ms) * time.Millisecond
	}

	return totals, rows.Err()
}
