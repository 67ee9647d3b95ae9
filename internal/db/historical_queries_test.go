package db

import (
	"testing"
	"time"

	"github.com/j-veylop/pianolog/internal/models"
)

func TestGetLifetimeStats_Empty(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	stats, err := db.GetLifetimeStats(time.UTC)
	if err != nil {
		t.Fatalf("GetLifetimeStats() failed: %v", err)
	}
	if stats.HasData() {
		t.Errorf("expected no data, got %+v", stats)
	}
}

func TestGetLifetimeStats(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	sessions := []*models.Session{
		completed("a", at(1, 9, 0), at(1, 10, 0)),
		completed("b", at(2, 9, 0), at(2, 9, 30)),
		completed("c", at(2, 20, 0), at(2, 20, 30)),
		completed("d", at(3, 9, 0), at(3, 10, 0)),
		completed("e", at(10, 9, 0), at(10, 11, 0)),
	}
	sessions[4].Intensity = 10
	for _, s := range sessions {
		if err := db.InsertSession(s); err != nil {
			t.Fatalf("InsertSession() failed: %v", err)
		}
	}
	// The active session is ignored.
	if err := db.InsertSession(&models.Session{ID: "live", StartTime: at(11, 9, 0)}); err != nil {
		t.Fatalf("InsertSession() failed: %v", err)
	}

	stats, err := db.GetLifetimeStats(time.UTC)
	if err != nil {
		t.Fatalf("GetLifetimeStats() failed: %v", err)
	}

	if stats.SessionCount != 5 {
		t.Errorf("SessionCount = %d, want 5", stats.SessionCount)
	}
	if stats.TotalDuration != 5*time.Hour {
		t.Errorf("TotalDuration = %v, want 5h", stats.TotalDuration)
	}
	if stats.DaysPracticed != 4 {
		t.Errorf("DaysPracticed = %d, want 4", stats.DaysPracticed)
	}
	if stats.LongestStreak != 3 {
		t.Errorf("LongestStreak = %d, want 3", stats.LongestStreak)
	}
	if stats.AvgIntensity != 6 {
		t.Errorf("AvgIntensity = %v, want 6", stats.AvgIntensity)
	}
	if !stats.FirstSession.Equal(at(1, 9, 0)) || !stats.LastSession.Equal(at(10, 9, 0)) {
		t.Errorf("First/Last = %v/%v", stats.FirstSession, stats.LastSession)
	}
}

func TestGetLifetimeStats_LocalDays(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	// 23:30 UTC on Jan 1 is already Jan 2 in UTC+2.
	for _, s := range []*models.Session{
		completed("a", at(1, 23, 30), at(1, 23, 50)),
		completed("b", at(2, 10, 0), at(2, 10, 20)),
	} {
		if err := db.InsertSession(s); err != nil {
			t.Fatalf("InsertSession() failed: %v", err)
		}
	}

	utc, err := db.GetLifetimeStats(time.UTC)
	if err != nil {
		t.Fatalf("GetLifetimeStats() failed: %v", err)
	}
	plus2, err := db.GetLifetimeStats(time.FixedZone("UTC+2", 2*3600))
	if err != nil {
		t.Fatalf("GetLifetimeStats() failed: %v", err)
	}

	if utc.DaysPracticed != 2 || utc.LongestStreak != 2 {
		t.Errorf("UTC days/streak = %d/%d, want 2/2", utc.DaysPracticed, utc.LongestStreak)
	}
	if plus2.DaysPracticed != 1 || plus2.LongestStreak != 1 {
		t.Errorf("UTC+2 days/streak = %d/%d, want 1/1", plus2.DaysPracticed, plus2.LongestStreak)
	}
}

func TestLongestStreak(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 2, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name string
		days []time.Time
		want int
	}{
		{"Empty", nil, 0},
		{"Single", []time.Time{day(1)}, 1},
		{"Gap", []time.Time{day(1), day(3), day(4)}, 2},
		{"AcrossMonth", []time.Time{day(28), day(29), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := longestStreak(tt.days); got != tt.want {
				t.Errorf("longestStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGetActivityTotals(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	for _, s := range []*models.Session{
		completed("a", at(1, 9, 0), at(1, 10, 0), "scales", "theory"),
		completed("b", at(2, 9, 0), at(2, 9, 30), "scales"),
	} {
		if err := db.InsertSession(s); err != nil {
			t.Fatalf("InsertSession() failed: %v", err)
		}
	}

	totals, err := db.GetActivityTotals()
	if err != nil {
		t.Fatalf("GetActivityTotals() failed: %v", err)
	}
	if totals["scales"] != 90*time.Minute || totals["theory"] != time.Hour {
		t.Errorf("GetActivityTotals() = %v", totals)
	}
}

func TestParseTimeString(t *testing.T) {
	want := time.Date(2024, 1, 8, 9, 0, 0, 500_000_000, time.UTC)
	got, ok := parseTimeString("2024-01-08 09:00:00.500")
	if !ok || !got.Equal(want) {
		t.Errorf("parseTimeString() = %v, %v; want %v", got, ok, want)
	}
	if _, ok := parseTimeString("yesterday"); ok {
		t.Error("parseTimeString() should reject garbage")
	}
}
