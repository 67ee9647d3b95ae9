package models

import "time"

// LifetimeStats holds all-time totals over completed sessions.
type LifetimeStats struct {
	FirstSession    time.Time
	LastSession     time.Time
	TotalDuration   time.Duration
	SessionCount    int
	DaysPracticed   int
	LongestStreak   int
	AvgIntensity    float64
	AvgSatisfaction float64
}

// HasData reports whether any completed session exists.
func (l *LifetimeStats) HasData() bool {
	return l.SessionCount > 0
}

// AvgSessionDuration returns the mean stored duration per session.
func (l *LifetimeStats) AvgSessionDuration() time.Duration {
	if l.SessionCount == 0 {
		return 0
	}
	return l.TotalDuration / time.Duration(l.SessionCount)
}
