// Package models defines data structures and domain types.
package models

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// Rating bounds for a practice session.
const (
	MaxIntensity    = 10
	MaxSatisfaction = 5
)

var (
	// ErrInvalidRating is returned when intensity or satisfaction is out of range.
	ErrInvalidRating = errors.New("rating out of range")
	// ErrInvalidInterval is returned when a completed session ends before it starts.
	ErrInvalidInterval = errors.New("session ends before it starts")
)

// Session is a single practice session. A zero EndTime marks the session as
// active (still running).
type Session struct {
	StartTime    time.Time     `json:"startTime" yaml:"startTime"`
	EndTime      time.Time     `json:"endTime" yaml:"endTime"`
	ID           string        `json:"id" yaml:"id"`
	Notes        string        `json:"notes,omitempty" yaml:"notes,omitempty"`
	Activities   []string      `json:"activities" yaml:"activities"`
	Duration     time.Duration `json:"-" yaml:"-"`
	Intensity    int           `json:"intensity" yaml:"intensity"`
	Satisfaction int           `json:"satisfaction" yaml:"satisfaction"`
}

// IsActive reports whether the session has not been stopped yet.
func (s *Session) IsActive() bool {
	return s.EndTime.IsZero()
}

// LiveDuration returns the stored duration for completed sessions and the
// running time for the active one.
func (s *Session) LiveDuration(now time.Time) time.Duration {
	if !s.IsActive() {
		return s.Duration
	}
	if now.Before(s.StartTime) {
		return 0
	}
	return now.Sub(s.StartTime)
}

// HasActivity reports whether the session references the given activity.
func (s *Session) HasActivity(id string) bool {
	return slices.Contains(s.Activities, id)
}

// Validate checks ratings and, for completed sessions, the interval.
func (s *Session) Validate() error {
	if s.Intensity < 0 || s.Intensity > MaxIntensity {
		return fmt.Errorf("%w: intensity %d not in 0..%d", ErrInvalidRating, s.Intensity, MaxIntensity)
	}
	if s.Satisfaction < 0 || s.Satisfaction > MaxSatisfaction {
		return fmt.Errorf("%w: satisfaction %d not in 0..%d", ErrInvalidRating, s.Satisfaction, MaxSatisfaction)
	}
	if !s.IsActive() && s.EndTime.Before(s.StartTime) {
		return ErrInvalidInterval
	}
	return nil
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() Session {
	clone := *s
	if s.Activities != nil {
		clone.Activities = slices.Clone(s.Activities)
	}
	return clone
}
