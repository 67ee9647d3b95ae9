package models

import (
	"fmt"
	"time"
)

// Reminder is a recurring local alert at a weekday and wall-clock time.
type Reminder struct {
	CreatedAt time.Time    `json:"createdAt" yaml:"createdAt"`
	Message   string       `json:"message" yaml:"message"`
	ID        int64        `json:"id" yaml:"id"`
	Weekday   time.Weekday `json:"weekday" yaml:"weekday"`
	Hour      int          `json:"hour" yaml:"hour"`
	Minute    int          `json:"minute" yaml:"minute"`
	Enabled   bool         `json:"enabled" yaml:"enabled"`
}

// Validate checks the weekday and clock fields.
func (r *Reminder) Validate() error {
	if r.Weekday < time.Sunday || r.Weekday > time.Saturday {
		return fmt.Errorf("invalid weekday %d", r.Weekday)
	}
	if r.Hour < 0 || r.Hour > 23 || r.Minute < 0 || r.Minute > 59 {
		return fmt.Errorf("invalid time %02d:%02d", r.Hour, r.Minute)
	}
	return nil
}

// NextFire returns the first occurrence of the reminder strictly after now,
// in now's location.
func (r *Reminder) NextFire(now time.Time) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), r.Hour, r.Minute, 0, 0, now.Location())
	days := (int(r.Weekday) - int(now.Weekday()) + 7) % 7
	next := today.AddDate(0, 0, days)
	if !next.After(now) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}

// String renders the schedule, e.g. "Mon 18:30".
func (r *Reminder) String() string {
	return fmt.Sprintf("%s %02d:%02d", r.Weekday.String()[:3], r.Hour, r.Minute)
}
