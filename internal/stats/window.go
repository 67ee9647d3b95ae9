// Package stats turns practice sessions into calendar-bucketed aggregates:
// window computation, overlap apportioning, series and rollups, and labels.
//
// Everything here is pure. Functions never mutate their inputs and return
// identical results for identical arguments, so callers may memoize freely.
package stats

import (
	"fmt"
	"strings"
	"time"
)

// Granularity is the span of a calendar window.
type Granularity int

const (
	// Week windows are split into day buckets.
	Week Granularity = iota
	// Month windows are split into day buckets.
	Month
	// Year windows are split into month buckets.
	Year
)

// String returns the lowercase name used in flags and config.
func (g Granularity) String() string {
	switch g {
	case Week:
		return "week"
	case Month:
		return "month"
	case Year:
		return "year"
	default:
		return fmt.Sprintf("granularity(%d)", int(g))
	}
}

// Next cycles week, month, year.
func (g Granularity) Next() Granularity {
	return (g + 1) % 3
}

// ParseGranularity parses "week", "month" or "year".
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "week", "w":
		return Week, nil
	case "month", "m":
		return Month, nil
	case "year", "y":
		return Year, nil
	}
	return Week, fmt.Errorf("unknown granularity %q (want week, month or year)", s)
}

// Precision is the resolution of window and bucket end instants.
const Precision = time.Millisecond

// Direction selects the pan direction.
type Direction int

const (
	// Backward moves one unit into the past.
	Backward Direction = -1
	// Forward moves one unit towards now.
	Forward Direction = 1
)

// Window is a calendar period. End is the last instant of the period, one
// Precision before the next period starts.
type Window struct {
	Start       time.Time
	End         time.Time
	Granularity Granularity
	WeekStart   time.Weekday
}

// WindowFor returns the window of granularity g containing ref, computed in
// ref's location. Weeks begin on weekStart; out-of-range values mean Monday.
// It panics on an unknown granularity.
func WindowFor(g Granularity, ref time.Time, weekStart time.Weekday) Window {
	if weekStart < time.Sunday || weekStart > time.Saturday {
		weekStart = time.Monday
	}

	loc := ref.Location()
	y, m, d := ref.Date()
	var start time.Time
	switch g {
	case Week:
		weekday := time.Date(y, m, d, 12, 0, 0, 0, time.UTC).Weekday()
		offset := (int(weekday) - int(weekStart) + 7) % 7
		start = dayStart(y, m, d-offset, loc)
	case Month:
		start = dayStart(y, m, 1, loc)
	case Year:
		start = dayStart(y, time.January, 1, loc)
	default:
		panic(fmt.Sprintf("stats: unknown granularity %d", int(g)))
	}

	return Window{
		Start:       start,
		End:         advance(start, g, 1).Add(-Precision),
		Granularity: g,
		WeekStart:   weekStart,
	}
}

// dayStart returns the first instant of the calendar day y-m-d in loc,
// normalizing out-of-range months and days as time.Date does. Where a clock
// change skips midnight, that is the transition instant.
func dayStart(y int, m time.Month, d int, loc *time.Location) time.Time {
	y, m, d = time.Date(y, m, d, 12, 0, 0, 0, time.UTC).Date()

	t := time.Date(y, m, d, 0, 0, 0, 0, loc)
	if ty, tm, td := t.Date(); ty == y && tm == m && td == d {
		return t
	}
	if _, end := t.ZoneBounds(); !end.IsZero() {
		if ey, em, ed := end.Date(); ey == y && em == m && ed == d {
			return end
		}
	}
	for t.Day() != d {
		t = t.Add(time.Hour)
	}
	return t
}

// advance moves the day start t by n units of g, on the calendar.
func advance(t time.Time, g Granularity, n int) time.Time {
	y, m, d := t.Date()
	switch g {
	case Week:
		return dayStart(y, m, d+7*n, t.Location())
	case Month:
		return dayStart(y, m+time.Month(n), d, t.Location())
	case Year:
		return dayStart(y+n, m, d, t.Location())
	default:
		panic(fmt.Sprintf("stats: unknown granularity %d", int(g)))
	}
}

// Limit returns the first instant after the window.
func (w Window) Limit() time.Time {
	return w.End.Add(Precision)
}

// Contains reports whether t falls within [Start, End].
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Pan shifts the window one unit in dir. A forward pan whose new start would
// lie after now returns w unchanged.
func Pan(w Window, dir Direction, now time.Time) Window {
	start := advance(w.Start, w.Granularity, int(dir))
	if dir == Forward && start.After(now) {
		return w
	}
	return WindowFor(w.Granularity, start, w.WeekStart)
}

// Bucket is one day (week and month windows) or one month (year windows).
type Bucket struct {
	Start time.Time
	End   time.Time
	Label string
	Index int
}

// Limit returns the first instant after the bucket.
func (b Bucket) Limit() time.Time {
	return b.End.Add(Precision)
}

// Buckets partitions the window into contiguous buckets in chronological
// order. Each bucket's Limit equals the next bucket's Start.
func (w Window) Buckets() []Bucket {
	limit := w.Limit()
	loc := w.Start.Location()
	y, m, d := w.Start.Date()
	buckets := make([]Bucket, 0, 31)

	for i := 0; ; i++ {
		var start, next time.Time
		var label string
		switch w.Granularity {
		case Week:
			start, next = dayStart(y, m, d+i, loc), dayStart(y, m, d+i+1, loc)
			label = start.Format("Mon")
		case Month:
			start, next = dayStart(y, m, d+i, loc), dayStart(y, m, d+i+1, loc)
			label = start.Format("2")
		case Year:
			start, next = dayStart(y, m+time.Month(i), 1, loc), dayStart(y, m+time.Month(i+1), 1, loc)
			label = start.Format("Jan")
		default:
			panic(fmt.Sprintf("stats: unknown granularity %d", int(w.Granularity)))
		}
		if !start.Before(limit) {
			break
		}

		buckets = append(buckets, Bucket{
			Index: i,
			Start: start,
			End:   next.Add(-Precision),
			Label: label,
		})
	}

	return buckets
}
