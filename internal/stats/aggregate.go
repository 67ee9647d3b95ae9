package stats

import (
	"slices"
	"time"

	"github.com/j-veylop/pianolog/internal/models"
)

// Classification marks a bucket relative to the practice goal.
type Classification string

const (
	Normal Classification = "normal"
	Over   Classification = "over"
	Under  Classification = "under"
)

// underRatio is the fraction of the goal below which a bucket is under.
const underRatio = 0.8

// Classify compares a bucket value in hours with the goal in hours.
// A goal of zero or less disables classification, and an empty bucket is
// always Normal.
func Classify(hours, goalHours float64) Classification {
	if goalHours <= 0 || hours <= 0 {
		return Normal
	}
	switch {
	case hours > goalHours:
		return Over
	case hours < goalHours*underRatio:
		return Under
	default:
		return Normal
	}
}

// Comparison is the direction of change against the previous window.
type Comparison string

const (
	Increase Comparison = "increase"
	Decrease Comparison = "decrease"
)

// Compare reports Increase only when current is strictly greater; ties are
// Decrease.
func Compare(current, previous time.Duration) Comparison {
	if current > previous {
		return Increase
	}
	return Decrease
}

// Point is one entry of the chart series.
type Point struct {
	Class    Classification
	Bucket   Bucket
	Hours    float64
	Duration time.Duration
}

// ActivityTotal is the rollup entry for one activity.
type ActivityTotal struct {
	SessionIDs []string
	Duration   time.Duration
}

// Sessions returns the number of distinct sessions counted.
func (a ActivityTotal) Sessions() int {
	return len(a.SessionIDs)
}

// Result is the aggregate of a set of sessions over one window.
type Result struct {
	Window        Window
	Rollup        map[string]ActivityTotal
	Comparison    Comparison
	Series        []Point
	DaysPracticed []string
	AxisMax       float64
	TotalDuration time.Duration
	PreviousTotal time.Duration
}

// DayKeyLayout formats the keys of DaysPracticed.
const DayKeyLayout = "2006-01-02"

// Aggregate buckets sessions over w. goalMinutes is the daily goal, zero for
// none. Active sessions are skipped until they are stopped.
func Aggregate(sessions []models.Session, w Window, goalMinutes int) Result {
	res := summarize(inWindow(sessions, w), w, goalMinutes)

	prev := Pan(w, Backward, w.Start)
	res.PreviousTotal = totalDuration(inWindow(sessions, prev))
	res.Comparison = Compare(res.TotalDuration, res.PreviousTotal)

	return res
}

// inWindow keeps completed, well-formed sessions that intersect w.
func inWindow(sessions []models.Session, w Window) []models.Session {
	limit := w.Limit()
	kept := make([]models.Session, 0, len(sessions))
	for i := range sessions {
		s := &sessions[i]
		if s.IsActive() || s.EndTime.Before(s.StartTime) {
			continue
		}
		if s.StartTime.Before(limit) && s.EndTime.After(w.Start) {
			kept = append(kept, *s)
		}
	}
	return kept
}

func totalDuration(sessions []models.Session) time.Duration {
	var total time.Duration
	for i := range sessions {
		total += sessions[i].Duration
	}
	return total
}

func summarize(sessions []models.Session, w Window, goalMinutes int) Result {
	buckets := w.Buckets()
	res := Result{
		Window:        w,
		Series:        make([]Point, len(buckets)),
		Rollup:        make(map[string]ActivityTotal),
		DaysPracticed: []string{},
	}

	goalHours := float64(goalMinutes) / 60
	for i, b := range buckets {
		var sum time.Duration
		for j := range sessions {
			sum += Overlap(sessions[j].StartTime, sessions[j].EndTime, b.Start, b.Limit())
		}
		hours := sum.Hours()
		res.Series[i] = Point{
			Bucket:   b,
			Duration: sum,
			Hours:    hours,
			Class:    Classify(hours, goalHours),
		}
		res.AxisMax = max(res.AxisMax, hours)
	}
	if res.AxisMax == 0 {
		res.AxisMax = 1
	}

	days := make(map[string]struct{})
	for i := range sessions {
		s := &sessions[i]
		res.TotalDuration += s.Duration
		markDays(days, s, w)

		for _, id := range s.Activities {
			total := res.Rollup[id]
			if slices.Contains(total.SessionIDs, s.ID) {
				continue
			}
			total.Duration += s.Duration
			total.SessionIDs = append(total.SessionIDs, s.ID)
			res.Rollup[id] = total
		}
	}

	for day := range days {
		res.DaysPracticed = append(res.DaysPracticed, day)
	}
	slices.Sort(res.DaysPracticed)

	return res
}

// markDays records every local day of w on which s has nonzero overlap.
func markDays(days map[string]struct{}, s *models.Session, w Window) {
	loc := w.Start.Location()
	from := s.StartTime.In(loc)
	if from.Before(w.Start) {
		from = w.Start
	}
	until := s.EndTime
	if limit := w.Limit(); until.After(limit) {
		until = limit
	}

	y, m, d := from.Date()
	for i := 0; ; i++ {
		day, next := dayStart(y, m, d+i, loc), dayStart(y, m, d+i+1, loc)
		if !day.Before(until) {
			break
		}
		if Overlap(s.StartTime, s.EndTime, day, next) > 0 {
			days[day.Format(DayKeyLayout)] = struct{}{}
		}
	}
}
