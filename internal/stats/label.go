package stats

import (
	"fmt"
	"strconv"
	"time"
)

// Label returns the display string for w: "This Week", "This Month" or
// "This Year" when w contains now, otherwise a date range, a month name or
// a year number.
func Label(w Window, now time.Time) string {
	if w.Contains(now) {
		switch w.Granularity {
		case Week:
			return "This Week"
		case Month:
			return "This Month"
		case Year:
			return "This Year"
		}
	}

	switch w.Granularity {
	case Week:
		return FormatRange(w.Start, w.End)
	case Month:
		if w.Start.Year() == now.In(w.Start.Location()).Year() {
			return w.Start.Format("January")
		}
		return w.Start.Format("January 2006")
	case Year:
		return strconv.Itoa(w.Start.Year())
	default:
		panic(fmt.Sprintf("stats: unknown granularity %d", int(w.Granularity)))
	}
}

// FormatRange renders the span between two instants in start's location:
//
//	same day      "12 Jan 10:00 - 11:30"
//	same month    "12 - 18 Jan"
//	same year     "29 Jan - 4 Feb"
//	across years  "29 Dec 2023 - 4 Jan 2024"
func FormatRange(start, end time.Time) string {
	end = end.In(start.Location())

	switch {
	case start.Year() != end.Year():
		return start.Format("2 Jan 2006") + " - " + end.Format("2 Jan 2006")
	case start.Month() != end.Month():
		return start.Format("2 Jan") + " - " + end.Format("2 Jan")
	case start.Day() != end.Day():
		return start.Format("2") + " - " + end.Format("2 Jan")
	default:
		return start.Format("2 Jan 15:04") + " - " + end.Format("15:04")
	}
}
