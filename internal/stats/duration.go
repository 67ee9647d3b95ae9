package stats

import (
	"fmt"
	"strconv"
	"time"
)

// DurationParts is a display tuple. Hours is unpadded, Minutes and Seconds
// are zero-padded to two digits.
type DurationParts struct {
	Hours   string
	Minutes string
	Seconds string
}

// String renders H:MM:SS.
func (p DurationParts) String() string {
	return p.Hours + ":" + p.Minutes + ":" + p.Seconds
}

// FormatDuration splits d into display parts. Negative durations render as zero.
func FormatDuration(d time.Duration) DurationParts {
	total := int64(max(d, 0) / time.Second)
	return DurationParts{
		Hours:   strconv.FormatInt(total/3600, 10),
		Minutes: fmt.Sprintf("%02d", total/60%60),
		Seconds: fmt.Sprintf("%02d", total%60),
	}
}

// Elapsed returns the absolute time between a and b.
func Elapsed(a, b time.Time) time.Duration {
	d := b.Sub(a)
	if d < 0 {
		return -d
	}
	return d
}

// ShortDuration renders d as "1h 05m", or "12m" under an hour.
func ShortDuration(d time.Duration) string {
	p := FormatDuration(d)
	if p.Hours == "0" {
		return strconv.Itoa(int(max(d, 0)/time.Minute)) + "m"
	}
	return p.Hours + "h " + p.Minutes + "m"
}
