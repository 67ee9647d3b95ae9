package stats

import "time"

// Overlap returns how much of the interval [start, end] falls inside the
// bucket [bucketStart, bucketEnd]. Cases are checked in order: fully inside,
// starts inside, spans the bucket, ends inside, disjoint. The result is never
// negative, so reversed intervals contribute nothing.
func Overlap(start, end, bucketStart, bucketEnd time.Time) time.Duration {
	var d time.Duration

	switch {
	case !start.Before(bucketStart) && !end.After(bucketEnd):
		d = end.Sub(start)
	case !start.Before(bucketStart) && !start.After(bucketEnd) && end.After(bucketEnd):
		d = bucketEnd.Sub(start)
	case !start.After(bucketStart) && !end.Before(bucketEnd):
		d = bucketEnd.Sub(bucketStart)
	case !start.After(bucketStart) && !end.After(bucketEnd) && !end.Before(bucketStart):
		d = end.Sub(bucketStart)
	}

	return max(d, 0)
}
