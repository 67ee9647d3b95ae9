package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.UTC)
}

func TestWindowFor(t *testing.T) {
	// 2024-01-10 is a Wednesday.
	ref := date(2024, time.January, 10, 15, 30)

	tests := []struct {
		name      string
		g         Granularity
		ref       time.Time
		weekStart time.Weekday
		wantStart time.Time
		wantEnd   time.Time
	}{
		{"WeekMonday", Week, ref, time.Monday, date(2024, 1, 8, 0, 0), date(2024, 1, 15, 0, 0).Add(-Precision)},
		{"WeekSunday", Week, ref, time.Sunday, date(2024, 1, 7, 0, 0), date(2024, 1, 14, 0, 0).Add(-Precision)},
		{"WeekSaturday", Week, ref, time.Saturday, date(2024, 1, 6, 0, 0), date(2024, 1, 13, 0, 0).Add(-Precision)},
		{"WeekRefOnStartDay", Week, date(2024, 1, 8, 0, 0), time.Monday, date(2024, 1, 8, 0, 0), date(2024, 1, 15, 0, 0).Add(-Precision)},
		{"WeekInvalidStartIsMonday", Week, ref, time.Weekday(9), date(2024, 1, 8, 0, 0), date(2024, 1, 15, 0, 0).Add(-Precision)},
		{"WeekAcrossYear", Week, date(2024, 1, 2, 8, 0), time.Sunday, date(2023, 12, 31, 0, 0), date(2024, 1, 7, 0, 0).Add(-Precision)},
		{"MonthLeap", Month, date(2024, 2, 15, 12, 0), time.Monday, date(2024, 2, 1, 0, 0), date(2024, 3, 1, 0, 0).Add(-Precision)},
		{"Year", Year, ref, time.Monday, date(2024, 1, 1, 0, 0), time.Date(2024, 12, 31, 23, 59, 59, 999_000_000, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := WindowFor(tt.g, tt.ref, tt.weekStart)
			assert.True(t, w.Start.Equal(tt.wantStart), "start = %v, want %v", w.Start, tt.wantStart)
			assert.True(t, w.End.Equal(tt.wantEnd), "end = %v, want %v", w.End, tt.wantEnd)
			assert.Equal(t, tt.g, w.Granularity)
			assert.True(t, w.Contains(tt.ref))
		})
	}
}

func TestWindowFor_UsesReferenceLocation(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	// 2024-01-07T20:00Z is already Monday 05:00 in UTC+9.
	ref := date(2024, 1, 7, 20, 0).In(loc)

	w := WindowFor(Week, ref, time.Monday)
	assert.Equal(t, time.Date(2024, 1, 8, 0, 0, 0, 0, loc), w.Start)
}

func TestWindowFor_UnknownGranularityPanics(t *testing.T) {
	assert.Panics(t, func() { WindowFor(Granularity(7), time.Now(), time.Monday) })
	assert.Panics(t, func() { Window{Granularity: Granularity(-1)}.Buckets() })
}

func TestPan(t *testing.T) {
	now := date(2024, 1, 10, 12, 0)

	t.Run("BackwardWeek", func(t *testing.T) {
		w := WindowFor(Week, now, time.Monday)
		prev := Pan(w, Backward, now)
		assert.Equal(t, date(2024, 1, 1, 0, 0), prev.Start)
		assert.Equal(t, w.Start.Add(-Precision), prev.End)
	})

	t.Run("ForwardIntoFutureIsNoop", func(t *testing.T) {
		for _, g := range []Granularity{Week, Month, Year} {
			w := WindowFor(g, now, time.Monday)
			assert.Equal(t, w, Pan(w, Forward, now), g.String())
		}
	})

	t.Run("ForwardFromPast", func(t *testing.T) {
		w := WindowFor(Month, date(2023, 11, 5, 0, 0), time.Monday)
		next := Pan(w, Forward, now)
		assert.Equal(t, date(2023, 12, 1, 0, 0), next.Start)
		assert.Equal(t, Month, next.Granularity)
	})

	t.Run("BackwardYearThenForward", func(t *testing.T) {
		w := WindowFor(Year, now, time.Monday)
		prev := Pan(w, Backward, now)
		assert.Equal(t, 2023, prev.Start.Year())
		assert.Equal(t, w, Pan(prev, Forward, now))
	})

	t.Run("KeepsWeekStart", func(t *testing.T) {
		w := WindowFor(Week, now, time.Sunday)
		prev := Pan(w, Backward, now)
		assert.Equal(t, time.Sunday, prev.Start.Weekday())
		assert.Equal(t, time.Sunday, prev.WeekStart)
	})
}

func TestBuckets_TileWindow(t *testing.T) {
	refs := []time.Time{
		date(2024, 1, 10, 12, 0),
		date(2024, 2, 29, 23, 59),
		date(2023, 12, 31, 0, 0),
		date(2024, 1, 10, 12, 0).In(time.FixedZone("UTC-5", -5*60*60)),
	}
	counts := map[Granularity]func(Window) int{
		Week:  func(Window) int { return 7 },
		Month: func(w Window) int { return w.End.Day() },
		Year:  func(Window) int { return 12 },
	}

	for _, ref := range refs {
		for g, want := range counts {
			w := WindowFor(g, ref, time.Monday)
			buckets := w.Buckets()

			require.Len(t, buckets, want(w), "%s %v", g, ref)
			assert.Equal(t, w.Start, buckets[0].Start)
			assert.Equal(t, w.End, buckets[len(buckets)-1].End)
			for i := 1; i < len(buckets); i++ {
				assert.Equal(t, buckets[i-1].Limit(), buckets[i].Start, "gap before bucket %d", i)
				assert.Equal(t, i, buckets[i].Index)
			}
		}
	}
}

func TestBuckets_Labels(t *testing.T) {
	week := WindowFor(Week, date(2024, 1, 10, 0, 0), time.Monday).Buckets()
	assert.Equal(t, "Mon", week[0].Label)
	assert.Equal(t, "Sun", week[6].Label)

	month := WindowFor(Month, date(2024, 1, 10, 0, 0), time.Monday).Buckets()
	assert.Equal(t, "1", month[0].Label)
	assert.Equal(t, "31", month[30].Label)

	year := WindowFor(Year, date(2024, 1, 10, 0, 0), time.Monday).Buckets()
	assert.Equal(t, "Jan", year[0].Label)
	assert.Equal(t, "Dec", year[11].Label)
}

func TestParseGranularity(t *testing.T) {
	for in, want := range map[string]Granularity{"week": Week, " Month ": Month, "y": Year} {
		got, err := ParseGranularity(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, want, want.Next().Next().Next())
	}

	_, err := ParseGranularity("decade")
	assert.Error(t, err)
}

func TestWindowFor_MidnightClockChange(t *testing.T) {
	// Clocks in Sao Paulo jumped from 00:00 to 01:00 on 2018-11-04.
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Skipf("zoneinfo unavailable: %v", err)
	}
	ref := time.Date(2018, 11, 7, 12, 0, 0, 0, loc)

	w := WindowFor(Week, ref, time.Sunday)
	assert.True(t, w.Start.Equal(time.Date(2018, 11, 4, 1, 0, 0, 0, loc)), "start %v", w.Start)
	assert.Equal(t, time.Sunday, w.Start.Weekday())
	assert.True(t, w.Limit().Equal(time.Date(2018, 11, 11, 0, 0, 0, 0, loc)), "limit %v", w.Limit())

	buckets := w.Buckets()
	require.Len(t, buckets, 7)
	labels := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	for i, b := range buckets {
		assert.Equal(t, labels[i], b.Label)
		assert.Equal(t, 4+i, b.Start.Day(), b.Label)
		if i > 0 {
			assert.Equal(t, 0, b.Start.Hour(), b.Label)
			assert.True(t, buckets[i-1].Limit().Equal(b.Start), b.Label)
		}
	}

	month := WindowFor(Month, ref, time.Sunday).Buckets()
	require.Len(t, month, 30)
	assert.Equal(t, "4", month[3].Label)
	assert.Equal(t, 23*time.Hour, month[3].Limit().Sub(month[3].Start))
	assert.Equal(t, 0, month[4].Start.Hour())

	prev := Pan(w, Backward, ref)
	assert.True(t, prev.Start.Equal(time.Date(2018, 10, 28, 0, 0, 0, 0, loc)), "prev start %v", prev.Start)
	assert.True(t, prev.Limit().Equal(w.Start), "prev limit %v", prev.Limit())
}
