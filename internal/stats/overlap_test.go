package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOverlap(t *testing.T) {
	bStart := date(2024, 1, 8, 0, 0)
	bEnd := date(2024, 1, 9, 0, 0)

	tests := []struct {
		name       string
		start, end time.Time
		want       time.Duration
	}{
		{"FullyInside", date(2024, 1, 8, 10, 0), date(2024, 1, 8, 11, 30), 90 * time.Minute},
		{"StartsInside", date(2024, 1, 8, 23, 0), date(2024, 1, 9, 2, 0), time.Hour},
		{"Spans", date(2024, 1, 7, 12, 0), date(2024, 1, 10, 12, 0), 24 * time.Hour},
		{"EndsInside", date(2024, 1, 7, 23, 0), date(2024, 1, 8, 2, 0), 2 * time.Hour},
		{"Before", date(2024, 1, 7, 10, 0), date(2024, 1, 7, 11, 0), 0},
		{"After", date(2024, 1, 9, 10, 0), date(2024, 1, 9, 11, 0), 0},
		{"TouchesStart", date(2024, 1, 7, 23, 0), bStart, 0},
		{"TouchesEnd", bEnd, date(2024, 1, 9, 1, 0), 0},
		{"ExactBucket", bStart, bEnd, 24 * time.Hour},
		{"ReversedInside", date(2024, 1, 8, 11, 0), date(2024, 1, 8, 10, 0), 0},
		{"ReversedAcross", date(2024, 1, 9, 5, 0), date(2024, 1, 7, 5, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlap(tt.start, tt.end, bStart, bEnd))
		})
	}
}
