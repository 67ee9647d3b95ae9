package components

import (
	"strings"
	"testing"
	"time"
)

func TestGoalPercent(t *testing.T) {
	tests := []struct {
		name string
		done time.Duration
		goal time.Duration
		want float64
	}{
		{"half", 30 * time.Minute, time.Hour, 50},
		{"capped", 2 * time.Hour, time.Hour, 100},
		{"no goal", time.Hour, 0, 0},
		{"nothing", 0, time.Hour, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GoalPercent(tt.done, tt.goal); got != tt.want {
				t.Errorf("GoalPercent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGoalBar_View(t *testing.T) {
	bar := NewGoalBar()
	bar.SetLabel("Today")

	view := bar.View(45*time.Minute, time.Hour, 80)
	for _, want := range []string{"Today", "75%", "45m / 1h 00m"} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q: %q", want, view)
		}
	}

	compact := bar.ViewCompact(time.Hour, time.Hour, 20)
	if !strings.Contains(compact, "100%") {
		t.Errorf("ViewCompact = %q", compact)
	}
}

func TestGoalBar_Animation(t *testing.T) {
	bar := NewGoalBarWithWidth(20)
	if bar.Init() != nil {
		t.Error("Init should return nil")
	}

	if cmd := bar.SetPercent(50); cmd == nil {
		t.Fatal("SetPercent should start the animation")
	}

	for range 200 {
		bar, _ = bar.Update(AnimationTickMsg(time.Now()))
	}
	if bar.Current() != 50 {
		t.Errorf("Current = %v, want 50", bar.Current())
	}

	bar.SetPercent(10)
	for range 200 {
		bar, _ = bar.Update(AnimationTickMsg(time.Now()))
	}
	if bar.Current() != 10 {
		t.Errorf("Current = %v, want 10", bar.Current())
	}
}

func TestRenderGradientBar(t *testing.T) {
	if RenderGradientBar(50, 0) != "" {
		t.Error("zero width should render nothing")
	}

	s := RenderGradientBar(50, 10)
	if got := strings.Count(s, "█"); got != 5 {
		t.Errorf("filled = %d, want 5", got)
	}
	if got := strings.Count(s, "░"); got != 5 {
		t.Errorf("empty = %d, want 5", got)
	}
}

func TestSimpleGoalBar(t *testing.T) {
	s := SimpleGoalBar(15*time.Minute, time.Hour, "Goal", 40)
	if !strings.Contains(s, "Goal") || !strings.Contains(s, "25%") {
		t.Errorf("SimpleGoalBar = %q", s)
	}
}

func TestInterpolateColor(t *testing.T) {
	if got := interpolateColor("#000000", "#ffffff", 0); got != "#000000" {
		t.Errorf("start = %s", got)
	}
	if got := interpolateColor("#000000", "#ffffff", 1); got != "#ffffff" {
		t.Errorf("end = %s", got)
	}
	if got := hexToRGB("zz"); got != [3]int{0, 0, 0} {
		t.Errorf("invalid hex = %v", got)
	}
}
