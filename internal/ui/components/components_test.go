package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"

	"github.com/j-veylop/pianolog/internal/stats"
)

func TestNewSpinner(t *testing.T) {
	s := NewSpinner("Loading")
	if s.label != "Loading" {
		t.Error("Spinner label mismatch")
	}
}

func TestSpinner_Methods(t *testing.T) {
	s := NewSpinner("Init")

	s.SetLabel("Loading")
	if s.Label() != "Loading" {
		t.Errorf("Label = %s, want Loading", s.Label())
	}

	if s.View() == "" {
		t.Error("View returned empty")
	}
	if !strings.Contains(s.ViewWithLabel(), "Loading") {
		t.Error("ViewWithLabel should include the label")
	}
	if s.Init() == nil {
		t.Error("Init should return command")
	}

	_, cmd := s.Update(spinner.TickMsg{})
	if cmd == nil {
		t.Error("Update should return command for tick")
	}

	if s.Tick() == nil {
		t.Error("Tick should return command")
	}
	if s.Spinner().Spinner.Frames == nil {
		t.Error("Spinner accessor failed")
	}
}

func TestNewTimerSpinner(t *testing.T) {
	s := NewTimerSpinner()
	if s.Label() != "" {
		t.Errorf("Label = %q, want empty", s.Label())
	}
	if s.ViewWithLabel() != s.View() {
		t.Error("unlabelled spinner should render the bare frame")
	}
}

func TestRenderSpinnerCentered(t *testing.T) {
	view := RenderSpinnerCentered(NewSpinner("Loading..."), 20, 5)
	if !strings.Contains(view, "Loading...") {
		t.Error("RenderSpinnerCentered lost the label")
	}
}

func TestRenderLineChart(t *testing.T) {
	if s := RenderLineChart([]float64{1, 2, 3, 4}, 20, 5, "Test"); s == "" {
		t.Error("RenderLineChart returned empty")
	}
	if s := RenderLineChart(nil, 20, 5, ""); !strings.Contains(s, "No data") {
		t.Errorf("empty chart = %q", s)
	}
}

func TestRenderComparisonChart(t *testing.T) {
	s := RenderComparisonChart([]float64{1, 2, 3}, []float64{3, 2}, 20, 5, "Week")
	if !strings.Contains(s, "Week") {
		t.Error("RenderComparisonChart missing caption")
	}
	if s := RenderComparisonChart(nil, nil, 20, 5, ""); !strings.Contains(s, "No data") {
		t.Errorf("empty comparison = %q", s)
	}
}

func testSeries() []stats.Point {
	day := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	return []stats.Point{
		{Class: stats.Over, Bucket: stats.Bucket{Start: day, Label: "Mon"}, Hours: 2, Duration: 2 * time.Hour},
		{Class: stats.Normal, Bucket: stats.Bucket{Start: day.AddDate(0, 0, 1), Label: "Tue", Index: 1}},
		{Class: stats.Under, Bucket: stats.Bucket{Start: day.AddDate(0, 0, 2), Label: "Wed", Index: 2}, Hours: 0.5, Duration: 30 * time.Minute},
	}
}

func TestHours(t *testing.T) {
	got := Hours(testSeries())
	want := []float64{2, 0, 0.5}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Hours[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRenderSeriesBars(t *testing.T) {
	out := RenderSeriesBars(testSeries(), 2, 1, 40)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}

	for i, want := range []string{"2h 00m", "0m", "30m"} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d = %q, want value %q", i, lines[i], want)
		}
	}
	if !strings.HasPrefix(lines[0], "Mon │") {
		t.Errorf("line 0 = %q, want label prefix", lines[0])
	}
	if !strings.Contains(lines[1], "┊") {
		t.Error("empty bucket should show the goal marker")
	}
	if strings.Contains(lines[0], "┊") {
		t.Error("bar past the goal should cover the marker")
	}

	if RenderSeriesBars(nil, 1, 0, 40) != "" {
		t.Error("empty series should render nothing")
	}
}

func TestRenderSeriesBars_ZeroAxis(t *testing.T) {
	series := testSeries()[1:2]
	out := RenderSeriesBars(series, 0, 0, 30)
	if strings.Contains(out, "█") {
		t.Errorf("zero series drew a bar: %q", out)
	}
}

func TestRenderBarChart(t *testing.T) {
	s := RenderBarChart([]float64{10, 20}, []string{"A", "B"}, 20)
	if !strings.Contains(s, "20.0") {
		t.Errorf("RenderBarChart = %q", s)
	}
	if RenderBarChart(nil, nil, 20) != "" {
		t.Error("empty chart should render nothing")
	}
}

func TestRenderClassSparkline(t *testing.T) {
	s := RenderClassSparkline(testSeries(), 2)
	if !strings.Contains(s, "█") || !strings.Contains(s, "▁") {
		t.Errorf("RenderClassSparkline = %q", s)
	}
	if RenderClassSparkline(nil, 1) != "" {
		t.Error("empty series should render nothing")
	}
}

func TestRenderLegend(t *testing.T) {
	s := RenderLegend(ClassLegend())
	for _, want := range []string{"over goal", "on track", "under goal"} {
		if !strings.Contains(s, want) {
			t.Errorf("legend missing %q", want)
		}
	}
}

func TestMarkdownRenderer(t *testing.T) {
	var r MarkdownRenderer

	if got := r.Render("plain", 0); got != "plain" {
		t.Errorf("zero width = %q, want input", got)
	}
	if got := r.Render("  ", 40); got != "  " {
		t.Errorf("blank = %q, want input", got)
	}

	out := r.Render("Worked on **Hanon** no. 1", 40)
	if !strings.Contains(out, "Hanon") {
		t.Errorf("Render = %q", out)
	}
	if strings.HasSuffix(out, "\n") {
		t.Error("Render should trim trailing newlines")
	}
}
