// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/pianolog/internal/stats"
	"github.com/j-veylop/pianolog/internal/ui/styles"
)

// sparkChars are the block heights used by sparklines, low to high.
var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	width = max(width, 20)
	height = max(height, 3)

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// RenderComparisonChart plots the current period against the previous one.
// The shorter series is padded with zeros.
func RenderComparisonChart(current, previous []float64, width, height int, caption string) string {
	if len(current) == 0 && len(previous) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	width = max(width, 20)
	height = max(height, 3)

	n := max(len(current), len(previous))
	cur := make([]float64, n)
	prev := make([]float64, n)
	copy(cur, current)
	copy(prev, previous)

	return asciigraph.PlotMany([][]float64{prev, cur},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(
			asciigraph.Gray,
			asciigraph.Purple,
		),
	)
}

// Hours extracts the bucket values of a series.
func Hours(series []stats.Point) []float64 {
	out := make([]float64, len(series))
	for i, p := range series {
		out[i] = p.Hours
	}
	return out
}

// RenderSeriesBars draws one horizontal bar per bucket, scaled to axisMax and
// colored by goal classification. goalHours > 0 draws a marker at the goal.
func RenderSeriesBars(series []stats.Point, axisMax, goalHours float64, width int) string {
	if len(series) == 0 {
		return ""
	}
	if axisMax <= 0 {
		axisMax = 1
	}

	labelWidth := 0
	for _, p := range series {
		labelWidth = max(labelWidth, lipgloss.Width(p.Bucket.Label))
	}

	// Leave room for label, separator and value.
	barWidth := max(width-labelWidth-10, 10)

	goalCol := -1
	if goalHours > 0 && goalHours <= axisMax {
		goalCol = min(int(goalHours/axisMax*float64(barWidth)), barWidth-1)
	}

	marker := lipgloss.NewStyle().Foreground(styles.Subtle)

	var lines []string
	for _, p := range series {
		filled := max(int(p.Hours/axisMax*float64(barWidth)), 0)
		if p.Hours > 0 && filled == 0 {
			filled = 1
		}
		filled = min(filled, barWidth)

		var bar strings.Builder
		bar.WriteString(styles.GetClassStyle(p.Class).Render(strings.Repeat("█", filled)))
		for i := filled; i < barWidth; i++ {
			if i == goalCol {
				bar.WriteString(marker.Render("┊"))
			} else {
				bar.WriteString(" ")
			}
		}

		label := fmt.Sprintf("%*s", labelWidth, p.Bucket.Label)
		value := styles.HelpStyle.Render(fmt.Sprintf(" %s", stats.ShortDuration(p.Duration)))
		lines = append(lines, label+" │"+bar.String()+value)
	}

	return strings.Join(lines, "\n")
}

// RenderBarChart creates a simple horizontal bar chart.
func RenderBarChart(values []float64, labels []string, width int) string {
	if len(values) == 0 {
		return ""
	}

	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	maxLabelLen := 0
	for _, l := range labels {
		maxLabelLen = max(maxLabelLen, lipgloss.Width(l))
	}

	barWidth := max(width-maxLabelLen-10, 10)

	var lines []string
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}

		paddedLabel := label + strings.Repeat(" ", maxLabelLen-lipgloss.Width(label))
		barLen := max(int((v/maxVal)*float64(barWidth)), 0)

		bar := lipgloss.NewStyle().Foreground(styles.Secondary).Render(strings.Repeat("█", barLen))
		lines = append(lines, fmt.Sprintf("%s │%s %.1f", paddedLabel, bar, v))
	}

	return strings.Join(lines, "\n")
}

// RenderClassSparkline renders a series as a sparkline colored per bucket.
func RenderClassSparkline(series []stats.Point, axisMax float64) string {
	if len(series) == 0 {
		return ""
	}
	if axisMax <= 0 {
		axisMax = 1
	}

	var result strings.Builder
	for _, p := range series {
		idx := int(p.Hours / axisMax * float64(len(sparkChars)-1))
		idx = min(max(idx, 0), len(sparkChars)-1)
		result.WriteString(styles.GetClassStyle(p.Class).Render(string(sparkChars[idx])))
	}
	return result.String()
}

// RenderLegend creates a chart legend.
func RenderLegend(items []LegendItem) string {
	var parts []string
	for _, item := range items {
		colorBox := lipgloss.NewStyle().Foreground(item.Color).Render("■")
		parts = append(parts, fmt.Sprintf("%s %s", colorBox, item.Label))
	}
	return strings.Join(parts, "  ")
}

// LegendItem represents a single legend entry.
type LegendItem struct {
	Label string
	Color lipgloss.Color
}

// ClassLegend returns the legend for goal classification colors.
func ClassLegend() []LegendItem {
	return []LegendItem{
		{Label: "over goal", Color: styles.Over},
		{Label: "on track", Color: styles.Normal},
		{Label: "under goal", Color: styles.Under},
	}
}
