package stats

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/pianolog/internal/stats"
	"github.com/j-veylop/pianolog/internal/ui/components"
	"github.com/j-veylop/pianolog/internal/ui/styles"
)

// View renders the stats tab.
func (m *Model) View() string {
	if m.errorMsg != "" {
		return m.renderError()
	}
	if m.current == nil {
		return m.renderLoading()
	}

	cardWidth := min(max(m.width-6, 50), 110)

	sections := []string{
		m.renderHeader(),
		m.renderSummary(cardWidth),
		m.renderChart(cardWidth),
		m.renderActivities(cardWidth),
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderLoading() string {
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(styles.HelpStyle.Render("Loading statistics..."))
}

func (m *Model) renderError() string {
	content := fmt.Sprintf("%s %s", styles.ErrorTextStyle.Render("Error:"), m.errorMsg)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderHeader() string {
	title := styles.TitleStyle.Render("Statistics")

	var tabs []string
	for _, g := range []stats.Granularity{stats.Week, stats.Month, stats.Year} {
		if g == m.window.Granularity {
			tabs = append(tabs, styles.ActiveTabStyle.Render(g.String()))
		} else {
			tabs = append(tabs, styles.InactiveTabStyle.Render(g.String()))
		}
	}

	now := m.now()
	back := lipgloss.NewStyle().Foreground(styles.Primary).Render("◀")
	fwd := lipgloss.NewStyle().Foreground(styles.Primary).Render("▶")
	if stats.Pan(m.window, stats.Forward, now) == m.window {
		fwd = lipgloss.NewStyle().Foreground(styles.Subtle).Render("▷")
	}
	label := styles.CardTitleStyle.Render(stats.Label(m.window, now))

	nav := fmt.Sprintf("%s %s %s", back, label, fwd)
	if m.loading {
		nav += " " + styles.HelpStyle.Render("updating...")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		nav,
		"",
	)
}

// periodGoal is the daily goal summed over every day of the window.
func periodGoal(w stats.Window, goalMinutes int) time.Duration {
	days := 0
	for d := w.Start; d.Before(w.Limit()); d = d.AddDate(0, 0, 1) {
		days++
	}
	return time.Duration(days) * minutes(goalMinutes)
}

// ComparisonText describes the change against the previous period.
func ComparisonText(res *stats.Result) string {
	unit := res.Window.Granularity.String()
	diff := res.TotalDuration - res.PreviousTotal
	if res.Comparison == stats.Increase {
		return fmt.Sprintf("▲ %s more than the previous %s", stats.ShortDuration(diff), unit)
	}
	return fmt.Sprintf("▼ %s less than the previous %s", stats.ShortDuration(-diff), unit)
}

func (m *Model) renderSummary(width int) string {
	res := m.current

	days := len(res.DaysPracticed)
	dayWord := "days"
	if days == 1 {
		dayWord = "day"
	}

	total := lipgloss.NewStyle().Bold(true).Foreground(styles.TextPrimary).Render(stats.ShortDuration(res.TotalDuration))
	rows := []string{
		styles.CardTitleStyle.Render("Summary"),
		"",
		fmt.Sprintf("Total practiced   %s", total),
		fmt.Sprintf("Days practiced    %s %s", humanize.Comma(int64(days)), dayWord),
		styles.GetComparisonStyle(res.Comparison).Render(ComparisonText(res)),
	}
	if m.goal > 0 {
		rows = append(rows,
			styles.HelpStyle.Render(fmt.Sprintf("Daily goal        %s", stats.ShortDuration(minutes(m.goal)))),
			"",
			components.SimpleGoalBar(res.TotalDuration, periodGoal(res.Window, m.goal), "Period goal", width-4),
		)
	}

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderChart(width int) string {
	res := m.current
	inner := width - 4

	var body string
	title := "Practice per day"
	if res.Window.Granularity == stats.Year {
		title = "Practice per month"
	}

	switch {
	case m.trend && m.previous == nil:
		title += " (trend)"
		body = components.RenderLineChart(components.Hours(res.Series), inner-10, 8, "hours")
	case m.trend:
		title += " vs previous " + res.Window.Granularity.String()
		body = components.RenderComparisonChart(
			components.Hours(res.Series),
			components.Hours(m.previous.Series),
			inner-10, 8, "hours",
		)
	default:
		goalHours := float64(m.goal) / 60
		axis := max(res.AxisMax, goalHours)
		body = components.RenderSeriesBars(res.Series, axis, goalHours, inner)
	}

	rows := []string{
		styles.CardTitleStyle.Render(title),
		"",
		body,
		"",
		components.RenderClassSparkline(res.Series, res.AxisMax) + "  " + components.RenderLegend(components.ClassLegend()),
	}

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderActivities(width int) string {
	res := m.current
	rows := []string{styles.CardTitleStyle.Render("Activities"), ""}

	if len(res.Rollup) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No activities logged in this period"))
		return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	ids := make([]string, 0, len(res.Rollup))
	for id := range res.Rollup {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int {
		if c := cmp.Compare(res.Rollup[b].Duration, res.Rollup[a].Duration); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})

	values := make([]float64, len(ids))
	labels := make([]string, len(ids))
	for i, id := range ids {
		total := res.Rollup[id]
		values[i] = total.Duration.Hours()
		labels[i] = fmt.Sprintf("%s (%s)", m.state.ActivityLabel(id), sessionCount(total.Sessions()))
	}

	rows = append(rows, components.RenderBarChart(values, labels, width-4))
	rows = append(rows, "", styles.HelpStyle.Render("Sessions with several activities count fully towards each."))

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func sessionCount(n int) string {
	if n == 1 {
		return "1 session"
	}
	return humanize.Comma(int64(n)) + " sessions"
}
