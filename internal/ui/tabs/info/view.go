package info

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/pianolog/internal/stats"
	"github.com/j-veylop/pianolog/internal/ui/styles"
	"github.com/j-veylop/pianolog/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderLifetimeCard(),
		m.renderRemindersCard(),
		m.renderConfigCard(),
		m.renderAboutCard(),
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 80)
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Totals, reminders and configuration")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderLifetimeCard() string {
	rows := []string{styles.CardTitleStyle.Render("All time"), ""}

	lt := m.state.GetLifetime()
	if lt == nil || !lt.HasData() {
		rows = append(rows, styles.HelpStyle.Render("No completed sessions yet"))
		return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	rows = append(rows,
		m.renderConfigRow("Total", stats.ShortDuration(lt.TotalDuration)),
		m.renderConfigRow("Sessions", humanize.Comma(int64(lt.SessionCount))),
		m.renderConfigRow("Days practiced", humanize.Comma(int64(lt.DaysPracticed))),
		m.renderConfigRow("Longest streak", pluralDays(lt.LongestStreak)),
		m.renderConfigRow("Avg session", stats.ShortDuration(lt.AvgSessionDuration())),
		m.renderConfigRow("Avg intensity", fmt.Sprintf("%.1f", lt.AvgIntensity)),
		m.renderConfigRow("Avg satisfaction", fmt.Sprintf("%.1f", lt.AvgSatisfaction)),
		m.renderConfigRow("First session", humanize.RelTime(lt.FirstSession, m.now(), "ago", "from now")),
		m.renderConfigRow("Last session", humanize.RelTime(lt.LastSession, m.now(), "ago", "from now")),
	)

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return strconv.Itoa(n) + " days"
}

func (m *Model) renderRemindersCard() string {
	rows := []string{styles.CardTitleStyle.Render("Reminders"), ""}

	reminders := m.state.GetReminders()
	if len(reminders) == 0 {
		rows = append(rows,
			styles.HelpStyle.Render("No reminders scheduled"),
			styles.InfoTextStyle.Render("  ╰─▶ pianolog remind add --weekday mon --at 18:30"),
		)
		return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	now := m.now()
	for i := range reminders {
		r := &reminders[i]
		prefix := "  "
		if i == m.cursor {
			prefix = styles.FocusedStyle.Render("▸ ")
		}

		status := styles.SuccessTextStyle.Render("●")
		next := styles.HelpStyle.Render("next " + humanize.RelTime(r.NextFire(now), now, "ago", "from now"))
		if !r.Enabled {
			status = lipgloss.NewStyle().Foreground(styles.Subtle).Render("○")
			next = styles.HelpStyle.Render("disabled")
		}

		msg := r.Message
		if msg == "" {
			msg = "Time to practice"
		}
		rows = append(rows, fmt.Sprintf("%s%s %s  %s  %s", prefix, status, r.String(), msg, next))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderConfigCard() string {
	rows := []string{styles.CardTitleStyle.Render("Configuration"), ""}

	if m.config == nil {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
		return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	goal := "none"
	if m.config.GoalMinutes > 0 {
		goal = strconv.Itoa(m.config.GoalMinutes) + " min/day"
	}

	rows = append(rows,
		m.renderConfigRow("Database", m.config.DatabasePath),
		m.renderConfigRow("Activities", m.config.ActivitiesPath),
		m.renderConfigRow("Log file", m.config.LogFile),
		m.renderConfigRow("Week starts", m.config.WeekStart.String()),
		m.renderConfigRow("Daily goal", goal),
	)

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderConfigRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

func (m *Model) renderAboutCard() string {
	rows := []string{
		styles.CardTitleStyle.Render("About pianolog"),
		"",
		m.renderConfigRow("Version", version.GetVersion()),
		m.renderConfigRow("Build Date", version.GetDate()),
		m.renderConfigRow("Git Commit", version.GetCommit()),
		m.renderConfigRow("Go Version", runtime.Version()),
		m.renderConfigRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)),
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
