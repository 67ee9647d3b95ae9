package practice

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/pianolog/internal/models"
	"github.com/j-veylop/pianolog/internal/stats"
	"github.com/j-veylop/pianolog/internal/ui/components"
	"github.com/j-veylop/pianolog/internal/ui/styles"
)

// View renders the practice tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	cardWidth := min(max(m.width-6, 40), 100)

	sections := []string{
		m.renderTitle(),
		m.renderTimerCard(cardWidth),
	}
	if m.goal > 0 {
		sections = append(sections, m.renderGoalCard(cardWidth))
	}
	sections = append(sections,
		m.renderDraftCard(cardWidth),
		m.renderRecentCard(cardWidth),
	)

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Practice")
	subtitle := styles.HelpStyle.Render("Time your sessions and keep a log")
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

// FormatClock renders a duration as HH:MM:SS.
func FormatClock(d time.Duration) string {
	d = max(d, 0).Truncate(time.Second)
	h := int(d / time.Hour)
	mnt := int(d % time.Hour / time.Minute)
	sec := int(d % time.Minute / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", h, mnt, sec)
}

func (m *Model) renderTimerCard(width int) string {
	active := m.state.GetActive()

	var rows []string
	if active == nil {
		rows = append(rows,
			styles.TimerIdleStyle.Render(FormatClock(0)),
			"",
			styles.HelpStyle.Render("Not practicing. Press 's' to start."),
		)
	} else {
		clock := styles.TimerStyle.Render(FormatClock(m.state.GetLive()))
		rows = append(rows,
			lipgloss.JoinHorizontal(lipgloss.Center, m.timer.View(), " ", clock),
			"",
			styles.HelpStyle.Render("Started "+active.StartTime.Format("15:04")+" · "+humanize.Time(active.StartTime)),
		)
		if labels := m.activityLabels(active.Activities); labels != "" {
			rows = append(rows, styles.InfoTextStyle.Render(labels))
		}
	}

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderGoalCard(width int) string {
	done := m.state.GetToday()
	if m.state.GetActive() != nil {
		done += m.state.GetLive()
	}

	title := styles.CardTitleStyle.Render("Daily goal")
	if m.goalMet || done >= m.goal {
		title += " " + styles.SuccessTextStyle.Render("✓ reached")
	}

	bar := m.goalBar.View(done, m.goal, width-4)
	if width < 48 {
		bar = m.goalBar.ViewCompact(done, m.goal, width-4)
	}

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		bar,
	))
}

func (m *Model) renderDraftCard(width int) string {
	activities := m.state.GetActivities()

	rows := []string{styles.CardTitleStyle.Render("Activities"), ""}
	if len(activities) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No activities in the catalog"))
	}
	for i, a := range activities {
		prefix := "  "
		if i == m.cursor {
			prefix = styles.FocusedStyle.Render("▸ ")
		}
		box := "[ ]"
		if m.selected[a.ID] {
			box = styles.SuccessTextStyle.Render("[x]")
		}
		rows = append(rows, fmt.Sprintf("%s%s %s", prefix, box, a.Label()))
	}

	rows = append(rows, "",
		fmt.Sprintf("Intensity     %s", ratingDots(m.intensity, models.MaxIntensity)),
		fmt.Sprintf("Satisfaction  %s", ratingDots(m.satisfaction, models.MaxSatisfaction)),
		"",
	)

	switch {
	case m.editing:
		rows = append(rows, m.notesInput.View())
	case m.notes != "":
		rows = append(rows, styles.HelpStyle.Render("Notes: ")+m.notes)
	default:
		rows = append(rows, styles.HelpStyle.Render("Press 'n' to add notes"))
	}

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func ratingDots(value, maximum int) string {
	on := lipgloss.NewStyle().Foreground(styles.Primary).Render(strings.Repeat("●", value))
	off := lipgloss.NewStyle().Foreground(styles.Subtle).Render(strings.Repeat("○", maximum-value))
	return fmt.Sprintf("%s%s %d/%d", on, off, value, maximum)
}

func (m *Model) renderRecentCard(width int) string {
	recent := m.state.GetRecent()

	rows := []string{styles.CardTitleStyle.Render("Recent sessions"), ""}
	if len(recent) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No sessions yet"))
		return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	for i := range recent {
		s := &recent[i]
		prefix := "  "
		if i == m.recentCursor {
			prefix = styles.FocusedStyle.Render("▸ ")
		}
		when := lipgloss.NewStyle().Width(16).Foreground(styles.TextSecondary).Render(humanize.Time(s.StartTime))
		dur := lipgloss.NewStyle().Width(8).Render(stats.ShortDuration(s.Duration))
		rows = append(rows, prefix+when+dur+m.activityLabels(s.Activities))
	}

	if m.recentCursor < len(recent) {
		if notes := recent[m.recentCursor].Notes; notes != "" {
			rows = append(rows, "", m.markdown.Render(notes, width-6))
		}
	}

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) activityLabels(ids []string) string {
	labels := make([]string, 0, len(ids))
	for _, id := range ids {
		labels = append(labels, m.state.ActivityLabel(id))
	}
	return strings.Join(labels, ", ")
}
