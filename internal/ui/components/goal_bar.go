package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/pianolog/internal/logger"
	"github.com/j-veylop/pianolog/internal/stats"
	"github.com/j-veylop/pianolog/internal/ui/styles"
)

// AnimationTickMsg drives the goal bar easing.
type AnimationTickMsg time.Time

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*50, func(t time.Time) tea.Msg {
		return AnimationTickMsg(t)
	})
}

const (
	goalFrom = "#ff9f43"
	goalTo   = "#51cf66"
)

// GoalBar renders progress towards the daily practice goal.
type GoalBar struct {
	progress       progress.Model
	label          string
	percent        float64
	targetPercent  float64
	currentPercent float64
	isAnimating    bool
}

// NewGoalBar creates a goal bar with an orange to green gradient.
func NewGoalBar() GoalBar {
	return NewGoalBarWithWidth(30)
}

// NewGoalBarWithWidth creates a goal bar with a specific width.
func NewGoalBarWithWidth(width int) GoalBar {
	p := progress.New(
		progress.WithScaledGradient(goalFrom, goalTo),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	return GoalBar{progress: p}
}

// GoalPercent returns done as a percentage of goal, capped at 100.
// A zero goal yields 0.
func GoalPercent(done, goal time.Duration) float64 {
	if goal <= 0 {
		return 0
	}
	return min(float64(done)/float64(goal)*100, 100)
}

// Init initializes the progress bar model.
func (g GoalBar) Init() tea.Cmd {
	return nil
}

// Update eases the displayed percentage towards the target.
func (g GoalBar) Update(msg tea.Msg) (GoalBar, tea.Cmd) {
	var cmds []tea.Cmd

	if _, ok := msg.(AnimationTickMsg); ok && g.isAnimating {
		diff := g.targetPercent - g.currentPercent
		switch {
		case diff == 0:
			g.isAnimating = false
		case diff > 0:
			g.currentPercent = min(g.currentPercent+max(diff/10, 0.5), g.targetPercent)
			cmds = append(cmds, animationTick())
		default:
			g.currentPercent = max(g.currentPercent+min(diff/10, -0.5), g.targetPercent)
			cmds = append(cmds, animationTick())
		}
	}

	model, cmd := g.progress.Update(msg)
	if p, ok := model.(progress.Model); ok {
		g.progress = p
	}
	cmds = append(cmds, cmd)

	return g, tea.Batch(cmds...)
}

// SetPercent sets the target percentage and starts easing towards it.
func (g *GoalBar) SetPercent(percent float64) tea.Cmd {
	g.percent = percent
	g.targetPercent = percent

	if !g.isAnimating {
		g.isAnimating = true
		return tea.Batch(g.progress.SetPercent(percent/100), animationTick())
	}
	return g.progress.SetPercent(percent / 100)
}

// Current returns the eased percentage.
func (g GoalBar) Current() float64 {
	return g.currentPercent
}

// SetLabel sets the bar label.
func (g *GoalBar) SetLabel(label string) {
	g.label = label
}

// SetWidth sets the progress bar width.
func (g *GoalBar) SetWidth(width int) {
	g.progress.Width = width
}

// View renders the bar with the practiced and goal durations.
func (g GoalBar) View(done, goal time.Duration, width int) string {
	percent := GoalPercent(done, goal)

	barWidth := max(width-32, 10)
	g.progress.Width = barWidth
	bar := g.progress.ViewAs(percent / 100)

	labelStr := styles.ProgressLabelStyle.Width(10).Render(g.label)
	amount := lipgloss.NewStyle().Foreground(styles.TextSecondary).
		Render(fmt.Sprintf("%s / %s", stats.ShortDuration(done), stats.ShortDuration(goal)))
	percentStr := styles.GetGoalStyle(percent).Width(5).Align(lipgloss.Right).
		Render(fmt.Sprintf("%.0f%%", percent))

	return lipgloss.JoinHorizontal(lipgloss.Center, labelStr, bar, " ", percentStr, "  ", amount)
}

// ViewCompact renders the bar and percentage only.
func (g GoalBar) ViewCompact(done, goal time.Duration, width int) string {
	percent := GoalPercent(done, goal)

	g.progress.Width = max(width-6, 5)
	bar := g.progress.ViewAs(percent / 100)
	percentStr := styles.GetGoalStyle(percent).Render(fmt.Sprintf("%.0f%%", percent))

	return lipgloss.JoinHorizontal(lipgloss.Center, bar, " ", percentStr)
}

// RenderGradientBar renders just the bar part with gradient colors.
func RenderGradientBar(percent float64, width int) string {
	if width < 1 {
		return ""
	}

	filled := min(max(int(float64(width)*percent/100), 0), width)

	var b strings.Builder
	for i := range width {
		if i < filled {
			t := float64(i) / float64(max(1, width-1))
			color := interpolateColor(goalFrom, goalTo, t)
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("█"))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(styles.Subtle).Render("░"))
		}
	}
	return b.String()
}

// SimpleGoalBar renders a static gradient bar with label and percentage.
func SimpleGoalBar(done, goal time.Duration, label string, width int) string {
	percent := GoalPercent(done, goal)

	labelWidth := lipgloss.Width(label) + 1
	percentWidth := 6
	barWidth := max(width-labelWidth-percentWidth-4, 5)

	labelStr := lipgloss.NewStyle().Foreground(styles.TextSecondary).Render(label)
	percentStr := styles.GetGoalStyle(percent).
		Width(percentWidth).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.0f%%", percent))

	return fmt.Sprintf("%s [%s] %s", labelStr, RenderGradientBar(percent, barWidth), percentStr)
}

func interpolateColor(fromHex, toHex string, t float64) string {
	from := hexToRGB(fromHex)
	to := hexToRGB(toHex)

	r := int(float64(from[0]) + t*(float64(to[0])-float64(from[0])))
	g := int(float64(from[1]) + t*(float64(to[1])-float64(from[1])))
	b := int(float64(from[2]) + t*(float64(to[2])-float64(from[2])))

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hexToRGB(hex string) [3]int {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		logger.Error("failed to parse hex color", "hex", hex, "error", err)
		return [3]int{0, 0, 0}
	}
	return [3]int{r, g, b}
}
