// Package stats provides the statistics tab: a calendar window that can be
// switched between week, month and year and panned through history.
package stats

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/pianolog/internal/app"
	"github.com/j-veylop/pianolog/internal/services"
	"github.com/j-veylop/pianolog/internal/stats"
)

// keyMap defines the key bindings specific to the stats tab.
type keyMap struct {
	ToggleRange key.Binding
	Back        key.Binding
	Forward     key.Binding
	Today       key.Binding
	ToggleChart key.Binding
	Up          key.Binding
	Down        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		ToggleRange: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "week/month/year"),
		),
		Back: key.NewBinding(
			key.WithKeys("left", "h", "["),
			key.WithHelp("←/h", "previous"),
		),
		Forward: key.NewBinding(
			key.WithKeys("right", "l", "]"),
			key.WithHelp("→/l", "next"),
		),
		Today: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp(".", "current period"),
		),
		ToggleChart: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "bars/trend"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// statsLoadedMsg carries the aggregate of one window and its predecessor.
type statsLoadedMsg struct {
	window   stats.Window
	current  stats.Result
	previous stats.Result
}

// statsErrorMsg is sent when statistics cannot be loaded.
type statsErrorMsg struct {
	err string
}

// Model represents the stats tab state.
type Model struct {
	state    *app.State
	services *services.Manager
	now      func() time.Time
	current  *stats.Result
	previous *stats.Result
	window   stats.Window
	keys     keyMap
	viewport viewport.Model
	errorMsg string
	goal     int
	width    int
	height   int
	version  uint64
	loading  bool
	trend    bool
}

// New creates a new stats model.
func New(state *app.State, svc *services.Manager) *Model {
	m := &Model{
		state:    state,
		services: svc,
		now:      time.Now,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
	weekStart := time.Monday
	if svc != nil {
		weekStart = svc.Statistics().WeekStart()
		m.goal = svc.Config().GoalMinutes
	}
	m.window = stats.WindowFor(stats.Week, m.now(), weekStart)
	return m
}

// Init initializes the stats tab.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	return m.loadStatsCmd()
}

// Window returns the window on display.
func (m *Model) Window() stats.Window {
	return m.window
}

func (m *Model) loadStatsCmd() tea.Cmd {
	w := m.window
	goal := m.goal
	svc := m.services
	return func() tea.Msg {
		if svc == nil {
			return statsErrorMsg{err: "Services not initialized"}
		}
		st := svc.Statistics()
		return statsLoadedMsg{
			window:   w,
			current:  st.GetWindow(w, goal),
			previous: st.GetWindow(stats.Pan(w, stats.Backward, w.Start), goal),
		}
	}
}

// Update handles messages for the stats tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case statsLoadedMsg:
		// Drop results for a window the user already panned away from.
		if msg.window != m.window {
			break
		}
		m.current = &msg.current
		m.previous = &msg.previous
		m.loading = false
		m.errorMsg = ""

	case statsErrorMsg:
		m.loading = false
		m.errorMsg = msg.err
		cmds = append(cmds, func() tea.Msg {
			return app.AddNotificationMsg{
				Type:     app.NotificationError,
				Message:  fmt.Sprintf("Stats error: %s", msg.err),
				Duration: app.LongNotificationDuration,
			}
		})

	case app.SessionsLoadedMsg:
		if msg.Version != m.version {
			m.version = msg.Version
			cmds = append(cmds, m.reload())
		}

	case app.TabSwitchMsg:
		if msg.Tab == app.TabStats {
			cmds = append(cmds, m.reload())
		}

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyMsg(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) reload() tea.Cmd {
	m.loading = true
	return m.loadStatsCmd()
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	now := m.now()

	switch {
	case key.Matches(msg, m.keys.ToggleRange):
		m.window = stats.WindowFor(m.window.Granularity.Next(), now, m.window.WeekStart)
		return m.reload()

	case key.Matches(msg, m.keys.Back):
		m.window = stats.Pan(m.window, stats.Backward, now)
		return m.reload()

	case key.Matches(msg, m.keys.Forward):
		next := stats.Pan(m.window, stats.Forward, now)
		if next == m.window {
			return nil
		}
		m.window = next
		return m.reload()

	case key.Matches(msg, m.keys.Today):
		m.window = stats.WindowFor(m.window.Granularity, now, m.window.WeekStart)
		return m.reload()

	case key.Matches(msg, m.keys.ToggleChart):
		m.trend = !m.trend
		return nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

// SetSize sets the available size for the stats tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.ToggleRange,
		m.keys.Back,
		m.keys.Forward,
		m.keys.ToggleChart,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.ToggleRange, m.keys.Today},
		{m.keys.Back, m.keys.Forward},
		{m.keys.ToggleChart},
		{m.keys.Up, m.keys.Down},
	}
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}
