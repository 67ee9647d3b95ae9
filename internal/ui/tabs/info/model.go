// Package info provides the info tab: configuration, reminders, lifetime
// totals and build information.
package info

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/pianolog/internal/app"
	"github.com/j-veylop/pianolog/internal/config"
)

// keyMap defines the key bindings specific to the info tab.
type keyMap struct {
	NextReminder key.Binding
	PrevReminder key.Binding
	Toggle       key.Binding
	Up           key.Binding
	Down         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextReminder: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "next reminder"),
		),
		PrevReminder: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "prev reminder"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "enable/disable"),
		),
		Up: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll down"),
		),
	}
}

// Model represents the info tab state.
type Model struct {
	state    *app.State
	config   *config.Config
	now      func() time.Time
	keys     keyMap
	viewport viewport.Model
	width    int
	height   int
	cursor   int
}

// New creates a new info model.
func New(state *app.State, cfg *config.Config) *Model {
	return &Model{
		state:    state,
		config:   cfg,
		now:      time.Now,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the info tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the info tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.RemindersLoadedMsg:
		m.cursor = min(m.cursor, max(len(msg.Reminders)-1, 0))

	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	reminders := m.state.GetReminders()

	switch {
	case key.Matches(msg, m.keys.NextReminder):
		if len(reminders) > 0 {
			m.cursor = min(m.cursor+1, len(reminders)-1)
		}
	case key.Matches(msg, m.keys.PrevReminder):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(msg, m.keys.Toggle):
		if m.cursor < len(reminders) {
			r := reminders[m.cursor]
			return func() tea.Msg {
				return app.ToggleReminderMsg{ID: r.ID, Enabled: !r.Enabled}
			}
		}
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

// SetSize sets the available size for the info tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.NextReminder,
		m.keys.Toggle,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.NextReminder, m.keys.PrevReminder, m.keys.Toggle},
		{m.keys.Up, m.keys.Down},
	}
}
