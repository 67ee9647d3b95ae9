// Package practice provides the timer tab: start and stop sessions, rate
// them and browse recent history.
package practice

import (
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/pianolog/internal/app"
	"github.com/j-veylop/pianolog/internal/config"
	"github.com/j-veylop/pianolog/internal/models"
	svc "github.com/j-veylop/pianolog/internal/services/practice"
	"github.com/j-veylop/pianolog/internal/ui/components"
)

// keyMap defines the key bindings specific to the practice tab.
type keyMap struct {
	StartStop    key.Binding
	Discard      key.Binding
	Up           key.Binding
	Down         key.Binding
	Toggle       key.Binding
	IntensityUp  key.Binding
	IntensityDn  key.Binding
	SatisfUp     key.Binding
	SatisfDn     key.Binding
	Notes        key.Binding
	NextRecent   key.Binding
	PrevRecent   key.Binding
	DeleteRecent key.Binding
	Confirm      key.Binding
	Cancel       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		StartStop: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start/stop"),
		),
		Discard: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "discard"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "prev activity"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "next activity"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "toggle activity"),
		),
		IntensityUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+/-", "intensity"),
		),
		IntensityDn: key.NewBinding(
			key.WithKeys("-"),
		),
		SatisfUp: key.NewBinding(
			key.WithKeys(">", "."),
			key.WithHelp("</>", "satisfaction"),
		),
		SatisfDn: key.NewBinding(
			key.WithKeys("<", ","),
		),
		Notes: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "edit notes"),
		),
		NextRecent: key.NewBinding(
			key.WithKeys("J", "pgdown"),
			key.WithHelp("J/K", "select session"),
		),
		PrevRecent: key.NewBinding(
			key.WithKeys("K", "pgup"),
		),
		DeleteRecent: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete session"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "save notes"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// Model represents the practice tab state.
type Model struct {
	state        *app.State
	selected     map[string]bool
	keys         keyMap
	viewport     viewport.Model
	notesInput   textinput.Model
	spinner      components.LoadingSpinner
	timer        components.LoadingSpinner
	goalBar      components.GoalBar
	markdown     components.MarkdownRenderer
	notes        string
	goal         time.Duration
	width        int
	height       int
	cursor       int
	recentCursor int
	intensity    int
	satisfaction int
	editing      bool
	goalMet      bool
}

// New creates a new practice model. cfg may be nil.
func New(state *app.State, cfg *config.Config) *Model {
	ti := textinput.New()
	ti.Placeholder = "What did you work on?"
	ti.CharLimit = 500
	ti.Prompt = "✎ "

	var goal time.Duration
	if cfg != nil {
		goal = time.Duration(cfg.GoalMinutes) * time.Minute
	}

	bar := components.NewGoalBar()
	bar.SetLabel("Today")

	return &Model{
		state:      state,
		selected:   make(map[string]bool),
		keys:       defaultKeyMap(),
		viewport:   viewport.New(0, 0),
		notesInput: ti,
		spinner:    components.NewSpinner("Loading sessions..."),
		timer:      components.NewTimerSpinner(),
		goalBar:    bar,
		goal:       goal,
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Init(), m.timer.Init())
}

// Capturing reports whether the notes field has focus.
func (m *Model) Capturing() bool {
	return m.editing
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case app.SessionsLoadedMsg:
		m.syncSelection(msg.Active)
		m.recentCursor = min(m.recentCursor, max(len(msg.Recent)-1, 0))
		cmds = append(cmds, m.goalBar.SetPercent(components.GoalPercent(msg.Today, m.goal)))

	case app.SessionResultMsg:
		if msg.Error == nil && (msg.Action == app.ActionStopped || msg.Action == app.ActionDiscarded) {
			m.resetDraft()
		}

	case app.GoalReachedMsg:
		m.goalMet = true

	case components.AnimationTickMsg:
		var cmd tea.Cmd
		m.goalBar, cmd = m.goalBar.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyMsg(msg))

	case spinner.TickMsg:
		cmds = append(cmds, m.updateSpinners(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) updateSpinners(msg tea.Msg) tea.Cmd {
	var c1, c2 tea.Cmd
	m.spinner, c1 = m.spinner.Update(msg)
	m.timer, c2 = m.timer.Update(msg)
	return tea.Batch(c1, c2)
}

// syncSelection mirrors the running session's activities into the checklist.
func (m *Model) syncSelection(active *models.Session) {
	if active == nil {
		return
	}
	clear(m.selected)
	for _, id := range active.Activities {
		m.selected[id] = true
	}
}

func (m *Model) resetDraft() {
	clear(m.selected)
	m.notes = ""
	m.notesInput.SetValue("")
	m.intensity = 0
	m.satisfaction = 0
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if m.editing {
		return m.handleNotesKey(msg)
	}

	activities := m.state.GetActivities()
	recent := m.state.GetRecent()

	switch {
	case key.Matches(msg, m.keys.StartStop):
		return m.startStop()
	case key.Matches(msg, m.keys.Discard):
		if m.state.GetActive() != nil {
			return emit(app.DiscardSessionMsg{})
		}
	case key.Matches(msg, m.keys.Up):
		if len(activities) > 0 {
			m.cursor = (m.cursor - 1 + len(activities)) % len(activities)
		}
	case key.Matches(msg, m.keys.Down):
		if len(activities) > 0 {
			m.cursor = (m.cursor + 1) % len(activities)
		}
	case key.Matches(msg, m.keys.Toggle):
		if m.cursor < len(activities) {
			id := activities[m.cursor].ID
			m.selected[id] = !m.selected[id]
		}
	case key.Matches(msg, m.keys.IntensityUp):
		m.intensity = min(m.intensity+1, models.MaxIntensity)
	case key.Matches(msg, m.keys.IntensityDn):
		m.intensity = max(m.intensity-1, 0)
	case key.Matches(msg, m.keys.SatisfUp):
		m.satisfaction = min(m.satisfaction+1, models.MaxSatisfaction)
	case key.Matches(msg, m.keys.SatisfDn):
		m.satisfaction = max(m.satisfaction-1, 0)
	case key.Matches(msg, m.keys.Notes):
		m.editing = true
		m.notesInput.SetValue(m.notes)
		m.notesInput.CursorEnd()
		return m.notesInput.Focus()
	case key.Matches(msg, m.keys.NextRecent):
		if len(recent) > 0 {
			m.recentCursor = min(m.recentCursor+1, len(recent)-1)
		}
	case key.Matches(msg, m.keys.PrevRecent):
		m.recentCursor = max(m.recentCursor-1, 0)
	case key.Matches(msg, m.keys.DeleteRecent):
		if m.recentCursor < len(recent) {
			return emit(app.DeleteSessionMsg{ID: recent[m.recentCursor].ID})
		}
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) handleNotesKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.notes = m.notesInput.Value()
		m.editing = false
		m.notesInput.Blur()
		return nil
	case key.Matches(msg, m.keys.Cancel):
		m.editing = false
		m.notesInput.Blur()
		return nil
	}
	var cmd tea.Cmd
	m.notesInput, cmd = m.notesInput.Update(msg)
	return cmd
}

func (m *Model) startStop() tea.Cmd {
	if m.state.GetActive() == nil {
		return emit(app.StartSessionMsg{Activities: m.selectedIDs()})
	}
	return emit(app.StopSessionMsg{Details: svc.StopDetails{
		Notes:        m.notes,
		Activities:   m.selectedIDs(),
		Intensity:    m.intensity,
		Satisfaction: m.satisfaction,
	}})
}

// selectedIDs returns the checked activities in catalog order.
func (m *Model) selectedIDs() []string {
	var ids []string
	for _, a := range m.state.GetActivities() {
		if m.selected[a.ID] {
			ids = append(ids, a.ID)
		}
	}
	// Ids no longer in the catalog stay selected, sorted after the rest.
	var extra []string
	for id, on := range m.selected {
		if on && !m.inCatalog(id) {
			extra = append(extra, id)
		}
	}
	slices.Sort(extra)
	return append(ids, extra...)
}

func (m *Model) inCatalog(id string) bool {
	return slices.ContainsFunc(m.state.GetActivities(), func(a models.Activity) bool {
		return a.ID == id
	})
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// SetSize sets the available size for the tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.notesInput.Width = max(width-12, 20)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	if m.editing {
		return []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	return []key.Binding{
		m.keys.StartStop,
		m.keys.Toggle,
		m.keys.Notes,
		m.keys.Discard,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.StartStop, m.keys.Discard, m.keys.Notes},
		{m.keys.Up, m.keys.Down, m.keys.Toggle},
		{m.keys.IntensityUp, m.keys.SatisfUp},
		{m.keys.NextRecent, m.keys.DeleteRecent},
	}
}
