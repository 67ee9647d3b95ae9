// Package services provides service orchestration for the TUI.
package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/j-veylop/pianolog/internal/config"
	"github.com/j-veylop/pianolog/internal/db"
	"github.com/j-veylop/pianolog/internal/logger"
	"github.com/j-veylop/pianolog/internal/models"
	"github.com/j-veylop/pianolog/internal/services/activities"
	"github.com/j-veylop/pianolog/internal/services/practice"
	"github.com/j-veylop/pianolog/internal/services/reminders"
	"github.com/j-veylop/pianolog/internal/services/statistics"
	"github.com/j-veylop/pianolog/internal/stats"
)

type (
	// SessionsChangedEvent is emitted when a session starts, stops or is edited.
	SessionsChangedEvent struct {
		Active  *models.Session
		Version uint64
	}

	// ActivitiesChangedEvent is emitted when the activity catalog changes.
	ActivitiesChangedEvent struct {
		Activities []models.Activity
	}

	// RemindersChangedEvent is emitted when reminders are added, removed or toggled.
	RemindersChangedEvent struct {
		Reminders []models.Reminder
	}

	// ReminderFiredEvent is emitted when a reminder is delivered.
	ReminderFiredEvent struct {
		Reminder models.Reminder
	}

	// GoalReachedEvent is emitted the first time a day's practice meets the goal.
	GoalReachedEvent struct {
		Today time.Duration
		Goal  time.Duration
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (SessionsChangedEvent) isServiceEvent()   {}
func (ActivitiesChangedEvent) isServiceEvent() {}
func (RemindersChangedEvent) isServiceEvent()  {}
func (ReminderFiredEvent) isServiceEvent()     {}
func (GoalReachedEvent) isServiceEvent()       {}
func (ErrorEvent) isServiceEvent()             {}

// Manager orchestrates services and event routing.
type Manager struct {
	mu          sync.RWMutex
	cfg         *config.Config
	database    *db.DB
	activities  *activities.Service
	practice    *practice.Service
	reminders   *reminders.Service
	statistics  *statistics.Service
	notify      func(title, message string) error
	now         func() time.Time
	eventChan   chan ServiceEvent
	stopChan    chan struct{}
	subscribers []chan<- ServiceEvent
	goalDay     string
}

// NewManager opens the database and starts every service.
func NewManager(cfg *config.Config) (*Manager, error) {
	m := &Manager{
		cfg:       cfg,
		notify:    func(title, message string) error { return beeep.Notify(title, message, "") },
		now:       time.Now,
		eventChan: make(chan ServiceEvent, 100),
		stopChan:  make(chan struct{}),
	}

	var err error
	m.database, err = db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	m.activities, err = activities.New(cfg.ActivitiesPath)
	if err != nil {
		_ = m.database.Close()
		return nil, err
	}

	m.practice, err = practice.New(m.database, nil)
	if err != nil {
		m.closeAll()
		return nil, err
	}

	m.reminders, err = reminders.New(m.database, reminders.Config{CheckInterval: cfg.ReminderCheckInterval})
	if err != nil {
		m.closeAll()
		return nil, err
	}

	m.statistics, err = statistics.New(m.practice, m.database, cfg.WeekStart, cfg.StatsCacheSize)
	if err != nil {
		m.closeAll()
		return nil, err
	}

	// Do not announce a goal that was already met before startup.
	if m.goalMet(m.now()) {
		m.goalDay = dayKey(m.now())
	}

	m.reminders.Start()
	go m.routeEvents()

	return m, nil
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	for {
		select {
		case event := <-m.activities.Events():
			m.handleActivitiesEvent(event)

		case event := <-m.practice.Events():
			m.handlePracticeEvent(event)

		case event := <-m.reminders.Events():
			m.handleReminderEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) handleActivitiesEvent(event activities.Event) {
	switch event.Type {
	case activities.EventCatalogLoaded, activities.EventCatalogChanged:
		m.broadcast(ActivitiesChangedEvent{Activities: m.activities.List()})
	case activities.EventError:
		m.broadcast(ErrorEvent{Service: "activities", Error: event.Error})
	}
}

func (m *Manager) handlePracticeEvent(event practice.Event) {
	if event.Type == practice.EventError {
		m.broadcast(ErrorEvent{Service: "practice", Error: event.Error})
		return
	}

	m.broadcast(SessionsChangedEvent{
		Active:  m.practice.Active(),
		Version: m.practice.Version(),
	})

	if event.Type == practice.EventSessionStopped || event.Type == practice.EventSessionsChanged {
		m.checkGoal(m.now())
	}
}

func (m *Manager) handleReminderEvent(event reminders.Event) {
	switch event.Type {
	case reminders.EventRemindersChanged:
		m.broadcast(RemindersChangedEvent{Reminders: m.reminders.List()})
	case reminders.EventReminderFired:
		if event.Reminder != nil {
			m.broadcast(ReminderFiredEvent{Reminder: *event.Reminder})
		}
	case reminders.EventError:
		m.broadcast(ErrorEvent{Service: "reminders", Error: event.Error})
	}
}

// TodayTotal returns how much was practiced on the local day containing now.
func (m *Manager) TodayTotal(now time.Time) time.Duration {
	res := m.statistics.Get(stats.Week, now, m.cfg.GoalMinutes)
	for _, p := range res.Series {
		if !now.Before(p.Bucket.Start) && now.Before(p.Bucket.Limit()) {
			return p.Duration
		}
	}
	return 0
}

func (m *Manager) goalMet(now time.Time) bool {
	if m.cfg.GoalMinutes <= 0 {
		return false
	}
	return m.TodayTotal(now) >= time.Duration(m.cfg.GoalMinutes)*time.Minute
}

// checkGoal notifies once per day when the goal is first reached.
func (m *Manager) checkGoal(now time.Time) {
	if !m.goalMet(now) {
		return
	}

	today := dayKey(now)
	m.mu.Lock()
	if m.goalDay == today {
		m.mu.Unlock()
		return
	}
	m.goalDay = today
	m.mu.Unlock()

	total := m.TodayTotal(now)
	goal := time.Duration(m.cfg.GoalMinutes) * time.Minute
	body := fmt.Sprintf("You practiced %s today (goal %s).", stats.ShortDuration(total), stats.ShortDuration(goal))
	if err := m.notify("Daily goal reached", body); err != nil {
		logger.Warn("failed to send goal notification", "error", err)
	}
	m.broadcast(GoalReachedEvent{Today: total, Goal: goal})
}

func dayKey(t time.Time) string {
	return t.Local().Format(stats.DayKeyLayout)
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	// Send to main event channel
	select {
	case m.eventChan <- event:
	default:
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Config returns the configuration the manager was built with.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// Database returns the database instance for direct access.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Activities returns the activity catalog.
func (m *Manager) Activities() *activities.Service {
	return m.activities
}

// Practice returns the session tracker.
func (m *Manager) Practice() *practice.Service {
	return m.practice
}

// Reminders returns the reminder scheduler.
func (m *Manager) Reminders() *reminders.Service {
	return m.reminders
}

// Statistics returns the statistics service.
func (m *Manager) Statistics() *statistics.Service {
	return m.statistics
}

func (m *Manager) closeAll() []error {
	var errs []error
	if m.reminders != nil {
		if err := m.reminders.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if m.activities != nil {
		if err := m.activities.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if m.database != nil {
		if err := m.database.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	close(m.stopChan)

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	return errors.Join(m.closeAll()...)
}
