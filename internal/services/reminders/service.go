// Package reminders schedules weekly practice reminders and delivers them as
// desktop notifications.
package reminders

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/j-veylop/pianolog/internal/logger"
	"github.com/j-veylop/pianolog/internal/models"
)

// Store is the persistence the scheduler needs. *db.DB satisfies it.
type Store interface {
	InsertReminder(r *models.Reminder) error
	ListReminders() ([]models.Reminder, error)
	SetReminderEnabled(id int64, enabled bool) error
	DeleteReminder(id int64) error
}

// Notifier delivers one alert.
type Notifier func(title, message string) error

// Config holds reminder scheduler configuration.
type Config struct {
	Notify        Notifier
	Now           func() time.Time
	CheckInterval time.Duration
}

// DefaultConfig returns the default scheduler configuration.
func DefaultConfig() Config {
	return Config{
		CheckInterval: 30 * time.Second,
		Notify:        desktopNotify,
		Now:           time.Now,
	}
}

func desktopNotify(title, message string) error {
	return beeep.Notify(title, message, "")
}

// Event represents a reminder service event.
type Event struct {
	Error    error
	Reminder *models.Reminder
	Type     EventType
}

// EventType defines the type of reminder event.
type EventType int

const (
	EventRemindersChanged EventType = iota
	EventReminderFired
	EventError
)

// defaultTitle is used when a reminder has no message.
const defaultTitle = "Time to practice"

// Service keeps the reminder list and fires due reminders.
type Service struct {
	mu        sync.RWMutex
	store     Store
	config    Config
	reminders []models.Reminder
	lastCheck time.Time
	eventChan chan Event
	stopChan  chan struct{}
	stopOnce  sync.Once
	started   bool
}

// New loads reminders from store. Occurrences before New are never fired.
func New(store Store, config Config) (*Service, error) {
	defaults := DefaultConfig()
	if config.CheckInterval <= 0 {
		config.CheckInterval = defaults.CheckInterval
	}
	if config.Notify == nil {
		config.Notify = defaults.Notify
	}
	if config.Now == nil {
		config.Now = defaults.Now
	}

	s := &Service{
		store:     store,
		config:    config,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
		lastCheck: config.Now(),
	}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Events returns the event channel for subscribing to reminder activity.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Start launches the polling loop. Calling it twice is a no-op.
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	go s.poll()
}

// poll runs the background polling goroutine.
func (s *Service) poll() {
	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Check(s.config.Now())
		case <-s.stopChan:
			return
		}
	}
}

// Check fires every enabled reminder with an occurrence in (last check, now]
// and returns them. Each occurrence fires at most once.
func (s *Service) Check(now time.Time) []models.Reminder {
	s.mu.Lock()
	since := s.lastCheck
	if !now.After(since) {
		s.mu.Unlock()
		return nil
	}
	s.lastCheck = now

	var due []models.Reminder
	for _, r := range s.reminders {
		if !r.Enabled {
			continue
		}
		occurrence := r.NextFire(now).AddDate(0, 0, -7)
		if occurrence.After(since) {
			due = append(due, r)
		}
	}
	s.mu.Unlock()

	for i := range due {
		r := due[i]
		title := r.Message
		if title == "" {
			title = defaultTitle
		}
		if err := s.config.Notify(title, "Practice reminder for "+r.String()); err != nil {
			logger.Warn("failed to deliver reminder", "id", r.ID, "error", err)
			s.sendEvent(Event{Type: EventError, Error: fmt.Errorf("failed to deliver reminder: %w", err)})
		}
		s.sendEvent(Event{Type: EventReminderFired, Reminder: &r})
	}
	return due
}

// List returns all reminders ordered by weekday and time.
func (s *Service) List() []models.Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.reminders)
}

// Schedule validates and stores a new, enabled reminder.
func (s *Service) Schedule(weekday time.Weekday, hour, minute int, message string) (*models.Reminder, error) {
	r := &models.Reminder{
		Weekday:   weekday,
		Hour:      hour,
		Minute:    minute,
		Message:   message,
		Enabled:   true,
		CreatedAt: s.config.Now(),
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.InsertReminder(r); err != nil {
		return nil, fmt.Errorf("failed to schedule reminder: %w", err)
	}
	if err := s.changed(); err != nil {
		return nil, err
	}
	return r, nil
}

// Cancel deletes a reminder.
func (s *Service) Cancel(id int64) error {
	if err := s.store.DeleteReminder(id); err != nil {
		return fmt.Errorf("failed to cancel reminder: %w", err)
	}
	return s.changed()
}

// SetEnabled toggles a reminder.
func (s *Service) SetEnabled(id int64, enabled bool) error {
	if err := s.store.SetReminderEnabled(id, enabled); err != nil {
		return fmt.Errorf("failed to update reminder: %w", err)
	}
	return s.changed()
}

// NextFire returns the earliest upcoming enabled reminder and its time.
func (s *Service) NextFire(now time.Time) (*models.Reminder, time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var next *models.Reminder
	var at time.Time
	for i := range s.reminders {
		r := s.reminders[i]
		if !r.Enabled {
			continue
		}
		if t := r.NextFire(now); next == nil || t.Before(at) {
			next, at = &r, t
		}
	}
	return next, at, next != nil
}

func (s *Service) changed() error {
	if err := s.reload(); err != nil {
		return err
	}
	s.sendEvent(Event{Type: EventRemindersChanged})
	return nil
}

func (s *Service) reload() error {
	list, err := s.store.ListReminders()
	if err != nil {
		return fmt.Errorf("failed to load reminders: %w", err)
	}
	s.mu.Lock()
	s.reminders = list
	s.mu.Unlock()
	return nil
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the polling loop.
func (s *Service) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	return nil
}
