// Package practice tracks practice sessions: the running timer, completed
// sessions and manual edits.
package practice

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/j-veylop/pianolog/internal/db"
	"github.com/j-veylop/pianolog/internal/logger"
	"github.com/j-veylop/pianolog/internal/models"
	"github.com/j-veylop/pianolog/internal/stats"
)

var (
	// ErrSessionActive is returned by Start while another session is running.
	ErrSessionActive = errors.New("a practice session is already running")
	// ErrNoActiveSession is returned by Stop and Discard when nothing is running.
	ErrNoActiveSession = errors.New("no practice session is running")
)

// Store is the persistence the tracker needs. *db.DB satisfies it.
type Store interface {
	InsertSession(s *models.Session) error
	UpdateSession(s *models.Session) error
	DeleteSession(id string) error
	GetActiveSession() (*models.Session, error)
	AllSessions() ([]models.Session, error)
}

// Event represents a practice service event.
type Event struct {
	Session *models.Session
	Error   error
	Type    EventType
}

// EventType defines the type of practice event.
type EventType int

const (
	EventSessionStarted EventType = iota
	EventSessionStopped
	EventSessionDiscarded
	EventSessionsChanged
	EventError
)

// StopDetails are the fields recorded when a session ends. A nil Activities
// keeps the ones chosen at start.
type StopDetails struct {
	Notes        string
	Activities   []string
	Intensity    int
	Satisfaction int
}

// Snapshot is an immutable view of the completed sessions. Version changes
// whenever the set of sessions changes.
type Snapshot struct {
	Sessions []models.Session
	Version  uint64
}

// Service tracks the active session and caches completed ones.
type Service struct {
	mu        sync.RWMutex
	store     Store
	now       func() time.Time
	active    *models.Session
	sessions  []models.Session
	version   uint64
	eventChan chan Event
}

// New loads the active and completed sessions from store. A nil clock uses
// time.Now.
func New(store Store, clock func() time.Time) (*Service, error) {
	if clock == nil {
		clock = time.Now
	}

	s := &Service{
		store:     store,
		now:       clock,
		eventChan: make(chan Event, 100),
	}

	active, err := store.GetActiveSession()
	if err != nil {
		return nil, fmt.Errorf("failed to load active session: %w", err)
	}
	s.active = active

	sessions, err := store.AllSessions()
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}
	s.sessions = sessions
	s.version = 1

	if active != nil {
		logger.Info("resuming practice session", "id", active.ID, "started", active.StartTime)
	}

	return s, nil
}

// Events returns the event channel for subscribing to session changes.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// timestamp returns the clock reading at storage precision.
func (s *Service) timestamp() time.Time {
	return s.now().Truncate(stats.Precision)
}

// Start begins a new session with the given activities.
func (s *Service) Start(activities []string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		return nil, ErrSessionActive
	}

	session := &models.Session{
		ID:         uuid.NewString(),
		StartTime:  s.timestamp(),
		Activities: slices.Clone(activities),
	}
	if err := s.store.InsertSession(session); err != nil {
		if errors.Is(err, db.ErrActiveSession) {
			return nil, ErrSessionActive
		}
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	s.active = session
	started := session.Clone()
	s.sendEvent(Event{Type: EventSessionStarted, Session: &started})
	return &started, nil
}

// Active returns a copy of the running session with its live duration, or nil.
func (s *Service) Active() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.active == nil {
		return nil
	}
	active := s.active.Clone()
	active.Duration = active.LiveDuration(s.now())
	return &active
}

// Tick refreshes the live duration of the running session and returns it.
func (s *Service) Tick(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return 0
	}
	s.active.Duration = s.active.LiveDuration(now)
	return s.active.Duration
}

// SetActivities replaces the activities of the running session.
func (s *Service) SetActivities(activities []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return ErrNoActiveSession
	}

	updated := s.active.Clone()
	updated.Activities = slices.Clone(activities)
	if err := s.store.UpdateSession(&updated); err != nil {
		return fmt.Errorf("failed to update activities: %w", err)
	}
	s.active = &updated
	return nil
}

// Stop ends the running session and records it.
func (s *Service) Stop(details StopDetails) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return nil, ErrNoActiveSession
	}

	done := s.active.Clone()
	done.EndTime = s.timestamp()
	if done.EndTime.Before(done.StartTime) {
		done.EndTime = done.StartTime
	}
	done.Duration = stats.Elapsed(done.StartTime, done.EndTime)
	done.Notes = details.Notes
	done.Intensity = details.Intensity
	done.Satisfaction = details.Satisfaction
	if details.Activities != nil {
		done.Activities = slices.Clone(details.Activities)
	}

	if err := done.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.UpdateSession(&done); err != nil {
		return nil, fmt.Errorf("failed to stop session: %w", err)
	}

	s.active = nil
	s.insertLocked(done)

	stopped := done.Clone()
	s.sendEvent(Event{Type: EventSessionStopped, Session: &stopped})
	return &stopped, nil
}

// Discard drops the running session without recording it.
func (s *Service) Discard() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discardLocked()
}

// discardLocked drops the active session. The caller holds s.mu.
func (s *Service) discardLocked() error {
	if s.active == nil {
		return ErrNoActiveSession
	}
	if err := s.store.DeleteSession(s.active.ID); err != nil {
		return fmt.Errorf("failed to discard session: %w", err)
	}

	discarded := s.active.Clone()
	s.active = nil
	s.sendEvent(Event{Type: EventSessionDiscarded, Session: &discarded})
	return nil
}

// Log records a completed session entered by hand. The duration is derived
// from the interval.
func (s *Service) Log(session models.Session) (*models.Session, error) {
	if session.EndTime.IsZero() {
		return nil, fmt.Errorf("%w: end time is required", models.ErrInvalidInterval)
	}
	session = normalize(session)
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if err := session.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.InsertSession(&session); err != nil {
		return nil, fmt.Errorf("failed to log session: %w", err)
	}
	s.insertLocked(session)

	logged := session.Clone()
	s.sendEvent(Event{Type: EventSessionsChanged, Session: &logged})
	return &logged, nil
}

// Update replaces a completed session.
func (s *Service) Update(session models.Session) (*models.Session, error) {
	if session.EndTime.IsZero() {
		return nil, fmt.Errorf("%w: end time is required", models.ErrInvalidInterval)
	}
	session = normalize(session)
	if err := session.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(session.ID)
	if idx == -1 {
		return nil, fmt.Errorf("session %s: %w", session.ID, db.ErrNotFound)
	}
	if err := s.store.UpdateSession(&session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	s.sessions = slices.Delete(s.sessions, idx, idx+1)
	s.insertLocked(session)

	updated := session.Clone()
	s.sendEvent(Event{Type: EventSessionsChanged, Session: &updated})
	return &updated, nil
}

// Delete removes a completed session, or discards the running one.
func (s *Service) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil && s.active.ID == id {
		return s.discardLocked()
	}

	if err := s.store.DeleteSession(id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if idx := s.indexLocked(id); idx != -1 {
		s.sessions = slices.Delete(s.sessions, idx, idx+1)
		s.version++
	}

	s.sendEvent(Event{Type: EventSessionsChanged})
	return nil
}

// Get returns a session by id, including the running one.
func (s *Service) Get(id string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.active != nil && s.active.ID == id {
		active := s.active.Clone()
		return &active, nil
	}
	if idx := s.indexLocked(id); idx != -1 {
		found := s.sessions[idx].Clone()
		return &found, nil
	}
	return nil, fmt.Errorf("session %s: %w", id, db.ErrNotFound)
}

// Recent returns up to limit completed sessions, newest first. A limit of
// zero or less returns all of them.
func (s *Service) Recent(limit int) []models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.sessions)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]models.Session, 0, n)
	for i := len(s.sessions) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.sessions[i].Clone())
	}
	return out
}

// Snapshot returns the completed sessions, oldest first.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]models.Session, len(s.sessions))
	for i := range s.sessions {
		sessions[i] = s.sessions[i].Clone()
	}
	return Snapshot{Sessions: sessions, Version: s.version}
}

// Version returns the current snapshot version.
func (s *Service) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// insertLocked adds a completed session keeping start order (must hold lock).
func (s *Service) insertLocked(session models.Session) {
	idx, _ := slices.BinarySearchFunc(s.sessions, session.StartTime, func(e models.Session, t time.Time) int {
		return e.StartTime.Compare(t)
	})
	s.sessions = slices.Insert(s.sessions, idx, session)
	s.version++
}

func (s *Service) indexLocked(id string) int {
	return slices.IndexFunc(s.sessions, func(e models.Session) bool { return e.ID == id })
}

// normalize truncates times to storage precision and recomputes the duration.
func normalize(session models.Session) models.Session {
	session.Activities = slices.Clone(session.Activities)
	session.StartTime = session.StartTime.Truncate(stats.Precision)
	session.EndTime = session.EndTime.Truncate(stats.Precision)
	if !session.EndTime.Before(session.StartTime) {
		session.Duration = stats.Elapsed(session.StartTime, session.EndTime)
	}
	return session
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest event
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
