// Package activities provides the practice activity catalog with file
// watching and persistence.
package activities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/pianolog/internal/logger"
	"github.com/j-veylop/pianolog/internal/models"
)

// catalogVersion is written to new catalog files.
const catalogVersion = 1

// CatalogFile represents the JSON file structure for the activity catalog.
type CatalogFile struct {
	Version    int               `json:"version"`
	Activities []models.Activity `json:"activities"`
}

// Event represents an activity catalog event.
type Event struct {
	Type  EventType
	Error error
}

// EventType defines the type of catalog event.
type EventType int

const (
	EventCatalogLoaded EventType = iota
	EventCatalogChanged
	EventError
)

// Errors returned by catalog edits.
var (
	ErrDuplicateActivity = errors.New("activity already exists")
	ErrUnknownActivity   = errors.New("unknown activity")
)

// Service manages the activity catalog with file watching and change
// notifications.
type Service struct {
	mu            sync.RWMutex
	activities    []models.Activity
	filePath      string
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
}

// New loads the catalog at filePath, seeding it with the default piano
// activities when the file does not exist, and starts watching it.
func New(filePath string) (*Service, error) {
	if filePath == "" {
		return nil, errors.New("activities path is required")
	}

	s := &Service{
		filePath:  filePath,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := s.load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load activities: %w", err)
		}
		s.activities = models.DefaultActivities()
		if err := s.save(); err != nil {
			return nil, fmt.Errorf("failed to create activities file: %w", err)
		}
	}

	if err := s.startWatcher(); err != nil {
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}

	s.sendEvent(Event{Type: EventCatalogLoaded})

	return s, nil
}

// Events returns the event channel for subscribing to catalog changes.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// List returns a copy of the catalog in file order.
func (s *Service) List() []models.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Activity, len(s.activities))
	copy(out, s.activities)
	return out
}

// Get returns the activity with the given id.
func (s *Service) Get(id string) (models.Activity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.activities {
		if a.ID == id {
			return a, true
		}
	}
	return models.Activity{}, false
}

// Label returns the display name for id. Unknown ids render as themselves.
func (s *Service) Label(id string) string {
	if a, ok := s.Get(id); ok {
		return a.Label()
	}
	return id
}

// Add appends a new activity and persists the catalog.
func (s *Service) Add(a models.Activity) error {
	a.ID = strings.TrimSpace(a.ID)
	if a.ID == "" {
		return errors.New("activity id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.activities {
		if existing.ID == a.ID {
			return fmt.Errorf("%w: %s", ErrDuplicateActivity, a.ID)
		}
	}

	s.activities = append(s.activities, a)
	if err := s.saveLocked(); err != nil {
		s.activities = s.activities[:len(s.activities)-1]
		return fmt.Errorf("failed to save activities: %w", err)
	}

	s.sendEvent(Event{Type: EventCatalogChanged})
	return nil
}

// Remove deletes an activity from the catalog. Sessions that reference it
// keep the raw id.
func (s *Service) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, a := range s.activities {
		if a.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("%w: %s", ErrUnknownActivity, id)
	}

	removed := s.activities[idx]
	s.activities = append(s.activities[:idx], s.activities[idx+1:]...)
	if err := s.saveLocked(); err != nil {
		s.activities = append(s.activities[:idx], append([]models.Activity{removed}, s.activities[idx:]...)...)
		return fmt.Errorf("failed to save activities: %w", err)
	}

	s.sendEvent(Event{Type: EventCatalogChanged})
	return nil
}

// parseCatalog accepts the versioned file format and a bare array.
func parseCatalog(data []byte) ([]models.Activity, error) {
	var file CatalogFile
	if err := sonic.Unmarshal(data, &file); err == nil && file.Activities != nil {
		return validate(file.Activities)
	}

	var list []models.Activity
	if err := sonic.Unmarshal(data, &list); err == nil {
		return validate(list)
	}

	return nil, errors.New("failed to parse activities file: invalid format")
}

func validate(list []models.Activity) ([]models.Activity, error) {
	seen := make(map[string]struct{}, len(list))
	out := make([]models.Activity, 0, len(list))
	for _, a := range list {
		if a.ID == "" {
			continue
		}
		if _, dup := seen[a.ID]; dup {
			logger.Warn("duplicate activity id in catalog", "id", a.ID)
			continue
		}
		seen[a.ID] = struct{}{}
		out = append(out, a)
	}
	return out, nil
}

// load reads the catalog from disk.
func (s *Service) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	activities, err := parseCatalog(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.activities = activities
	s.mu.Unlock()
	return nil
}

func (s *Service) save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

// saveLocked writes the catalog atomically (must hold lock).
func (s *Service) saveLocked() error {
	data, err := sonic.MarshalIndent(CatalogFile{
		Version:    catalogVersion,
		Activities: s.activities,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal activities: %w", err)
	}

	// Write to temp file first, then rename
	tmpFile := s.filePath + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpFile, s.filePath); err != nil {
		if removeErr := os.Remove(tmpFile); removeErr != nil {
			logger.Error("failed to remove temp file", "error", removeErr)
		}
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// startWatcher watches the catalog directory so that editors which replace
// the file are noticed too.
func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	if err := watcher.Add(filepath.Dir(s.filePath)); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go s.watchLoop()
	return nil
}

// watchLoop handles file system events with debouncing.
func (s *Service) watchLoop() {
	const debounceInterval = 100 * time.Millisecond

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(s.filePath) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			s.mu.Lock()
			if s.debounceTimer != nil {
				s.debounceTimer.Stop()
			}
			s.debounceTimer = time.AfterFunc(debounceInterval, s.handleFileChange)
			s.mu.Unlock()

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

// handleFileChange reloads the catalog after an external change.
func (s *Service) handleFileChange() {
	if err := s.load(); err != nil {
		logger.Warn("failed to reload activities", "path", s.filePath, "error", err)
		s.sendEvent(Event{Type: EventError, Error: err})
		return
	}
	s.sendEvent(Event{Type: EventCatalogChanged})
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

// Close stops the file watcher and cleans up resources.
func (s *Service) Close() error {
	close(s.stopChan)

	s.mu.Lock()
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.mu.Unlock()

	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}
