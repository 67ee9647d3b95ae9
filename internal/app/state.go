// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"slices"
	"sync"
	"time"

	"github.com/j-veylop/pianolog/internal/models"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"

	maxNotifications = 10
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	CreatedAt time.Time
	ID        string
	Message   string
	Type      NotificationType
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial   bool
	Sessions  bool
	Reminders bool
	Lifetime  bool
}

// State is the data shared between the root model and the tabs.
type State struct {
	mu sync.RWMutex

	Active     *models.Session
	Live       time.Duration
	Recent     []models.Session
	Today      time.Duration
	Activities []models.Activity
	Reminders  []models.Reminder
	Lifetime   *models.LifetimeStats
	Version    uint64

	Loading LoadingState

	LastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState returns an empty state waiting for its initial load.
func NewState() *State {
	return &State{
		Recent:        make([]models.Session, 0),
		Activities:    make([]models.Activity, 0),
		Reminders:     make([]models.Reminder, 0),
		notifications: make([]Notification, 0),
		Loading: LoadingState{
			Initial: true,
		},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case "initial":
		s.Loading.Initial = loading
	case "sessions":
		s.Loading.Sessions = loading
	case "reminders":
		s.Loading.Reminders = loading
	case "lifetime":
		s.Loading.Lifetime = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Loading.Initial ||
		s.Loading.Sessions ||
		s.Loading.Reminders ||
		s.Loading.Lifetime
}

// IsInitialLoading returns true if initial data is still loading.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial
}

// GetLoadingResources returns a list of currently loading resources.
func (s *State) GetLoadingResources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var resources []string
	if s.Loading.Initial {
		resources = append(resources, "initial")
	}
	if s.Loading.Sessions {
		resources = append(resources, "sessions")
	}
	if s.Loading.Reminders {
		resources = append(resources, "reminders")
	}
	if s.Loading.Lifetime {
		resources = append(resources, "lifetime")
	}
	return resources
}

// SetSessions replaces the active session, the recent list and today's total.
func (s *State) SetSessions(active *models.Session, recent []models.Session, today time.Duration, version uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Active = active
	s.Recent = recent
	s.Today = today
	s.Version = version
	s.LastUpdated = time.Now()
	if active == nil {
		s.Live = 0
	}
}

// GetActive returns the running session, or nil.
func (s *State) GetActive() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Active
}

// SetLive records the running session's elapsed time.
func (s *State) SetLive(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Live = d
}

// GetLive returns the running session's elapsed time.
func (s *State) GetLive() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Live
}

// GetRecent returns a copy of the recent sessions, newest first.
func (s *State) GetRecent() []models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.Recent)
}

// GetToday returns the completed practice time of the current day.
func (s *State) GetToday() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Today
}

// GetVersion returns the session snapshot version last loaded.
func (s *State) GetVersion() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Version
}

// SetActivities replaces the activity catalog.
func (s *State) SetActivities(list []models.Activity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Activities = list
}

// GetActivities returns a copy of the activity catalog.
func (s *State) GetActivities() []models.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.Activities)
}

// ActivityLabel resolves an activity id, falling back to the id itself.
func (s *State) ActivityLabel(id string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.Activities {
		if s.Activities[i].ID == id {
			return s.Activities[i].Label()
		}
	}
	return id
}

// SetReminders replaces the reminder list.
func (s *State) SetReminders(list []models.Reminder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Reminders = list
}

// GetReminders returns a copy of the reminder list.
func (s *State) GetReminders() []models.Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.Reminders)
}

// SetLifetime stores the all-time totals.
func (s *State) SetLifetime(l *models.LifetimeStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Lifetime = l
}

// GetLifetime returns the all-time totals, or nil before they are loaded.
func (s *State) GetLifetime() *models.LifetimeStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Lifetime
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	s.notifications = append(s.notifications, Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	})

	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	s.notifications = active
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// GetLastUpdated returns the last time the sessions were loaded.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastUpdated
}
