package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/pianolog/internal/models"
	"github.com/j-veylop/pianolog/internal/services"
	"github.com/j-veylop/pianolog/internal/services/practice"
)

// TickMsg is sent periodically to refresh the running timer.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// SessionsLoadedMsg carries the active session, recent history and today's total.
type SessionsLoadedMsg struct {
	Active  *models.Session
	Recent  []models.Session
	Today   time.Duration
	Version uint64
}

// ActivitiesLoadedMsg carries the activity catalog.
type ActivitiesLoadedMsg struct {
	Activities []models.Activity
}

// RemindersLoadedMsg carries the reminder list.
type RemindersLoadedMsg struct {
	Reminders []models.Reminder
}

// LifetimeLoadedMsg carries the all-time totals.
type LifetimeLoadedMsg struct {
	Lifetime *models.LifetimeStats
	Error    error
}

// StartSessionMsg requests starting a session with the given activities.
type StartSessionMsg struct {
	Activities []string
}

// StopSessionMsg requests stopping the running session.
type StopSessionMsg struct {
	Details practice.StopDetails
}

// DiscardSessionMsg requests dropping the running session.
type DiscardSessionMsg struct{}

// DeleteSessionMsg requests deleting a completed session.
type DeleteSessionMsg struct {
	ID string
}

// SessionAction names what a SessionResultMsg reports.
type SessionAction string

const (
	ActionStarted   SessionAction = "started"
	ActionStopped   SessionAction = "stopped"
	ActionDiscarded SessionAction = "discarded"
	ActionDeleted   SessionAction = "deleted"
	ActionUpdated   SessionAction = "updated"
)

// SessionResultMsg contains the result of a session mutation.
type SessionResultMsg struct {
	Session *models.Session
	Error   error
	Action  SessionAction
}

// ToggleReminderMsg requests enabling or disabling a reminder.
type ToggleReminderMsg struct {
	ID      int64
	Enabled bool
}

// ReminderResultMsg contains the result of a reminder mutation.
type ReminderResultMsg struct {
	Error error
	ID    int64
}

// RefreshMsg requests a refresh of data.
type RefreshMsg struct {
	Resource string // "all", "sessions", "reminders", "lifetime"
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Message  string
	Type     NotificationType
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearNotificationsMsg requests clearing all notifications.
type ClearNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// GoalReachedMsg is forwarded to tabs when the daily goal is first met.
type GoalReachedMsg struct {
	Event services.GoalReachedEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// QuitMsg requests the application to quit.
type QuitMsg struct{}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// DelayedMsg wraps a message to be sent after a delay.
type DelayedMsg struct {
	Msg   tea.Msg
	Delay time.Duration
}
