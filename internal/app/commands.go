package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/pianolog/internal/services"
	"github.com/j-veylop/pianolog/internal/services/practice"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second

	// RecentSessionsLimit is how many completed sessions the practice tab lists.
	RecentSessionsLimit = 20
)

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// defaultTickCmd returns a command that sends a TickMsg after the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// loadInitialData returns a command that loads all initial data.
func loadInitialData(mgr *services.Manager) tea.Cmd {
	return tea.Batch(
		loadActivitiesCmd(mgr),
		loadSessionsCmd(mgr),
		loadRemindersCmd(mgr),
		loadLifetimeCmd(mgr),
	)
}

// loadSessionsCmd returns a command that loads the active and recent sessions.
func loadSessionsCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		p := mgr.Practice()
		return SessionsLoadedMsg{
			Active:  p.Active(),
			Recent:  p.Recent(RecentSessionsLimit),
			Today:   mgr.TodayTotal(time.Now()),
			Version: p.Version(),
		}
	}
}

// loadActivitiesCmd returns a command that loads the activity catalog.
func loadActivitiesCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		return ActivitiesLoadedMsg{Activities: mgr.Activities().List()}
	}
}

// loadRemindersCmd returns a command that loads the reminder list.
func loadRemindersCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		return RemindersLoadedMsg{Reminders: mgr.Reminders().List()}
	}
}

// loadLifetimeCmd returns a command that loads the all-time totals.
func loadLifetimeCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		lifetime, err := mgr.Statistics().Lifetime()
		return LifetimeLoadedMsg{Lifetime: lifetime, Error: err}
	}
}

// startSessionCmd returns a command that starts a practice session.
func startSessionCmd(mgr *services.Manager, activities []string) tea.Cmd {
	return func() tea.Msg {
		session, err := mgr.Practice().Start(activities)
		return SessionResultMsg{Action: ActionStarted, Session: session, Error: err}
	}
}

// stopSessionCmd returns a command that stops the running session.
func stopSessionCmd(mgr *services.Manager, details practice.StopDetails) tea.Cmd {
	return func() tea.Msg {
		session, err := mgr.Practice().Stop(details)
		return SessionResultMsg{Action: ActionStopped, Session: session, Error: err}
	}
}

// discardSessionCmd returns a command that drops the running session.
func discardSessionCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		err := mgr.Practice().Discard()
		return SessionResultMsg{Action: ActionDiscarded, Error: err}
	}
}

// deleteSessionCmd returns a command that deletes a completed session.
func deleteSessionCmd(mgr *services.Manager, id string) tea.Cmd {
	return func() tea.Msg {
		err := mgr.Practice().Delete(id)
		return SessionResultMsg{Action: ActionDeleted, Error: err}
	}
}

// toggleReminderCmd returns a command that enables or disables a reminder.
func toggleReminderCmd(mgr *services.Manager, id int64, enabled bool) tea.Cmd {
	return func() tea.Msg {
		err := mgr.Reminders().SetEnabled(id, enabled)
		return ReminderResultMsg{ID: id, Error: err}
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

func notifyCmd(t NotificationType, message string, d time.Duration) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{Type: t, Message: message, Duration: d}
	}
}

// notifySuccessCmd returns a command that adds a success notification.
func notifySuccessCmd(message string) tea.Cmd {
	return notifyCmd(NotificationSuccess, message, DefaultNotificationDuration)
}

// notifyErrorCmd returns a command that adds an error notification.
func notifyErrorCmd(message string) tea.Cmd {
	return notifyCmd(NotificationError, message, LongNotificationDuration)
}

// notifyWarningCmd returns a command that adds a warning notification.
func notifyWarningCmd(message string) tea.Cmd {
	return notifyCmd(NotificationWarning, message, DefaultNotificationDuration)
}

// notifyInfoCmd returns a command that adds an info notification.
func notifyInfoCmd(message string) tea.Cmd {
	return notifyCmd(NotificationInfo, message, QuickNotificationDuration)
}

// delayedCmd returns a command that sends a message after a delay.
func delayedCmd(delay time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return msg
	})
}

// Commands provides a public interface to the command functions.
type Commands struct {
	manager *services.Manager
}

// NewCommands creates a new Commands instance.
func NewCommands(mgr *services.Manager) *Commands {
	return &Commands{manager: mgr}
}

// Tick returns a tick command with the specified interval.
func (c *Commands) Tick(interval time.Duration) tea.Cmd {
	return tickCmd(interval)
}

// DefaultTick returns a tick command with the default interval.
func (c *Commands) DefaultTick() tea.Cmd {
	return defaultTickCmd()
}

// LoadInitialData returns a command that loads all initial data.
func (c *Commands) LoadInitialData() tea.Cmd {
	return loadInitialData(c.manager)
}

// LoadSessions returns a command that loads sessions.
func (c *Commands) LoadSessions() tea.Cmd {
	return loadSessionsCmd(c.manager)
}

// LoadLifetime returns a command that loads lifetime totals.
func (c *Commands) LoadLifetime() tea.Cmd {
	return loadLifetimeCmd(c.manager)
}

// StartSession returns a command that starts a session.
func (c *Commands) StartSession(activities []string) tea.Cmd {
	return startSessionCmd(c.manager, activities)
}

// StopSession returns a command that stops the running session.
func (c *Commands) StopSession(details practice.StopDetails) tea.Cmd {
	return stopSessionCmd(c.manager, details)
}

// DiscardSession returns a command that drops the running session.
func (c *Commands) DiscardSession() tea.Cmd {
	return discardSessionCmd(c.manager)
}

// DeleteSession returns a command that deletes a completed session.
func (c *Commands) DeleteSession(id string) tea.Cmd {
	return deleteSessionCmd(c.manager, id)
}

// ToggleReminder returns a command that enables or disables a reminder.
func (c *Commands) ToggleReminder(id int64, enabled bool) tea.Cmd {
	return toggleReminderCmd(c.manager, id, enabled)
}

// SubscribeToServices returns a command that subscribes to service events.
func (c *Commands) SubscribeToServices() tea.Cmd {
	return subscribeToServicesCmd(c.manager)
}

// NotifySuccess returns a command that adds a success notification.
func (c *Commands) NotifySuccess(message string) tea.Cmd {
	return notifySuccessCmd(message)
}

// NotifyError returns a command that adds an error notification.
func (c *Commands) NotifyError(message string) tea.Cmd {
	return notifyErrorCmd(message)
}

// NotifyWarning returns a command that adds a warning notification.
func (c *Commands) NotifyWarning(message string) tea.Cmd {
	return notifyWarningCmd(message)
}

// NotifyInfo returns a command that adds an info notification.
func (c *Commands) NotifyInfo(message string) tea.Cmd {
	return notifyInfoCmd(message)
}

// ClearNotification returns a command that removes a notification after a delay.
func (c *Commands) ClearNotification(id string, delay time.Duration) tea.Cmd {
	return clearNotificationCmd(id, delay)
}

// Quit returns a command that quits the application.
func (c *Commands) Quit() tea.Cmd {
	return tea.Quit
}

// Delayed returns a command that sends a message after a delay.
func (c *Commands) Delayed(delay time.Duration, msg tea.Msg) tea.Cmd {
	return delayedCmd(delay, msg)
}

// Batch combines multiple commands into one.
func (c *Commands) Batch(cmds ...tea.Cmd) tea.Cmd {
	return tea.Batch(cmds...)
}
