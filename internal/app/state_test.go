package app

import (
	"testing"
	"time"

	"github.com/j-veylop/pianolog/internal/models"
)

func TestNewState(t *testing.T) {
	s := NewState()
	if s == nil {
		t.Fatal("NewState returned nil")
	}
	if len(s.Recent) != 0 {
		t.Error("Recent should be empty")
	}
	if s.Loading.Initial != true {
		t.Error("Initial loading should be true")
	}
}

func TestState_SetLoading(t *testing.T) {
	s := NewState()

	s.SetLoading("sessions", true)
	if !s.Loading.Sessions {
		t.Error("Sessions loading should be true")
	}
	if !s.AnyLoading() {
		t.Error("AnyLoading should be true")
	}

	s.SetLoading("sessions", false)
	// Initial is still true
	if !s.AnyLoading() {
		t.Error("AnyLoading should be true (Initial is true)")
	}

	s.SetLoading("initial", false)
	if s.AnyLoading() {
		t.Error("AnyLoading should be false")
	}

	resources := s.GetLoadingResources()
	if len(resources) != 0 {
		t.Errorf("GetLoadingResources should be empty, got %v", resources)
	}

	s.SetLoading("lifetime", true)
	resources = s.GetLoadingResources()
	if len(resources) != 1 || resources[0] != "lifetime" {
		t.Errorf("GetLoadingResources should contain lifetime, got %v", resources)
	}
}

func TestState_Sessions(t *testing.T) {
	s := NewState()
	start := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)

	active := &models.Session{ID: "running", StartTime: start}
	recent := []models.Session{
		{ID: "b", StartTime: start.Add(-time.Hour), EndTime: start.Add(-30 * time.Minute)},
		{ID: "a", StartTime: start.Add(-3 * time.Hour), EndTime: start.Add(-2 * time.Hour)},
	}

	s.SetSessions(active, recent, 90*time.Minute, 7)
	s.SetLive(5 * time.Minute)

	if s.GetActive() == nil || s.GetActive().ID != "running" {
		t.Errorf("GetActive = %v, want running", s.GetActive())
	}
	if got := s.GetToday(); got != 90*time.Minute {
		t.Errorf("GetToday = %v, want 1h30m", got)
	}
	if got := s.GetVersion(); got != 7 {
		t.Errorf("GetVersion = %d, want 7", got)
	}
	if s.GetLastUpdated().IsZero() {
		t.Error("LastUpdated should be set")
	}

	got := s.GetRecent()
	if len(got) != 2 || got[0].ID != "b" {
		t.Fatalf("GetRecent = %v", got)
	}
	got[0].ID = "mutated"
	if s.GetRecent()[0].ID != "b" {
		t.Error("GetRecent should return a copy")
	}

	// Clearing the active session resets the live timer.
	s.SetSessions(nil, recent, 0, 8)
	if s.GetLive() != 0 {
		t.Errorf("GetLive = %v, want 0 without an active session", s.GetLive())
	}
}

func TestState_ActivityLabel(t *testing.T) {
	s := NewState()
	s.SetActivities(models.DefaultActivities())

	if got := s.ActivityLabel("sight-reading"); got != "Sight-reading" {
		t.Errorf("ActivityLabel = %q, want Sight-reading", got)
	}
	if got := s.ActivityLabel("kazoo"); got != "kazoo" {
		t.Errorf("ActivityLabel(unknown) = %q, want raw id", got)
	}
	if len(s.GetActivities()) != len(models.DefaultActivities()) {
		t.Error("GetActivities length mismatch")
	}
}

func TestState_RemindersAndLifetime(t *testing.T) {
	s := NewState()
	if s.GetLifetime() != nil {
		t.Error("Lifetime should be nil before load")
	}

	s.SetReminders([]models.Reminder{{ID: 1, Weekday: time.Monday, Hour: 18, Minute: 30}})
	if len(s.GetReminders()) != 1 {
		t.Error("Reminders should be stored")
	}

	s.SetLifetime(&models.LifetimeStats{SessionCount: 3})
	if s.GetLifetime().SessionCount != 3 {
		t.Error("Lifetime should be stored")
	}
}

func TestState_Notifications(t *testing.T) {
	s := NewState()

	id := s.AddNotification(NotificationInfo, "test", time.Minute)
	if id == "" {
		t.Error("AddNotification returned empty ID")
	}

	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Errorf("GetNotifications len = %d, want 1", len(notifs))
	}
	if notifs[0].Message != "test" {
		t.Errorf("Notification message = %s, want test", notifs[0].Message)
	}

	s.RemoveNotification(id)
	if len(s.GetNotifications()) != 0 {
		t.Error("Notification should be removed")
	}
}

func TestState_NotificationLimit(t *testing.T) {
	s := NewState()
	for range maxNotifications + 5 {
		s.AddNotification(NotificationInfo, "n", 0)
	}
	if got := len(s.GetNotifications()); got != maxNotifications {
		t.Errorf("notifications = %d, want %d", got, maxNotifications)
	}

	s.ClearAllNotifications()
	if len(s.GetNotifications()) != 0 {
		t.Error("ClearAllNotifications should empty the list")
	}
}

func TestState_ClearExpiredNotifications(t *testing.T) {
	s := NewState()

	s.notifications = append(s.notifications, Notification{
		ID:        "expired",
		CreatedAt: time.Now().Add(-2 * time.Minute),
		Duration:  time.Minute,
	})
	s.notifications = append(s.notifications, Notification{
		ID:        "active",
		CreatedAt: time.Now(),
		Duration:  time.Minute,
	})

	s.ClearExpiredNotifications()

	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(notifs))
	}
	if notifs[0].ID != "active" {
		t.Errorf("Expected active notification, got %s", notifs[0].ID)
	}
}

func TestState_LoadingNotification(t *testing.T) {
	s := NewState()

	s.SetLoadingNotification("loading...")
	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Errorf("Expected 1 notification, got %d", len(notifs))
	}
	if notifs[0].ID != LoadingNotificationID {
		t.Errorf("Expected ID %s, got %s", LoadingNotificationID, notifs[0].ID)
	}

	s.SetLoadingNotification("still loading...")
	notifs = s.GetNotifications()
	if len(notifs) != 1 {
		t.Errorf("Expected 1 notification after update")
	}
	if notifs[0].Message != "still loading..." {
		t.Errorf("Expected message still loading..., got %s", notifs[0].Message)
	}

	s.ClearLoadingNotification()
	if len(s.GetNotifications()) != 0 {
		t.Error("Loading notification should be cleared")
	}
}

func TestNotificationType_String(t *testing.T) {
	tests := []struct {
		t    NotificationType
		want string
	}{
		{NotificationSuccess, "success"},
		{NotificationError, "error"},
		{NotificationWarning, "warning"},
		{NotificationInfo, "info"},
		{NotificationType(999), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
