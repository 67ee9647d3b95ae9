package services

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-veylop/pianolog/internal/config"
	"github.com/j-veylop/pianolog/internal/models"
	"github.com/j-veylop/pianolog/internal/services/practice"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	tmpDir := t.TempDir()
	return &config.Config{
		DatabasePath:          filepath.Join(tmpDir, "practice.db"),
		ActivitiesPath:        filepath.Join(tmpDir, "activities.json"),
		WeekStart:             time.Monday,
		TickInterval:          time.Second,
		ReminderCheckInterval: time.Hour,
		StatsCacheSize:        8,
		LogLevel:              "info",
	}
}

func newTestManager(t *testing.T, cfg *config.Config) *Manager {
	t.Helper()
	mgr, err := NewManager(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = mgr.Close() })
	return mgr
}

// waitFor reads events until one matches or the timeout expires.
func waitFor[T ServiceEvent](t *testing.T, ch <-chan ServiceEvent) T {
	t.Helper()
	timeout := time.After(3 * time.Second)
	for {
		select {
		case ev := <-ch:
			if typed, ok := ev.(T); ok {
				return typed
			}
		case <-timeout:
			var zero T
			t.Fatalf("timed out waiting for %T", zero)
			return zero
		}
	}
}

func TestNewManager(t *testing.T) {
	mgr := newTestManager(t, testConfig(t))

	assert.NotNil(t, mgr.Database())
	assert.NotNil(t, mgr.Activities())
	assert.NotNil(t, mgr.Practice())
	assert.NotNil(t, mgr.Reminders())
	assert.NotNil(t, mgr.Statistics())
	assert.Equal(t, time.Monday, mgr.Config().WeekStart)
}

func TestNewManager_BadDatabasePath(t *testing.T) {
	cfg := testConfig(t)
	cfg.DatabasePath = filepath.Join(t.TempDir(), "missing", "\x00", "db")

	_, err := NewManager(cfg)
	assert.Error(t, err)
}

func TestManager_SessionEvents(t *testing.T) {
	mgr := newTestManager(t, testConfig(t))
	ch, cmd := mgr.Subscribe()
	require.NotNil(t, cmd)

	started, err := mgr.Practice().Start([]string{"scales"})
	require.NoError(t, err)

	ev := waitFor[SessionsChangedEvent](t, ch)
	require.NotNil(t, ev.Active)
	assert.Equal(t, started.ID, ev.Active.ID)

	_, err = mgr.Practice().Stop(practice.StopDetails{Intensity: 4})
	require.NoError(t, err)

	ev = waitFor[SessionsChangedEvent](t, ch)
	assert.Nil(t, ev.Active)
}

func TestManager_ReminderEvents(t *testing.T) {
	mgr := newTestManager(t, testConfig(t))
	ch, _ := mgr.Subscribe()

	_, err := mgr.Reminders().Schedule(time.Monday, 18, 0, "practice")
	require.NoError(t, err)

	ev := waitFor[RemindersChangedEvent](t, ch)
	require.Len(t, ev.Reminders, 1)
	assert.Equal(t, "practice", ev.Reminders[0].Message)
}

func TestManager_Unsubscribe(t *testing.T) {
	mgr := newTestManager(t, testConfig(t))
	ch, _ := mgr.Subscribe()

	mgr.Unsubscribe(ch)

	_, ok := <-ch
	assert.False(t, ok, "channel should be closed")
}

type notifications struct {
	mu     sync.Mutex
	titles []string
}

func (n *notifications) notify(title, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.titles = append(n.titles, title)
	return nil
}

func (n *notifications) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.titles)
}

func TestManager_GoalReachedOncePerDay(t *testing.T) {
	cfg := testConfig(t)
	cfg.GoalMinutes = 30
	mgr := newTestManager(t, cfg)

	noon := time.Date(2024, 1, 10, 12, 0, 0, 0, time.Local)
	rec := &notifications{}
	mgr.mu.Lock()
	mgr.notify = rec.notify
	mgr.now = func() time.Time { return noon }
	mgr.mu.Unlock()
	ch, _ := mgr.Subscribe()

	morning := time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local)
	_, err := mgr.Practice().Log(models.Session{StartTime: morning, EndTime: morning.Add(20 * time.Minute)})
	require.NoError(t, err)
	assert.Equal(t, 20*time.Minute, mgr.TodayTotal(noon))

	_, err = mgr.Practice().Log(models.Session{StartTime: morning.Add(time.Hour), EndTime: morning.Add(time.Hour + 15*time.Minute)})
	require.NoError(t, err)

	ev := waitFor[GoalReachedEvent](t, ch)
	assert.Equal(t, 35*time.Minute, ev.Today)
	assert.Equal(t, 30*time.Minute, ev.Goal)

	mgr.checkGoal(noon)
	assert.Equal(t, 1, rec.count())
}

func TestManager_NoGoalNoNotification(t *testing.T) {
	mgr := newTestManager(t, testConfig(t))
	rec := &notifications{}
	mgr.mu.Lock()
	mgr.notify = rec.notify
	mgr.mu.Unlock()

	mgr.checkGoal(time.Now())
	assert.Zero(t, rec.count())
}
