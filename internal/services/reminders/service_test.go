package reminders

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-veylop/pianolog/internal/db"
)

type recorder struct {
	mu     sync.Mutex
	titles []string
	err    error
}

func (r *recorder) notify(title, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.titles = append(r.titles, title)
	return r.err
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.titles)
}

// Wednesday 2024-01-10 12:00 UTC.
var start = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *recorder) {
	t.Helper()
	database, err := db.New(filepath.Join(t.TempDir(), "practice.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	rec := &recorder{}
	svc, err := New(database, Config{
		CheckInterval: time.Hour,
		Notify:        rec.notify,
		Now:           func() time.Time { return start },
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc, rec
}

func TestCheck_FiresOncePerOccurrence(t *testing.T) {
	svc, rec := newTestService(t)
	_, err := svc.Schedule(time.Wednesday, 18, 30, "Scales!")
	require.NoError(t, err)

	assert.Empty(t, svc.Check(start.Add(6*time.Hour)), "18:00 is before the reminder")
	fired := svc.Check(start.Add(6*time.Hour + 31*time.Minute))
	require.Len(t, fired, 1)
	assert.Equal(t, "Scales!", rec.titles[0])

	// Later polls in the same week do not repeat it.
	assert.Empty(t, svc.Check(start.Add(7*time.Hour)))
	assert.Empty(t, svc.Check(start.Add(3*24*time.Hour)))

	// Next Wednesday fires again.
	assert.Len(t, svc.Check(start.Add(7*24*time.Hour+7*time.Hour)), 1)
	assert.Equal(t, 2, rec.count())
}

func TestCheck_SkipsPastAndDisabled(t *testing.T) {
	svc, rec := newTestService(t)

	// Earlier today, before the service started.
	_, err := svc.Schedule(time.Wednesday, 9, 0, "")
	require.NoError(t, err)
	off, err := svc.Schedule(time.Wednesday, 13, 0, "off")
	require.NoError(t, err)
	require.NoError(t, svc.SetEnabled(off.ID, false))

	assert.Empty(t, svc.Check(start.Add(2*time.Hour)))
	assert.Zero(t, rec.count())
}

func TestCheck_ClockGoingBackwards(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Schedule(time.Wednesday, 12, 30, "")
	require.NoError(t, err)

	assert.Nil(t, svc.Check(start.Add(-time.Hour)))
	assert.Len(t, svc.Check(start.Add(time.Hour)), 1)
}

func TestCheck_DefaultTitleAndNotifyError(t *testing.T) {
	svc, rec := newTestService(t)
	rec.err = errors.New("no notification daemon")
	_, err := svc.Schedule(time.Thursday, 8, 0, "")
	require.NoError(t, err)
	<-svc.Events()

	fired := svc.Check(start.Add(21 * time.Hour))
	require.Len(t, fired, 1)
	assert.Equal(t, defaultTitle, rec.titles[0])

	ev := <-svc.Events()
	assert.Equal(t, EventError, ev.Type)
	ev = <-svc.Events()
	assert.Equal(t, EventReminderFired, ev.Type)
	assert.Equal(t, fired[0].ID, ev.Reminder.ID)
}

func TestScheduleCancel(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Schedule(time.Monday, 24, 0, "")
	assert.Error(t, err)

	r, err := svc.Schedule(time.Monday, 7, 15, "warm up")
	require.NoError(t, err)
	assert.True(t, r.Enabled)
	require.Len(t, svc.List(), 1)

	require.NoError(t, svc.Cancel(r.ID))
	assert.Empty(t, svc.List())
	assert.True(t, errors.Is(svc.Cancel(r.ID), db.ErrNotFound))
}

func TestNextFire(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, ok := svc.NextFire(start)
	assert.False(t, ok)

	_, err := svc.Schedule(time.Friday, 9, 0, "fri")
	require.NoError(t, err)
	_, err = svc.Schedule(time.Thursday, 20, 0, "thu")
	require.NoError(t, err)

	r, at, ok := svc.NextFire(start)
	require.True(t, ok)
	assert.Equal(t, "thu", r.Message)
	assert.Equal(t, time.Date(2024, 1, 11, 20, 0, 0, 0, time.UTC), at)
}

func TestStart_PollsInBackground(t *testing.T) {
	database, err := db.New(filepath.Join(t.TempDir(), "practice.db"))
	require.NoError(t, err)
	defer func() { _ = database.Close() }()

	var mu sync.Mutex
	now := start
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	rec := &recorder{}
	svc, err := New(database, Config{CheckInterval: 10 * time.Millisecond, Notify: rec.notify, Now: clock})
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	_, err = svc.Schedule(time.Wednesday, 12, 1, "")
	require.NoError(t, err)
	svc.Start()
	svc.Start()

	mu.Lock()
	now = start.Add(2 * time.Minute)
	mu.Unlock()

	assert.Eventually(t, func() bool { return rec.count() == 1 }, 2*time.Second, 10*time.Millisecond)
}
