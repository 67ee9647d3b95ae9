// Package statistics serves aggregated practice statistics, memoized per
// snapshot of the session log.
package statistics

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/j-veylop/pianolog/internal/models"
	"github.com/j-veylop/pianolog/internal/services/practice"
	"github.com/j-veylop/pianolog/internal/stats"
)

// Source provides versioned snapshots of completed sessions.
type Source interface {
	Snapshot() practice.Snapshot
	Version() uint64
}

// LifetimeStore answers all-time questions directly from storage.
type LifetimeStore interface {
	GetLifetimeStats(loc *time.Location) (*models.LifetimeStats, error)
	GetActivityTotals() (map[string]time.Duration, error)
}

type cacheKey struct {
	location    string
	start       int64
	version     uint64
	granularity stats.Granularity
	goal        int
}

// Service memoizes stats.Aggregate results.
type Service struct {
	source    Source
	store     LifetimeStore
	cache     *lru.Cache[cacheKey, stats.Result]
	weekStart time.Weekday
}

// New creates a statistics service holding at most size results.
func New(source Source, store LifetimeStore, weekStart time.Weekday, size int) (*Service, error) {
	cache, err := lru.New[cacheKey, stats.Result](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create stats cache: %w", err)
	}
	return &Service{
		source:    source,
		store:     store,
		cache:     cache,
		weekStart: weekStart,
	}, nil
}

// WeekStart returns the configured first day of the week.
func (s *Service) WeekStart() time.Weekday {
	return s.weekStart
}

// Window returns the window of granularity g containing ref.
func (s *Service) Window(g stats.Granularity, ref time.Time) stats.Window {
	return stats.WindowFor(g, ref, s.weekStart)
}

// Get aggregates the window of granularity g containing ref.
func (s *Service) Get(g stats.Granularity, ref time.Time, goalMinutes int) stats.Result {
	return s.GetWindow(s.Window(g, ref), goalMinutes)
}

// GetWindow aggregates w against the current snapshot. Results are cached
// until the snapshot version changes.
func (s *Service) GetWindow(w stats.Window, goalMinutes int) stats.Result {
	key := cacheKey{
		version:     s.source.Version(),
		granularity: w.Granularity,
		start:       w.Start.UnixMilli(),
		location:    w.Start.Location().String(),
		goal:        goalMinutes,
	}
	if res, ok := s.cache.Get(key); ok {
		return res
	}

	snap := s.source.Snapshot()
	res := stats.Aggregate(snap.Sessions, w, goalMinutes)

	// A write between Version and Snapshot yields a newer result; key it
	// under the version it was computed from.
	key.version = snap.Version
	s.cache.Add(key, res)
	return res
}

// Len returns the number of cached results.
func (s *Service) Len() int {
	return s.cache.Len()
}

// Lifetime returns all-time totals in the local calendar.
func (s *Service) Lifetime() (*models.LifetimeStats, error) {
	return s.store.GetLifetimeStats(time.Local)
}

// ActivityTotals returns all-time stored duration per activity id.
func (s *Service) ActivityTotals() (map[string]time.Duration, error) {
	return s.store.GetActivityTotals()
}
