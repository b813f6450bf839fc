// Package aggregate folds admitted 404 records into per-path statistics.
package aggregate

import (
	"sync"

	"github.com/vburojevic/watch404/internal/domain"
)

// Tracker accumulates per-path 404 statistics for one scan run
type Tracker struct {
	mu     sync.Mutex
	misses map[string]*domain.MissStats
	hits   int
}

// NewTracker creates an empty run aggregate
func NewTracker() *Tracker {
	return &Tracker{
		misses: make(map[string]*domain.MissStats),
	}
}

// Fold merges one admitted record into the aggregate. Folding the same
// multiset of records in any order yields the same statistics: counts
// only increase and the seen window only widens.
func (t *Tracker) Fold(rec *domain.LogRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.hits++

	stats, ok := t.misses[rec.Path]
	if !ok {
		t.misses[rec.Path] = &domain.MissStats{
			Path:      rec.Path,
			Hits:      1,
			FirstSeen: rec.Timestamp,
			LastSeen:  rec.Timestamp,
			Referrers: map[string]int{rec.Referrer: 1},
		}
		return
	}

	stats.Hits++
	if rec.Timestamp.Before(stats.FirstSeen) {
		stats.FirstSeen = rec.Timestamp
	}
	if rec.Timestamp.After(stats.LastSeen) {
		stats.LastSeen = rec.Timestamp
	}
	stats.Referrers[rec.Referrer]++
}

// Empty reports whether nothing was folded
func (t *Tracker) Empty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.misses) == 0
}

// Stats returns the number of distinct missing paths and total hits
func (t *Tracker) Stats() (paths, hits int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.misses), t.hits
}

// Snapshot returns a copy of the statistics accumulated so far. The
// copy is independent: folding more records does not mutate it.
func (t *Tracker) Snapshot() map[string]*domain.MissStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]*domain.MissStats, len(t.misses))
	for path, stats := range t.misses {
		referrers := make(map[string]int, len(stats.Referrers))
		for ref, n := range stats.Referrers {
			referrers[ref] = n
		}
		out[path] = &domain.MissStats{
			Path:      stats.Path,
			Hits:      stats.Hits,
			FirstSeen: stats.FirstSeen,
			LastSeen:  stats.LastSeen,
			Referrers: referrers,
		}
	}
	return out
}
