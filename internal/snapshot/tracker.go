package snapshot

import (
	"sync"
	"time"

	"github.com/MrSnakeDoc/campstats/internal/domain"
)

// Tracker keeps the metadata fetched by the latest navigation, for the
// endpoints that report on it. Renderers never read it: every navigation
// carries its own copy.
//
// Each navigation takes a generation with Begin. Commit only succeeds for a
// generation newer than the committed one, so a slow fetch that finishes after
// a newer navigation committed cannot overwrite it, while overlapping traffic
// still moves the snapshot forward.
type Tracker struct {
	mu        sync.RWMutex
	issued    uint64          // last generation handed out by Begin
	committed uint64          // generation of the current snapshot
	metadata  domain.Metadata // overwritten, never merged
	lastFetch time.Time
	lastErr   error
	fetches   uint64
	failures  uint64
	stale     uint64
	now       func() time.Time
}

// New creates an empty tracker.
func New() *Tracker {
	return &Tracker{now: time.Now}
}

// Begin issues the generation of a new navigation.
func (t *Tracker) Begin() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.issued++
	return t.issued
}

// Commit stores the outcome of the fetch started by generation gen and reports
// whether it was accepted. A failed fetch clears the snapshot.
func (t *Tracker) Commit(gen uint64, metadata domain.Metadata, fetchErr error) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.fetches++
	if fetchErr != nil {
		t.failures++
	}

	if gen <= t.committed || gen > t.issued {
		t.stale++
		return false
	}

	t.committed = gen
	t.lastFetch = t.now()
	t.lastErr = fetchErr
	if fetchErr != nil {
		t.metadata = nil
	} else {
		t.metadata = metadata
	}
	return true
}

// Metadata returns the current snapshot and its generation (0 before the first commit).
func (t *Tracker) Metadata() (domain.Metadata, uint64) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.metadata, t.committed
}

// Stats is a point-in-time view of the tracker.
type Stats struct {
	Generation     uint64
	Pages          int
	LastFetch      time.Time
	LastError      error
	Fetches        uint64
	Failures       uint64
	StaleDiscarded uint64
}

// Stats returns counters for the infra endpoint.
func (t *Tracker) Stats() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return Stats{
		Generation:     t.committed,
		Pages:          len(t.metadata),
		LastFetch:      t.lastFetch,
		LastError:      t.lastErr,
		Fetches:        t.fetches,
		Failures:       t.failures,
		StaleDiscarded: t.stale,
	}
}
