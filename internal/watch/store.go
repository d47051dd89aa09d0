// Package watch keeps the loaded change log current. A Store holds the
// immutable snapshot shared by readers, and a Watcher reloads it when the
// log file changes on disk.
package watch

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Sumatoshi-tech/codefolio/pkg/commits"
	"github.com/Sumatoshi-tech/codefolio/pkg/loclog"
)

// ErrNotLoaded is returned by Store.Ready before the first snapshot lands.
var ErrNotLoaded = errors.New("change log not loaded yet")

// Snapshot is one load of the change log. It is never mutated after it has
// been stored; readers build their own engines from Commits.
type Snapshot struct {
	Source   string
	Commits  []*commits.Commit
	Records  int
	Skipped  int
	LoadedAt time.Time
}

// LoadFunc produces a fresh snapshot.
type LoadFunc func(ctx context.Context) (*Snapshot, error)

// Loader returns a LoadFunc reading source and grouping its rows into
// commits linked under repoURL. Malformed rows are logged and skipped.
func Loader(source, repoURL string, logger *slog.Logger, opts ...loclog.LoadOption) LoadFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(ctx context.Context) (*Snapshot, error) {
		result, err := loclog.LoadResult(ctx, source, opts...)
		if err != nil {
			return nil, err
		}

		for _, skipped := range result.Skipped {
			logger.WarnContext(ctx, "skipping malformed change-log row",
				"source", source, "row", skipped.Row, "column", skipped.Column, "error", skipped.Err)
		}

		return &Snapshot{
			Source:   source,
			Commits:  commits.Aggregate(result.Records, repoURL),
			Records:  len(result.Records),
			Skipped:  len(result.Skipped),
			LoadedAt: time.Now(),
		}, nil
	}
}

// Store holds the current snapshot behind a read-write lock.
type Store struct {
	mu        sync.RWMutex
	snap      *Snapshot
	listeners []func(*Snapshot)
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Current returns the latest snapshot, or an empty one before the first load.
func (s *Store) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snap == nil {
		return &Snapshot{}
	}

	return s.snap
}

// Swap replaces the snapshot and notifies subscribers outside the lock.
func (s *Store) Swap(next *Snapshot) {
	if next == nil {
		next = &Snapshot{LoadedAt: time.Now()}
	}

	s.mu.Lock()
	s.snap = next
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
}

// Subscribe registers fn to be called after every Swap.
func (s *Store) Subscribe(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners = append(s.listeners, fn)
}

// Ready reports whether a snapshot has been stored. It satisfies the
// readiness-check signature.
func (s *Store) Ready(context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snap == nil {
		return ErrNotLoaded
	}

	return nil
}

// Refresh runs load and swaps in the result. On failure the current
// snapshot is kept; before the first load an empty snapshot is stored so
// readers see the no-data state.
func (s *Store) Refresh(ctx context.Context, load LoadFunc) error {
	next, err := load(ctx)
	if err != nil {
		if s.Ready(ctx) != nil {
			s.Swap(nil)
		}

		return err
	}

	s.Swap(next)

	return nil
}
