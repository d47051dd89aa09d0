package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last write before reloading.
const DefaultDebounce = 250 * time.Millisecond

// ErrNoLoader is returned by NewWatcher without a load function.
var ErrNoLoader = errors.New("watcher requires a load function")

// Watcher reloads a Store whenever the watched file is written or replaced.
type Watcher struct {
	path     string
	store    *Store
	load     LoadFunc
	debounce time.Duration
	logger   *slog.Logger

	mu    sync.Mutex
	timer *time.Timer
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Non-positive values keep the default.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWatcher prepares a watcher for path feeding store.
func NewWatcher(path string, store *Store, load LoadFunc, opts ...Option) (*Watcher, error) {
	if load == nil {
		return nil, ErrNoLoader
	}

	w := &Watcher{
		path:     filepath.Clean(path),
		store:    store,
		load:     load,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Run watches until ctx is done. The parent directory is watched so that
// editors and generators that replace the file atomically are seen.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fs watcher: %w", err)
	}
	defer fsw.Close()

	dir := filepath.Dir(w.path)

	err = fsw.Add(dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	w.logger.InfoContext(ctx, "watching change log", "path", w.path, "debounce", w.debounce)

	defer w.stopTimer()

	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}

			if w.relevant(event) {
				w.schedule(ctx)
			}

		case werr, ok := <-fsw.Errors:
			if !ok {
				return nil
			}

			w.logger.WarnContext(ctx, "change log watcher error", "error", werr)

		case <-ctx.Done():
			return nil
		}
	}
}

// Reload loads the file now and swaps the store.
func (w *Watcher) Reload(ctx context.Context) error {
	err := w.store.Refresh(ctx, w.load)
	if err != nil {
		w.logger.ErrorContext(ctx, "reload change log", "path", w.path, "error", err)

		return err
	}

	snap := w.store.Current()
	w.logger.InfoContext(ctx, "change log reloaded",
		"path", w.path, "commits", len(snap.Commits), "records", snap.Records, "skipped", snap.Skipped)

	return nil
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}

	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(w.debounce, func() {
		if ctx.Err() != nil {
			return
		}

		// Reload logs its own failure.
		_ = w.Reload(ctx)
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
}
