package watch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codefolio/internal/watch"
)

const header = "commit,file,line,type,length,depth,date,time,timezone,datetime,author\n"

const oneCommit = header +
	"a1,src/main.js,1,js,20,0,2024-01-01,10:30:00,+00:00,2024-01-01T10:30:00Z,Ana\n"

const twoCommits = oneCommit +
	"b2,src/main.js,2,js,31,2,2024-01-02,05:15:00,+00:00,2024-01-02T05:15:00Z,Ben\n" +
	"b2,src/main.js,oops,js,31,2,2024-01-02,05:15:00,+00:00,2024-01-02T05:15:00Z,Ben\n"

var errBoom = errors.New("boom")

func writeLog(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func TestStore_EmptyUntilSwapped(t *testing.T) {
	t.Parallel()

	store := watch.NewStore()

	assert.Empty(t, store.Current().Commits)
	require.ErrorIs(t, store.Ready(context.Background()), watch.ErrNotLoaded)

	var seen atomic.Int32

	store.Subscribe(func(*watch.Snapshot) { seen.Add(1) })
	store.Swap(&watch.Snapshot{Source: "x", Records: 3})

	require.NoError(t, store.Ready(context.Background()))
	assert.Equal(t, "x", store.Current().Source)
	assert.Equal(t, int32(1), seen.Load())
}

func TestStore_SubscribeDuringNotify(t *testing.T) {
	t.Parallel()

	store := watch.NewStore()

	var first, late atomic.Int32

	store.Subscribe(func(*watch.Snapshot) {
		if first.Add(1) == 1 {
			store.Subscribe(func(*watch.Snapshot) { late.Add(1) })
		}
	})

	store.Swap(&watch.Snapshot{Source: "one"})
	assert.Zero(t, late.Load(), "a listener added mid-notify waits for the next swap")

	store.Swap(&watch.Snapshot{Source: "two"})
	assert.Equal(t, int32(2), first.Load())
	assert.Equal(t, int32(1), late.Load())
}

func TestStore_RefreshFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fail := func(context.Context) (*watch.Snapshot, error) { return nil, errBoom }

	store := watch.NewStore()
	require.ErrorIs(t, store.Refresh(ctx, fail), errBoom)
	require.NoError(t, store.Ready(ctx), "first failure still stores the empty state")
	assert.Empty(t, store.Current().Commits)

	store.Swap(&watch.Snapshot{Source: "kept"})
	require.ErrorIs(t, store.Refresh(ctx, fail), errBoom)
	assert.Equal(t, "kept", store.Current().Source)
}

func TestLoader_GroupsCommitsAndCountsSkipped(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "loc.csv")
	writeLog(t, path, twoCommits)

	snap, err := watch.Loader(path, "https://github.com/me/site", nil)(context.Background())
	require.NoError(t, err)

	assert.Len(t, snap.Commits, 2)
	assert.Equal(t, 2, snap.Records)
	assert.Equal(t, 1, snap.Skipped)
	assert.Equal(t, path, snap.Source)
	assert.False(t, snap.LoadedAt.IsZero())
}

func TestLoader_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := watch.Loader(filepath.Join(t.TempDir(), "absent.csv"), "", nil)(context.Background())
	require.Error(t, err)
}

func TestNewWatcher_RequiresLoader(t *testing.T) {
	t.Parallel()

	_, err := watch.NewWatcher("loc.csv", watch.NewStore(), nil)
	require.ErrorIs(t, err, watch.ErrNoLoader)
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "loc.csv")
	writeLog(t, path, oneCommit)

	store := watch.NewStore()
	load := watch.Loader(path, "", nil)

	w, err := watch.NewWatcher(path, store, load, watch.WithDebounce(20*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.Reload(ctx))
	require.Len(t, store.Current().Commits, 1)

	done := make(chan error, 1)

	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register the directory.
	require.Eventually(t, func() bool {
		writeLog(t, path, twoCommits)

		return len(store.Current().Commits) == 2
	}, 5*time.Second, 100*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
