package server_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/codefolio/internal/observability"
	"github.com/Sumatoshi-tech/codefolio/internal/server"
	"github.com/Sumatoshi-tech/codefolio/internal/sitegen"
	"github.com/Sumatoshi-tech/codefolio/internal/watch"
	"github.com/Sumatoshi-tech/codefolio/pkg/commits"
	"github.com/Sumatoshi-tech/codefolio/pkg/loclog"
	"github.com/Sumatoshi-tech/codefolio/pkg/meta"
	"github.com/Sumatoshi-tech/codefolio/pkg/projects"
)

func scenario() []*commits.Commit {
	a1 := time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)
	b2 := time.Date(2024, 1, 2, 5, 15, 0, 0, time.UTC)

	return commits.Aggregate([]loclog.LineRecord{
		{Commit: "a1", File: "src/main.js", Type: "js", Line: 1, Author: "Ana", Datetime: a1},
		{Commit: "a1", File: "src/style.css", Type: "css", Line: 1, Author: "Ana", Datetime: a1},
		{Commit: "b2", File: "src/main.js", Type: "js", Line: 2, Author: "Ben", Datetime: b2},
	}, "https://github.com/me/site")
}

func testProjects() []projects.Project {
	return []projects.Project{
		{Title: "Lab 4", Year: "2024", Description: "Fetch and render JSON"},
		{Title: "Tetris", Year: "2023", URL: "https://example.com/tetris"},
	}
}

func loadedStore() *watch.Store {
	store := watch.NewStore()
	store.Swap(&watch.Snapshot{Commits: scenario(), Records: 3, LoadedAt: time.Now()})

	return store
}

func newHandler(t *testing.T, st sitegen.Site, store *watch.Store, opts ...server.Option) http.Handler {
	t.Helper()

	return server.New(server.DefaultOptions(":0"), st, store, testProjects(), opts...).Handler()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	return rec
}

func TestPages(t *testing.T) {
	t.Parallel()

	h := newHandler(t, sitegen.Site{}, loadedStore())

	tests := []struct {
		target string
		want   string
	}{
		{"/", "Latest Projects"},
		{"/projects/", "My Projects — 2 Total"},
		{"/projects/?query=tetris", "Tetris"},
		{"/meta/", "<dt>Commits</dt><dd>2</dd>"},
		{"/meta/?progress=0", "<dt>Commits</dt><dd>1</dd>"},
		{"/meta/?brush=0,0,1000,600", "2 commits selected"},
		{"/contact/", `name="subject"`},
	}

	for _, tt := range tests {
		rec := get(t, h, tt.target)

		require.Equal(t, http.StatusOK, rec.Code, tt.target)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"), tt.target)
		assert.Contains(t, rec.Body.String(), tt.want, tt.target)
	}
}

func TestPages_NotFoundAndBadQuery(t *testing.T) {
	t.Parallel()

	h := newHandler(t, sitegen.Site{}, loadedStore())

	assert.Equal(t, http.StatusNotFound, get(t, h, "/nope").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/meta/?progress=lots").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/meta/?brush=1,2,3").Code)
}

func TestPages_UnderBasePath(t *testing.T) {
	t.Parallel()

	h := newHandler(t, sitegen.Site{BasePath: "/portfolio/"}, loadedStore())

	rec := get(t, h, "/portfolio/meta/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/portfolio/projects/"`)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/meta/").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/healthz").Code)
}

func TestAPIMeta(t *testing.T) {
	t.Parallel()

	h := newHandler(t, sitegen.Site{}, loadedStore())

	rec := get(t, h, "/api/meta?brush=0,0,1000,600")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var model meta.Model
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &model))

	assert.Equal(t, 2, model.Selection.Count)
	assert.Equal(t, "2 commits selected", model.Selection.Text)
	assert.InDelta(t, 100, model.Progress, 1e-9)
	assert.Len(t, model.Commits, 2)

	rec = get(t, h, "/api/meta?progress=lots")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}

func TestAPITooltip(t *testing.T) {
	t.Parallel()

	h := newHandler(t, sitegen.Site{}, loadedStore())

	rec := get(t, h, "/api/meta/tooltip?id=a1&x=900&y=500&vw=1000&vh=600")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var tip meta.TooltipModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tip))

	assert.True(t, tip.Visible)
	assert.Equal(t, "Ana", tip.Author)
	assert.Equal(t, 2, tip.Lines)
	assert.Equal(t, "Monday, January 1, 2024 at 10:30 AM", tip.Date)
	assert.InDelta(t, 720, tip.X, 1e-9, "pulled back from the right edge")
	assert.InDelta(t, 480, tip.Y, 1e-9, "pulled back from the bottom edge")

	rec = get(t, h, "/api/meta/tooltip?id=a1&x=10&y=20&vw=1000&vh=600&pw=100&ph=50")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tip))
	assert.InDelta(t, 10+meta.TooltipOffset, tip.X, 1e-9)
	assert.InDelta(t, 20+meta.TooltipOffset, tip.Y, 1e-9)
}

func TestAPITooltip_Errors(t *testing.T) {
	t.Parallel()

	h := newHandler(t, sitegen.Site{}, loadedStore())

	tests := []struct {
		target string
		code   int
	}{
		{"/api/meta/tooltip", http.StatusBadRequest},
		{"/api/meta/tooltip?id=a1&vw=wide", http.StatusBadRequest},
		{"/api/meta/tooltip?id=a1&progress=lots", http.StatusBadRequest},
		{"/api/meta/tooltip?id=zz", http.StatusNotFound},
		{"/api/meta/tooltip?id=b2&progress=0", http.StatusNotFound},
	}

	for _, tc := range tests {
		rec := get(t, h, tc.target)
		assert.Equal(t, tc.code, rec.Code, tc.target)
		assert.Contains(t, rec.Body.String(), `"error"`, tc.target)
	}
}

func TestAPIMeta_YAML(t *testing.T) {
	t.Parallel()

	h := newHandler(t, sitegen.Site{}, loadedStore())

	rec := get(t, h, "/api/meta?format=yaml&progress=0")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Contains(t, doc, "stats")
	assert.Equal(t, "January 1, 2024 at 10:30 AM", doc["time_label"])
}

func TestAPIProjects(t *testing.T) {
	t.Parallel()

	h := newHandler(t, sitegen.Site{}, loadedStore())

	rec := get(t, h, "/api/projects?year=2023")
	require.Equal(t, http.StatusOK, rec.Code)

	var listing projects.Listing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))

	assert.Equal(t, 2, listing.Total)
	require.Len(t, listing.Projects, 1)
	assert.Equal(t, "Tetris", listing.Projects[0].Title)
	assert.Len(t, listing.Years, 2)
}

func TestAPI_RateLimited(t *testing.T) {
	t.Parallel()

	opts := server.DefaultOptions(":0")
	opts.RateLimit = 0.001
	opts.RateBurst = 1

	h := server.New(opts, sitegen.Site{}, loadedStore(), nil).Handler()

	assert.Equal(t, http.StatusOK, get(t, h, "/api/projects").Code)

	rec := get(t, h, "/api/projects")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, get(t, h, "/").Code, "pages are not limited")
}

func TestProbes(t *testing.T) {
	t.Parallel()

	store := watch.NewStore()
	h := newHandler(t, sitegen.Site{}, store)

	assert.Equal(t, http.StatusOK, get(t, h, "/healthz").Code)

	rec := get(t, h, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), watch.ErrNotLoaded.Error())

	rec = get(t, h, "/meta/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No commit data available.")

	store.Swap(&watch.Snapshot{Commits: scenario()})
	assert.Equal(t, http.StatusOK, get(t, h, "/readyz").Code)
	assert.Contains(t, get(t, h, "/meta/").Body.String(), "<dt>Commits</dt><dd>2</dd>")
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	prom, err := observability.NewPrometheus()
	require.NoError(t, err)

	t.Cleanup(func() { _ = prom.Shutdown(context.Background()) })

	red, err := observability.NewREDMetrics(prom.Meter)
	require.NoError(t, err)

	store := watch.NewStore()
	h := newHandler(t, sitegen.Site{}, store, server.WithMetrics(red, prom.Handler))
	store.Swap(&watch.Snapshot{Commits: scenario(), Records: 3})

	require.Equal(t, http.StatusOK, get(t, h, "/meta/").Code)

	rec := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "codefolio_requests")
	assert.Contains(t, body, "codefolio_log_records")
}

func TestConcurrentRequestsAreIndependent(t *testing.T) {
	t.Parallel()

	h := newHandler(t, sitegen.Site{}, loadedStore())

	var wg sync.WaitGroup

	results := make([]int, 16)

	for i := range results {
		wg.Add(1)

		go func() {
			defer wg.Done()

			target := "/api/meta?brush=0,0,1000,600"
			if i%2 == 1 {
				target = "/api/meta?progress=0"
			}

			rec := get(t, h, target)

			var model meta.Model
			if json.Unmarshal(rec.Body.Bytes(), &model) == nil {
				results[i] = model.Selection.Count
			}
		}()
	}

	wg.Wait()

	for i, got := range results {
		if i%2 == 0 {
			assert.Equal(t, 2, got)
		} else {
			assert.Equal(t, 0, got)
		}
	}
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	t.Parallel()

	opts := server.DefaultOptions("127.0.0.1:0")
	srv := server.New(opts, sitegen.Site{}, loadedStore(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- srv.ListenAndServe(ctx) }()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestHandler_ServesWithRealListener(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(newHandler(t, sitegen.Site{}, loadedStore()))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/projects?query=lab")
	require.NoError(t, err)

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "Lab 4"))
}

func TestMetaResponsesAreCachedPerSnapshot(t *testing.T) {
	t.Parallel()

	store := loadedStore()
	h := newHandler(t, sitegen.Site{}, store)

	first := get(t, h, "/api/meta?progress=100&utm=x")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := get(t, h, "/api/meta?utm=y&progress=100")
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())

	assert.Equal(t, "MISS", get(t, h, "/api/meta?progress=50").Header().Get("X-Cache"))
	assert.Equal(t, "MISS", get(t, h, "/meta/?progress=100").Header().Get("X-Cache"))

	store.Swap(&watch.Snapshot{Commits: scenario()[:1], Records: 2, LoadedAt: time.Now()})

	third := get(t, h, "/api/meta?progress=100")
	assert.Equal(t, "MISS", third.Header().Get("X-Cache"))

	var model meta.Model
	require.NoError(t, json.Unmarshal(third.Body.Bytes(), &model))
	assert.Equal(t, 1, model.Stats.Commits)
}

func TestCacheDisabled(t *testing.T) {
	t.Parallel()

	opts := server.DefaultOptions(":0")
	opts.CacheEntries = 0

	h := server.New(opts, sitegen.Site{}, loadedStore(), nil).Handler()

	get(t, h, "/api/meta")
	assert.Empty(t, get(t, h, "/api/meta").Header().Get("X-Cache"))
}
