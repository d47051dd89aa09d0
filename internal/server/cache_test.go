package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func body(s string) cachedResponse {
	return cachedResponse{contentType: "text/plain", body: []byte(s)}
}

func TestResponseCache_EvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	c := newResponseCache(2, 1<<10)
	gen := c.generation()

	c.put(gen, "a", body("A"))
	c.put(gen, "b", body("B"))

	_, ok := c.get("a")
	require.True(t, ok)

	c.put(gen, "c", body("C"))

	_, ok = c.get("b")
	assert.False(t, ok)

	got, ok := c.get("a")
	require.True(t, ok)
	assert.Equal(t, "A", string(got.body))
	assert.Equal(t, 2, c.len())
	assert.Equal(t, int64(2), c.hits.Load())
	assert.Equal(t, int64(1), c.misses.Load())
}

func TestResponseCache_SizeLimit(t *testing.T) {
	t.Parallel()

	c := newResponseCache(10, 4)
	gen := c.generation()

	c.put(gen, "big", body("12345"))
	assert.Equal(t, 0, c.len())

	c.put(gen, "a", body("12"))
	c.put(gen, "b", body("34"))
	c.put(gen, "c", body("5"))

	_, ok := c.get("a")
	assert.False(t, ok)
	assert.Equal(t, int64(3), c.curBytes)

	c.put(gen, "b", body("6789"))
	assert.Equal(t, 1, c.len())
	assert.Equal(t, int64(4), c.curBytes)
}

func TestResponseCache_ResetDropsStaleRenders(t *testing.T) {
	t.Parallel()

	c := newResponseCache(4, 1<<10)
	stale := c.generation()

	c.put(stale, "a", body("A"))
	c.reset()
	assert.Equal(t, 0, c.len())

	c.put(stale, "b", body("B"))
	assert.Equal(t, 0, c.len())

	c.put(c.generation(), "b", body("B"))
	assert.Equal(t, 1, c.len())
}

func TestResponseCache_NilIsInert(t *testing.T) {
	t.Parallel()

	var c *responseCache

	assert.Nil(t, newResponseCache(0, 1))
	c.put(c.generation(), "a", body("A"))
	c.reset()

	_, ok := c.get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.len())
}

func TestCacheKey_KeepsListedParams(t *testing.T) {
	t.Parallel()

	hr := httptest.NewRequest(http.MethodGet, "/api/meta?utm=1&brush=1,2,3,4&progress=10", nil)

	assert.Equal(t, "/api/meta?brush=1%2C2%2C3%2C4&progress=10", cacheKey(hr, paramProgress, paramBrush))
}
