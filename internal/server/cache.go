package server

import (
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
)

// Response cache defaults.
const (
	DefaultCacheEntries = 256
	DefaultCacheBytes   = 32 << 20
)

const (
	headerCache = "X-Cache"
	cacheHit    = "HIT"
	cacheMiss   = "MISS"
)

// cachedResponse is one rendered body.
type cachedResponse struct {
	contentType string
	body        []byte
}

type cacheEntry struct {
	key  string
	resp cachedResponse
	prev *cacheEntry
	next *cacheEntry
}

// responseCache is an LRU of rendered responses bounded by entry count and
// total body size. Entries are tagged with the generation they were
// rendered in; reset bumps the generation so a render that raced a reload
// is never stored. A nil cache stores nothing.
type responseCache struct {
	mu         sync.Mutex
	entries    map[string]*cacheEntry
	head       *cacheEntry // Most recently used.
	tail       *cacheEntry // Least recently used.
	maxEntries int
	maxBytes   int64
	curBytes   int64
	gen        uint64

	hits   atomic.Int64
	misses atomic.Int64
}

// newResponseCache returns nil when either limit is non-positive.
func newResponseCache(maxEntries int, maxBytes int64) *responseCache {
	if maxEntries <= 0 || maxBytes <= 0 {
		return nil
	}

	return &responseCache{
		entries:    make(map[string]*cacheEntry),
		maxEntries: maxEntries,
		maxBytes:   maxBytes,
	}
}

func (c *responseCache) generation() uint64 {
	if c == nil {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.gen
}

func (c *responseCache) get(key string) (cachedResponse, bool) {
	if c == nil {
		return cachedResponse{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)

		return cachedResponse{}, false
	}

	c.hits.Add(1)
	c.moveToFront(ent)

	return ent.resp, true
}

// put stores resp under key unless the cache was reset since gen or the
// body alone exceeds the size limit.
func (c *responseCache) put(gen uint64, key string, resp cachedResponse) {
	if c == nil {
		return
	}

	size := int64(len(resp.body))
	if size > c.maxBytes {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return
	}

	if ent, ok := c.entries[key]; ok {
		c.curBytes += size - int64(len(ent.resp.body))
		ent.resp = resp
		c.moveToFront(ent)
		c.evict()

		return
	}

	ent := &cacheEntry{key: key, resp: resp}
	c.entries[key] = ent
	c.curBytes += size
	c.addToFront(ent)
	c.evict()
}

// reset drops every entry and starts a new generation.
func (c *responseCache) reset() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.head = nil
	c.tail = nil
	c.curBytes = 0
	c.gen++
}

func (c *responseCache) len() int {
	if c == nil {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

func (c *responseCache) evict() {
	for c.tail != nil && (len(c.entries) > c.maxEntries || c.curBytes > c.maxBytes) {
		victim := c.tail
		c.unlink(victim)
		delete(c.entries, victim.key)
		c.curBytes -= int64(len(victim.resp.body))
	}
}

func (c *responseCache) moveToFront(ent *cacheEntry) {
	if ent == c.head {
		return
	}

	c.unlink(ent)
	c.addToFront(ent)
}

func (c *responseCache) addToFront(ent *cacheEntry) {
	ent.prev = nil
	ent.next = c.head

	if c.head != nil {
		c.head.prev = ent
	}

	c.head = ent

	if c.tail == nil {
		c.tail = ent
	}
}

func (c *responseCache) unlink(ent *cacheEntry) {
	if ent.prev != nil {
		ent.prev.next = ent.next
	} else {
		c.head = ent.next
	}

	if ent.next != nil {
		ent.next.prev = ent.prev
	} else {
		c.tail = ent.prev
	}

	ent.prev = nil
	ent.next = nil
}

// cacheKey identifies a response by path and the listed query parameters,
// so unrelated parameters share an entry.
func cacheKey(hr *http.Request, params ...string) string {
	q := hr.URL.Query()
	kept := url.Values{}

	for _, p := range params {
		if v := q.Get(p); v != "" {
			kept.Set(p, v)
		}
	}

	return hr.URL.Path + "?" + kept.Encode()
}
