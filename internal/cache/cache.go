// Package cache is the in-memory revalidation cache that sits in front of
// the content API.
//
// An entry is fresh for the window it was stored with. After that the next
// lookup refetches; when the refetch fails the stale bytes are served so a
// flaky backend degrades freshness, not pages. Errors are never stored.
package cache

import (
	"container/list"
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Outcome describes how a Fetch was satisfied.
type Outcome string

const (
	Hit   Outcome = "hit"
	Miss  Outcome = "miss"
	Stale Outcome = "stale"
)

// Loader produces the bytes for a key on a miss.
type Loader func(ctx context.Context) ([]byte, error)

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Stale   int64 `json:"stale"`
	Entries int   `json:"entries"`
}

type entry struct {
	key       string
	value     []byte
	expiresAt time.Time
	elem      *list.Element
}

// Cache is safe for concurrent use.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]*entry
	order      *list.List // front is the oldest stored entry
	maxEntries int
	now        func() time.Time
	group      singleflight.Group
	inflight   map[string]int

	// gen is bumped by every invalidation. A load only stores its result
	// when gen has not moved since the load was started.
	gen uint64

	hits, misses, stale int64
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New returns a cache holding at most maxEntries entries. Values <= 0 mean
// unbounded.
func New(maxEntries int, opts ...Option) *Cache {
	c := &Cache{
		entries:    make(map[string]*entry),
		inflight:   make(map[string]int),
		order:      list.New(),
		maxEntries: maxEntries,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the bytes for key, loading them when the entry is missing
// or older than ttl. Concurrent misses on the same key share one load.
//
// The shared load does not inherit ctx's cancellation, so one caller going
// away cannot fail the others; load must bound itself. A caller whose ctx
// ends stops waiting and gets the stale value or ctx's error.
func (c *Cache) Fetch(ctx context.Context, key string, ttl time.Duration, load Loader) ([]byte, Outcome, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && c.now().Before(e.expiresAt) {
		c.hits++
		value := e.value
		c.mu.Unlock()
		return value, Hit, nil
	}
	var staleValue []byte
	if ok {
		staleValue = e.value
	}
	c.mu.Unlock()

	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		gen := c.begin(key)
		defer c.finish(key)
		data, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		c.store(key, data, ttl, gen)
		return data, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		res = singleflight.Result{Err: ctx.Err()}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if res.Err != nil {
		if staleValue != nil {
			c.stale++
			return staleValue, Stale, nil
		}
		c.misses++
		return nil, Miss, res.Err
	}
	c.misses++
	return res.Val.([]byte), Miss, nil
}

func (c *Cache) begin(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight[key]++
	return c.gen
}

func (c *Cache) finish(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight[key]--; c.inflight[key] <= 0 {
		delete(c.inflight, key)
	}
}

func (c *Cache) store(key string, value []byte, ttl time.Duration, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}

	if old, ok := c.entries[key]; ok {
		c.order.Remove(old.elem)
		delete(c.entries, key)
	}
	for c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.removeLocked(c.order.Front().Value.(*entry))
	}

	e := &entry{key: key, value: value, expiresAt: c.now().Add(ttl)}
	e.elem = c.order.PushBack(e)
	c.entries[key] = e
}

// invalidatedLocked voids results of loads already running for keys that
// match, and makes later callers start a fresh load instead of joining them.
func (c *Cache) invalidatedLocked(match func(string) bool) {
	c.gen++
	for key := range c.inflight {
		if match(key) {
			c.group.Forget(key)
		}
	}
}

func (c *Cache) removeLocked(e *entry) {
	c.order.Remove(e.elem)
	delete(c.entries, e.key)
}

// Invalidate drops key and reports whether it was present.
func (c *Cache) Invalidate(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidatedLocked(func(k string) bool { return k == key })
	e, ok := c.entries[key]
	if ok {
		c.removeLocked(e)
	}
	return ok
}

// InvalidatePrefix drops every key starting with prefix and returns how many
// were removed.
func (c *Cache) InvalidatePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidatedLocked(func(k string) bool { return strings.HasPrefix(k, prefix) })
	n := 0
	for key, e := range c.entries {
		if strings.HasPrefix(key, prefix) {
			c.removeLocked(e)
			n++
		}
	}
	return n
}

// Purge drops all entries. Counters are kept.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidatedLocked(func(string) bool { return true })
	c.entries = make(map[string]*entry)
	c.order.Init()
}

// Len returns the number of stored entries, fresh or stale.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Hits: c.hits, Misses: c.misses, Stale: c.stale, Entries: len(c.entries)}
}
