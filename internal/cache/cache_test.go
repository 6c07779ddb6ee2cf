package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(maxEntries int) (*Cache, *fakeClock) {
	clk := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	return New(maxEntries, WithClock(clk.Now)), clk
}

func constLoader(value string, calls *int32) Loader {
	return func(context.Context) ([]byte, error) {
		atomic.AddInt32(calls, 1)
		return []byte(value), nil
	}
}

func TestFetch_HitWithinWindow(t *testing.T) {
	c, clk := newTestCache(10)
	var calls int32

	v, outcome, err := c.Fetch(t.Context(), "/articles/a", 5*time.Minute, constLoader("v1", &calls))
	require.NoError(t, err)
	require.Equal(t, Miss, outcome)
	require.Equal(t, "v1", string(v))

	clk.Advance(4 * time.Minute)
	v, outcome, err = c.Fetch(t.Context(), "/articles/a", 5*time.Minute, constLoader("v2", &calls))
	require.NoError(t, err)
	require.Equal(t, Hit, outcome)
	require.Equal(t, "v1", string(v), "fresh entries are served as stored")
	require.EqualValues(t, 1, calls)
}

func TestFetch_RefetchAfterWindow(t *testing.T) {
	c, clk := newTestCache(10)
	var calls int32

	_, _, err := c.Fetch(t.Context(), "k", time.Minute, constLoader("v1", &calls))
	require.NoError(t, err)

	clk.Advance(time.Minute)
	v, outcome, err := c.Fetch(t.Context(), "k", time.Minute, constLoader("v2", &calls))
	require.NoError(t, err)
	require.Equal(t, Miss, outcome)
	require.Equal(t, "v2", string(v))
	require.EqualValues(t, 2, calls)
}

func TestFetch_StaleOnRefetchFailure(t *testing.T) {
	c, clk := newTestCache(10)
	var calls int32
	_, _, err := c.Fetch(t.Context(), "k", time.Minute, constLoader("v1", &calls))
	require.NoError(t, err)

	clk.Advance(2 * time.Minute)
	failing := func(context.Context) ([]byte, error) { return nil, errors.New("backend down") }

	v, outcome, err := c.Fetch(t.Context(), "k", time.Minute, failing)
	require.NoError(t, err)
	require.Equal(t, Stale, outcome)
	require.Equal(t, "v1", string(v))
	require.EqualValues(t, 1, c.Stats().Stale)
}

func TestFetch_ErrorsAreNotCached(t *testing.T) {
	c, _ := newTestCache(10)
	boom := errors.New("boom")

	_, outcome, err := c.Fetch(t.Context(), "k", time.Minute, func(context.Context) ([]byte, error) { return nil, boom })
	require.ErrorIs(t, err, boom)
	require.Equal(t, Miss, outcome)
	require.Zero(t, c.Len())

	var calls int32
	v, _, err := c.Fetch(t.Context(), "k", time.Minute, constLoader("ok", &calls))
	require.NoError(t, err)
	require.Equal(t, "ok", string(v))
	require.EqualValues(t, 1, calls)
}

func TestFetch_EvictsOldestFirst(t *testing.T) {
	c, clk := newTestCache(2)
	var calls int32

	for _, k := range []string{"a", "b", "c"} {
		_, _, err := c.Fetch(t.Context(), k, time.Hour, constLoader(k, &calls))
		require.NoError(t, err)
		clk.Advance(time.Second)
	}

	require.Equal(t, 2, c.Len())
	require.False(t, c.Invalidate("a"), "a was the oldest entry")
	require.True(t, c.Invalidate("b"))
	require.True(t, c.Invalidate("c"))
}

func TestFetch_SharesConcurrentLoads(t *testing.T) {
	c, _ := newTestCache(10)
	var calls int32
	release := make(chan struct{})
	load := func(context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return []byte("v"), nil
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, _, err := c.Fetch(context.Background(), "k", time.Minute, load)
			assert.NoError(t, err)
			assert.Equal(t, "v", string(v))
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
	require.Equal(t, 1, c.Len())
}

func TestInvalidatePrefixAndPurge(t *testing.T) {
	c, _ := newTestCache(0)
	var calls int32
	for _, k := range []string{"/articles/a", "/articles?category=x", "/legal-docs/1"} {
		_, _, err := c.Fetch(t.Context(), k, time.Hour, constLoader(k, &calls))
		require.NoError(t, err)
	}

	require.Equal(t, 2, c.InvalidatePrefix("/articles"))
	require.Equal(t, 1, c.Len())

	c.Purge()
	require.Zero(t, c.Len())
	stats := c.Stats()
	require.EqualValues(t, 3, stats.Misses)
	require.Zero(t, stats.Entries)
}

func TestFetch_CancelledWaiterDoesNotFailOthers(t *testing.T) {
	c, _ := newTestCache(10)
	started := make(chan struct{})
	release := make(chan struct{})
	load := func(ctx context.Context) ([]byte, error) {
		close(started)
		select {
		case <-release:
			return []byte("v"), nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	first, cancel := context.WithCancel(t.Context())
	firstDone := make(chan error, 1)
	go func() {
		_, _, err := c.Fetch(first, "k", time.Minute, load)
		firstDone <- err
	}()
	<-started

	secondDone := make(chan []byte, 1)
	go func() {
		v, _, err := c.Fetch(t.Context(), "k", time.Minute, load)
		assert.NoError(t, err)
		secondDone <- v
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	require.ErrorIs(t, <-firstDone, context.Canceled)

	close(release)
	require.Equal(t, "v", string(<-secondDone))
	require.Equal(t, 1, c.Len(), "the shared load still stores its result")
}

func TestFetch_InvalidationDuringLoadIsNotUndone(t *testing.T) {
	c, _ := newTestCache(10)
	var calls int32
	started := make(chan struct{})
	release := make(chan struct{})
	slow := func(context.Context) ([]byte, error) {
		close(started)
		<-release
		return []byte("old"), nil
	}

	done := make(chan []byte, 1)
	go func() {
		v, _, err := c.Fetch(t.Context(), "/articles/a", time.Hour, slow)
		assert.NoError(t, err)
		done <- v
	}()
	<-started

	c.InvalidatePrefix("/articles")
	v, _, err := c.Fetch(t.Context(), "/articles/a", time.Hour, constLoader("new", &calls))
	require.NoError(t, err)
	require.Equal(t, "new", string(v), "callers after an invalidation do not join the older load")

	close(release)
	require.Equal(t, "old", string(<-done))

	v, outcome, err := c.Fetch(t.Context(), "/articles/a", time.Hour, constLoader("newer", &calls))
	require.NoError(t, err)
	require.Equal(t, Hit, outcome)
	require.Equal(t, "new", string(v))
	require.EqualValues(t, 1, calls)
}
