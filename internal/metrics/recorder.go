// Package metrics defines the observability hooks of the site.
//
// Components receive a Recorder through their constructors. NoopRecorder is
// the default so callers never nil-check; PrometheusRecorder is swapped in
// when monitoring.metrics_enabled is on.
package metrics

import "time"

// ResultLabel classifies the outcome of an upstream fetch.
type ResultLabel string

const (
	ResultOK       ResultLabel = "ok"
	ResultNotFound ResultLabel = "not_found"
	ResultError    ResultLabel = "error"
)

// CacheLabel classifies a cache lookup.
type CacheLabel string

const (
	CacheHit    CacheLabel = "hit"
	CacheMiss   CacheLabel = "miss"
	CacheStale  CacheLabel = "stale"
	CacheBypass CacheLabel = "bypass"
)

// Recorder receives site metrics. Implementations must be safe for
// concurrent use.
type Recorder interface {
	// ObserveFetch records one upstream content API call. resource is the
	// logical resource (article, related_articles, legal_doc, ...).
	ObserveFetch(resource string, d time.Duration, result ResultLabel)
	IncCacheLookup(resource string, result CacheLabel)
	SetCacheEntries(n int)
	// IncFallback counts a page section rendered from fallback data.
	IncFallback(section string)
	ObservePageRender(page string, d time.Duration, status int)
	ObserveHTTPRequest(route string, method string, status int, d time.Duration)
	IncInvalidation(kind string)
	IncWarmupRun(success bool)
}

// NoopRecorder discards everything.
type NoopRecorder struct{}

func (NoopRecorder) ObserveFetch(string, time.Duration, ResultLabel)      {}
func (NoopRecorder) IncCacheLookup(string, CacheLabel)                    {}
func (NoopRecorder) SetCacheEntries(int)                                  {}
func (NoopRecorder) IncFallback(string)                                   {}
func (NoopRecorder) ObservePageRender(string, time.Duration, int)         {}
func (NoopRecorder) ObserveHTTPRequest(string, string, int, time.Duration) {}
func (NoopRecorder) IncInvalidation(string)                               {}
func (NoopRecorder) IncWarmupRun(bool)                                    {}

// OrNoop returns r, or NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
