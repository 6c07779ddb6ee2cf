package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveFetch("article", 120*time.Millisecond, ResultOK)
	pr.ObserveFetch("article", 80*time.Millisecond, ResultNotFound)
	pr.IncCacheLookup("article", CacheHit)
	pr.IncCacheLookup("article", CacheHit)
	pr.IncCacheLookup("legal_doc", CacheStale)
	pr.SetCacheEntries(7)
	pr.IncFallback("home_hero")
	pr.ObservePageRender("article", 5*time.Millisecond, http.StatusNotFound)
	pr.ObserveHTTPRequest("GET /articles/{slug}", http.MethodGet, http.StatusOK, time.Millisecond)
	pr.IncInvalidation("article")
	pr.IncWarmupRun(true)

	require.InDelta(t, 2, testutil.ToFloat64(pr.cacheLookups.WithLabelValues("article", "hit")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(pr.cacheLookups.WithLabelValues("legal_doc", "stale")), 0)
	require.InDelta(t, 7, testutil.ToFloat64(pr.cacheEntries), 0)
	require.InDelta(t, 1, testutil.ToFloat64(pr.fallbacks.WithLabelValues("home_hero")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(pr.warmupRuns.WithLabelValues("success")), 0)
	require.Equal(t, 2, testutil.CollectAndCount(pr.fetchDuration))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, mfs)
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	require.NotPanics(t, func() {
		pr.ObserveFetch("article", time.Second, ResultError)
		pr.IncFallback("home_hero")
		pr.IncWarmupRun(false)
	})
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncInvalidation("legal_doc")

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), `insurancenews_cache_invalidations_total{kind="legal_doc"} 1`))
}

func TestOrNoop(t *testing.T) {
	require.IsType(t, NoopRecorder{}, OrNoop(nil))
	pr := NewPrometheusRecorder(nil)
	require.Same(t, pr, OrNoop(pr))
}
