package metrics

import (
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "insurancenews"

// PrometheusRecorder implements Recorder with Prometheus collectors.
type PrometheusRecorder struct {
	fetchDuration *prom.HistogramVec
	cacheLookups  *prom.CounterVec
	cacheEntries  prom.Gauge
	fallbacks     *prom.CounterVec
	pageRenders   *prom.HistogramVec
	httpRequests  *prom.HistogramVec
	invalidations *prom.CounterVec
	warmupRuns    *prom.CounterVec
}

// NewPrometheusRecorder creates the collectors and registers them on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		fetchDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "content_fetch_duration_seconds",
			Help:      "Duration of content API calls by resource and result",
			Buckets:   prom.DefBuckets,
		}, []string{"resource", "result"}),
		cacheLookups: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Revalidation cache lookups by resource and result",
		}, []string{"resource", "result"}),
		cacheEntries: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "cache_entries",
			Help:      "Entries currently held by the revalidation cache",
		}),
		fallbacks: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Page sections rendered from fallback data",
		}, []string{"section"}),
		pageRenders: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "page_render_duration_seconds",
			Help:      "Page composition and render time",
			Buckets:   prom.DefBuckets,
		}, []string{"page", "status"}),
		httpRequests: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP requests by route, method and status",
			Buckets:   prom.DefBuckets,
		}, []string{"route", "method", "status"}),
		invalidations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "cache_invalidations_total",
			Help:      "Invalidation messages applied by kind",
		}, []string{"kind"}),
		warmupRuns: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "warmup_runs_total",
			Help:      "Cache warm-up runs by result",
		}, []string{"result"}),
	}
	reg.MustRegister(pr.fetchDuration, pr.cacheLookups, pr.cacheEntries, pr.fallbacks,
		pr.pageRenders, pr.httpRequests, pr.invalidations, pr.warmupRuns)
	return pr
}

func (p *PrometheusRecorder) ObserveFetch(resource string, d time.Duration, result ResultLabel) {
	if p == nil {
		return
	}
	p.fetchDuration.WithLabelValues(resource, string(result)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncCacheLookup(resource string, result CacheLabel) {
	if p == nil {
		return
	}
	p.cacheLookups.WithLabelValues(resource, string(result)).Inc()
}

func (p *PrometheusRecorder) SetCacheEntries(n int) {
	if p == nil {
		return
	}
	p.cacheEntries.Set(float64(n))
}

func (p *PrometheusRecorder) IncFallback(section string) {
	if p == nil {
		return
	}
	p.fallbacks.WithLabelValues(section).Inc()
}

func (p *PrometheusRecorder) ObservePageRender(page string, d time.Duration, status int) {
	if p == nil {
		return
	}
	p.pageRenders.WithLabelValues(page, strconv.Itoa(status)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveHTTPRequest(route string, method string, status int, d time.Duration) {
	if p == nil {
		return
	}
	p.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncInvalidation(kind string) {
	if p == nil {
		return
	}
	p.invalidations.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) IncWarmupRun(success bool) {
	if p == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.warmupRuns.WithLabelValues(res).Inc()
}
