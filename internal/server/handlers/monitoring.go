package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/insurancevn/insurancenews/internal/cache"
	ferrors "github.com/insurancevn/insurancenews/internal/foundation/errors"
	"github.com/insurancevn/insurancenews/internal/server/responses"
	"github.com/insurancevn/insurancenews/internal/version"
)

// Readiness is what the monitoring handlers need from the running site.
type Readiness interface {
	Ready() bool
}

// CacheStatser exposes response cache counters.
type CacheStatser interface {
	CacheStats() cache.Stats
}

// MonitoringHandlers contains the liveness and readiness handlers.
type MonitoringHandlers struct {
	fixtures     Readiness
	cache        CacheStatser
	startTime    time.Time
	errorAdapter *ferrors.HTTPErrorAdapter
}

func NewMonitoringHandlers(fixtures Readiness, cache CacheStatser) *MonitoringHandlers {
	return &MonitoringHandlers{
		fixtures:     fixtures,
		cache:        cache,
		startTime:    time.Now(),
		errorAdapter: ferrors.NewHTTPErrorAdapter(slog.Default()),
	}
}

// HandleHealthCheck reports that the process is serving.
func (h *MonitoringHandlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	health := &responses.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
		Uptime:    time.Since(h.startTime).Seconds(),
	}
	if err := writeJSON(w, http.StatusOK, health); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r,
			ferrors.WrapError(err, ferrors.CategoryInternal, "failed to write health response").Build())
	}
}

// HandleReadiness is 200 once fixtures are loaded and 503 before.
func (h *MonitoringHandlers) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ready := &responses.ReadyResponse{Status: "ready", Fixtures: "loaded"}
	status := http.StatusOK
	if h.fixtures == nil || !h.fixtures.Ready() {
		ready.Status, ready.Fixtures = "not_ready", "missing"
		status = http.StatusServiceUnavailable
	}
	if h.cache != nil {
		st := h.cache.CacheStats()
		ready.Cache = responses.CacheStats{Entries: st.Entries, Hits: st.Hits, Misses: st.Misses, Stale: st.Stale}
	}
	if err := writeJSON(w, status, ready); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r,
			ferrors.WrapError(err, ferrors.CategoryInternal, "failed to write readiness response").Build())
	}
}
