package httpserver

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/insurancevn/insurancenews/internal/fixtures"
	"github.com/insurancevn/insurancenews/internal/metrics"
	"github.com/insurancevn/insurancenews/internal/pages"
	"github.com/insurancevn/insurancenews/internal/server/handlers"
)

// Deps are the components the HTTP server routes to.
type Deps struct {
	Composer *pages.Composer
	Renderer *pages.Renderer
	// Source feeds the sitemap. It is normally the same fetcher the
	// composer reads from.
	Source   pages.Source
	Fixtures *fixtures.Store
	Cache    handlers.CacheStatser

	Recorder metrics.Recorder
	// Gatherer backs the metrics endpoint. Nil leaves it unrouted.
	Gatherer prometheus.Gatherer
}
