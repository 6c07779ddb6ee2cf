package httpserver

import (
	"net/http"

	"github.com/insurancevn/insurancenews/internal/metrics"
)

// Handler returns the routed, middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.pageHandlers.HandleHome)
	mux.HandleFunc("GET /articles/{slug}", s.pageHandlers.HandleArticle)
	mux.HandleFunc("GET /legal-docs/{docNumber}", s.pageHandlers.HandleLegalDoc)
	mux.HandleFunc("GET /thu-vien", s.pageHandlers.HandleLibrary)
	mux.HandleFunc("GET /search", s.pageHandlers.HandleSearch)
	mux.HandleFunc("GET /{pillar}", s.pageHandlers.HandlePillar)

	mux.HandleFunc("GET /robots.txt", s.seoHandlers.HandleRobots)
	mux.HandleFunc("GET /sitemap.xml", s.seoHandlers.HandleSitemap)

	mux.HandleFunc("GET "+s.cfg.Monitoring.HealthPath, s.monitoringHandlers.HandleHealthCheck)
	mux.HandleFunc("GET /readyz", s.monitoringHandlers.HandleReadiness)
	if s.cfg.Monitoring.MetricsOn() && s.deps.Gatherer != nil {
		mux.Handle("GET "+s.cfg.Monitoring.MetricsPath, metrics.HTTPHandler(s.deps.Gatherer))
	}

	mux.HandleFunc("/", s.pageHandlers.HandleNotFound)
	return s.mchain(mux)
}
