// Package httpserver wires the site's routes, middleware and listener.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/insurancevn/insurancenews/internal/config"
	ferrors "github.com/insurancevn/insurancenews/internal/foundation/errors"
	"github.com/insurancevn/insurancenews/internal/logfields"
	"github.com/insurancevn/insurancenews/internal/server/handlers"
	smw "github.com/insurancevn/insurancenews/internal/server/middleware"
)

// Server serves the site on a single listener.
type Server struct {
	cfg          *config.Config
	deps         Deps
	errorAdapter *ferrors.HTTPErrorAdapter

	// Handler modules
	pageHandlers       *handlers.PageHandlers
	seoHandlers        *handlers.SEOHandlers
	monitoringHandlers *handlers.MonitoringHandlers

	// middleware chain
	mchain func(http.Handler) http.Handler

	mu         sync.Mutex
	httpServer *http.Server
	addr       net.Addr
}

// New constructs the server. Nothing listens until Start.
func New(cfg *config.Config, deps Deps) *Server {
	s := &Server{
		cfg:          cfg,
		deps:         deps,
		errorAdapter: ferrors.NewHTTPErrorAdapter(slog.Default()),
	}

	s.pageHandlers = handlers.NewPageHandlers(deps.Composer, deps.Renderer, deps.Recorder)
	s.seoHandlers = handlers.NewSEOHandlers(deps.Source, deps.Fixtures, deps.Composer.Site())
	s.monitoringHandlers = handlers.NewMonitoringHandlers(deps.Fixtures, deps.Cache)

	s.mchain = smw.Chain(slog.Default(), s.errorAdapter, deps.Recorder)
	return s
}

// Start binds the configured address and serves in the background. A bind
// failure is returned directly. Request contexts carry ctx's values but not
// its cancellation; in-flight requests end through Stop.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.httpServer != nil {
		return errors.New("http server already started")
	}

	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Server.Addr)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "failed to bind HTTP listener").
			WithContext("addr", s.cfg.Server.Addr).Build()
	}

	base := context.WithoutCancel(ctx)
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       s.cfg.Server.ReadTimeout,
		ReadHeaderTimeout: s.cfg.Server.ReadTimeout,
		WriteTimeout:      s.cfg.Server.WriteTimeout,
		IdleTimeout:       2 * s.cfg.Server.ReadTimeout,
		BaseContext:       func(net.Listener) context.Context { return base },
	}
	s.addr = ln.Addr()

	srv := s.httpServer
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", logfields.Error(err))
		}
	}()
	slog.Info("HTTP server started", slog.String("addr", s.addr.String()))
	return nil
}

// Addr is the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Stop drains in-flight requests until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	slog.Info("HTTP server stopped")
	return nil
}
