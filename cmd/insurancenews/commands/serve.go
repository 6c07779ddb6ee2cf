package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/insurancevn/insurancenews/internal/config"
	"github.com/insurancevn/insurancenews/internal/fixtures"
	"github.com/insurancevn/insurancenews/internal/invalidate"
	"github.com/insurancevn/insurancenews/internal/logfields"
	"github.com/insurancevn/insurancenews/internal/scheduler"
	"github.com/insurancevn/insurancenews/internal/server/httpserver"
	"github.com/insurancevn/insurancenews/internal/version"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr string `help:"Listen address, overrides server.addr"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if s.Addr != "" {
		cfg.Server.Addr = s.Addr
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RunServe(ctx, cfg, g.Logger)
}

// RunServe starts the site and its background workers and blocks until ctx
// is cancelled, then shuts everything down.
func RunServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Starting insurancenews",
		slog.String("version", version.Version),
		slog.String("api", cfg.API.BaseURL+cfg.API.Prefix),
		slog.String("site", cfg.Site.URL))

	st, err := newSite(cfg, logger)
	if err != nil {
		return err
	}

	if cfg.Fixtures.WatchOn() {
		watcher, err := fixtures.NewWatcher(st.fixtures, fixtures.WithReloadHook(func(err error) {
			if err != nil {
				logger.Warn("Fixtures reload rejected, keeping previous data", logfields.Error(err))
				return
			}
			logger.Info("Fixtures reloaded", logfields.File(cfg.Fixtures.Path))
		}))
		if err != nil {
			return err
		}
		if err := watcher.Start(ctx); err != nil {
			return err
		}
		defer watcher.Stop()
	}

	if cfg.Warmup.On() {
		warmer, err := scheduler.NewWarmer(cfg.Warmup.Interval, st.fetcher, st.fixtures,
			scheduler.WithRecorder(st.recorder),
			scheduler.WithLogger(logger))
		if err != nil {
			return err
		}
		if err := warmer.Start(ctx); err != nil {
			return err
		}
		defer func() {
			if err := warmer.Stop(); err != nil {
				logger.Warn("Failed to stop warm-up scheduler", logfields.Error(err))
			}
		}()
	}

	if cfg.Invalidation.NATSURL != "" {
		sub, err := invalidate.NewSubscriber(cfg.Invalidation, st.fetcher,
			invalidate.WithRecorder(st.recorder),
			invalidate.WithLogger(logger))
		if err != nil {
			return err
		}
		// The site serves without invalidation; entries still expire.
		if err := sub.Start(ctx); err != nil {
			logger.Error("Cache invalidation unavailable", logfields.Error(err))
		} else {
			defer sub.Close()
		}
	}

	srv := httpserver.New(cfg, httpserver.Deps{
		Composer: st.composer,
		Renderer: st.renderer,
		Source:   st.fetcher,
		Fixtures: st.fixtures,
		Cache:    st.fetcher,
		Recorder: st.recorder,
		Gatherer: st.registry,
	})
	if err := srv.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	logger.Info("Shutdown signal received, stopping")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer stopCancel()
	if err := srv.Stop(stopCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}
	logger.Info("Stopped")
	return nil
}
