// Package commands implements the insurancenews CLI commands.
package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/insurancevn/insurancenews/internal/cache"
	"github.com/insurancevn/insurancenews/internal/config"
	"github.com/insurancevn/insurancenews/internal/content"
	"github.com/insurancevn/insurancenews/internal/fixtures"
	"github.com/insurancevn/insurancenews/internal/metrics"
	"github.com/insurancevn/insurancenews/internal/pages"
	"github.com/insurancevn/insurancenews/internal/seo"
)

// Global carries state shared by every command.
type Global struct {
	Logger *slog.Logger
}

// CLI is the root command with its global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"config.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Serve      ServeCmd    `cmd:"" help:"Serve the site over HTTP"`
	Validate   ValidateCmd `cmd:"" help:"Validate configuration and fixtures, optionally probing the content API"`
	Render     RenderCmd   `cmd:"" help:"Render one page to stdout"`
	Init       InitCmd     `cmd:"" help:"Write a configuration file with the defaults"`
	VersionCmd VersionCmd  `cmd:"" name:"version" help:"Print build information"`
}

// AfterApply runs after flag parsing and sets up logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// site holds the components every page-producing command needs.
type site struct {
	cfg      *config.Config
	client   *content.Client
	fetcher  *content.Fetcher
	fixtures *fixtures.Store
	composer *pages.Composer
	renderer *pages.Renderer
	recorder metrics.Recorder
	registry *prometheus.Registry
}

// newSite wires cache, content client, fixtures and the page layer from cfg.
// Metrics go to a private registry that the serve command exposes.
func newSite(cfg *config.Config, logger *slog.Logger) (*site, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		promcollect.NewGoCollector(),
		promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewPrometheusRecorder(registry)

	store, err := fixtures.NewStore(cfg.Fixtures.Path)
	if err != nil {
		return nil, err
	}

	client := content.NewClient(cfg.API, nil)
	fetcher := content.NewFetcher(client, cache.New(cfg.Cache.MaxEntries), cfg.Cache,
		content.WithRecorder(recorder),
		content.WithLogger(logger))

	s := seo.NewSite(cfg.Site)
	renderer, err := pages.NewRenderer(s, store)
	if err != nil {
		return nil, err
	}
	composer := pages.NewComposer(fetcher, store, s,
		pages.WithRecorder(recorder),
		pages.WithLogger(logger))

	return &site{
		cfg:      cfg,
		client:   client,
		fetcher:  fetcher,
		fixtures: store,
		composer: composer,
		renderer: renderer,
		recorder: recorder,
		registry: registry,
	}, nil
}
