// Package scheduler runs the periodic cache warm-up.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"golang.org/x/sync/errgroup"

	"github.com/insurancevn/insurancenews/internal/content"
	"github.com/insurancevn/insurancenews/internal/fixtures"
	"github.com/insurancevn/insurancenews/internal/foundation"
	"github.com/insurancevn/insurancenews/internal/logfields"
	"github.com/insurancevn/insurancenews/internal/metrics"
)

const (
	jobName = "cache-warmup"

	// Sizes match what the home page, pillar pages and sitemap request, so
	// warm-up fills the exact cache keys they read.
	latestLegalLimit  = 5
	pillarLimit       = 4
	sitemapLimit      = 20
	sitemapLegalLimit = 50

	maxParallel = 4
)

// Prefetcher is the subset of the content fetcher the warm-up calls.
type Prefetcher interface {
	FeaturedArticle(ctx context.Context) foundation.Result[*content.Article, *content.FetchError]
	LatestLegalDocs(ctx context.Context, limit int) foundation.Result[[]content.LegalDocument, *content.FetchError]
	CategoryArticles(ctx context.Context, category string, limit int) foundation.Result[[]content.Article, *content.FetchError]
	Companies(ctx context.Context) foundation.Result[[]content.Company, *content.FetchError]
}

// Option configures a Warmer.
type Option func(*Warmer)

func WithRecorder(r metrics.Recorder) Option {
	return func(w *Warmer) { w.recorder = metrics.OrNoop(r) }
}

func WithLogger(l *slog.Logger) Option {
	return func(w *Warmer) {
		if l != nil {
			w.logger = l
		}
	}
}

// Warmer periodically prefetches the lists behind the home and pillar pages.
type Warmer struct {
	scheduler gocron.Scheduler
	source    Prefetcher
	fixtures  *fixtures.Store
	interval  time.Duration
	recorder  metrics.Recorder
	logger    *slog.Logger
}

// NewWarmer creates the scheduler. Nothing runs until Start.
func NewWarmer(interval time.Duration, source Prefetcher, store *fixtures.Store, opts ...Option) (*Warmer, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("warm-up interval must be positive, got %s", interval)
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	w := &Warmer{
		scheduler: s,
		source:    source,
		fixtures:  store,
		interval:  interval,
		recorder:  metrics.NoopRecorder{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start schedules the job, runs it once immediately and starts the
// scheduler. Runs never overlap; a late run is rescheduled.
func (w *Warmer) Start(ctx context.Context) error {
	_, err := w.scheduler.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(func() {
			if err := w.RunOnce(ctx); err != nil {
				w.logger.Warn("Cache warm-up incomplete", logfields.Job(jobName), logfields.Error(err))
			}
		}),
		gocron.WithName(jobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to create warm-up job: %w", err)
	}
	w.logger.Info("Starting cache warm-up", logfields.Job(jobName), slog.Duration("interval", w.interval))
	w.scheduler.Start()
	return nil
}

// Stop waits for a running job and shuts the scheduler down.
func (w *Warmer) Stop() error {
	w.logger.Info("Stopping cache warm-up", logfields.Job(jobName))
	return w.scheduler.Shutdown()
}

// RunOnce prefetches the featured article, the latest legal documents, the
// insurer profiles and each pillar's articles. Every fetch is attempted; the returned error joins
// the failures.
func (w *Warmer) RunOnce(ctx context.Context) error {
	start := time.Now()

	var (
		g        errgroup.Group
		mu       sync.Mutex
		failures []error
	)
	g.SetLimit(maxParallel)
	try := func(err *content.FetchError) {
		if err != nil {
			mu.Lock()
			failures = append(failures, err)
			mu.Unlock()
		}
	}

	g.Go(func() error {
		_, err := w.source.FeaturedArticle(ctx).ToTuple()
		try(err)
		return nil
	})
	g.Go(func() error {
		_, err := w.source.Companies(ctx).ToTuple()
		try(err)
		return nil
	})
	for _, limit := range []int{latestLegalLimit, sitemapLegalLimit} {
		g.Go(func() error {
			_, err := w.source.LatestLegalDocs(ctx, limit).ToTuple()
			try(err)
			return nil
		})
	}
	for _, category := range w.pillarCategories() {
		for _, limit := range []int{pillarLimit, sitemapLimit} {
			g.Go(func() error {
				_, err := w.source.CategoryArticles(ctx, category, limit).ToTuple()
				try(err)
				return nil
			})
		}
	}
	_ = g.Wait()

	err := errors.Join(failures...)
	w.recorder.IncWarmupRun(err == nil)
	w.logger.Debug("Cache warm-up finished",
		logfields.Job(jobName),
		logfields.Duration(time.Since(start)),
		slog.Int("failures", len(failures)))
	return err
}

func (w *Warmer) pillarCategories() []string {
	if w.fixtures == nil || !w.fixtures.Ready() {
		return nil
	}
	var out []string
	for _, p := range w.fixtures.Get().Pillars {
		if p.APICategory != "" {
			out = append(out, p.APICategory)
		}
	}
	return out
}
