package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insurancevn/insurancenews/internal/content"
	"github.com/insurancevn/insurancenews/internal/fixtures"
	"github.com/insurancevn/insurancenews/internal/foundation"
	"github.com/insurancevn/insurancenews/internal/metrics"
)

type countingSource struct {
	mu        sync.Mutex
	featured  int
	companies int
	legal     []int
	category  []string
	failLegal bool
}

func (s *countingSource) FeaturedArticle(context.Context) foundation.Result[*content.Article, *content.FetchError] {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.featured++
	return foundation.Ok[*content.Article, *content.FetchError](&content.Article{Slug: "x"})
}

func (s *countingSource) LatestLegalDocs(_ context.Context, limit int) foundation.Result[[]content.LegalDocument, *content.FetchError] {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.legal = append(s.legal, limit)
	if s.failLegal {
		return foundation.Err[[]content.LegalDocument](content.AsFetchError("/legal-docs", errors.New("down")))
	}
	return foundation.Ok[[]content.LegalDocument, *content.FetchError](nil)
}

func (s *countingSource) CategoryArticles(_ context.Context, category string, _ int) foundation.Result[[]content.Article, *content.FetchError] {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.category = append(s.category, category)
	return foundation.Ok[[]content.Article, *content.FetchError](nil)
}

func (s *countingSource) Companies(context.Context) foundation.Result[[]content.Company, *content.FetchError] {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies++
	return foundation.Ok[[]content.Company, *content.FetchError](nil)
}

func (s *countingSource) featuredCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.featured
}

type warmupRecorder struct {
	metrics.NoopRecorder
	mu   sync.Mutex
	runs []bool
}

func (r *warmupRecorder) IncWarmupRun(ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, ok)
}

func newTestWarmer(t *testing.T, src Prefetcher, opts ...Option) *Warmer {
	t.Helper()
	store, err := fixtures.NewStore("")
	require.NoError(t, err)
	opts = append(opts, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	w, err := NewWarmer(time.Hour, src, store, opts...)
	require.NoError(t, err)
	return w
}

func TestRunOnce(t *testing.T) {
	src := &countingSource{}
	rec := &warmupRecorder{}
	w := newTestWarmer(t, src, WithRecorder(rec))

	require.NoError(t, w.RunOnce(t.Context()))

	assert.Equal(t, 1, src.featured)
	assert.Equal(t, 1, src.companies)
	sort.Ints(src.legal)
	assert.Equal(t, []int{latestLegalLimit, sitemapLegalLimit}, src.legal)

	sort.Strings(src.category)
	assert.Equal(t, []string{"thuong-mai", "thuong-mai", "tranh-luan", "tranh-luan", "vi-mo", "vi-mo", "xa-hoi", "xa-hoi"}, src.category)
	assert.Equal(t, []bool{true}, rec.runs)
}

func TestRunOnceReportsFailures(t *testing.T) {
	src := &countingSource{failLegal: true}
	rec := &warmupRecorder{}
	w := newTestWarmer(t, src, WithRecorder(rec))

	err := w.RunOnce(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "down")
	assert.Equal(t, 1, src.featured)
	assert.Len(t, src.category, 8)
	assert.Equal(t, []bool{false}, rec.runs)
}

func TestStartRunsImmediately(t *testing.T) {
	src := &countingSource{}
	w := newTestWarmer(t, src)

	require.NoError(t, w.Start(t.Context()))
	t.Cleanup(func() { _ = w.Stop() })

	assert.Eventually(t, func() bool { return src.featuredCalls() == 1 }, 5*time.Second, 10*time.Millisecond)
}

func TestNewWarmerRejectsInterval(t *testing.T) {
	_, err := NewWarmer(0, &countingSource{}, nil)
	require.Error(t, err)
}
