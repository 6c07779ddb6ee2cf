package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insurancevn/insurancenews/internal/cache"
	"github.com/insurancevn/insurancenews/internal/config"
	"github.com/insurancevn/insurancenews/internal/content"
	"github.com/insurancevn/insurancenews/internal/fixtures"
	"github.com/insurancevn/insurancenews/internal/foundation"
	"github.com/insurancevn/insurancenews/internal/metrics"
	"github.com/insurancevn/insurancenews/internal/pages"
	"github.com/insurancevn/insurancenews/internal/seo"
	"github.com/insurancevn/insurancenews/internal/server/responses"
)

var errUpstream = content.AsFetchError("/test", errors.New("upstream down"))

// stubSource knows one article and one legal document. Everything else is
// an upstream failure, which the pages degrade around.
type stubSource struct {
	article *content.Article
	doc     *content.LegalDocument
}

func (s stubSource) Article(_ context.Context, slug string) foundation.Result[*content.Article, *content.FetchError] {
	if s.article != nil && s.article.Slug == slug {
		return foundation.Ok[*content.Article, *content.FetchError](s.article)
	}
	return foundation.Err[*content.Article](errUpstream)
}

func (stubSource) RelatedArticles(context.Context, string, string) foundation.Result[[]content.Article, *content.FetchError] {
	return foundation.Err[[]content.Article](errUpstream)
}

func (s stubSource) LegalDocument(_ context.Context, n string) foundation.Result[*content.LegalDocument, *content.FetchError] {
	if s.doc != nil && s.doc.DocumentNumber == n {
		return foundation.Ok[*content.LegalDocument, *content.FetchError](s.doc)
	}
	return foundation.Err[*content.LegalDocument](errUpstream)
}

func (stubSource) RelatedDocuments(context.Context, string) foundation.Result[[]content.LegalDocument, *content.FetchError] {
	return foundation.Err[[]content.LegalDocument](errUpstream)
}

func (stubSource) FeaturedArticle(context.Context) foundation.Result[*content.Article, *content.FetchError] {
	return foundation.Err[*content.Article](errUpstream)
}

func (s stubSource) LatestLegalDocs(context.Context, int) foundation.Result[[]content.LegalDocument, *content.FetchError] {
	if s.doc == nil {
		return foundation.Err[[]content.LegalDocument](errUpstream)
	}
	return foundation.Ok[[]content.LegalDocument, *content.FetchError]([]content.LegalDocument{*s.doc})
}

func (s stubSource) CategoryArticles(_ context.Context, category string, _ int) foundation.Result[[]content.Article, *content.FetchError] {
	if s.article == nil || s.article.Category != category {
		return foundation.Ok[[]content.Article, *content.FetchError](nil)
	}
	return foundation.Ok[[]content.Article, *content.FetchError]([]content.Article{*s.article})
}

func (stubSource) SearchArticles(context.Context, string, int) foundation.Result[[]content.Article, *content.FetchError] {
	return foundation.Ok[[]content.Article, *content.FetchError](nil)
}

func (stubSource) Companies(context.Context) foundation.Result[[]content.Company, *content.FetchError] {
	return foundation.Err[[]content.Company](errUpstream)
}

type stubStats struct{}

func (stubStats) CacheStats() cache.Stats { return cache.Stats{Entries: 3, Hits: 7} }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	cfg.Server.Addr = "127.0.0.1:0"
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	return newTestServerWith(t, cfg, testSource())
}

func testSource() stubSource {
	return stubSource{
		article: &content.Article{
			Title:        "Phí bảo hiểm xe máy tăng",
			Slug:         "phi-bao-hiem-xe-may",
			Content:      "<p>Nội dung</p>",
			PublishedAt:  "2025-03-01T08:00:00Z",
			Category:     "thuong-mai",
			CategoryName: "Thương mại",
		},
		doc: &content.LegalDocument{
			DocumentNumber: "67-2023-ND-CP",
			DocumentType:   "Nghị định",
			Title:          "Nghị định về bảo hiểm bắt buộc",
			IssueDate:      "2023-09-06",
			EffectiveDate:  "2023-09-06",
			Status:         content.StatusActive,
		},
	}
}

func newTestServerWith(t *testing.T, cfg *config.Config, src pages.Source) *Server {
	t.Helper()
	store, err := fixtures.NewStore("")
	require.NoError(t, err)
	site := seo.NewSite(cfg.Site)
	renderer, err := pages.NewRenderer(site, store)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	return New(cfg, Deps{
		Composer: pages.NewComposer(src, store, site),
		Renderer: renderer,
		Source:   src,
		Fixtures: store,
		Cache:    stubStats{},
		Recorder: metrics.NewPrometheusRecorder(reg),
		Gatherer: reg,
	})
}

func get(t *testing.T, h http.Handler, target string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRoutes(t *testing.T) {
	h := newTestServer(t, testConfig(t)).Handler()

	tests := []struct {
		path     string
		status   int
		contains string
	}{
		{"/", http.StatusOK, "<html"},
		{"/articles/phi-bao-hiem-xe-may", http.StatusOK, "Phí bảo hiểm xe máy tăng"},
		{"/articles/missing", http.StatusNotFound, "Bài viết không tìm thấy"},
		{"/legal-docs/67-2023-ND-CP", http.StatusOK, "Đang hiệu lực"},
		{"/legal-docs/missing", http.StatusNotFound, "Văn bản không tìm thấy"},
		{"/thuong-mai", http.StatusOK, "Phí bảo hiểm xe máy tăng"},
		{"/khong-co", http.StatusNotFound, "Không tìm thấy trang"},
		{"/a/b/c", http.StatusNotFound, "Không tìm thấy trang"},
		{"/thu-vien", http.StatusOK, "Thư viện"},
		{"/search?q=xe", http.StatusOK, "noindex"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := get(t, h, tt.path)
			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
			assert.Contains(t, rr.Body.String(), tt.contains)
			assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
		})
	}
}

func TestConditionalGet(t *testing.T) {
	h := newTestServer(t, testConfig(t)).Handler()

	first := get(t, h, "/articles/phi-bao-hiem-xe-may")
	require.Equal(t, http.StatusOK, first.Code)
	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)
	assert.Equal(t, "no-cache, must-revalidate", first.Header().Get("Cache-Control"))

	again := get(t, h, "/articles/phi-bao-hiem-xe-may", "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, again.Code)
	assert.Empty(t, again.Body.String())

	stale := get(t, h, "/articles/phi-bao-hiem-xe-may", "If-None-Match", `"other"`)
	assert.Equal(t, http.StatusOK, stale.Code)

	missing := get(t, h, "/articles/missing")
	assert.Empty(t, missing.Header().Get("ETag"))
}

func TestHeadRequest(t *testing.T) {
	h := newTestServer(t, testConfig(t)).Handler()
	req := httptest.NewRequest(http.MethodHead, "/thu-vien", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestRobots(t *testing.T) {
	h := newTestServer(t, testConfig(t)).Handler()
	rr := get(t, h, "/robots.txt")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Disallow: /search")
	assert.Contains(t, rr.Body.String(), "Sitemap: https://insurancenews.vn/sitemap.xml")
}

func TestSitemap(t *testing.T) {
	h := newTestServer(t, testConfig(t)).Handler()
	rr := get(t, h, "/sitemap.xml")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()

	assert.True(t, strings.HasPrefix(body, "<?xml"))
	assert.Contains(t, body, "<loc>https://insurancenews.vn</loc>")
	assert.Contains(t, body, "<loc>https://insurancenews.vn/vi-mo</loc>")
	assert.Contains(t, body, "<loc>https://insurancenews.vn/thu-vien</loc>")
	assert.Contains(t, body, "<loc>https://insurancenews.vn/articles/phi-bao-hiem-xe-may</loc>")
	assert.Contains(t, body, "<loc>https://insurancenews.vn/legal-docs/67-2023-ND-CP</loc>")
	assert.Equal(t, 1, strings.Count(body, "/articles/phi-bao-hiem-xe-may<"))
}

func TestMonitoringEndpoints(t *testing.T) {
	h := newTestServer(t, testConfig(t)).Handler()

	rr := get(t, h, "/healthz")
	require.Equal(t, http.StatusOK, rr.Code)
	var health responses.HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)

	rr = get(t, h, "/readyz")
	require.Equal(t, http.StatusOK, rr.Code)
	var ready responses.ReadyResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ready))
	assert.Equal(t, "ready", ready.Status)
	assert.Equal(t, 3, ready.Cache.Entries)

	get(t, h, "/")
	rr = get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `insurancenews_http_request_duration_seconds_count{method="GET",route="GET /{$}",status="200"} 1`)
}

func TestMetricsDisabled(t *testing.T) {
	cfg := testConfig(t)
	off := false
	cfg.Monitoring.MetricsEnabled = &off
	h := newTestServer(t, cfg).Handler()

	rr := get(t, h, "/metrics")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestStartStop(t *testing.T) {
	srv := newTestServer(t, testConfig(t))
	require.NoError(t, srv.Start(t.Context()))
	require.Error(t, srv.Start(t.Context()))

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + srv.Addr().String() + "/healthz")
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))
}

// slowSource answers Article after delay unless the request context ends
// first, the way the fetcher does.
type slowSource struct {
	stubSource
	delay time.Duration
}

func (s slowSource) Article(ctx context.Context, slug string) foundation.Result[*content.Article, *content.FetchError] {
	select {
	case <-time.After(s.delay):
		return s.stubSource.Article(ctx, slug)
	case <-ctx.Done():
		return foundation.Err[*content.Article](content.AsFetchError("/articles/"+slug, ctx.Err()))
	}
}

func TestStopDrainsInFlightRequests(t *testing.T) {
	srv := newTestServerWith(t, testConfig(t), slowSource{stubSource: testSource(), delay: 300 * time.Millisecond})
	runCtx, cancelRun := context.WithCancel(context.Background())
	require.NoError(t, srv.Start(runCtx))

	status := make(chan int, 1)
	go func() {
		client := &http.Client{Timeout: 5 * time.Second}
		resp, err := client.Get("http://" + srv.Addr().String() + "/articles/phi-bao-hiem-xe-may")
		if !assert.NoError(t, err) {
			status <- 0
			return
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		status <- resp.StatusCode
	}()

	time.Sleep(50 * time.Millisecond)
	cancelRun()
	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(stopCtx))

	assert.Equal(t, http.StatusOK, <-status)
}

func TestStartBindFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.Addr = "127.0.0.1:-1"
	srv := newTestServer(t, cfg)
	require.Error(t, srv.Start(t.Context()))
	require.NoError(t, srv.Stop(t.Context()))
}
