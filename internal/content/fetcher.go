package content

import (
	"context"
	"log/slog"
	"time"

	"github.com/insurancevn/insurancenews/internal/cache"
	"github.com/insurancevn/insurancenews/internal/config"
	"github.com/insurancevn/insurancenews/internal/foundation"
	ferrors "github.com/insurancevn/insurancenews/internal/foundation/errors"
	"github.com/insurancevn/insurancenews/internal/logfields"
	"github.com/insurancevn/insurancenews/internal/metrics"
)

// Resource names used in logs, metrics and invalidation messages.
const (
	ResourceArticle          = "article"
	ResourceRelatedArticles  = "related_articles"
	ResourceLegalDoc         = "legal_doc"
	ResourceRelatedDocs      = "related_docs"
	ResourceFeaturedArticle  = "featured_article"
	ResourceLatestLegalDocs  = "latest_legal_docs"
	ResourceCategoryArticles = "category_articles"
	ResourceSearch           = "search"
	ResourceCompanies        = "companies"

	// InvalidateAll drops every cached response.
	InvalidateAll = "all"
)

const (
	relatedArticlesLimit = 3
	relatedDocsLimit     = 5
)

// Fetcher is the lenient, page-level tier over Client. Every method returns
// a Result; the Get* helpers apply the standard fallbacks (nil for a
// primary record, an empty slice for a list).
type Fetcher struct {
	client   *Client
	cache    *cache.Cache
	windows  config.CacheConfig
	recorder metrics.Recorder
	logger   *slog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

func WithRecorder(r metrics.Recorder) FetcherOption {
	return func(f *Fetcher) { f.recorder = metrics.OrNoop(r) }
}

func WithLogger(l *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFetcher wires a Fetcher. A nil cache disables caching.
func NewFetcher(client *Client, c *cache.Cache, windows config.CacheConfig, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:   client,
		cache:    c,
		windows:  windows,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Article fetches the article with slug.
func (f *Fetcher) Article(ctx context.Context, slug string) foundation.Result[*Article, *FetchError] {
	return fetchOne[Article](ctx, f, ResourceArticle, ArticlePath(slug), f.windows.Article)
}

// GetArticle returns nil when the article cannot be fetched for any reason.
func (f *Fetcher) GetArticle(ctx context.Context, slug string) *Article {
	return f.Article(ctx, slug).UnwrapOr(nil)
}

// RelatedArticles lists up to three articles of category, excluding slug.
func (f *Fetcher) RelatedArticles(ctx context.Context, slug, category string) foundation.Result[[]Article, *FetchError] {
	endpoint := ArticleListPath(ArticleQuery{Category: category, Limit: relatedArticlesLimit, Exclude: slug})
	return fetchList[Article](ctx, f, ResourceRelatedArticles, endpoint, f.windows.RelatedArticles)
}

// GetRelatedArticles never fails; errors yield an empty list.
func (f *Fetcher) GetRelatedArticles(ctx context.Context, slug, category string) []Article {
	return f.RelatedArticles(ctx, slug, category).UnwrapOr([]Article{})
}

// LegalDocument fetches a legal document by its number.
func (f *Fetcher) LegalDocument(ctx context.Context, docNumber string) foundation.Result[*LegalDocument, *FetchError] {
	return fetchOne[LegalDocument](ctx, f, ResourceLegalDoc, LegalDocPath(docNumber), f.windows.LegalDoc)
}

func (f *Fetcher) GetLegalDocument(ctx context.Context, docNumber string) *LegalDocument {
	return f.LegalDocument(ctx, docNumber).UnwrapOr(nil)
}

// RelatedDocuments lists up to five documents related to docNumber.
func (f *Fetcher) RelatedDocuments(ctx context.Context, docNumber string) foundation.Result[[]LegalDocument, *FetchError] {
	endpoint := LegalDocListPath(LegalDocQuery{Related: docNumber, Limit: relatedDocsLimit})
	return fetchList[LegalDocument](ctx, f, ResourceRelatedDocs, endpoint, f.windows.RelatedDocs)
}

func (f *Fetcher) GetRelatedDocuments(ctx context.Context, docNumber string) []LegalDocument {
	return f.RelatedDocuments(ctx, docNumber).UnwrapOr([]LegalDocument{})
}

// FeaturedArticle returns the current hero article. An empty list is an
// Err with category not_found so callers fall back the same way.
func (f *Fetcher) FeaturedArticle(ctx context.Context) foundation.Result[*Article, *FetchError] {
	endpoint := ArticleListPath(ArticleQuery{Featured: true, Limit: 1})
	res := fetchList[Article](ctx, f, ResourceFeaturedArticle, endpoint, f.windows.Home)
	if res.IsErr() {
		return foundation.Err[*Article](res.Error())
	}
	items := res.Unwrap()
	if len(items) == 0 {
		return foundation.Err[*Article](newEmptyError(endpoint))
	}
	return foundation.Ok[*Article, *FetchError](&items[0])
}

// LatestLegalDocs lists the most recently issued documents.
func (f *Fetcher) LatestLegalDocs(ctx context.Context, limit int) foundation.Result[[]LegalDocument, *FetchError] {
	endpoint := LegalDocListPath(LegalDocQuery{Limit: limit, Sort: "-issue_date"})
	return fetchList[LegalDocument](ctx, f, ResourceLatestLegalDocs, endpoint, f.windows.LegalDoc)
}

// CategoryArticles lists the newest articles of category.
func (f *Fetcher) CategoryArticles(ctx context.Context, category string, limit int) foundation.Result[[]Article, *FetchError] {
	endpoint := ArticleListPath(ArticleQuery{Category: category, Limit: limit, Sort: "-published_at"})
	return fetchList[Article](ctx, f, ResourceCategoryArticles, endpoint, f.windows.RelatedArticles)
}

// Companies lists the insurer profiles.
func (f *Fetcher) Companies(ctx context.Context) foundation.Result[[]Company, *FetchError] {
	return fetchList[Company](ctx, f, ResourceCompanies, CompanyListPath(0, ""), f.windows.Companies)
}

// SearchArticles runs a full-text search. Results are not cached.
func (f *Fetcher) SearchArticles(ctx context.Context, query string, limit int) foundation.Result[[]Article, *FetchError] {
	endpoint := ArticleListPath(ArticleQuery{Search: query, Limit: limit})
	return fetchList[Article](ctx, f, ResourceSearch, endpoint, 0)
}

// Invalidate drops cached responses for one record and every list that may
// contain it. kind is ResourceArticle, ResourceLegalDoc, ResourceCompanies or
// InvalidateAll; companies are always dropped as a whole.
// It returns the number of entries removed.
func (f *Fetcher) Invalidate(kind, key string) int {
	if f.cache == nil {
		return 0
	}
	switch kind {
	case ResourceArticle:
		n := f.cache.InvalidatePrefix(f.client.URL("/articles?"))
		if key != "" && f.cache.Invalidate(f.client.URL(ArticlePath(key))) {
			n++
		}
		return n
	case ResourceLegalDoc:
		n := f.cache.InvalidatePrefix(f.client.URL("/legal-docs?"))
		if key != "" && f.cache.Invalidate(f.client.URL(LegalDocPath(key))) {
			n++
		}
		return n
	case ResourceCompanies:
		return f.cache.InvalidatePrefix(f.client.URL("/companies"))
	case InvalidateAll:
		n := f.cache.Len()
		f.cache.Purge()
		return n
	default:
		return 0
	}
}

// CacheStats reports the underlying cache counters.
func (f *Fetcher) CacheStats() cache.Stats {
	if f.cache == nil {
		return cache.Stats{}
	}
	return f.cache.Stats()
}

func newEmptyError(endpoint string) *FetchError {
	return &FetchError{
		Endpoint:   endpoint,
		classified: ferrors.NotFoundError("empty list").WithContext("endpoint", endpoint).Build(),
	}
}

func fetchOne[T any](ctx context.Context, f *Fetcher, resource, endpoint string, ttl time.Duration) foundation.Result[*T, *FetchError] {
	body, ferr := f.load(ctx, resource, endpoint, ttl, func(b []byte) error {
		_, err := decodeOne[T](b)
		return err
	})
	if ferr != nil {
		return foundation.Err[*T](ferr)
	}
	v, err := decodeOne[T](body)
	if err != nil {
		return foundation.Err[*T](f.logFailure(resource, newDecodeError(endpoint, err)))
	}
	return foundation.Ok[*T, *FetchError](&v)
}

func fetchList[T any](ctx context.Context, f *Fetcher, resource, endpoint string, ttl time.Duration) foundation.Result[[]T, *FetchError] {
	body, ferr := f.load(ctx, resource, endpoint, ttl, func(b []byte) error {
		_, err := decodeList[T](b)
		return err
	})
	if ferr != nil {
		return foundation.Err[[]T](ferr)
	}
	items, err := decodeList[T](body)
	if err != nil {
		return foundation.Err[[]T](f.logFailure(resource, newDecodeError(endpoint, err)))
	}
	return foundation.Ok[[]T, *FetchError](items)
}

// load returns the response body for endpoint through the cache. validate
// runs before anything is cached so undecodable bodies are never stored. A
// ttl <= 0 bypasses the cache. Failures are logged by the loader, so a load
// shared by several requests is logged once.
func (f *Fetcher) load(ctx context.Context, resource, endpoint string, ttl time.Duration, validate func([]byte) error) ([]byte, *FetchError) {
	loader := func(ctx context.Context) ([]byte, error) {
		start := time.Now()
		body, err := f.client.GetRaw(ctx, endpoint)
		if err == nil {
			if verr := validate(body); verr != nil {
				err = newDecodeError(endpoint, verr)
			}
		}
		f.recorder.ObserveFetch(resource, time.Since(start), resultLabel(err))
		if err != nil {
			return nil, f.logFailure(resource, AsFetchError(endpoint, err))
		}
		return body, nil
	}

	if f.cache == nil || ttl <= 0 {
		f.recorder.IncCacheLookup(resource, metrics.CacheBypass)
		body, err := loader(ctx)
		if err != nil {
			return nil, AsFetchError(endpoint, err)
		}
		return body, nil
	}

	body, outcome, err := f.cache.Fetch(ctx, f.client.URL(endpoint), ttl, loader)
	f.recorder.IncCacheLookup(resource, metrics.CacheLabel(outcome))
	f.recorder.SetCacheEntries(f.cache.Len())
	if err != nil {
		if ctx.Err() != nil {
			f.logger.Debug("Content fetch abandoned by caller",
				logfields.Endpoint(endpoint), slog.String("resource", resource), logfields.Error(err))
		}
		return nil, AsFetchError(endpoint, err)
	}
	if outcome == cache.Stale {
		f.logger.Warn("Serving stale content after failed refresh",
			logfields.Endpoint(endpoint), slog.String("resource", resource))
	}
	return body, nil
}

func (f *Fetcher) logFailure(resource string, fe *FetchError) *FetchError {
	level := slog.LevelWarn
	if fe.NotFound() {
		level = slog.LevelInfo
	}
	f.logger.Log(context.Background(), level, "Content fetch failed",
		logfields.Endpoint(fe.Endpoint),
		slog.String("resource", resource),
		logfields.Category(string(fe.Category())),
		logfields.Error(fe))
	return fe
}

func resultLabel(err error) metrics.ResultLabel {
	switch {
	case err == nil:
		return metrics.ResultOK
	case ferrors.HasCategory(err, ferrors.CategoryNotFound):
		return metrics.ResultNotFound
	default:
		return metrics.ResultError
	}
}
