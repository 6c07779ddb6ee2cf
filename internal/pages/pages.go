// Package pages composes the site's pages from content fetches, fixtures and
// SEO generators, and renders them with html/template.
//
// Composition never fails because an upstream call failed: every section has
// a fallback (a fixture, an empty list or a not-found page). Errors returned
// from a Composer are programming errors such as a schema that cannot be
// serialized.
package pages

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/insurancevn/insurancenews/internal/content"
	"github.com/insurancevn/insurancenews/internal/fixtures"
	"github.com/insurancevn/insurancenews/internal/foundation"
	ferrors "github.com/insurancevn/insurancenews/internal/foundation/errors"
	"github.com/insurancevn/insurancenews/internal/logfields"
	"github.com/insurancevn/insurancenews/internal/metrics"
	"github.com/insurancevn/insurancenews/internal/seo"
)

// Page names double as template names and metric labels.
const (
	NameHome     = "home"
	NameArticle  = "article"
	NameLegalDoc = "legal_doc"
	NamePillar   = "pillar"
	NameLibrary  = "library"
	NameSearch   = "search"
	NameNotFound = "not_found"
)

// Source is the lenient fetch surface the pages read from. *content.Fetcher
// satisfies it.
type Source interface {
	Article(ctx context.Context, slug string) foundation.Result[*content.Article, *content.FetchError]
	RelatedArticles(ctx context.Context, slug, category string) foundation.Result[[]content.Article, *content.FetchError]
	LegalDocument(ctx context.Context, docNumber string) foundation.Result[*content.LegalDocument, *content.FetchError]
	RelatedDocuments(ctx context.Context, docNumber string) foundation.Result[[]content.LegalDocument, *content.FetchError]
	FeaturedArticle(ctx context.Context) foundation.Result[*content.Article, *content.FetchError]
	LatestLegalDocs(ctx context.Context, limit int) foundation.Result[[]content.LegalDocument, *content.FetchError]
	CategoryArticles(ctx context.Context, category string, limit int) foundation.Result[[]content.Article, *content.FetchError]
	SearchArticles(ctx context.Context, query string, limit int) foundation.Result[[]content.Article, *content.FetchError]
	Companies(ctx context.Context) foundation.Result[[]content.Company, *content.FetchError]
}

// Page is a composed page ready to render. Body holds the page-specific view
// model consumed by the template named after the page.
type Page struct {
	Name        string
	Status      int
	Meta        seo.Metadata
	Schemas     []template.JS
	Breadcrumbs []seo.Crumb
	Body        any
}

// Composer builds pages. It is safe for concurrent use.
type Composer struct {
	source   Source
	fixtures *fixtures.Store
	site     seo.Site
	recorder metrics.Recorder
	logger   *slog.Logger
}

type ComposerOption func(*Composer)

func WithRecorder(r metrics.Recorder) ComposerOption {
	return func(c *Composer) { c.recorder = metrics.OrNoop(r) }
}

func WithLogger(l *slog.Logger) ComposerOption {
	return func(c *Composer) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewComposer(source Source, store *fixtures.Store, site seo.Site, opts ...ComposerOption) *Composer {
	c := &Composer{
		source:   source,
		fixtures: store,
		site:     site,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Site returns the site identity pages are built for.
func (c *Composer) Site() seo.Site { return c.site }

// Fixtures returns the current fixture data.
func (c *Composer) Fixtures() *fixtures.Fixtures { return c.fixtures.Get() }

// NotFoundView is the body of a not-found page.
type NotFoundView struct {
	Heading  string
	Message  string
	BackHref string
	BackText string
}

// NotFoundPage is served for unknown routes and missing records. It has no
// breadcrumbs.
func (c *Composer) NotFoundPage(title string, view NotFoundView) (*Page, error) {
	if view.BackHref == "" {
		view.BackHref, view.BackText = "/", "Về trang chủ"
	}
	return c.finish(&Page{
		Name:   NameNotFound,
		Status: http.StatusNotFound,
		Meta:   seo.NotFoundMetadata(title),
		Body:   view,
	})
}

// finish appends the breadcrumb and WebSite schemas that every page carries.
func (c *Composer) finish(p *Page, schemas ...any) (*Page, error) {
	if p.Status == 0 {
		p.Status = http.StatusOK
	}
	if len(p.Breadcrumbs) > 0 {
		schemas = append(schemas, c.site.BreadcrumbSchema(p.Breadcrumbs))
	}
	schemas = append(schemas, c.site.WebSiteSchema())
	for _, s := range schemas {
		js, err := seo.RenderSchema(s)
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryRender, "failed to serialize structured data").
				WithContext("page", p.Name).Build()
		}
		// #nosec G203 -- RenderSchema escapes <, > and & so the payload cannot leave the script element
		p.Schemas = append(p.Schemas, template.JS(js))
	}
	return p, nil
}

// fallback records a section rendered without live data.
func (c *Composer) fallback(section string, fe *content.FetchError) {
	c.recorder.IncFallback(section)
	if fe != nil && !fe.NotFound() {
		c.logger.Debug("Section falls back", logfields.Fallback(section), logfields.Error(fe))
	}
}

// trusted marks upstream HTML as safe. The content API is the site's own
// editorial backend.
func trusted(s string) template.HTML {
	// #nosec G203 -- article and legal bodies are authored in the site's own CMS
	return template.HTML(s)
}
