package handlers

import (
	"bytes"
	"context"
	"encoding/xml"
	"log/slog"
	"net/http"

	"github.com/insurancevn/insurancenews/internal/content"
	"github.com/insurancevn/insurancenews/internal/fixtures"
	ferrors "github.com/insurancevn/insurancenews/internal/foundation/errors"
	"github.com/insurancevn/insurancenews/internal/pages"
	"github.com/insurancevn/insurancenews/internal/seo"
	"github.com/insurancevn/insurancenews/internal/vntext"
)

const (
	sitemapNS            = "http://www.sitemaps.org/schemas/sitemap/0.9"
	sitemapArticlesLimit = 20
	sitemapLegalLimit    = 50
)

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// SEOHandlers serves robots.txt and sitemap.xml.
type SEOHandlers struct {
	source       pages.Source
	fixtures     *fixtures.Store
	site         seo.Site
	errorAdapter *ferrors.HTTPErrorAdapter
}

func NewSEOHandlers(source pages.Source, store *fixtures.Store, site seo.Site) *SEOHandlers {
	return &SEOHandlers{
		source:       source,
		fixtures:     store,
		site:         site,
		errorAdapter: ferrors.NewHTTPErrorAdapter(slog.Default()),
	}
}

func (h *SEOHandlers) HandleRobots(w http.ResponseWriter, r *http.Request) {
	body := "User-agent: *\nAllow: /\nDisallow: /search\n\nSitemap: " + h.site.URL + "/sitemap.xml\n"
	w.Header().Set("Cache-Control", "public, max-age=86400")
	writeBody(w, r, http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}

// HandleSitemap lists the static pages, the pillars, recent articles of
// every pillar and the latest legal documents. Upstream failures shrink the
// sitemap instead of failing it.
func (h *SEOHandlers) HandleSitemap(w http.ResponseWriter, r *http.Request) {
	set := urlSet{XMLNS: sitemapNS, URLs: h.entries(r.Context())}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r,
			ferrors.WrapError(err, ferrors.CategoryRender, "failed to encode sitemap").Build())
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeBody(w, r, http.StatusOK, "application/xml; charset=utf-8", buf.Bytes())
}

func (h *SEOHandlers) entries(ctx context.Context) []sitemapURL {
	seen := make(map[string]bool)
	var out []sitemapURL
	add := func(u sitemapURL) {
		if seen[u.Loc] {
			return
		}
		seen[u.Loc] = true
		out = append(out, u)
	}

	add(sitemapURL{Loc: h.site.URL, ChangeFreq: "hourly", Priority: "1.0"})
	fx := h.fixtures.Get()
	for _, p := range fx.Pillars {
		add(sitemapURL{Loc: h.site.CanonicalURL(p.Slug), ChangeFreq: "daily", Priority: "0.8"})
	}
	add(sitemapURL{Loc: h.site.CanonicalURL("/thu-vien"), ChangeFreq: "weekly", Priority: "0.7"})

	for _, p := range fx.Pillars {
		if p.APICategory == "" {
			continue
		}
		for _, a := range h.source.CategoryArticles(ctx, p.APICategory, sitemapArticlesLimit).UnwrapOr(nil) {
			add(sitemapURL{Loc: h.site.ArticleURL(a.Slug), LastMod: lastMod(a.UpdatedAt, a.PublishedAt), ChangeFreq: "weekly", Priority: "0.6"})
		}
	}
	for _, d := range h.source.LatestLegalDocs(ctx, sitemapLegalLimit).UnwrapOr(nil) {
		add(sitemapURL{Loc: h.site.LegalDocURL(d.DocumentNumber), LastMod: lastMod(d.EffectiveDate, d.IssueDate), ChangeFreq: "monthly", Priority: docPriority(d)})
	}
	return out
}

// lastMod returns the first of raws that parses, as an ISO timestamp.
func lastMod(raws ...string) string {
	for _, raw := range raws {
		if iso := vntext.ISOTime(raw); iso != "" {
			return iso
		}
	}
	return ""
}

func docPriority(d content.LegalDocument) string {
	if d.Status.InForce() {
		return "0.6"
	}
	return "0.4"
}
