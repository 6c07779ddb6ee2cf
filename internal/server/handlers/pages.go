package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	ferrors "github.com/insurancevn/insurancenews/internal/foundation/errors"
	"github.com/insurancevn/insurancenews/internal/logfields"
	"github.com/insurancevn/insurancenews/internal/metrics"
	"github.com/insurancevn/insurancenews/internal/pages"
)

const (
	htmlContentType = "text/html; charset=utf-8"
	pageCacheHeader = "no-cache, must-revalidate"

	notFoundTitle = "Không tìm thấy trang | Insurance Vietnam"
)

// PageHandlers serves the server-rendered pages.
type PageHandlers struct {
	composer     *pages.Composer
	renderer     *pages.Renderer
	recorder     metrics.Recorder
	errorAdapter *ferrors.HTTPErrorAdapter
}

func NewPageHandlers(composer *pages.Composer, renderer *pages.Renderer, recorder metrics.Recorder) *PageHandlers {
	return &PageHandlers{
		composer:     composer,
		renderer:     renderer,
		recorder:     metrics.OrNoop(recorder),
		errorAdapter: ferrors.NewHTTPErrorAdapter(slog.Default()),
	}
}

type composeFunc func(r *http.Request) (*pages.Page, error)

func (h *PageHandlers) HandleHome(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, pages.NameHome, func(r *http.Request) (*pages.Page, error) {
		return h.composer.HomePage(r.Context())
	})
}

func (h *PageHandlers) HandleArticle(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, pages.NameArticle, func(r *http.Request) (*pages.Page, error) {
		return h.composer.ArticlePage(r.Context(), r.PathValue("slug"))
	})
}

func (h *PageHandlers) HandleLegalDoc(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, pages.NameLegalDoc, func(r *http.Request) (*pages.Page, error) {
		return h.composer.LegalDocPage(r.Context(), r.PathValue("docNumber"))
	})
}

// HandlePillar serves /{pillar}. Segments that are not a configured pillar
// get the generic not-found page, so pillars added by a fixtures reload are
// live without re-registering routes.
func (h *PageHandlers) HandlePillar(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, pages.NamePillar, func(r *http.Request) (*pages.Page, error) {
		p, ok, err := h.composer.PillarPage(r.Context(), r.PathValue("pillar"))
		if err != nil || ok {
			return p, err
		}
		return h.notFound()
	})
}

func (h *PageHandlers) HandleLibrary(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, pages.NameLibrary, func(r *http.Request) (*pages.Page, error) {
		q := r.URL.Query()
		return h.composer.LibraryPage(pages.LibraryQuery{Q: q.Get("q"), Location: q.Get("location")})
	})
}

func (h *PageHandlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, pages.NameSearch, func(r *http.Request) (*pages.Page, error) {
		return h.composer.SearchPage(r.Context(), r.URL.Query().Get("q"))
	})
}

// HandleNotFound is the catch-all for unknown paths.
func (h *PageHandlers) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, pages.NameNotFound, func(*http.Request) (*pages.Page, error) {
		return h.notFound()
	})
}

func (h *PageHandlers) notFound() (*pages.Page, error) {
	return h.composer.NotFoundPage(notFoundTitle, pages.NotFoundView{
		Heading: "Không tìm thấy trang",
		Message: "Trang bạn tìm kiếm không tồn tại hoặc đã được di chuyển.",
	})
}

// serve composes, renders and writes a page. The document is rendered into
// a buffer first so a template failure becomes a clean 500.
func (h *PageHandlers) serve(w http.ResponseWriter, r *http.Request, name string, compose composeFunc) {
	start := time.Now()

	page, err := compose(r)
	if err == nil {
		var buf bytes.Buffer
		if err = h.renderer.Render(&buf, page); err == nil {
			status := h.write(w, r, page, buf.Bytes())
			h.recorder.ObservePageRender(page.Name, time.Since(start), status)
			return
		}
	}

	h.recorder.ObservePageRender(name, time.Since(start), http.StatusInternalServerError)
	if ce, ok := ferrors.AsClassified(err); ok {
		err = ce.WithContext("request_path", r.URL.Path)
	}
	h.errorAdapter.WriteErrorResponse(w, r, err)
}

func (h *PageHandlers) write(w http.ResponseWriter, r *http.Request, page *pages.Page, body []byte) int {
	w.Header().Set("Cache-Control", pageCacheHeader)
	if page.Status == http.StatusOK {
		etag, err := pageETag(page.Meta, body)
		if err != nil {
			slog.Warn("Failed to fingerprint page", logfields.Page(page.Name), logfields.Error(err))
		} else {
			w.Header().Set("ETag", etag)
			if etagMatches(r.Header.Get("If-None-Match"), etag) {
				w.WriteHeader(http.StatusNotModified)
				return http.StatusNotModified
			}
		}
	}
	writeBody(w, r, page.Status, htmlContentType, body)
	return page.Status
}
