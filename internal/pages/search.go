package pages

import (
	"context"
	"net/http"
	"strings"

	"github.com/insurancevn/insurancenews/internal/seo"
)

const searchLimit = 20

type SearchView struct {
	Query   string
	Results []ArticleCard
	// Failed is set when the search API could not answer, so the empty
	// state can say so instead of "no results".
	Failed bool
}

// SearchPage composes /search. A blank query renders the empty form without
// calling the API.
func (c *Composer) SearchPage(ctx context.Context, query string) (*Page, error) {
	q := strings.TrimSpace(query)
	view := SearchView{Query: q}
	if q != "" {
		res := c.source.SearchArticles(ctx, q, searchLimit)
		if res.IsErr() {
			view.Failed = !res.Error().NotFound()
			c.fallback("search", res.Error())
		}
		view.Results = articleCards(res.UnwrapOr(nil))
	}

	return c.finish(&Page{
		Name:        NameSearch,
		Status:      http.StatusOK,
		Meta:        c.site.SearchMetadata(q),
		Breadcrumbs: seo.Breadcrumbs(seo.Crumb{Name: "Tìm kiếm", URL: "/search"}),
		Body:        view,
	})
}
