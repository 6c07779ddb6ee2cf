package content

import (
	"context"
	"net/url"
	"strconv"
)

// ArticleQuery filters the article list endpoint. Zero fields are omitted.
type ArticleQuery struct {
	Page       int
	Limit      int
	Category   string
	CategoryID string
	Search     string
	Exclude    string
	Featured   bool
	Sort       string
}

func (q ArticleQuery) encode() string {
	v := url.Values{}
	setInt(v, "page", q.Page)
	setInt(v, "limit", q.Limit)
	setString(v, "category", q.Category)
	setString(v, "category_id", q.CategoryID)
	setString(v, "search", q.Search)
	setString(v, "exclude", q.Exclude)
	if q.Featured {
		v.Set("featured", "true")
	}
	setString(v, "sort", q.Sort)
	return v.Encode()
}

// LegalDocQuery filters the legal document list endpoint.
type LegalDocQuery struct {
	Page       int
	Limit      int
	CategoryID string
	Year       int
	Related    string
	Sort       string
}

func (q LegalDocQuery) encode() string {
	v := url.Values{}
	setInt(v, "page", q.Page)
	setInt(v, "limit", q.Limit)
	setString(v, "category_id", q.CategoryID)
	setInt(v, "year", q.Year)
	setString(v, "related", q.Related)
	setString(v, "sort", q.Sort)
	return v.Encode()
}

func setInt(v url.Values, key string, n int) {
	if n > 0 {
		v.Set(key, strconv.Itoa(n))
	}
}

func setString(v url.Values, key, s string) {
	if s != "" {
		v.Set(key, s)
	}
}

func withQuery(path, query string) string {
	if query == "" {
		return path
	}
	return path + "?" + query
}

// Endpoint builders shared by the strict APIs, the Fetcher and cache
// invalidation.

func ArticlePath(slug string) string { return "/articles/" + url.PathEscape(slug) }

func ArticleListPath(q ArticleQuery) string { return withQuery("/articles", q.encode()) }

func LegalDocPath(docNumber string) string { return "/legal-docs/" + url.PathEscape(docNumber) }

func LegalDocListPath(q LegalDocQuery) string { return withQuery("/legal-docs", q.encode()) }

// ArticlesAPI wraps the article endpoints.
type ArticlesAPI struct{ c *Client }

func (c *Client) Articles() ArticlesAPI { return ArticlesAPI{c} }

func (a ArticlesAPI) List(ctx context.Context, q ArticleQuery) ([]Article, error) {
	return getList[Article](ctx, a.c, ArticleListPath(q))
}

func (a ArticlesAPI) BySlug(ctx context.Context, slug string) (*Article, error) {
	return getOne[Article](ctx, a.c, ArticlePath(slug))
}

func (a ArticlesAPI) Featured(ctx context.Context) ([]Article, error) {
	return getList[Article](ctx, a.c, "/articles/featured/list")
}

func (a ArticlesAPI) Trending(ctx context.Context) ([]Article, error) {
	return getList[Article](ctx, a.c, "/articles/trending/list")
}

// LegalDocsAPI wraps the legal document endpoints.
type LegalDocsAPI struct{ c *Client }

func (c *Client) LegalDocs() LegalDocsAPI { return LegalDocsAPI{c} }

func (l LegalDocsAPI) List(ctx context.Context, q LegalDocQuery) ([]LegalDocument, error) {
	return getList[LegalDocument](ctx, l.c, LegalDocListPath(q))
}

func (l LegalDocsAPI) ByDocNumber(ctx context.Context, docNumber string) (*LegalDocument, error) {
	return getOne[LegalDocument](ctx, l.c, LegalDocPath(docNumber))
}

func (l LegalDocsAPI) Recent(ctx context.Context) ([]LegalDocument, error) {
	return getList[LegalDocument](ctx, l.c, "/legal-docs/recent/list")
}

// CategoriesAPI wraps the category endpoints.
type CategoriesAPI struct{ c *Client }

func (c *Client) Categories() CategoriesAPI { return CategoriesAPI{c} }

func (k CategoriesAPI) List(ctx context.Context) ([]Category, error) {
	return getList[Category](ctx, k.c, "/categories")
}

func (k CategoriesAPI) BySlug(ctx context.Context, slug string) (*Category, error) {
	return getOne[Category](ctx, k.c, "/categories/"+url.PathEscape(slug))
}

// CompaniesAPI wraps the company endpoints.
type CompaniesAPI struct{ c *Client }

func (c *Client) Companies() CompaniesAPI { return CompaniesAPI{c} }

func (k CompaniesAPI) List(ctx context.Context, page int, companyType string) ([]Company, error) {
	return getList[Company](ctx, k.c, CompanyListPath(page, companyType))
}

// CompanyListPath is /companies with optional page and type filters.
func CompanyListPath(page int, companyType string) string {
	v := url.Values{}
	setInt(v, "page", page)
	setString(v, "type", companyType)
	return withQuery("/companies", v.Encode())
}

func (k CompaniesAPI) BySlug(ctx context.Context, slug string) (*Company, error) {
	return getOne[Company](ctx, k.c, "/companies/"+url.PathEscape(slug))
}

func getOne[T any](ctx context.Context, c *Client, endpoint string) (*T, error) {
	body, err := c.GetRaw(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	v, err := decodeOne[T](body)
	if err != nil {
		return nil, newDecodeError(endpoint, err)
	}
	return &v, nil
}

func getList[T any](ctx context.Context, c *Client, endpoint string) ([]T, error) {
	body, err := c.GetRaw(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	items, err := decodeList[T](body)
	if err != nil {
		return nil, newDecodeError(endpoint, err)
	}
	return items, nil
}
