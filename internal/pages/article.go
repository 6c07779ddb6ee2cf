package pages

import (
	"context"
	"html/template"
	"net/http"

	"github.com/insurancevn/insurancenews/internal/content"
	"github.com/insurancevn/insurancenews/internal/seo"
	"github.com/insurancevn/insurancenews/internal/vntext"
)

const (
	notFoundArticleTitle = "Bài viết không tìm thấy | Insurance Vietnam"
	editorialAuthor      = "Ban biên tập"
)

// Badge is an inline disclaimer pill.
type Badge struct {
	Kind string
	Text string
}

var (
	legalBadge   = Badge{Kind: "legal", Text: "Tham khảo văn bản gốc tại TVPL"}
	productBadge = Badge{Kind: "product", Text: "Thông tin chỉ mang tính chất tham khảo"}
	opinionBadge = Badge{Kind: "opinion", Text: "Bài viết thể hiện quan điểm cá nhân"}
)

// ArticleCard is a teaser linking to an article.
type ArticleCard struct {
	Title    string
	Summary  string
	Href     string
	Image    string
	Date     string
	Category string
}

func articleCard(a *content.Article) ArticleCard {
	return ArticleCard{
		Title:    a.Title,
		Summary:  a.Summary,
		Href:     "/articles/" + a.Slug,
		Image:    a.FeaturedImageURL,
		Date:     vntext.FormatShortDateString(a.PublishedAt),
		Category: a.CategoryName,
	}
}

func articleCards(as []content.Article) []ArticleCard {
	cards := make([]ArticleCard, len(as))
	for i := range as {
		cards[i] = articleCard(&as[i])
	}
	return cards
}

// Attribution credits the source an article was rewritten from.
type Attribution struct {
	Source string
	URL    string
	Date   string
}

type ArticleView struct {
	Article     *content.Article
	BackHref    string
	Badge       *Badge
	Author      string
	Published   string
	Minutes     int
	Views       string
	Body        template.HTML
	AI          bool
	Disputed    bool
	Attribution *Attribution
	Related     []ArticleCard
}

// ArticlePage composes /articles/{slug}. A missing article yields a 404 page
// and the related list is not fetched.
func (c *Composer) ArticlePage(ctx context.Context, slug string) (*Page, error) {
	res := c.source.Article(ctx, slug)
	if res.IsErr() {
		return c.NotFoundPage(notFoundArticleTitle, NotFoundView{
			Heading: "Bài viết không tìm thấy",
			Message: "Bài viết bạn tìm kiếm không tồn tại hoặc đã bị gỡ bỏ.",
		})
	}
	a := res.Unwrap()

	related := c.source.RelatedArticles(ctx, a.Slug, a.Category)
	if related.IsErr() {
		c.fallback("related_articles", related.Error())
	}

	view := ArticleView{
		Article:   a,
		BackHref:  "/" + a.Category,
		Author:    a.Author,
		Published: vntext.FormatDateString(a.PublishedAt),
		Minutes:   a.EffectiveReadingTime(),
		Views:     vntext.FormatCount(a.ViewCount),
		Body:      trusted(a.Content),
		AI:        a.IsAIRewritten,
		Disputed:  a.IsDisputable,
		Related:   articleCards(related.UnwrapOr(nil)),
	}
	if view.Author == "" {
		view.Author = editorialAuthor
	}
	if a.IsAIRewritten {
		view.Badge = &productBadge
	}
	if a.HasAttribution() {
		view.Attribution = &Attribution{
			Source: a.OriginalSource,
			URL:    a.OriginalURL,
			Date:   vntext.FormatDateString(a.PublishedAt),
		}
	}

	return c.finish(&Page{
		Name:   NameArticle,
		Status: http.StatusOK,
		Meta:   c.site.ArticleMetadata(a),
		Breadcrumbs: seo.Breadcrumbs(
			seo.Crumb{Name: a.CategoryName, URL: "/" + a.Category},
			seo.Crumb{Name: a.Title, URL: "/articles/" + a.Slug},
		),
		Body: view,
	}, c.site.NewsArticleSchema(a))
}
