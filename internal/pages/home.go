package pages

import (
	"context"
	"net/http"

	"github.com/insurancevn/insurancenews/internal/content"
	"github.com/insurancevn/insurancenews/internal/fixtures"
	"github.com/insurancevn/insurancenews/internal/seo"
	"github.com/insurancevn/insurancenews/internal/vntext"
)

const (
	homeLegalUpdates = 5
	placeholderImage = "/placeholder-news.jpg"
)

// Hero is the lead story of the home page.
type Hero struct {
	Title    string
	Summary  string
	Href     string
	Image    string
	Category string
	Date     string
	Fallback bool
}

// LegalUpdate is a row of the home page legal sidebar.
type LegalUpdate struct {
	Number  string
	Type    string
	Title   string
	Href    string
	InForce bool
	Date    string
}

// ProductCard is a teaser in one of the life / non-life tabs.
type ProductCard struct {
	Title   string
	Company string
	Summary string
	Href    string
	Date    string
}

type ProductTab struct {
	ID        string
	Label     string
	Products  []ProductCard
	MoreHref  string
	MoreLabel string
}

type GuideCard struct {
	Title       string
	Description string
	Href        string
	Views       string
}

type SocialSecurityView struct {
	Intro  string
	Guides []GuideCard
	Links  []fixtures.Link
}

// ShareRow is a market share table row. Href is the insurer's website when
// the content API has a profile for it.
type ShareRow struct {
	Company string
	Href    string
	Share   string
	Percent float64
	Premium string
}

type RateRow struct {
	Product string
	Company string
	Rate    string
	Stars   string
}

type MarketView struct {
	Period  string
	Shares  []ShareRow
	Summary []fixtures.Stat
	Rates   []RateRow
	Note    string
	Source  string
	Updated string
}

type HomeView struct {
	Hero           Hero
	PillarStories  []fixtures.PillarStory
	LegalUpdates   []LegalUpdate
	HotTopics      []string
	ProductTabs    []ProductTab
	SocialSecurity SocialSecurityView
	Market         MarketView
}

func hero(a *content.Article, fallback bool) Hero {
	h := Hero{
		Title:    a.Title,
		Summary:  a.Summary,
		Href:     "/articles/" + a.Slug,
		Image:    a.FeaturedImageURL,
		Category: a.CategoryName,
		Date:     vntext.FormatShortDateString(a.PublishedAt),
		Fallback: fallback,
	}
	if h.Image == "" {
		h.Image = placeholderImage
	}
	if h.Category == "" {
		h.Category = "Tin tức"
	}
	return h
}

// HomePage composes /. The hero always has a story: the featured article
// when the API has one, otherwise the fixture fallback. The product tabs,
// social-security guides and market data come from fixtures; insurers in the
// market table that have an API profile are linked and described with
// InsuranceAgency structured data.
func (c *Composer) HomePage(ctx context.Context) (*Page, error) {
	fx := c.fixtures.Get()

	var view HomeView
	if res := c.source.FeaturedArticle(ctx); res.IsOk() {
		view.Hero = hero(res.Unwrap(), false)
	} else {
		c.fallback("hero", res.Error())
		view.Hero = hero(&fx.HeroFallback, true)
	}

	docs := c.source.LatestLegalDocs(ctx, homeLegalUpdates)
	if docs.IsErr() {
		c.fallback("legal_updates", docs.Error())
	}
	for _, d := range docs.UnwrapOr(nil) {
		view.LegalUpdates = append(view.LegalUpdates, LegalUpdate{
			Number:  d.DocumentNumber,
			Type:    d.DocumentType,
			Title:   d.Title,
			Href:    "/legal-docs/" + d.DocumentNumber,
			InForce: d.Status.InForce(),
			Date:    vntext.FormatShortDateString(d.IssueDate),
		})
	}
	view.PillarStories = fx.PillarStories
	view.HotTopics = fx.HotTopics
	view.ProductTabs = productTabs(fx.Products)
	view.SocialSecurity = socialSecurity(fx.SocialSecurity)

	var profiles map[string]content.Company
	if fx.Market.HasProfiles() {
		companies := c.source.Companies(ctx)
		if companies.IsErr() {
			c.fallback("companies", companies.Error())
		}
		profiles = make(map[string]content.Company)
		for _, co := range companies.UnwrapOr(nil) {
			profiles[co.Slug] = co
		}
	}
	var schemas []any
	view.Market, schemas = market(fx.Market, profiles)

	return c.finish(&Page{
		Name:   NameHome,
		Status: http.StatusOK,
		Meta:   c.site.HomeMetadata(),
		Body:   view,
	}, schemas...)
}

func productTabs(p fixtures.ProductTabs) []ProductTab {
	tab := func(id, label string, products []fixtures.Product) ProductTab {
		t := ProductTab{
			ID:        id,
			Label:     label,
			MoreHref:  "/thuong-mai?type=" + id,
			MoreLabel: "Xem tất cả sản phẩm " + label,
		}
		for _, pr := range products {
			t.Products = append(t.Products, ProductCard{
				Title:   pr.Title,
				Company: pr.Company,
				Summary: pr.Summary,
				Href:    pr.Href,
				Date:    vntext.FormatShortDateString(pr.PublishedAt),
			})
		}
		return t
	}
	var tabs []ProductTab
	if len(p.Life) > 0 {
		tabs = append(tabs, tab("life", "Nhân thọ", p.Life))
	}
	if len(p.NonLife) > 0 {
		tabs = append(tabs, tab("non-life", "Phi nhân thọ", p.NonLife))
	}
	return tabs
}

func socialSecurity(s fixtures.SocialSecurity) SocialSecurityView {
	view := SocialSecurityView{Intro: s.Intro, Links: s.Links}
	for _, g := range s.Guides {
		view.Guides = append(view.Guides, GuideCard{
			Title:       g.Title,
			Description: g.Description,
			Href:        g.Href,
			Views:       vntext.FormatCount(g.Views),
		})
	}
	return view
}

// market builds the widget rows and one InsuranceAgency schema per insurer
// found in profiles.
func market(m fixtures.Market, profiles map[string]content.Company) (MarketView, []any) {
	view := MarketView{
		Period:  m.Period,
		Summary: m.Summary,
		Note:    m.Note,
		Source:  m.Source,
		Updated: m.Updated,
	}
	var schemas []any
	for _, s := range m.Shares {
		row := ShareRow{
			Company: s.Company,
			Share:   vntext.FormatDecimal(s.Share) + "%",
			Percent: s.Share,
			Premium: vntext.FormatCount(s.Premium) + " tỷ",
		}
		if co, ok := profiles[s.CompanySlug]; s.CompanySlug != "" && ok {
			row.Href = co.Website
			schemas = append(schemas, seo.OrganizationSchemaFor(&co))
		}
		view.Shares = append(view.Shares, row)
	}
	for _, r := range m.Rates {
		view.Rates = append(view.Rates, RateRow{
			Product: r.Product,
			Company: r.Company,
			Rate:    vntext.FormatDecimal(r.Rate) + "%/năm",
			Stars:   rateStars(r.Rate),
		})
	}
	return view, schemas
}

func rateStars(rate float64) string {
	switch {
	case rate >= 8:
		return "⭐⭐⭐"
	case rate >= 7:
		return "⭐⭐"
	default:
		return "⭐"
	}
}
