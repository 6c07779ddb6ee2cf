package pages

import (
	"context"
	"html/template"
	"net/http"

	"github.com/insurancevn/insurancenews/internal/content"
	"github.com/insurancevn/insurancenews/internal/fixtures"
	"github.com/insurancevn/insurancenews/internal/seo"
	"github.com/insurancevn/insurancenews/internal/vntext"
)

const (
	pillarLiveStories = 4
	pillarSecondary   = 3
)

// StoryCard is a teaser on a pillar page. Href is empty for fixture stories
// without a target.
type StoryCard struct {
	Title   string
	Summary string
	Tag     string
	Time    string
	Href    string
	Image   string
}

func fixtureStory(s fixtures.Story) StoryCard {
	return StoryCard{Title: s.Title, Summary: s.Summary, Tag: s.Tag, Time: s.Time, Href: s.Href}
}

func liveStory(a *content.Article) StoryCard {
	return StoryCard{
		Title:   a.Title,
		Summary: a.Summary,
		Tag:     a.CategoryName,
		Time:    vntext.FormatShortDateString(a.PublishedAt),
		Href:    "/articles/" + a.Slug,
		Image:   a.FeaturedImageURL,
	}
}

type StoryGroup struct {
	ID      string
	Label   string
	Heading string
	Lead    StoryCard
	Rest    []StoryCard
}

type PillarView struct {
	Name      string
	Slug      string
	Heading   string
	Section   string
	Intro     template.HTML
	Lead      StoryCard
	Secondary []StoryCard
	Groups    []StoryGroup
	Live      bool
}

// PillarPage composes /{slug} for one of the editorial pillars. The second
// return is false when slug is not a pillar.
func (c *Composer) PillarPage(ctx context.Context, slug string) (*Page, bool, error) {
	p, ok := c.fixtures.Get().Pillar(slug)
	if !ok {
		return nil, false, nil
	}

	view := PillarView{
		Name:    p.Name,
		Slug:    p.Slug,
		Heading: seo.SEOHeading(p.Name, p.Heading),
		Section: p.Section,
		Intro:   p.IntroHTML,
	}

	var live []content.Article
	if p.APICategory != "" {
		res := c.source.CategoryArticles(ctx, p.APICategory, pillarLiveStories)
		live = res.UnwrapOr(nil)
		if len(live) == 0 {
			c.fallback("pillar_"+p.Slug, res.Error())
		}
	}
	if len(live) > 0 {
		view.Live = true
		view.Lead = liveStory(&live[0])
		for i := 1; i < len(live) && len(view.Secondary) < pillarSecondary; i++ {
			view.Secondary = append(view.Secondary, liveStory(&live[i]))
		}
	} else {
		view.Lead = fixtureStory(p.Featured)
		for _, s := range p.Secondary {
			view.Secondary = append(view.Secondary, fixtureStory(s))
		}
	}

	for _, g := range p.Groups {
		sg := StoryGroup{ID: g.ID, Label: g.Label, Heading: seo.SEOHeading(g.Label, p.Heading)}
		for i, s := range g.Stories {
			if i == 0 {
				sg.Lead = fixtureStory(s)
				continue
			}
			sg.Rest = append(sg.Rest, fixtureStory(s))
		}
		view.Groups = append(view.Groups, sg)
	}

	page, err := c.finish(&Page{
		Name:        NamePillar,
		Status:      http.StatusOK,
		Meta:        c.site.CategoryMetadata(p.Name, p.Slug, p.Description),
		Breadcrumbs: seo.Breadcrumbs(seo.Crumb{Name: p.Name, URL: "/" + p.Slug}),
		Body:        view,
	})
	return page, true, err
}
