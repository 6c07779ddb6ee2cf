// Package fixtures holds the static and fallback data the site renders when
// the content API has nothing to offer: pillar stories, the hero fallback,
// navigation, library data sets and the disclaimer text.
//
// Fixtures are plain YAML. The embedded default.yaml ships with the binary;
// a file on disk can replace it and is hot-reloaded by Watcher.
package fixtures

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"

	"github.com/insurancevn/insurancenews/internal/content"
	ferrors "github.com/insurancevn/insurancenews/internal/foundation/errors"
	"github.com/insurancevn/insurancenews/internal/library"
	"github.com/insurancevn/insurancenews/internal/seo"
)

//go:embed default.yaml
var defaultYAML []byte

// Story is a teaser shown on pillar pages and the home page.
type Story struct {
	ID      string `yaml:"id"`
	Title   string `yaml:"title"`
	Summary string `yaml:"summary,omitempty"`
	Tag     string `yaml:"tag,omitempty"`
	Time    string `yaml:"time,omitempty"`
	Href    string `yaml:"href,omitempty"`
}

// Group is one titled section of a pillar page.
type Group struct {
	ID      string  `yaml:"id"`
	Label   string  `yaml:"label"`
	Stories []Story `yaml:"stories"`
}

// Pillar is one of the four editorial sections served at /{slug}.
type Pillar struct {
	Slug string `yaml:"slug"`
	Name string `yaml:"name"`
	// Heading selects the trending keyword groups used in section headings.
	Heading string `yaml:"heading"`
	// APICategory is the content API category queried for live stories.
	APICategory string  `yaml:"api_category"`
	Description string  `yaml:"description"`
	Section     string  `yaml:"section"`
	Intro       string  `yaml:"intro,omitempty"`
	Featured    Story   `yaml:"featured"`
	Secondary   []Story `yaml:"secondary"`
	Groups      []Group `yaml:"groups"`

	IntroHTML template.HTML `yaml:"-"`
}

// PillarStory is a home-page teaser labelled with its pillar.
type PillarStory struct {
	Pillar  string `yaml:"pillar"`
	Label   string `yaml:"label"`
	Title   string `yaml:"title"`
	Summary string `yaml:"summary"`
	Href    string `yaml:"href"`
}

type Link struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

// NavPillar is a header menu entry with its submenu.
type NavPillar struct {
	Name          string `yaml:"name"`
	Slug          string `yaml:"slug"`
	Description   string `yaml:"description"`
	SubCategories []Link `yaml:"sub_categories"`
}

type LinkGroup struct {
	Title string `yaml:"title"`
	Links []Link `yaml:"links"`
}

type Footer struct {
	About    string      `yaml:"about"`
	Email    string      `yaml:"email"`
	Phone    string      `yaml:"phone"`
	Address  string      `yaml:"address"`
	Groups   []LinkGroup `yaml:"groups"`
	External []Link      `yaml:"external"`
	Legal    []Link      `yaml:"legal"`
	Notice   string      `yaml:"notice"`
}

// DisclaimerBox is one boxed paragraph of the disclaimer footer. Body is
// Markdown.
type DisclaimerBox struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`

	BodyHTML template.HTML `yaml:"-"`
}

type Disclaimer struct {
	Title string          `yaml:"title"`
	Intro string          `yaml:"intro"`
	Boxes []DisclaimerBox `yaml:"boxes"`
	Note  string          `yaml:"note"`
	Links []Link          `yaml:"links"`

	IntroHTML template.HTML `yaml:"-"`
	NoteHTML  template.HTML `yaml:"-"`
}

// LocationOption is an entry of the library location select.
type LocationOption struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

type Library struct {
	Intro       string               `yaml:"intro"`
	Hospitals   []library.Resource   `yaml:"hospitals"`
	Garages     []library.Resource   `yaml:"garages"`
	Forms       []library.Resource   `yaml:"forms"`
	LegalDocs   []library.LegalDoc   `yaml:"legal_docs"`
	Reports     []library.Report     `yaml:"reports"`
	PolicyTerms []library.PolicyTerm `yaml:"policy_terms"`
	Locations   []LocationOption     `yaml:"locations"`
	FAQs        []seo.FAQ            `yaml:"faqs"`

	IntroHTML template.HTML `yaml:"-"`
}

// Fixtures is the whole data set. A loaded value is never mutated.
type Fixtures struct {
	HeroFallback   content.Article `yaml:"hero_fallback"`
	PillarStories  []PillarStory   `yaml:"pillar_stories"`
	HotTopics      []string        `yaml:"hot_topics"`
	Products       ProductTabs     `yaml:"products"`
	SocialSecurity SocialSecurity  `yaml:"social_security"`
	Market         Market          `yaml:"market"`
	Pillars        []Pillar        `yaml:"pillars"`
	Navigation     []NavPillar     `yaml:"navigation"`
	Footer         Footer          `yaml:"footer"`
	Library        Library         `yaml:"library"`
	Disclaimer     Disclaimer      `yaml:"disclaimer"`
}

// Pillar returns the pillar served at slug.
func (f *Fixtures) Pillar(slug string) (*Pillar, bool) {
	for i := range f.Pillars {
		if f.Pillars[i].Slug == slug {
			return &f.Pillars[i], true
		}
	}
	return nil, false
}

// Default parses the embedded fixtures.
func Default() (*Fixtures, error) {
	return Parse(defaultYAML)
}

// Parse decodes, validates and renders a fixtures document. Unknown keys
// are rejected so typos surface at load time.
func Parse(data []byte) (*Fixtures, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f Fixtures
	if err := dec.Decode(&f); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryValidation, "failed to decode fixtures").Build()
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	if err := f.render(); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to render fixture markdown").Build()
	}
	return &f, nil
}

func (f *Fixtures) validate() error {
	var problems []error
	if f.HeroFallback.Slug == "" || f.HeroFallback.Title == "" {
		problems = append(problems, errors.New("hero_fallback needs a title and a slug"))
	}
	seen := make(map[string]bool)
	for _, p := range f.Pillars {
		if p.Slug == "" || p.Name == "" {
			problems = append(problems, errors.New("every pillar needs a slug and a name"))
			continue
		}
		if seen[p.Slug] {
			problems = append(problems, fmt.Errorf("duplicate pillar %q", p.Slug))
		}
		seen[p.Slug] = true
		if p.Featured.Title == "" {
			problems = append(problems, fmt.Errorf("pillar %q has no featured story", p.Slug))
		}
	}
	for _, r := range f.Library.Hospitals {
		if r.Kind != library.KindHospital {
			problems = append(problems, fmt.Errorf("library hospital %q has kind %q", r.ID, r.Kind))
		}
	}
	for _, r := range f.Library.Garages {
		if r.Kind != library.KindGarage {
			problems = append(problems, fmt.Errorf("library garage %q has kind %q", r.ID, r.Kind))
		}
	}
	for _, r := range f.Library.Forms {
		if r.Kind != library.KindForm {
			problems = append(problems, fmt.Errorf("library form %q has kind %q", r.ID, r.Kind))
		}
	}
	for _, p := range append(append([]Product(nil), f.Products.Life...), f.Products.NonLife...) {
		if p.Title == "" || p.Href == "" {
			problems = append(problems, fmt.Errorf("product %q needs a title and an href", p.ID))
		}
	}
	var total float64
	for _, s := range f.Market.Shares {
		if s.Share < 0 || s.Share > 100 {
			problems = append(problems, fmt.Errorf("market share of %q is %v%%", s.Company, s.Share))
		}
		total += s.Share
	}
	if total > 100.05 {
		problems = append(problems, fmt.Errorf("market shares add up to %.1f%%", total))
	}
	for _, q := range f.Library.FAQs {
		if q.Question == "" || q.Answer == "" {
			problems = append(problems, errors.New("every library FAQ needs a question and an answer"))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return ferrors.WrapError(errors.Join(problems...), ferrors.CategoryValidation, "invalid fixtures").
		WithContext("problems", len(problems)).Build()
}

func (f *Fixtures) render() error {
	md := goldmark.New()
	conv := func(src string) (template.HTML, error) {
		if src == "" {
			return "", nil
		}
		var buf bytes.Buffer
		if err := md.Convert([]byte(src), &buf); err != nil {
			return "", err
		}
		// #nosec G203 -- fixtures are operator-supplied and goldmark drops raw HTML by default
		return template.HTML(buf.String()), nil
	}

	var err error
	for i := range f.Pillars {
		if f.Pillars[i].IntroHTML, err = conv(f.Pillars[i].Intro); err != nil {
			return err
		}
	}
	for i := range f.Disclaimer.Boxes {
		if f.Disclaimer.Boxes[i].BodyHTML, err = conv(f.Disclaimer.Boxes[i].Body); err != nil {
			return err
		}
	}
	if f.Disclaimer.IntroHTML, err = conv(f.Disclaimer.Intro); err != nil {
		return err
	}
	if f.Disclaimer.NoteHTML, err = conv(f.Disclaimer.Note); err != nil {
		return err
	}
	if f.Library.IntroHTML, err = conv(f.Library.Intro); err != nil {
		return err
	}
	return nil
}
