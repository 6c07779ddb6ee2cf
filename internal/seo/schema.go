package seo

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/insurancevn/insurancenews/internal/content"
	"github.com/insurancevn/insurancenews/internal/vntext"
)

const (
	schemaContext = "https://schema.org"
	schemaLang    = "vi-VN"
)

// Thing is the common header of every schema.org node.
type Thing struct {
	Context string `json:"@context,omitempty"`
	Type    string `json:"@type"`
}

type ImageObject struct {
	Type   string `json:"@type"`
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

type Organization struct {
	Type string       `json:"@type"`
	Name string       `json:"name"`
	URL  string       `json:"url,omitempty"`
	Logo *ImageObject `json:"logo,omitempty"`
}

type Person struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type WebPageRef struct {
	Type string `json:"@type"`
	ID   string `json:"@id"`
}

type NamedThing struct {
	Type        string `json:"@type"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type NewsArticleSchema struct {
	Thing
	Headline         string       `json:"headline"`
	Description      string       `json:"description"`
	ArticleBody      string       `json:"articleBody"`
	URL              string       `json:"url"`
	DatePublished    string       `json:"datePublished"`
	DateModified     string       `json:"dateModified"`
	Author           Person       `json:"author"`
	Publisher        Organization `json:"publisher"`
	MainEntityOfPage WebPageRef   `json:"mainEntityOfPage"`
	Image            *ImageObject `json:"image,omitempty"`
	Keywords         string       `json:"keywords,omitempty"`
	ArticleSection   string       `json:"articleSection"`
	InLanguage       string       `json:"inLanguage"`
	CopyrightYear    int          `json:"copyrightYear,omitempty"`
	CopyrightHolder  Organization `json:"copyrightHolder"`
}

// NewsArticleSchema describes an article. Text fields are NFC-normalized. The
// copyright year is omitted when publishedAt does not parse.
func (s Site) NewsArticleSchema(a *content.Article) NewsArticleSchema {
	url := s.ArticleURL(a.Slug)
	author := a.Author
	if author == "" {
		author = s.DefaultAuthor
	}
	modified := a.UpdatedAt
	if modified == "" {
		modified = a.PublishedAt
	}

	out := NewsArticleSchema{
		Thing:         Thing{Context: schemaContext, Type: "NewsArticle"},
		Headline:      vntext.Normalize(a.Title),
		Description:   vntext.Normalize(a.Summary),
		ArticleBody:   vntext.Normalize(a.Content),
		URL:           url,
		DatePublished: a.PublishedAt,
		DateModified:  modified,
		Author:        Person{Type: "Person", Name: author},
		Publisher: Organization{
			Type: "Organization",
			Name: s.Name,
			Logo: &ImageObject{Type: "ImageObject", URL: s.Logo(), Width: 600, Height: 60},
		},
		MainEntityOfPage: WebPageRef{Type: "WebPage", ID: url},
		ArticleSection:   a.Category,
		InLanguage:       schemaLang,
		CopyrightHolder:  Organization{Type: "Organization", Name: s.Name},
	}
	if a.FeaturedImageURL != "" {
		out.Image = &ImageObject{Type: "ImageObject", URL: a.FeaturedImageURL, Width: ogImageWidth, Height: ogImageHeight}
	}
	if len(a.Tags) > 0 {
		out.Keywords = strings.Join(a.Tags, ", ")
	}
	if t, ok := vntext.ParseTime(a.PublishedAt); ok {
		out.CopyrightYear = t.Year()
	}
	return out
}

type LegislationSchema struct {
	Thing
	LegislationType         string        `json:"legislationType"`
	Name                    string        `json:"name"`
	Description             string        `json:"description"`
	Identifier              string        `json:"identifier"`
	LegislationDate         string        `json:"legislationDate"`
	DatePublished           string        `json:"datePublished"`
	LegislationDateVersion  string        `json:"legislationDateVersion"`
	LegislationPassedBy     *Organization `json:"legislationPassedBy,omitempty"`
	LegislationJurisdiction NamedThing    `json:"legislationJurisdiction"`
	InLanguage              string        `json:"inLanguage"`
	URL                     string        `json:"url"`
	MainEntityOfPage        WebPageRef    `json:"mainEntityOfPage"`
	Keywords                string        `json:"keywords,omitempty"`
	LegislationLegalForce   string        `json:"legislationLegalForce"`
	Publisher               Organization  `json:"publisher"`
	About                   NamedThing    `json:"about"`
}

// LegislationSchema describes a legal document. legislationPassedBy is only
// emitted for documents with an expiry date.
func (s Site) LegislationSchema(d *content.LegalDocument) LegislationSchema {
	url := s.LegalDocURL(d.DocumentNumber)
	force := "NotInForce"
	if d.Status.InForce() {
		force = "InForce"
	}

	out := LegislationSchema{
		Thing:                   Thing{Context: schemaContext, Type: "Legislation"},
		LegislationType:         vntext.Normalize(d.DocumentType),
		Name:                    vntext.Normalize(d.Title),
		Description:             vntext.Normalize(d.Summary),
		Identifier:              d.DocumentNumber,
		LegislationDate:         d.IssueDate,
		DatePublished:           d.IssueDate,
		LegislationDateVersion:  d.EffectiveDate,
		LegislationJurisdiction: NamedThing{Type: "AdministrativeArea", Name: "Vietnam"},
		InLanguage:              schemaLang,
		URL:                     url,
		MainEntityOfPage:        WebPageRef{Type: "WebPage", ID: url},
		LegislationLegalForce:   force,
		Publisher:               Organization{Type: "GovernmentOrganization", Name: d.IssuingBody, URL: d.SourceURL},
		About:                   NamedThing{Type: "Thing", Name: "Bảo hiểm Việt Nam", Description: "Vietnamese Insurance Regulations"},
	}
	if d.ExpiryDate != "" {
		out.LegislationPassedBy = &Organization{Type: "Organization", Name: d.IssuingBody}
	}
	if len(d.Tags) > 0 {
		out.Keywords = strings.Join(d.Tags, ", ")
	}
	return out
}

// Crumb is one step of a breadcrumb trail. URL is site-relative.
type Crumb struct {
	Name string
	URL  string
}

// Breadcrumbs prepends the home crumb to items.
func Breadcrumbs(items ...Crumb) []Crumb {
	return append([]Crumb{{Name: "Trang chủ", URL: "/"}}, items...)
}

type ListItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item"`
}

type BreadcrumbSchema struct {
	Thing
	ItemListElement []ListItem `json:"itemListElement"`
}

// BreadcrumbSchema numbers crumbs from 1. The home crumb is added unless
// the trail already starts at "/".
func (s Site) BreadcrumbSchema(crumbs []Crumb) BreadcrumbSchema {
	if len(crumbs) == 0 || crumbs[0].URL != "/" {
		crumbs = Breadcrumbs(crumbs...)
	}
	items := make([]ListItem, len(crumbs))
	for i, c := range crumbs {
		items[i] = ListItem{Type: "ListItem", Position: i + 1, Name: c.Name, Item: s.URL + c.URL}
	}
	return BreadcrumbSchema{
		Thing:           Thing{Context: schemaContext, Type: "BreadcrumbList"},
		ItemListElement: items,
	}
}

type PostalAddress struct {
	Type           string `json:"@type"`
	AddressCountry string `json:"addressCountry"`
	StreetAddress  string `json:"streetAddress"`
}

type OrganizationSchema struct {
	Thing
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Logo         string         `json:"logo,omitempty"`
	Image        string         `json:"image,omitempty"`
	URL          string         `json:"url,omitempty"`
	FoundingDate string         `json:"foundingDate,omitempty"`
	Address      *PostalAddress `json:"address,omitempty"`
	Telephone    string         `json:"telephone,omitempty"`
	Email        string         `json:"email,omitempty"`
	AreaServed   NamedThing     `json:"areaServed"`
}

// OrganizationSchemaFor describes an insurer as an InsuranceAgency. Empty
// profile fields are omitted.
func OrganizationSchemaFor(c *content.Company) OrganizationSchema {
	out := OrganizationSchema{
		Thing:        Thing{Context: schemaContext, Type: "InsuranceAgency"},
		Name:         c.Name,
		Description:  c.Description,
		Logo:         c.LogoURL,
		Image:        c.LogoURL,
		URL:          c.Website,
		FoundingDate: c.EstablishedDate,
		Telephone:    c.Phone,
		Email:        c.Email,
		AreaServed:   NamedThing{Type: "Country", Name: "Vietnam"},
	}
	if c.Address != "" {
		out.Address = &PostalAddress{Type: "PostalAddress", AddressCountry: "VN", StreetAddress: c.Address}
	}
	return out
}

// FAQ is one question and its answer.
type FAQ struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

type answer struct {
	Type string `json:"@type"`
	Text string `json:"text"`
}

type question struct {
	Type           string `json:"@type"`
	Name           string `json:"name"`
	AcceptedAnswer answer `json:"acceptedAnswer"`
}

type FAQSchema struct {
	Thing
	MainEntity []question `json:"mainEntity"`
}

func FAQSchemaFor(faqs []FAQ) FAQSchema {
	entities := make([]question, len(faqs))
	for i, f := range faqs {
		entities[i] = question{
			Type:           "Question",
			Name:           f.Question,
			AcceptedAnswer: answer{Type: "Answer", Text: f.Answer},
		}
	}
	return FAQSchema{Thing: Thing{Context: schemaContext, Type: "FAQPage"}, MainEntity: entities}
}

type entryPoint struct {
	Type        string `json:"@type"`
	URLTemplate string `json:"urlTemplate"`
}

type searchAction struct {
	Type       string     `json:"@type"`
	Target     entryPoint `json:"target"`
	QueryInput string     `json:"query-input"`
}

type WebSiteSchema struct {
	Thing
	Name            string       `json:"name"`
	AlternateName   string       `json:"alternateName"`
	URL             string       `json:"url"`
	Description     string       `json:"description"`
	InLanguage      string       `json:"inLanguage"`
	Publisher       Organization `json:"publisher"`
	PotentialAction searchAction `json:"potentialAction"`
}

// WebSiteSchema describes the site with its sitelinks search box.
func (s Site) WebSiteSchema() WebSiteSchema {
	return WebSiteSchema{
		Thing:         Thing{Context: schemaContext, Type: "WebSite"},
		Name:          s.Name,
		AlternateName: "Tin tức Bảo hiểm Việt Nam",
		URL:           s.URL,
		Description:   "Tin tức, phân tích và thông tin pháp luật về ngành bảo hiểm Việt Nam",
		InLanguage:    schemaLang,
		Publisher: Organization{
			Type: "Organization",
			Name: s.Name,
			Logo: &ImageObject{Type: "ImageObject", URL: s.Logo()},
		},
		PotentialAction: searchAction{
			Type:       "SearchAction",
			Target:     entryPoint{Type: "EntryPoint", URLTemplate: s.URL + "/search?q={search_term_string}"},
			QueryInput: "required name=search_term_string",
		},
	}
}

// RenderSchema serializes a schema for a <script type="application/ld+json">
// element. <, > and & are escaped so the payload cannot close the script.
func RenderSchema(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
