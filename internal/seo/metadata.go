package seo

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/insurancevn/insurancenews/internal/content"
	"github.com/insurancevn/insurancenews/internal/vntext"
)

const (
	ogImageWidth  = 1200
	ogImageHeight = 630

	// MetaDescriptionMax is the recommended description length.
	MetaDescriptionMax = 155
)

// Metadata is everything a page puts in <head>.
type Metadata struct {
	Title       string     `yaml:"title"`
	Description string     `yaml:"description,omitempty"`
	Keywords    string     `yaml:"keywords,omitempty"`
	Authors     []string   `yaml:"authors,omitempty"`
	Creator     string     `yaml:"creator,omitempty"`
	Publisher   string     `yaml:"publisher,omitempty"`
	Category    string     `yaml:"category,omitempty"`
	Canonical   string     `yaml:"canonical,omitempty"`
	OpenGraph   *OpenGraph `yaml:"open_graph,omitempty"`
	Twitter     *Twitter   `yaml:"twitter,omitempty"`
	Robots      *Robots    `yaml:"robots,omitempty"`
	Other       []MetaPair `yaml:"other,omitempty"`
}

type OpenGraph struct {
	Type          string   `yaml:"type"`
	URL           string   `yaml:"url"`
	Title         string   `yaml:"title"`
	Description   string   `yaml:"description"`
	SiteName      string   `yaml:"site_name"`
	PublishedTime string   `yaml:"published_time,omitempty"`
	ModifiedTime  string   `yaml:"modified_time,omitempty"`
	Authors       []string `yaml:"authors,omitempty"`
	Images        []Image  `yaml:"images"`
	Locale        string   `yaml:"locale"`
}

type Image struct {
	URL    string `yaml:"url"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Alt    string `yaml:"alt"`
}

type Twitter struct {
	Card        string   `yaml:"card"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Images      []string `yaml:"images"`
	Creator     string   `yaml:"creator"`
	Site        string   `yaml:"site"`
}

// Robots renders as the content of <meta name="robots">. Nil limits are
// left out.
type Robots struct {
	Index           bool   `yaml:"index"`
	Follow          bool   `yaml:"follow"`
	MaxImagePreview string `yaml:"max_image_preview,omitempty"`
	MaxSnippet      *int   `yaml:"max_snippet,omitempty"`
	MaxVideoPreview *int   `yaml:"max_video_preview,omitempty"`
}

func (r Robots) String() string {
	parts := []string{"noindex", "nofollow"}
	if r.Index {
		parts[0] = "index"
	}
	if r.Follow {
		parts[1] = "follow"
	}
	if r.MaxImagePreview != "" {
		parts = append(parts, "max-image-preview:"+r.MaxImagePreview)
	}
	if r.MaxSnippet != nil {
		parts = append(parts, "max-snippet:"+strconv.Itoa(*r.MaxSnippet))
	}
	if r.MaxVideoPreview != nil {
		parts = append(parts, "max-video-preview:"+strconv.Itoa(*r.MaxVideoPreview))
	}
	return strings.Join(parts, ", ")
}

// MetaPair is an extra <meta> tag. Order is preserved.
type MetaPair struct {
	Name    string `yaml:"name"`
	Content string `yaml:"content"`
}

func unlimited() *int {
	n := -1
	return &n
}

func richRobots() *Robots {
	return &Robots{Index: true, Follow: true, MaxImagePreview: "large", MaxSnippet: unlimited(), MaxVideoPreview: unlimited()}
}

func (s Site) ogImage(url, alt string) []Image {
	return []Image{{URL: url, Width: ogImageWidth, Height: ogImageHeight, Alt: alt}}
}

func (s Site) twitter(title, description, image string) *Twitter {
	return &Twitter{
		Card:        "summary_large_image",
		Title:       title,
		Description: description,
		Images:      []string{image},
		Creator:     s.TwitterHandle,
		Site:        s.TwitterHandle,
	}
}

// ArticleMetadata builds the head of an article page.
func (s Site) ArticleMetadata(a *content.Article) Metadata {
	url := s.ArticleURL(a.Slug)
	image := a.FeaturedImageURL
	if image == "" {
		image = s.DefaultImage()
	}
	author := a.Author
	if author == "" {
		author = s.DefaultAuthor
	}
	creator := a.Author
	if creator == "" {
		creator = s.Name
	}
	published := vntext.ISOTime(a.PublishedAt)
	modified := published
	if a.UpdatedAt != "" {
		modified = vntext.ISOTime(a.UpdatedAt)
	}

	other := []MetaPair{{"article:section", a.Category}}
	if published != "" {
		other = append(other, MetaPair{"article:published_time", published})
	}
	if modified != "" {
		other = append(other, MetaPair{"article:modified_time", modified})
	}
	if len(a.Tags) > 0 {
		other = append(other, MetaPair{"article:tag", strings.Join(a.Tags, ", ")})
	}

	return Metadata{
		Title:       a.Title + " | " + s.Name,
		Description: a.Summary,
		Keywords:    ExtractKeywords(a.Title, a.Summary, a.Tags),
		Authors:     []string{author},
		Creator:     creator,
		Publisher:   s.Name,
		Category:    a.Category,
		Canonical:   url,
		OpenGraph: &OpenGraph{
			Type:          "article",
			URL:           url,
			Title:         a.Title,
			Description:   a.Summary,
			SiteName:      s.Name,
			PublishedTime: published,
			ModifiedTime:  modified,
			Authors:       []string{author},
			Images:        s.ogImage(image, a.Title),
			Locale:        s.Locale,
		},
		Twitter: s.twitter(a.Title, a.Summary, image),
		Robots:  richRobots(),
		Other:   other,
	}
}

// LegalDocTitle is "{type} {number}: {title}".
func LegalDocTitle(d *content.LegalDocument) string {
	return d.DocumentType + " " + d.DocumentNumber + ": " + d.Title
}

// LegalDocMetadata builds the head of a legal document page. Keywords always
// carry the document number and issuing body.
func (s Site) LegalDocMetadata(d *content.LegalDocument) Metadata {
	url := s.LegalDocURL(d.DocumentNumber)
	fullTitle := LegalDocTitle(d)
	image := s.LegalImage()

	keywords := joinNonEmpty(", ",
		ExtractKeywords(d.Title, d.Summary, d.Tags),
		d.DocumentNumber,
		d.IssuingBody,
		"pháp luật bảo hiểm",
	)

	robots := richRobots()
	robots.MaxVideoPreview = nil

	return Metadata{
		Title:       fullTitle + " | Thư viện pháp luật | " + s.Name,
		Description: d.Summary,
		Keywords:    keywords,
		Canonical:   url,
		OpenGraph: &OpenGraph{
			Type:          "article",
			URL:           url,
			Title:         fullTitle,
			Description:   d.Summary,
			SiteName:      s.Name,
			PublishedTime: d.IssueDate,
			Images:        s.ogImage(image, fullTitle),
			Locale:        s.Locale,
		},
		Twitter: s.twitter(fullTitle, d.Summary, image),
		Robots:  robots,
		Other: []MetaPair{
			{"document:type", d.DocumentType},
			{"document:number", d.DocumentNumber},
			{"document:issuing_body", d.IssuingBody},
			{"document:issue_date", d.IssueDate},
			{"document:effective_date", d.EffectiveDate},
			{"document:status", string(d.Status)},
		},
	}
}

// CategoryMetadata builds the head of a section page served at /{slug}.
func (s Site) CategoryMetadata(name, slug, description string) Metadata {
	url := s.CanonicalURL(slug)
	image := s.CategoryImage(slug)
	return Metadata{
		Title:       name + " | " + s.Name,
		Description: description,
		Canonical:   url,
		OpenGraph: &OpenGraph{
			Type:        "website",
			URL:         url,
			Title:       name,
			Description: description,
			SiteName:    s.Name,
			Images:      s.ogImage(image, name),
			Locale:      s.Locale,
		},
		Twitter: s.twitter(name, description, image),
		Robots:  &Robots{Index: true, Follow: true},
	}
}

// HomeMetadata builds the head of the home page.
func (s Site) HomeMetadata() Metadata {
	image := s.DefaultImage()
	return Metadata{
		Title:       s.Name + " - Tin tức & Phân tích Bảo hiểm Việt Nam",
		Description: "Tin tức bảo hiểm nhân thọ, phi nhân thọ, BHXH, BHYT. Phân tích chính sách, đánh giá sản phẩm, và thông tin pháp luật mới nhất về ngành bảo hiểm Việt Nam.",
		Keywords:    "bảo hiểm việt nam, tin tức bảo hiểm, bảo hiểm nhân thọ, bảo hiểm phi nhân thọ, BHXH, BHYT, pháp luật bảo hiểm",
		Canonical:   s.URL,
		OpenGraph: &OpenGraph{
			Type:        "website",
			URL:         s.URL,
			Title:       s.Name + " - Tin tức Bảo hiểm Việt Nam",
			Description: "Nền tảng tin tức và phân tích chuyên sâu về ngành bảo hiểm Việt Nam",
			SiteName:    s.Name,
			Images:      s.ogImage(image, s.Name),
			Locale:      s.Locale,
		},
		Twitter: s.twitter(s.Name, "Tin tức & Phân tích Bảo hiểm Việt Nam", image),
		Robots:  richRobots(),
	}
}

// LibraryMetadata builds the head of the resource library.
func (s Site) LibraryMetadata() Metadata {
	url := s.CanonicalURL("/thu-vien")
	image := s.LibraryImage()
	return Metadata{
		Title:       "Thư viện Bảo hiểm | Tra cứu Bệnh viện, Garage, Biểu mẫu | " + s.Name,
		Description: "Tra cứu 1,200+ bệnh viện bảo lãnh viện phí, 850+ garage liên kết bảo hiểm ô tô, và 45+ biểu mẫu bảo hiểm. Công cụ tra cứu miễn phí cho người dùng bảo hiểm.",
		Keywords:    "bệnh viện bảo lãnh, garage bảo hiểm, biểu mẫu bảo hiểm, tra cứu bảo hiểm, danh sách bệnh viện, garage liên kết",
		Canonical:   url,
		OpenGraph: &OpenGraph{
			Type:        "website",
			URL:         url,
			Title:       "Thư viện Bảo hiểm - Tra cứu miễn phí",
			Description: "Tra cứu bệnh viện, garage, và biểu mẫu bảo hiểm - Cơ sở dữ liệu lớn nhất Việt Nam",
			SiteName:    s.Name,
			Images:      s.ogImage(image, "Thư viện Bảo hiểm"),
			Locale:      s.Locale,
		},
		Twitter: s.twitter("Thư viện Bảo hiểm", "Tra cứu bệnh viện, garage, biểu mẫu bảo hiểm", image),
		Robots:  &Robots{Index: true, Follow: true},
	}
}

// SearchMetadata builds the head of the search page. Result pages are not
// indexed.
func (s Site) SearchMetadata(query string) Metadata {
	title := "Tìm kiếm | " + s.Name
	if query != "" {
		title = "Tìm kiếm: " + query + " | " + s.Name
	}
	return Metadata{
		Title:     title,
		Canonical: s.CanonicalURL("/search"),
		Robots:    &Robots{Index: false, Follow: true},
	}
}

// NotFoundMetadata is the head of a not-found page: a title and nothing else.
func NotFoundMetadata(title string) Metadata {
	return Metadata{Title: title}
}

// MetaDescription shortens desc to MetaDescriptionMax characters, ending
// in "...". None of the generators apply it; callers opt in.
func MetaDescription(desc string) string {
	if utf8.RuneCountInString(desc) <= MetaDescriptionMax {
		return desc
	}
	runes := []rune(desc)
	return strings.TrimSpace(string(runes[:MetaDescriptionMax-3])) + "..."
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
