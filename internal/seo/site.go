// Package seo builds page metadata and schema.org JSON-LD graphs from
// content records. Every function is a pure transform of its input.
package seo

import (
	"strings"

	"github.com/insurancevn/insurancenews/internal/config"
)

// Site carries the values that end up in absolute URLs and metadata.
type Site struct {
	Name          string
	URL           string
	TwitterHandle string
	Locale        string
	DefaultAuthor string
}

// NewSite builds a Site from configuration. Missing values fall back to the
// production defaults.
func NewSite(cfg config.SiteConfig) Site {
	s := Site{
		Name:          cfg.Name,
		URL:           strings.TrimSuffix(cfg.URL, "/"),
		TwitterHandle: cfg.TwitterHandle,
		Locale:        cfg.Locale,
		DefaultAuthor: cfg.DefaultAuthor,
	}
	if s.Name == "" {
		s.Name = config.DefaultSiteName
	}
	if s.URL == "" {
		s.URL = config.DefaultSiteURL
	}
	if s.TwitterHandle == "" {
		s.TwitterHandle = config.DefaultTwitterHandle
	}
	if s.Locale == "" {
		s.Locale = config.DefaultLocale
	}
	if s.DefaultAuthor == "" {
		s.DefaultAuthor = config.DefaultAuthor
	}
	return s
}

func (s Site) DefaultImage() string { return s.URL + "/og-default.png" }
func (s Site) LegalImage() string   { return s.URL + "/og-legal.png" }
func (s Site) LibraryImage() string { return s.URL + "/og-library.png" }
func (s Site) Logo() string         { return s.URL + "/logo.png" }

func (s Site) CategoryImage(slug string) string {
	return s.URL + "/og-category-" + slug + ".png"
}

// CanonicalURL joins path onto the site origin, adding the leading slash
// when it is missing.
func (s Site) CanonicalURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return s.URL + path
}

func (s Site) ArticleURL(slug string) string { return s.URL + "/articles/" + slug }

func (s Site) LegalDocURL(docNumber string) string { return s.URL + "/legal-docs/" + docNumber }
