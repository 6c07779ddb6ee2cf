// Package library holds the resource-library records and the pure filters
// behind the library page search box and location select.
package library

import (
	"strings"

	"github.com/insurancevn/insurancenews/internal/vntext"
)

// AllLocations is the select value that disables location filtering.
const AllLocations = "all"

// ResourceKind separates the three resource tables.
type ResourceKind string

const (
	KindHospital ResourceKind = "hospital"
	KindGarage   ResourceKind = "garage"
	KindForm     ResourceKind = "form"
)

// Resource is a hospital, garage or downloadable form.
type Resource struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Kind        ResourceKind `yaml:"kind"`
	Location    string       `yaml:"location,omitempty"`
	Phone       string       `yaml:"phone,omitempty"`
	Website     string       `yaml:"website,omitempty"`
	DownloadURL string       `yaml:"download_url,omitempty"`
	Description string       `yaml:"description"`
}

// LegalDoc is a library listing entry, not the full API record.
type LegalDoc struct {
	ID      string `yaml:"id"`
	Code    string `yaml:"code"`
	Title   string `yaml:"title"`
	Type    string `yaml:"type"`
	Year    int    `yaml:"year"`
	Summary string `yaml:"summary"`
}

type Report struct {
	ID      string `yaml:"id"`
	Title   string `yaml:"title"`
	Period  string `yaml:"period"`
	Tag     string `yaml:"tag"`
	Summary string `yaml:"summary"`
}

type PolicyTerm struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	ProductType string `yaml:"product_type"`
	DownloadURL string `yaml:"download_url,omitempty"`
	Description string `yaml:"description"`
}

// FilterResources keeps resources whose name or description contains query
// and whose location contains location. The query is trimmed; an empty
// query, an empty or "all" location, and a resource without location all
// pass.
func FilterResources(resources []Resource, query, location string) []Resource {
	q := strings.TrimSpace(vntext.Lower(query))
	out := make([]Resource, 0, len(resources))
	for _, r := range resources {
		if !matchesQuery(r, q) || !matchesLocation(r, location) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesQuery(r Resource, q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(vntext.Lower(r.Name), q) || strings.Contains(vntext.Lower(r.Description), q)
}

func matchesLocation(r Resource, location string) bool {
	if location == "" || location == AllLocations || r.Location == "" {
		return true
	}
	return strings.Contains(r.Location, location)
}

// MatchesSearchText is the case-insensitive containment test used by the
// document, report and policy-term lists. The query is not trimmed.
func MatchesSearchText(text, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(vntext.Lower(text), vntext.Lower(query))
}

// Locations returns the distinct non-empty locations in first-seen order.
func Locations(resources []Resource) []string {
	seen := make(map[string]struct{}, len(resources))
	var out []string
	for _, r := range resources {
		if r.Location == "" {
			continue
		}
		if _, ok := seen[r.Location]; ok {
			continue
		}
		seen[r.Location] = struct{}{}
		out = append(out, r.Location)
	}
	return out
}

// FilterLegalDocs applies MatchesSearchText to code, title and summary.
func FilterLegalDocs(docs []LegalDoc, query string) []LegalDoc {
	out := make([]LegalDoc, 0, len(docs))
	for _, d := range docs {
		if MatchesSearchText(d.Code+" "+d.Title+" "+d.Summary, query) {
			out = append(out, d)
		}
	}
	return out
}

// FilterReports matches over title, summary, period and tag.
func FilterReports(reports []Report, query string) []Report {
	out := make([]Report, 0, len(reports))
	for _, r := range reports {
		if MatchesSearchText(r.Title+" "+r.Summary+" "+r.Period+" "+r.Tag, query) {
			out = append(out, r)
		}
	}
	return out
}

// FilterPolicyTerms applies MatchesSearchText to name, product type and
// description.
func FilterPolicyTerms(terms []PolicyTerm, query string) []PolicyTerm {
	out := make([]PolicyTerm, 0, len(terms))
	for _, t := range terms {
		if MatchesSearchText(t.Name+" "+t.ProductType+" "+t.Description, query) {
			out = append(out, t)
		}
	}
	return out
}
