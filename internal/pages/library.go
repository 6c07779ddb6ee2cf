package pages

import (
	"html/template"
	"net/http"

	"github.com/insurancevn/insurancenews/internal/fixtures"
	"github.com/insurancevn/insurancenews/internal/library"
	"github.com/insurancevn/insurancenews/internal/seo"
)

// LibraryQuery is the widget state of /thu-vien, carried in the query
// string as q and location.
type LibraryQuery struct {
	Q        string
	Location string
}

type LibraryView struct {
	Query       string
	Location    string
	Locations   []fixtures.LocationOption
	Intro       template.HTML
	LegalDocs   []library.LegalDoc
	LeadReport  *library.Report
	Reports     []library.Report
	Hospitals   []library.Resource
	Garages     []library.Resource
	Forms       []library.Resource
	PolicyTerms []library.PolicyTerm
	FAQs        []seo.FAQ
}

// LibraryPage filters the fixture data sets. It makes no upstream calls.
// The lead report and the FAQ are always shown; the filter applies to the
// rest.
func (c *Composer) LibraryPage(q LibraryQuery) (*Page, error) {
	lib := c.fixtures.Get().Library

	location := q.Location
	if location == "" {
		location = library.AllLocations
	}
	view := LibraryView{
		Query:       q.Q,
		Location:    location,
		Locations:   lib.Locations,
		Intro:       lib.IntroHTML,
		LegalDocs:   library.FilterLegalDocs(lib.LegalDocs, q.Q),
		Hospitals:   library.FilterResources(lib.Hospitals, q.Q, location),
		Garages:     library.FilterResources(lib.Garages, q.Q, location),
		Forms:       library.FilterResources(lib.Forms, q.Q, location),
		PolicyTerms: library.FilterPolicyTerms(lib.PolicyTerms, q.Q),
		FAQs:        lib.FAQs,
	}
	if len(lib.Reports) > 0 {
		view.LeadReport = &lib.Reports[0]
		view.Reports = library.FilterReports(lib.Reports[1:], q.Q)
	}

	var schemas []any
	if len(lib.FAQs) > 0 {
		schemas = append(schemas, seo.FAQSchemaFor(lib.FAQs))
	}
	return c.finish(&Page{
		Name:        NameLibrary,
		Status:      http.StatusOK,
		Meta:        c.site.LibraryMetadata(),
		Breadcrumbs: seo.Breadcrumbs(seo.Crumb{Name: "Thư viện", URL: "/thu-vien"}),
		Body:        view,
	}, schemas...)
}
