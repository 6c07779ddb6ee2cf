package pages

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/insurancevn/insurancenews/internal/fixtures"
	ferrors "github.com/insurancevn/insurancenews/internal/foundation/errors"
	"github.com/insurancevn/insurancenews/internal/seo"
	"github.com/insurancevn/insurancenews/internal/vntext"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Renderer turns composed pages into HTML documents. Each page template is
// parsed once, together with the shared layout, at construction.
type Renderer struct {
	site     seo.Site
	fixtures *fixtures.Store
	pages    map[string]*template.Template
	now      func() time.Time
}

// layoutView is the data every template receives.
type layoutView struct {
	*Page
	Site   seo.Site
	Chrome *fixtures.Fixtures
	Year   int
}

var funcs = template.FuncMap{
	"join":  strings.Join,
	"count": vntext.FormatCount,
	"add":   func(a, b int) int { return a + b },
}

func NewRenderer(site seo.Site, store *fixtures.Store) (*Renderer, error) {
	r := &Renderer{
		site:     site,
		fixtures: store,
		pages:    make(map[string]*template.Template),
		now:      time.Now,
	}
	base, err := template.New("layout").Funcs(funcs).ParseFS(templateFS, "templates/layout.tmpl", "templates/partials.tmpl")
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to parse layout templates").Build()
	}
	for _, name := range []string{NameHome, NameArticle, NameLegalDoc, NamePillar, NameLibrary, NameSearch, NameNotFound} {
		clone, err := base.Clone()
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to clone layout").Build()
		}
		if _, err := clone.ParseFS(templateFS, "templates/"+name+".tmpl"); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to parse page template").
				WithContext("page", name).Build()
		}
		r.pages[name] = clone
	}
	return r, nil
}

// Render writes the full HTML document for p.
func (r *Renderer) Render(w io.Writer, p *Page) error {
	t, ok := r.pages[p.Name]
	if !ok {
		return ferrors.NewError(ferrors.CategoryRender, fmt.Sprintf("no template for page %q", p.Name)).Build()
	}
	data := layoutView{
		Page:   p,
		Site:   r.site,
		Chrome: r.fixtures.Get(),
		Year:   r.now().In(vntext.DisplayZone).Year(),
	}
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRender, "failed to render page").
			WithContext("page", p.Name).Build()
	}
	return nil
}
