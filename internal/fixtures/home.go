package fixtures

// Product is a product news teaser in the life / non-life tabs.
type Product struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Company     string `yaml:"company"`
	Summary     string `yaml:"summary"`
	PublishedAt string `yaml:"published_at"`
	Href        string `yaml:"href"`
}

type ProductTabs struct {
	Life    []Product `yaml:"life"`
	NonLife []Product `yaml:"non_life"`
}

// Guide is a social-security guide card. Views is shown as a read count.
type Guide struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Href        string `yaml:"href"`
	Views       int64  `yaml:"views"`
}

// SocialSecurity is the guide grid. Links is the "learn more" block under
// the cards.
type SocialSecurity struct {
	Intro  string  `yaml:"intro"`
	Guides []Guide `yaml:"guides"`
	Links  []Link  `yaml:"links"`
}

// MarketShare is one insurer's share of premium revenue. Premium is in
// billions of dong. CompanySlug, when set, is matched against the content
// API company profiles.
type MarketShare struct {
	Company     string  `yaml:"company"`
	CompanySlug string  `yaml:"company_slug,omitempty"`
	Share       float64 `yaml:"share"`
	Premium     int64   `yaml:"premium"`
}

type InterestRate struct {
	Product string  `yaml:"product"`
	Company string  `yaml:"company"`
	Rate    float64 `yaml:"rate"`
}

// Stat is a headline figure of the market widget.
type Stat struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// Market is the data behind the home page market analysis widget.
type Market struct {
	Period  string         `yaml:"period"`
	Shares  []MarketShare  `yaml:"shares"`
	Summary []Stat         `yaml:"summary"`
	Rates   []InterestRate `yaml:"rates"`
	Note    string         `yaml:"note"`
	Source  string         `yaml:"source"`
	Updated string         `yaml:"updated"`
}

// HasProfiles reports whether any share row names a company profile.
func (m Market) HasProfiles() bool {
	for _, s := range m.Shares {
		if s.CompanySlug != "" {
			return true
		}
	}
	return false
}
