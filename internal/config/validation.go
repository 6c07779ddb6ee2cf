package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	ferrors "github.com/insurancevn/insurancenews/internal/foundation/errors"
)

const minWarmupInterval = 30 * time.Second

// Validate checks invariants the rest of the service relies on. All problems
// are reported together.
func (c *Config) Validate() error {
	var problems []error

	if err := checkAbsoluteURL("site.url", c.Site.URL); err != nil {
		problems = append(problems, err)
	}
	if err := checkAbsoluteURL("api.base_url", c.API.BaseURL); err != nil {
		problems = append(problems, err)
	}
	if !strings.HasPrefix(c.API.Prefix, "/") {
		problems = append(problems, fmt.Errorf("api.prefix %q must start with /", c.API.Prefix))
	}
	if c.API.Timeout <= 0 {
		problems = append(problems, errors.New("api.timeout must be positive"))
	}

	windows := map[string]time.Duration{
		"cache.article":          c.Cache.Article,
		"cache.related_articles": c.Cache.RelatedArticles,
		"cache.legal_doc":        c.Cache.LegalDoc,
		"cache.related_docs":     c.Cache.RelatedDocs,
		"cache.home":             c.Cache.Home,
		"cache.companies":        c.Cache.Companies,
	}
	for _, name := range []string{"cache.article", "cache.related_articles", "cache.legal_doc", "cache.related_docs", "cache.home", "cache.companies"} {
		if windows[name] <= 0 {
			problems = append(problems, fmt.Errorf("%s must be positive", name))
		}
	}

	if c.Warmup.On() && c.Warmup.Interval < minWarmupInterval {
		problems = append(problems, fmt.Errorf("warmup.interval must be at least %s", minWarmupInterval))
	}
	if c.Invalidation.NATSURL != "" && c.Invalidation.Subject == "" {
		problems = append(problems, errors.New("invalidation.subject is required when nats_url is set"))
	}

	if len(problems) == 0 {
		return nil
	}
	return ferrors.WrapError(errors.Join(problems...), ferrors.CategoryConfig, "invalid configuration").
		Fatal().
		WithContext("problems", len(problems)).
		Build()
}

func checkAbsoluteURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s %q must be an http(s) URL", field, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s %q has no host", field, raw)
	}
	return nil
}
