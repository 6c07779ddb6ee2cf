package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/insurancevn/insurancenews/internal/config"
	"github.com/insurancevn/insurancenews/internal/content"
	"github.com/insurancevn/insurancenews/internal/fixtures"
	ferrors "github.com/insurancevn/insurancenews/internal/foundation/errors"
)

// ValidateCmd implements the 'validate' command.
type ValidateCmd struct {
	CheckAPI bool          `name:"check-api" help:"Also fetch the home page lists from the content API and check the pillar categories exist"`
	Timeout  time.Duration `help:"Deadline for the API check" default:"15s"`
}

func (v *ValidateCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	st, err := newSite(cfg, g.Logger)
	if err != nil {
		return err
	}

	fx := st.fixtures.Get()
	fmt.Printf("Configuration OK (%s)\n", root.Config)
	fmt.Printf("Fixtures OK: %d pillars, %d hot topics, %d legal docs, %d reports\n",
		len(fx.Pillars), len(fx.HotTopics), len(fx.Library.LegalDocs), len(fx.Library.Reports))

	if !v.CheckAPI {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), v.Timeout)
	defer cancel()

	failed := 0
	if _, fe := st.fetcher.LatestLegalDocs(ctx, 5).ToTuple(); fe != nil {
		fmt.Printf("  legal docs: %v\n", fe)
		failed++
	}
	for _, p := range fx.Pillars {
		if p.APICategory == "" {
			continue
		}
		if _, fe := st.fetcher.CategoryArticles(ctx, p.APICategory, 1).ToTuple(); fe != nil {
			fmt.Printf("  %s: %v\n", p.Slug, fe)
			failed++
		}
	}
	failed += checkCategories(ctx, st.client, fx.Pillars)
	if failed > 0 {
		return ferrors.NetworkError(fmt.Sprintf("content API check failed for %d endpoints", failed)).
			WithContext("api", cfg.API.BaseURL).Build()
	}
	fmt.Printf("Content API OK (%s)\n", cfg.API.BaseURL+cfg.API.Prefix)
	return nil
}

// checkCategories reports pillars whose api_category the content API does
// not know. It returns the number of problems.
func checkCategories(ctx context.Context, client *content.Client, pillars []fixtures.Pillar) int {
	cats, err := client.Categories().List(ctx)
	if err != nil {
		fmt.Printf("  categories: %v\n", err)
		return 1
	}
	known := make(map[string]bool, len(cats))
	for _, c := range cats {
		known[c.Slug] = true
	}
	failed := 0
	for _, p := range pillars {
		if p.APICategory != "" && !known[p.APICategory] {
			fmt.Printf("  %s: category %q is unknown to the content API\n", p.Slug, p.APICategory)
			failed++
		}
	}
	return failed
}
