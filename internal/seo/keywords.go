package seo

import (
	"strings"

	"github.com/insurancevn/insurancenews/internal/vntext"
)

// KeywordGroup is a named list of search phrases that currently trend.
type KeywordGroup struct {
	Name     string
	Keywords []string
}

// TrendingKeywords is ordered; extraction walks groups and phrases in this
// order so output is stable.
var TrendingKeywords = []KeywordGroup{
	{"fraud", []string{"bảo hiểm lừa đảo", "chiêu trò bảo hiểm", "lừa đảo bảo hiểm"}},
	{"interestRate", []string{"lãi suất manulife", "lãi suất prudential", "lãi suất bảo việt", "lãi suất bảo hiểm nhân thọ"}},
	{"claims", []string{"quy trình bồi thường", "thủ tục yêu cầu bồi thường", "bồi thường bảo hiểm"}},
	{"socialInsurance", []string{"rút bhxh 1 lần", "tra cứu bhyt", "tính phí bhxh", "đóng bhxh tự nguyện"}},
	{"products", []string{"bảo hiểm nhân thọ", "bảo hiểm phi nhân thọ", "bảo hiểm y tế", "bảo hiểm ô tô"}},
	{"companies", []string{"bảo việt", "prudential", "manulife", "aia", "generali", "mb ageas life"}},
	{"regulations", []string{"luật kinh doanh bảo hiểm", "thông tư 50", "nghị định 73", "quy định mới bảo hiểm"}},
}

// headingGroups maps a pillar category to the keyword groups its headings
// draw from.
var headingGroups = map[string][]string{
	"macro":      {"regulations"},
	"commercial": {"companies", "products"},
	"social":     {"socialInsurance"},
	"debate":     {"fraud", "claims"},
}

func groupKeywords(name string) []string {
	for _, g := range TrendingKeywords {
		if g.Name == name {
			return g.Keywords
		}
	}
	return nil
}

// ExtractKeywords returns the trending phrases found in title and summary,
// followed by tags, deduplicated in first-seen order and joined by ", ".
func ExtractKeywords(title, summary string, tags []string) string {
	text := vntext.Lower(vntext.Normalize(title + " " + summary))

	seen := make(map[string]struct{})
	var out []string
	add := func(k string) {
		if k == "" {
			return
		}
		if _, dup := seen[k]; dup {
			return
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}

	for _, g := range TrendingKeywords {
		for _, k := range g.Keywords {
			if strings.Contains(text, k) {
				add(k)
			}
		}
	}
	for _, t := range tags {
		add(t)
	}
	return strings.Join(out, ", ")
}

// SEOHeading appends the first trending phrase of category that base does
// not already mention. Unknown categories return base unchanged.
func SEOHeading(base, category string) string {
	lower := vntext.Lower(vntext.Normalize(base))
	for _, name := range headingGroups[category] {
		for _, k := range groupKeywords(name) {
			if !strings.Contains(lower, k) {
				return base + " - " + k
			}
		}
	}
	return base
}
