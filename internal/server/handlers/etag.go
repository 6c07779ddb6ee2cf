package handlers

import (
	"strings"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"

	"github.com/insurancevn/insurancenews/internal/seo"
)

// pageETag fingerprints a rendered page. The metadata is hashed as YAML
// alongside the HTML so a head-only change still yields a new tag.
func pageETag(meta seo.Metadata, body []byte) (string, error) {
	serialized, err := yaml.Marshal(meta)
	if err != nil {
		return "", err
	}
	fp := mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(serialized), "\n"), string(body))
	return `"` + fp + `"`, nil
}

// etagMatches implements the weak comparison of If-None-Match.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	want := strings.TrimPrefix(etag, "W/")
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == want {
			return true
		}
	}
	return false
}
