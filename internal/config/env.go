package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// envFiles are loaded in order; godotenv never overrides variables that are
// already set, so earlier files win over later ones and the process env wins over both.
var envFiles = []string{".env.local", ".env"}

func loadEnvFiles() {
	for _, name := range envFiles {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			slog.Warn("Failed to load env file", "file", name, "error", err)
			continue
		}
		slog.Debug("Loaded environment variables", "file", name)
	}
}

// envOverride lists the variables for one setting, most specific first. The
// NEXT_PUBLIC_ names are accepted so existing deployment env files keep working.
type envOverride struct {
	names []string
	dst   func(*Config) *string
}

var envOverrides = []envOverride{
	{[]string{"API_URL", "NEXT_PUBLIC_API_URL"}, func(c *Config) *string { return &c.API.BaseURL }},
	{[]string{"API_V1_PREFIX", "NEXT_PUBLIC_API_V1_PREFIX"}, func(c *Config) *string { return &c.API.Prefix }},
	{[]string{"SITE_URL", "NEXT_PUBLIC_SITE_URL"}, func(c *Config) *string { return &c.Site.URL }},
	{[]string{"NATS_URL"}, func(c *Config) *string { return &c.Invalidation.NATSURL }},
}

func applyEnvOverrides(cfg *Config) {
	for _, o := range envOverrides {
		for _, name := range o.names {
			if v := strings.TrimSpace(os.Getenv(name)); v != "" {
				*o.dst(cfg) = v
				break
			}
		}
	}
}
