// Package config loads the service configuration from YAML, .env files and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "github.com/insurancevn/insurancenews/internal/foundation/errors"
)

// Config is the root configuration.
type Config struct {
	Site         SiteConfig         `yaml:"site"`
	API          APIConfig          `yaml:"api"`
	Cache        CacheConfig        `yaml:"cache"`
	Server       ServerConfig       `yaml:"server"`
	Monitoring   MonitoringConfig   `yaml:"monitoring"`
	Fixtures     FixturesConfig     `yaml:"fixtures"`
	Warmup       WarmupConfig       `yaml:"warmup"`
	Invalidation InvalidationConfig `yaml:"invalidation"`
}

// SiteConfig holds values that end up in canonical URLs and metadata.
type SiteConfig struct {
	Name          string `yaml:"name"`
	URL           string `yaml:"url"`
	TwitterHandle string `yaml:"twitter_handle"`
	Locale        string `yaml:"locale"`
	DefaultAuthor string `yaml:"default_author"`
}

// APIConfig points at the external content API.
type APIConfig struct {
	BaseURL          string        `yaml:"base_url"`
	Prefix           string        `yaml:"prefix"`
	Timeout          time.Duration `yaml:"timeout"`
	MaxResponseBytes int64         `yaml:"max_response_bytes"`
}

// CacheConfig holds revalidation windows per page type.
type CacheConfig struct {
	Article         time.Duration `yaml:"article"`
	RelatedArticles time.Duration `yaml:"related_articles"`
	LegalDoc        time.Duration `yaml:"legal_doc"`
	RelatedDocs     time.Duration `yaml:"related_docs"`
	Home            time.Duration `yaml:"home"`
	Companies       time.Duration `yaml:"companies"`
	MaxEntries      int           `yaml:"max_entries"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type MonitoringConfig struct {
	HealthPath     string `yaml:"health_path"`
	MetricsPath    string `yaml:"metrics_path"`
	MetricsEnabled *bool  `yaml:"metrics_enabled"`
}

// MetricsOn reports whether /metrics is served. Unset means on.
func (m MonitoringConfig) MetricsOn() bool {
	return m.MetricsEnabled == nil || *m.MetricsEnabled
}

// FixturesConfig selects the fallback/static data file. An empty path uses
// the embedded defaults.
type FixturesConfig struct {
	Path  string `yaml:"path"`
	Watch *bool  `yaml:"watch"`
}

func (f FixturesConfig) WatchOn() bool {
	return f.Path != "" && (f.Watch == nil || *f.Watch)
}

// WarmupConfig drives the periodic cache prefetch job.
type WarmupConfig struct {
	Enabled  *bool         `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

func (w WarmupConfig) On() bool {
	return w.Enabled == nil || *w.Enabled
}

// InvalidationConfig enables the NATS cache-invalidation subscriber when NATSURL is set.
type InvalidationConfig struct {
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// Load reads configPath, applying .env files, env expansion, defaults and
// env overrides. A missing file yields the defaults.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	cfg := &Config{}
	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// defaults only
	case err != nil:
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read config file").
			WithContext("path", configPath).Fatal().Build()
	default:
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to parse config file").
				WithContext("path", configPath).Fatal().Build()
		}
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Init writes a configuration file populated with the defaults.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).Build()
	}

	cfg := &Config{}
	applyDefaults(cfg)
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to marshal config").Build()
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "failed to write config file").
			WithContext("path", configPath).Build()
	}
	return nil
}
