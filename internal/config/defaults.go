package config

import "time"

const (
	DefaultSiteName      = "Insurance Vietnam"
	DefaultSiteURL       = "https://insurancenews.vn"
	DefaultTwitterHandle = "@InsuranceVN"
	DefaultLocale        = "vi_VN"
	DefaultAuthor        = "Insurance Vietnam Editorial Team"

	DefaultAPIBaseURL = "http://localhost:8000"
	DefaultAPIPrefix  = "/api/v1"

	DefaultInvalidationSubject = "insurancenews.content.invalidate"
)

func applyDefaults(cfg *Config) {
	s := &cfg.Site
	setString(&s.Name, DefaultSiteName)
	setString(&s.URL, DefaultSiteURL)
	setString(&s.TwitterHandle, DefaultTwitterHandle)
	setString(&s.Locale, DefaultLocale)
	setString(&s.DefaultAuthor, DefaultAuthor)

	a := &cfg.API
	setString(&a.BaseURL, DefaultAPIBaseURL)
	setString(&a.Prefix, DefaultAPIPrefix)
	setDuration(&a.Timeout, 10*time.Second)
	if a.MaxResponseBytes <= 0 {
		a.MaxResponseBytes = 5 * 1024 * 1024
	}

	c := &cfg.Cache
	setDuration(&c.Article, 5*time.Minute)
	setDuration(&c.RelatedArticles, 10*time.Minute)
	setDuration(&c.LegalDoc, time.Hour)
	setDuration(&c.RelatedDocs, time.Hour)
	setDuration(&c.Home, 5*time.Minute)
	setDuration(&c.Companies, time.Hour)
	if c.MaxEntries <= 0 {
		c.MaxEntries = 2048
	}

	srv := &cfg.Server
	setString(&srv.Addr, ":3000")
	setDuration(&srv.ReadTimeout, 15*time.Second)
	setDuration(&srv.WriteTimeout, 15*time.Second)
	setDuration(&srv.ShutdownTimeout, 10*time.Second)

	setString(&cfg.Monitoring.HealthPath, "/healthz")
	setString(&cfg.Monitoring.MetricsPath, "/metrics")

	setDuration(&cfg.Warmup.Interval, 5*time.Minute)
	setString(&cfg.Invalidation.Subject, DefaultInvalidationSubject)
}

func setString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

func setDuration(dst *time.Duration, def time.Duration) {
	if *dst == 0 {
		*dst = def
	}
}
