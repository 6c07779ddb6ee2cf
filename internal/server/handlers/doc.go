// Package handlers contains the HTTP handlers of the site.
//
// This package provides handlers for:
//   - Server-rendered pages (home, articles, legal documents, pillars, library, search)
//   - robots.txt and sitemap.xml
//   - Liveness and readiness endpoints
//
// Page handlers fingerprint the rendered document into an ETag and answer
// conditional requests with 304. Failures go through the foundation/errors
// HTTP adapter.
package handlers
