// Package responses defines the JSON bodies of the operational endpoints.
package responses

import "time"

// HealthResponse is served by the liveness endpoint.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    float64   `json:"uptime"`
}

// ReadyResponse is served by the readiness endpoint. Ready requires loaded
// fixtures; the content API is not checked since every page degrades without
// it.
type ReadyResponse struct {
	Status   string     `json:"status"`
	Fixtures string     `json:"fixtures"`
	Cache    CacheStats `json:"cache"`
}

type CacheStats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Stale   int64 `json:"stale"`
}
