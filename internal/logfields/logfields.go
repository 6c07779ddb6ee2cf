// Package logfields holds canonical slog keys so every package logs the same names.
package logfields

import (
	"log/slog"
	"time"
)

const (
	KeySlug        = "slug"
	KeyDocNumber   = "doc_number"
	KeyEndpoint    = "endpoint"
	KeyPage        = "page"
	KeyCategory    = "category"
	KeyCacheResult = "cache_result"
	KeyFallback    = "fallback"
	KeyJob         = "job"
	KeyFile        = "file"
	KeyMethod      = "method"
	KeyPath        = "path"
	KeyStatus      = "status"
	KeyUserAgent   = "user_agent"
	KeyRemoteAddr  = "remote_addr"
	KeyRequestID   = "request_id"
	KeyDurationMS  = "duration_ms"
	KeyError       = "error"
)

func Slug(s string) slog.Attr { return slog.String(KeySlug, s) }
func DocNumber(n string) slog.Attr { return slog.String(KeyDocNumber, n) }
func Endpoint(e string) slog.Attr { return slog.String(KeyEndpoint, e) }
func Page(p string) slog.Attr { return slog.String(KeyPage, p) }
func Category(c string) slog.Attr { return slog.String(KeyCategory, c) }
func CacheResult(r string) slog.Attr { return slog.String(KeyCacheResult, r) }
func Fallback(section string) slog.Attr { return slog.String(KeyFallback, section) }
func Job(name string) slog.Attr { return slog.String(KeyJob, name) }
func File(path string) slog.Attr { return slog.String(KeyFile, path) }
func Method(m string) slog.Attr { return slog.String(KeyMethod, m) }
func Path(p string) slog.Attr { return slog.String(KeyPath, p) }
func Status(code int) slog.Attr { return slog.Int(KeyStatus, code) }
func UserAgent(ua string) slog.Attr { return slog.String(KeyUserAgent, ua) }
func RemoteAddr(a string) slog.Attr { return slog.String(KeyRemoteAddr, a) }
func RequestID(id string) slog.Attr { return slog.String(KeyRequestID, id) }

// Duration reports d in milliseconds.
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
