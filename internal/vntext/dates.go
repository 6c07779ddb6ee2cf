package vntext

import (
	"strings"
	"time"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTime accepts the timestamp forms the content API emits. Values without
// an offset are taken as UTC.
func ParseTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ISOTime renders raw as ISO-8601 UTC with milliseconds, or "" when raw
// does not parse.
func ISOTime(raw string) string {
	t, ok := ParseTime(raw)
	if !ok {
		return ""
	}
	return t.Format("2006-01-02T15:04:05.000Z")
}

// FormatDateString formats raw with FormatDate, or returns raw when it does
// not parse.
func FormatDateString(raw string) string {
	if t, ok := ParseTime(raw); ok {
		return FormatDate(t)
	}
	return raw
}

// FormatShortDateString is FormatShortDate for raw API timestamps.
func FormatShortDateString(raw string) string {
	if t, ok := ParseTime(raw); ok {
		return FormatShortDate(t)
	}
	return raw
}
