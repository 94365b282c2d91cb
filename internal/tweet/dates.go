package tweet

import (
	"strings"
	"time"
)

// X's native textual timestamp, e.g. "Wed Jan 08 20:25:00 +0000 2026".
const nativeDateLayout = "Mon Jan 02 15:04:05 -0700 2006"

var isoFallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses a timestamp string from the tool, trying the native X
// format first, then ISO-8601 variants (a trailing Z reads as UTC), and
// finally falling back to now. It never fails; an unparseable date is a
// lossy default, not an error.
func ParseDate(raw string, now func() time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(nativeDateLayout, raw); err == nil {
		return t
	}
	for _, layout := range isoFallbackLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return now()
}
