package utils

import (
	"time"
)

const dateLayout = "2006-01-02"

// Zone-less timestamps, as sent by datetime-local inputs, are read as UTC.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

// ParseDate parses an RFC3339 timestamp, a zone-less timestamp (UTC) or a
// YYYY-MM-DD date (UTC midnight). The second result reports whether the
// input was date-only.
func ParseDate(s string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), false, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, false, nil
		}
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// EndOfDay returns the last representable instant of t's UTC day
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Add(24*time.Hour - time.Nanosecond)
}

// FormatTimestamp formats t as RFC3339 in UTC, or "" for the zero time
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
