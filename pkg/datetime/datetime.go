package datetime

import (
	"encoding/json"
	"strings"
	"time"

	"socialevents/internal/domain"
)

// Layouts accepted for textual dates, tried in order. Zone-less layouts are
// read as UTC.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// IsEmpty reports whether a raw date value counts as absent: nil, an empty
// string or a zero time.
func IsEmpty(v any) bool {
	switch d := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(d) == ""
	case time.Time:
		return d.IsZero()
	default:
		return false
	}
}

// Parse coerces a date as received in a JSON payload into a UTC timestamp.
// Strings are matched against the supported layouts, numbers are epoch
// milliseconds. Anything else yields domain.ErrInvalidDate.
func Parse(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		if d.IsZero() {
			return time.Time{}, domain.ErrInvalidDate
		}
		return d.UTC(), nil
	case string:
		return parseString(d)
	case float64:
		return time.UnixMilli(int64(d)).UTC(), nil
	case int64:
		return time.UnixMilli(d).UTC(), nil
	case int:
		return time.UnixMilli(int64(d)).UTC(), nil
	case json.Number:
		if ms, err := d.Int64(); err == nil {
			return time.UnixMilli(ms).UTC(), nil
		}
		f, err := d.Float64()
		if err != nil {
			return time.Time{}, domain.ErrInvalidDate
		}
		return time.UnixMilli(int64(f)).UTC(), nil
	default:
		return time.Time{}, domain.ErrInvalidDate
	}
}

func parseString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, domain.ErrInvalidDate
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, domain.ErrInvalidDate
}

// Format renders t for humans in loc ("02 Jan 2006 15:04 MST").
func Format(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("02 Jan 2006 15:04 MST")
}
