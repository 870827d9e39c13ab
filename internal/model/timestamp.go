package model

import (
	"fmt"
	"strings"
	"time"
)

// TextLayout is the text form used where a store keeps Dia as TEXT.
const TextLayout = "2006-01-02 15:04:05"

// timestampLayouts are tried in order when parsing text timestamps.
// Zone-less layouts are interpreted as UTC.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02",
}

// CanonicalTime returns t as a UTC instant. Readings are compared and joined
// on canonical times only, never on their text form.
func CanonicalTime(t time.Time) time.Time {
	return t.UTC()
}

// ParseTimestamp parses a text timestamp into its canonical form.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return CanonicalTime(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// TimestampValue converts a scanned database value into a canonical time.
// Drivers return time.Time, string or []byte depending on column type.
func TimestampValue(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return CanonicalTime(t), nil
	case string:
		return ParseTimestamp(t)
	case []byte:
		return ParseTimestamp(string(t))
	case nil:
		return time.Time{}, fmt.Errorf("timestamp is null")
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", v)
	}
}
