package ingest

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// CleanString coerces a raw cell into a canonical string: empty in, empty
// out; otherwise trimmed and uppercased. Uppercasing applies uniformly,
// customer names included.
func CleanString(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}

var nonNumeric = regexp.MustCompile(`[^0-9.,]`)

// ParseNumber coerces a raw cell into a non-negative decimal. Everything
// except digits, commas and dots is stripped, commas become dots, and any
// dot after the first is discarded before parsing. Unparseable input
// coerces to 0.
//
// Portuguese thousands separators are therefore mangled: "1.234,56" comes
// out as 1.23456, not 1234.56. Known limitation, kept until the locale
// rules are settled with the operators feeding these files.
func ParseNumber(v string) float64 {
	if v == "" {
		return 0
	}
	s := nonNumeric.ReplaceAllString(v, "")
	s = strings.ReplaceAll(s, ",", ".")
	if i := strings.Index(s, "."); i >= 0 {
		s = s[:i+1] + strings.ReplaceAll(s[i+1:], ".", "")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// dateLayouts are tried in order before the day-month-year fallback.
// The single-digit layouts accept both padded and unpadded components.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-1-2 15:04:05",
	"2006-1-2",
}

// ParseDate coerces a raw cell into a UTC timestamp. Layouts in
// dateLayouts are tried first; failing those, the value is split on "/"
// or "-" and reinterpreted as day-month-year, the convention of the
// Portuguese exports. Anything else coerces to nil.
func ParseDate(v string) *time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			u := t.UTC()
			return &u
		}
	}
	parts := strings.FieldsFunc(v, func(r rune) bool { return r == '/' || r == '-' })
	if len(parts) == 3 {
		if t, err := time.Parse("2006-1-2", parts[2]+"-"+parts[1]+"-"+parts[0]); err == nil {
			u := t.UTC()
			return &u
		}
	}
	return nil
}
