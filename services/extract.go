package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"emlak-analytics/models"
)

var (
	// numericJunkRegexp strips everything that is not part of a number
	numericJunkRegexp = regexp.MustCompile(`[^0-9.,\-]`)
	// leadingFloatRegexp captures the leading numeric token of a cleaned string
	leadingFloatRegexp = regexp.MustCompile(`-?\d+(?:\.\d+)?|-?\.\d+`)
	// roomsRegexp captures the leading integer of values like "3+1"
	roomsRegexp = regexp.MustCompile(`(\d+)(?:\s*\+\s*\d+)?`)
)

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"02.01.2006",
}

// ExtractField resolves a value from a raw record given an ordered list of
// candidate key names. Each candidate is first tried with an exact-case
// lookup, then case-insensitively against the record's own keys. The first
// value that is present and neither nil nor an empty string wins. The second
// return value distinguishes "absent" from a legitimate falsy value.
func ExtractField(record models.RawRecord, keys []string) (any, bool) {
	if record == nil {
		return nil, false
	}

	for _, key := range keys {
		if v, ok := record[key]; ok && usable(v) {
			return v, true
		}

		lower := strings.ToLower(key)
		for candidate, v := range record {
			if strings.ToLower(candidate) == lower && usable(v) {
				return v, true
			}
		}
	}
	return nil, false
}

func usable(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok && s == "" {
		return false
	}
	return true
}

// ParseNumber parses a locale-tolerant numeric value. Numbers pass through;
// strings are stripped of anything that is not a digit, '.', ',' or '-', the
// first ',' is treated as a decimal separator, and the leading numeric token
// is parsed. Returns nil when no finite number can be extracted.
func ParseNumber(value any) *float64 {
	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return finite(float64(v))
	case int64:
		return finite(float64(v))
	case string:
		cleaned := numericJunkRegexp.ReplaceAllString(v, "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
		token := leadingFloatRegexp.FindString(cleaned)
		if token == "" {
			return nil
		}
		n, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return nil
		}
		return finite(n)
	default:
		return nil
	}
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// ParseRooms parses a room count. Numbers pass through; strings yield the
// first integer token, so "3+1" becomes 3. Returns nil when no integer is
// found.
func ParseRooms(value any) *int {
	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		n := int(v)
		return &n
	case int:
		n := v
		return &n
	case int64:
		n := int(v)
		return &n
	case string:
		match := roomsRegexp.FindStringSubmatch(v)
		if len(match) < 2 {
			return nil
		}
		n, err := strconv.Atoi(match[1])
		if err != nil {
			return nil
		}
		return &n
	default:
		return nil
	}
}

// ParseDate parses a raw date-like value into a timestamp. Strings are tried
// against a fixed layout list; numbers are treated as Unix milliseconds.
// Returns nil when nothing parses — it never panics on malformed input.
func ParseDate(value any) *time.Time {
	switch v := value.(type) {
	case nil:
		return nil
	case time.Time:
		if v.IsZero() {
			return nil
		}
		return &v
	case float64:
		t := time.UnixMilli(int64(v)).UTC()
		return &t
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return &t
			}
		}
		return nil
	default:
		return nil
	}
}
