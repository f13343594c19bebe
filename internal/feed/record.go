package feed

import (
	"strconv"
	"strings"
)

// Record maps a feed field name to its normalized value. Values are either
// int64 or string; a field the provider omitted or sent empty is simply not
// present in the map. Presence is the meaningful signal: the sync engine only
// touches columns a record actually carries.
type Record map[string]any

// Has reports whether the field is present.
func (r Record) Has(name string) bool {
	_, ok := r[name]
	return ok
}

// Int returns the field as an int64. Numeric strings are not re-parsed here;
// normalization already coerced purely-numeric text.
func (r Record) Int(name string) (int64, bool) {
	v, ok := r[name]
	if !ok {
		return 0, false
	}
	n, ok := v.(int64)
	return n, ok
}

// Text returns the field as a string.
func (r Record) Text(name string) (string, bool) {
	v, ok := r[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// coerceValue turns raw XML element text into a record value. Empty or
// all-whitespace text means the field is absent (ok=false). Purely-decimal
// text becomes an int64; anything else stays a string. Digit runs too long
// for int64 are kept as strings rather than truncated.
func coerceValue(text string) (any, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, false
	}
	if isDigits(trimmed) {
		if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return n, true
		}
	}
	return trimmed, true
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
