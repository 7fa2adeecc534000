// Package record gives path-based access to the loosely shaped JSON objects
// returned by the Launch Library API.
package record

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is one upstream entity as decoded from JSON. Records are never
// mutated by the pipeline.
type Record map[string]any

// Lookup resolves a dotted path such as "agency.name" or
// "nationality.0.nationality_name". Numeric segments index arrays.
// A nil value counts as missing.
func (r Record) Lookup(path string) (any, bool) {
	var cur any = map[string]any(r)
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case Record:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

// Str returns the value at path rendered as text, or def when it is missing.
// Strings are returned as is; numbers and booleans are formatted.
func (r Record) Str(path, def string) string {
	v, ok := r.Lookup(path)
	if !ok {
		return def
	}
	return Format(v)
}

// NonEmpty returns the string at path when it is a non-empty string.
func (r Record) NonEmpty(path string) (string, bool) {
	v, ok := r.Lookup(path)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Int returns the integer at path. Floats without a fraction and numeric
// strings are accepted.
func (r Record) Int(path string) (int, bool) {
	v, ok := r.Lookup(path)
	if !ok {
		return 0, false
	}
	return toInt(v)
}

// IntOr returns the integer at path or def.
func (r Record) IntOr(path string, def int) int {
	if n, ok := r.Int(path); ok {
		return n
	}
	return def
}

// Bool returns the boolean at path. Only real JSON booleans count.
func (r Record) Bool(path string) (bool, bool) {
	v, ok := r.Lookup(path)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// First returns the first non-empty string found among paths.
func (r Record) First(paths ...string) (string, bool) {
	for _, p := range paths {
		if s, ok := r.NonEmpty(p); ok {
			return s, true
		}
	}
	return "", false
}

// Format renders a decoded JSON value for display.
func Format(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprint(t)
	}
}

func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		if t != float64(int(t)) {
			return 0, false
		}
		return int(t), true
	case int:
		return t, true
	case int64:
		return int(t), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
