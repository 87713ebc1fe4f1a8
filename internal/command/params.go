package command

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Params is the open, dynamically shaped parameter bag of one command. The
// model emits arbitrary JSON, so values are accessed through coercing
// getters; numeric values widen to the store's native width and are never
// truncated.
type Params map[string]interface{}

// Has reports whether the key is present (even with a nil value).
func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// String returns a non-empty string value.
func (p Params) String(key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// FirstString returns the first present string among keys. Model output is
// inconsistent about key casing (dueDate vs due_date), so handlers accept
// both spellings.
func (p Params) FirstString(keys ...string) (string, bool) {
	for _, key := range keys {
		if s, ok := p.String(key); ok {
			return s, true
		}
	}
	return "", false
}

// Int64 returns an integer value, widening from any narrower or
// float-encoded representation. Fractional floats are rejected rather than
// silently truncated.
func (p Params) Int64(key string) (int64, bool) {
	v, ok := p[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		if n != float64(int64(n)) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

// Float64 returns a floating-point value.
func (p Params) Float64(key string) (float64, bool) {
	v, ok := p[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Bool returns a boolean value, accepting string spellings.
func (p Params) Bool(key string) (bool, bool) {
	v, ok := p[key]
	if !ok {
		return false, false
	}
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return false, false
		}
		return parsed, true
	default:
		return false, false
	}
}

// Map returns a nested parameter map.
func (p Params) Map(key string) (Params, bool) {
	v, ok := p[key]
	if !ok {
		return nil, false
	}
	switch m := v.(type) {
	case map[string]interface{}:
		return Params(m), true
	case Params:
		return m, true
	default:
		return nil, false
	}
}

// Strings returns a list of strings, tolerating mixed-type arrays by
// keeping only the string elements.
func (p Params) Strings(key string) ([]string, bool) {
	v, ok := p[key]
	if !ok {
		return nil, false
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out, true
}

// Items returns the per-item parameter maps of a bulk command.
func (p Params) Items() ([]Params, bool) {
	v, ok := p["items"]
	if !ok {
		return nil, false
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil, false
	}
	items := make([]Params, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		items = append(items, Params(m))
	}
	return items, true
}

// timeLayouts are tried in order when parsing date/time values.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Time parses a date or datetime value. Date-only values resolve to local
// midnight.
func (p Params) Time(key string) (time.Time, bool) {
	s, ok := p.String(key)
	if !ok {
		return time.Time{}, false
	}
	return parseTime(s)
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
