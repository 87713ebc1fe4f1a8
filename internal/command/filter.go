package command

import (
	"fmt"
	"strings"
	"time"
)

// nowFunc is swapped in tests to pin the clock.
var nowFunc = time.Now

// dayWindow returns the [startOfDay, startOfDay+24h) window containing t.
func dayWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.Add(24 * time.Hour)
}

// filterWindow extracts a date window from a filter map. It understands an
// explicit "date" value (named range or calendar date) and the named ranges
// today/tomorrow/yesterday/week. ok is false when the filter carries no
// date constraint, which callers treat as "all".
func filterWindow(filter Params) (time.Time, time.Time, bool) {
	if filter == nil {
		return time.Time{}, time.Time{}, false
	}

	value, ok := filter.FirstString("date", "day", "range")
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return namedWindow(value)
}

// validateFilter rejects a filter whose date constraint is present but not
// parseable. An absent date key means "all"; a garbled one must not, or a
// typo would widen a bulk mutation to the whole collection.
func validateFilter(filter Params) error {
	for _, key := range []string{"date", "day", "range"} {
		if !filter.Has(key) {
			continue
		}
		value, ok := filter.String(key)
		if !ok {
			return fmt.Errorf("invalid %s value in filter", key)
		}
		if _, _, ok := namedWindow(value); !ok {
			return fmt.Errorf("unrecognized date %q in filter", value)
		}
	}
	return nil
}

// namedWindow resolves a named range or calendar date to a window.
func namedWindow(value string) (time.Time, time.Time, bool) {
	now := nowFunc()
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "today":
		start, end := dayWindow(now)
		return start, end, true
	case "tomorrow":
		start, end := dayWindow(now.Add(24 * time.Hour))
		return start, end, true
	case "yesterday":
		start, end := dayWindow(now.Add(-24 * time.Hour))
		return start, end, true
	case "week", "this week":
		start, _ := dayWindow(now)
		// Window starts on Monday.
		offset := (int(start.Weekday()) + 6) % 7
		start = start.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 7), true
	default:
		if t, ok := parseTime(value); ok {
			start, end := dayWindow(t)
			return start, end, true
		}
		return time.Time{}, time.Time{}, false
	}
}

// inWindow reports whether t falls within [start, end).
func inWindow(t time.Time, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}
