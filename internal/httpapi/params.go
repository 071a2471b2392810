package httpapi

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/doorlog/doorlog/internal/event"
)

// parseDate parses a YYYY-MM-DD value, falling back to def. Bad query input
// degrades to defaults rather than erroring.
func parseDate(v string, def time.Time) time.Time {
	t, err := time.Parse(event.DateLayout, strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return t
}

// parseIntClamped parses v with clamping: unparsable values fall back to
// def, values below min return min, values above max return max.
func parseIntClamped(v string, def, min, max int) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

// resolveRange reads start_date/end_date, defaulting to year-start..today,
// swapping an inverted pair, and expanding calendar dates to the inclusive
// timestamp range 00:00:00..23:59:59.
func resolveRange(q url.Values, now time.Time) (start, end time.Time) {
	defStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	defEnd := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	startDate := parseDate(q.Get("start_date"), defStart)
	endDate := parseDate(q.Get("end_date"), defEnd)
	if startDate.After(endDate) {
		startDate, endDate = endDate, startDate
	}

	start = time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, time.UTC)
	end = time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 23, 59, 59, 0, time.UTC)
	return start, end
}

// eventTypesParam reads the optional comma-separated exact-match filter.
func eventTypesParam(q url.Values) []string {
	raw := strings.TrimSpace(q.Get("event_types"))
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
