// Package analytics derives chart-ready aggregates from ordered event
// streams. Every derivation is a pure function over the query engine's
// ascending-timestamp output; nothing here persists state across calls.
package analytics

import (
	"math"
	"sort"
	"strings"

	"github.com/doorlog/doorlog/internal/event"
)

// Series is the common response shape: parallel label/value sequences of
// equal length. Both are always non-nil so JSON renders [] not null.
type Series struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// ThresholdSeries is a Series that also reports the threshold it was
// computed against.
type ThresholdSeries struct {
	Series
	ThresholdSeconds int `json:"threshold_seconds"`
}

func emptySeries() Series {
	return Series{Labels: []string{}, Values: []float64{}}
}

// statusIs compares statuses the way the controller logs them: trimmed,
// case-insensitive.
func statusIs(rec event.Record, expected string) bool {
	return strings.EqualFold(strings.TrimSpace(rec.Status), expected)
}

func dayKey(rec event.Record) string {
	return rec.TS.Format(event.DateLayout)
}

// round3 rounds to millisecond precision.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// daySeries turns per-day counts into a Series with sorted day labels.
func daySeries(counts map[string]float64) Series {
	if len(counts) == 0 {
		return emptySeries()
	}
	labels := make([]string, 0, len(counts))
	for day := range counts {
		labels = append(labels, day)
	}
	sort.Strings(labels)

	values := make([]float64, len(labels))
	for i, day := range labels {
		values[i] = counts[day]
	}
	return Series{Labels: labels, Values: values}
}
