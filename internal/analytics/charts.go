package analytics

import (
	"fmt"
	"sort"

	"github.com/doorlog/doorlog/internal/event"
)

// HourlyHistogram buckets events of one type by the hour component of their
// timestamps into 24 buckets "00".."23".
func HourlyHistogram(events []event.Record, eventType string) Series {
	values := make([]float64, 24)
	for _, rec := range events {
		if rec.EventType == eventType {
			values[rec.TS.Hour()]++
		}
	}

	labels := make([]string, 24)
	for i := range labels {
		labels[i] = fmt.Sprintf("%02d", i)
	}
	return Series{Labels: labels, Values: values}
}

// DailyOpenDurationAverage reports the per-day mean door-open duration in
// seconds, rounded to millisecond precision.
func DailyOpenDurationAverage(events []event.Record) Series {
	byDay := make(map[string][]float64)
	for _, sample := range OpenDurations(events) {
		day := sample.OpenedAt.Format(event.DateLayout)
		byDay[day] = append(byDay[day], sample.Seconds)
	}
	if len(byDay) == 0 {
		return emptySeries()
	}

	labels := make([]string, 0, len(byDay))
	for day := range byDay {
		labels = append(labels, day)
	}
	sort.Strings(labels)

	values := make([]float64, len(labels))
	for i, day := range labels {
		var sum float64
		for _, v := range byDay[day] {
			sum += v
		}
		values[i] = round3(sum / float64(len(byDay[day])))
	}
	return Series{Labels: labels, Values: values}
}

// TopBadgeUsers ranks badges by granted-scan count, descending, ties broken
// by ascending badge id so the ranking is deterministic. Truncated to 10.
func TopBadgeUsers(events []event.Record) Series {
	counts := make(map[string]int)
	for _, rec := range events {
		if rec.EventType == event.TypeBadgeScan && statusIs(rec, event.StatusGranted) {
			badge := rec.Badge()
			if badge == "" {
				badge = "unknown"
			}
			counts[badge]++
		}
	}

	type entry struct {
		badge string
		count int
	}
	ordered := make([]entry, 0, len(counts))
	for badge, count := range counts {
		ordered = append(ordered, entry{badge, count})
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].count != ordered[j].count {
			return ordered[i].count > ordered[j].count
		}
		return ordered[i].badge < ordered[j].badge
	})
	if len(ordered) > 10 {
		ordered = ordered[:10]
	}

	out := emptySeries()
	for _, e := range ordered {
		out.Labels = append(out.Labels, e.badge)
		out.Values = append(out.Values, float64(e.count))
	}
	return out
}

// DailyCount counts events of one (type, status) combination per calendar
// day. An empty status matches any status.
func DailyCount(events []event.Record, eventType, status string) Series {
	counts := make(map[string]float64)
	for _, rec := range events {
		if rec.EventType != eventType {
			continue
		}
		if status != "" && !statusIs(rec, status) {
			continue
		}
		counts[dayKey(rec)]++
	}
	return daySeries(counts)
}

// ManualEventsDaily sums manual unlocks and manual locks into one combined
// per-day series.
func ManualEventsDaily(events []event.Record) Series {
	counts := make(map[string]float64)
	for _, rec := range events {
		if rec.EventType == event.TypeManualUnlock || rec.EventType == event.TypeManualLock {
			counts[dayKey(rec)]++
		}
	}
	return daySeries(counts)
}

// Threshold derives the "door left open" threshold from the configured
// badge-unlock duration: twice the unlock window, floored at 30 seconds.
func Threshold(unlockSeconds int) int {
	t := unlockSeconds * 2
	if t < 30 {
		t = 30
	}
	return t
}

// DoorLeftOpen counts, per day, the paired open spans exceeding the
// threshold in seconds.
func DoorLeftOpen(events []event.Record, thresholdSeconds int) ThresholdSeries {
	counts := make(map[string]float64)
	for _, sample := range OpenDurations(events) {
		if sample.Seconds > float64(thresholdSeconds) {
			counts[sample.OpenedAt.Format(event.DateLayout)]++
		}
	}
	return ThresholdSeries{
		Series:           daySeries(counts),
		ThresholdSeconds: thresholdSeconds,
	}
}

var weekdayNames = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// WeeklyHeatmap counts events into a 7x24 weekday/hour grid, flattened to a
// single labeled series ("Mon-00" ... "Sun-23") for rendering.
func WeeklyHeatmap(events []event.Record) Series {
	var grid [7][24]float64
	for _, rec := range events {
		// time.Weekday starts at Sunday; the grid starts at Monday.
		day := (int(rec.TS.Weekday()) + 6) % 7
		grid[day][rec.TS.Hour()]++
	}

	out := Series{
		Labels: make([]string, 0, 7*24),
		Values: make([]float64, 0, 7*24),
	}
	for day, name := range weekdayNames {
		for hour := 0; hour < 24; hour++ {
			out.Labels = append(out.Labels, fmt.Sprintf("%s-%02d", name, hour))
			out.Values = append(out.Values, grid[day][hour])
		}
	}
	return out
}
