package analytics

import (
	"time"

	"github.com/doorlog/doorlog/internal/event"
)

// DefaultLatencyQueueMax caps each badge's pending-scan queue. The original
// pairing has no bound; the cap only protects a long-running service from
// pathological inputs and does not change pairing for realistic data.
const DefaultLatencyQueueMax = 64

// DurationSample is one paired door open/close span.
type DurationSample struct {
	OpenedAt time.Time
	Seconds  float64
}

// OpenDurations pairs each door-open with the next door-close using a single
// pending-open slot: a second open before a matching close overwrites the
// pending one, a close with no pending open is ignored, and a close that
// precedes its open contributes nothing (but still clears the slot).
func OpenDurations(events []event.Record) []DurationSample {
	var samples []DurationSample
	var pendingOpen time.Time
	var hasPending bool

	for _, rec := range events {
		switch rec.EventType {
		case event.TypeDoorOpened:
			pendingOpen = rec.TS
			hasPending = true
		case event.TypeDoorClosed:
			if hasPending {
				if !rec.TS.Before(pendingOpen) {
					samples = append(samples, DurationSample{
						OpenedAt: pendingOpen,
						Seconds:  rec.TS.Sub(pendingOpen).Seconds(),
					})
				}
				hasPending = false
			}
		}
	}
	return samples
}

// ScanToOpenLatency pairs each granted badge scan with the next door-open
// for that badge, per-badge FIFO. Each open dequeues the oldest pending
// scan; a non-negative delta becomes a sample labeled with the open
// timestamp. Unmatched scans stay queued (up to queueMax, oldest discarded)
// and unmatched opens are dropped.
//
// The model is "the next unlock following a scan is presumably caused by
// it", so an unrelated open can still be attributed to a stale queued scan.
// That precision limit is accepted, not corrected.
func ScanToOpenLatency(events []event.Record, queueMax int) Series {
	if queueMax <= 0 {
		queueMax = DefaultLatencyQueueMax
	}

	pending := make(map[string][]time.Time)
	out := emptySeries()

	for _, rec := range events {
		badge := rec.Badge()
		if badge == "" {
			continue
		}

		switch {
		case rec.EventType == event.TypeBadgeScan && statusIs(rec, event.StatusGranted):
			q := pending[badge]
			if len(q) >= queueMax {
				q = q[1:]
			}
			pending[badge] = append(q, rec.TS)

		case rec.EventType == event.TypeDoorOpened:
			q := pending[badge]
			if len(q) == 0 {
				continue
			}
			scanTS := q[0]
			pending[badge] = q[1:]
			if !rec.TS.Before(scanTS) {
				out.Labels = append(out.Labels, rec.TS.Format(event.TimeLayout))
				out.Values = append(out.Values, round3(rec.TS.Sub(scanTS).Seconds()))
			}
		}
	}
	return out
}
