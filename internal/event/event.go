package event

import "time"

// TimeLayout is the canonical timestamp form used by the controller's action
// log and by storage. It sorts lexicographically, so the TEXT column in a
// shard doubles as the ordering key.
const TimeLayout = "2006-01-02 15:04:05"

// DateLayout is the calendar-date form used by query parameters and day keys.
const DateLayout = "2006-01-02"

// StatusUnknown is the sentinel for events whose outcome could not be
// determined from the log line.
const StatusUnknown = "Unknown"

// Event types emitted by the door controller. The set is open (new hardware
// event types appear without a schema change), so these are just the literals
// the derivations match on, not an enum.
const (
	TypeBadgeScan    = "Badge Scan"
	TypeDoorOpened   = "Door OPEN/UNLOCKED"
	TypeDoorClosed   = "Door CLOSED/LOCKED"
	TypeManualUnlock = "Manual Unlock (1 hour)"
	TypeManualLock   = "Manual Lock"
)

// Statuses the derivations care about. Comparison is case-insensitive.
const (
	StatusGranted = "Granted"
	StatusDenied  = "Denied"
)

// Record is one normalized action-log event. Records are immutable once
// stored; there is no update or delete path.
type Record struct {
	// Seq is assigned by the owning shard on insert. It is strictly
	// increasing with insertion order within a shard but is NOT unique
	// across shards and not necessarily aligned with timestamp order.
	Seq        int64
	TS         time.Time
	EventType  string
	BadgeID    *string // nil for non-badge events
	Status     string
	RawMessage string
}

// Timestamp returns the canonical text form of the record's timestamp.
func (r Record) Timestamp() string { return r.TS.Format(TimeLayout) }

// Badge returns the badge id or "" when absent.
func (r Record) Badge() string {
	if r.BadgeID == nil {
		return ""
	}
	return *r.BadgeID
}

// MonthKey returns the YYYY-MM shard key owning t.
func MonthKey(t time.Time) string { return t.Format("2006-01") }

// MonthKeysInRange returns the inclusive list of month keys overlapping
// [start, end], walking first-of-month to first-of-month so year boundaries
// are handled by plain calendar arithmetic. Empty when end precedes start.
func MonthKeysInRange(start, end time.Time) []string {
	if end.Before(start) {
		return nil
	}
	cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	final := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)

	var keys []string
	for !cur.After(final) {
		keys = append(keys, MonthKey(cur))
		cur = cur.AddDate(0, 1, 0)
	}
	return keys
}
