// Package export serializes event sets for download.
package export

import (
	"encoding/csv"
	"strings"

	"github.com/doorlog/doorlog/internal/event"
)

// CSVHeader is the fixed field order for both export forms.
var CSVHeader = []string{"ts", "event_type", "badge_id", "status", "raw_message"}

// ExportedEvent is the structured wire form of one event. An absent badge id
// stays distinct from an empty string: it renders as JSON null.
type ExportedEvent struct {
	TS         string  `json:"ts"`
	EventType  string  `json:"event_type"`
	BadgeID    *string `json:"badge_id"`
	Status     string  `json:"status"`
	RawMessage string  `json:"raw_message"`
}

// ToStructured converts records to their wire form. The result is non-nil
// so an empty month exports as [] rather than null.
func ToStructured(events []event.Record) []ExportedEvent {
	out := make([]ExportedEvent, 0, len(events))
	for _, rec := range events {
		out = append(out, ExportedEvent{
			TS:         rec.Timestamp(),
			EventType:  rec.EventType,
			BadgeID:    rec.BadgeID,
			Status:     rec.Status,
			RawMessage: rec.RawMessage,
		})
	}
	return out
}

// ToCSV renders records as CSV with the fixed header row. An absent badge id
// becomes an empty field.
func ToCSV(events []event.Record) string {
	var buf strings.Builder
	w := csv.NewWriter(&buf)

	// Writes to a strings.Builder cannot fail.
	_ = w.Write(CSVHeader)
	for _, rec := range events {
		_ = w.Write([]string{
			rec.Timestamp(),
			rec.EventType,
			rec.Badge(),
			rec.Status,
			rec.RawMessage,
		})
	}
	w.Flush()
	return buf.String()
}
