// Package logparse turns raw controller action-log lines into event records.
//
// A line that does not describe a usable event is skipped, never fatal:
// ingestion of the rest of the file must not be aborted by one bad line.
package logparse

import (
	"regexp"
	"strings"
	"time"

	"github.com/doorlog/doorlog/internal/event"
)

// A valid line is "<ts> - <source> - <SEVERITY> - <message>" with the
// timestamp in the canonical form. Source and severity are not retained.
var lineRE = regexp.MustCompile(
	`^(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}) - [^-]+ - [A-Z]+ - (.*)$`,
)

const (
	badgeMarker  = " - Badge: "
	statusMarker = " - Status: "
)

// Parse parses one raw action-log line. The second return is false when the
// line is not a usable event. Parsing is deterministic: the same line always
// yields the same record.
func Parse(line string) (event.Record, bool) {
	raw := strings.TrimSpace(line)
	if raw == "" {
		return event.Record{}, false
	}

	m := lineRE.FindStringSubmatch(raw)
	if m == nil {
		return event.Record{}, false
	}

	ts, err := time.Parse(event.TimeLayout, m[1])
	if err != nil {
		return event.Record{}, false
	}

	eventType, badgeID, status, ok := parseMessage(m[2])
	if !ok {
		return event.Record{}, false
	}

	return event.Record{
		TS:         ts,
		EventType:  eventType,
		BadgeID:    badgeID,
		Status:     status,
		RawMessage: raw,
	}, true
}

// parseMessage decodes the free-text message segment. With both markers the
// badge marker splits from the left and the status marker from the right, so
// a badge id containing " - " cannot swallow the status. A message with no
// status marker carries no usable event type and is rejected.
func parseMessage(msg string) (eventType string, badgeID *string, status string, ok bool) {
	status = event.StatusUnknown

	badgeIdx := strings.Index(msg, badgeMarker)
	statusIdx := strings.LastIndex(msg, statusMarker)

	switch {
	case badgeIdx >= 0 && statusIdx > badgeIdx:
		eventType = strings.TrimSpace(msg[:badgeIdx])
		rest := msg[badgeIdx+len(badgeMarker):]
		restStatusIdx := strings.LastIndex(rest, statusMarker)
		if b := strings.TrimSpace(rest[:restStatusIdx]); b != "" {
			badgeID = &b
		}
		if s := strings.TrimSpace(rest[restStatusIdx+len(statusMarker):]); s != "" {
			status = s
		}
	case statusIdx >= 0:
		eventType = strings.TrimSpace(msg[:statusIdx])
		if s := strings.TrimSpace(msg[statusIdx+len(statusMarker):]); s != "" {
			status = s
		}
	default:
		return "", nil, "", false
	}

	if eventType == "" {
		return "", nil, "", false
	}
	return eventType, badgeID, status, true
}
