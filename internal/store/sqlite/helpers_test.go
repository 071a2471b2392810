package sqlite_test

import (
	"testing"
	"time"

	"github.com/doorlog/doorlog/internal/event"
	sqlitestore "github.com/doorlog/doorlog/internal/store/sqlite"
)

// newTestStore returns a Store rooted at a per-test temp directory, so every
// test gets its own shard tree on disk. The store is closed automatically
// when the test finishes.
func newTestStore(t *testing.T) *sqlitestore.Store {
	t.Helper()

	st := sqlitestore.New(t.TempDir())
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return st
}

func mustTS(t *testing.T, s string) time.Time {
	t.Helper()

	ts, err := time.Parse(event.TimeLayout, s)
	if err != nil {
		t.Fatalf("parse timestamp %q: %v", s, err)
	}
	return ts
}

func testRecord(t *testing.T, tsText, eventType, badge, status string) event.Record {
	t.Helper()

	rec := event.Record{
		TS:         mustTS(t, tsText),
		EventType:  eventType,
		Status:     status,
		RawMessage: tsText + " - door_controller - INFO - " + eventType + " - Status: " + status,
	}
	if badge != "" {
		rec.BadgeID = &badge
	}
	return rec
}
