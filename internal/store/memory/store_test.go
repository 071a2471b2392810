package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/doorlog/doorlog/internal/event"
	"github.com/doorlog/doorlog/internal/store/memory"
)

func mustTS(t *testing.T, s string) time.Time {
	t.Helper()

	ts, err := time.Parse(event.TimeLayout, s)
	if err != nil {
		t.Fatalf("parse timestamp %q: %v", s, err)
	}
	return ts
}

func rec(t *testing.T, tsText, eventType string) event.Record {
	t.Helper()
	return event.Record{TS: mustTS(t, tsText), EventType: eventType, Status: "Success", RawMessage: tsText}
}

func TestAppendAndQueryMonth_OrderedByTimestamp(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	err := st.AppendMonth(ctx, "2026-02", []event.Record{
		rec(t, "2026-02-15 12:00:00", event.TypeDoorOpened),
		rec(t, "2026-02-15 09:00:00", event.TypeBadgeScan),
	})
	if err != nil {
		t.Fatalf("AppendMonth: %v", err)
	}

	got, err := st.QueryMonth(ctx, "2026-02")
	if err != nil {
		t.Fatalf("QueryMonth: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].Timestamp() != "2026-02-15 09:00:00" {
		t.Errorf("expected earliest first, got %s", got[0].Timestamp())
	}
	// Seq follows insertion order, like the sqlite backend.
	if got[0].Seq != 2 || got[1].Seq != 1 {
		t.Errorf("expected seqs [2 1], got [%d %d]", got[0].Seq, got[1].Seq)
	}
}

func TestQueryRange_FiltersAndMergesMonths(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	_ = st.AppendMonth(ctx, "2025-12", []event.Record{rec(t, "2025-12-28 10:00:00", event.TypeBadgeScan)})
	_ = st.AppendMonth(ctx, "2026-01", []event.Record{
		rec(t, "2026-01-02 08:00:00", event.TypeDoorOpened),
		rec(t, "2026-01-09 08:00:00", event.TypeDoorClosed),
	})

	got, err := st.QueryRange(ctx,
		mustTS(t, "2025-12-20 00:00:00"), mustTS(t, "2026-01-05 23:59:59"),
		[]string{event.TypeBadgeScan, event.TypeDoorOpened})
	if err != nil {
		t.Fatalf("QueryRange: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].EventType != event.TypeBadgeScan || got[1].EventType != event.TypeDoorOpened {
		t.Errorf("unexpected order: %s then %s", got[0].EventType, got[1].EventType)
	}
}

func TestQueryMonth_AbsentIsEmpty(t *testing.T) {
	st := memory.New()

	got, err := st.QueryMonth(context.Background(), "1999-01")
	if err != nil {
		t.Fatalf("QueryMonth: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %d", len(got))
	}
}
