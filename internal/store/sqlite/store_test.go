package sqlite_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/doorlog/doorlog/internal/event"
	sqlitestore "github.com/doorlog/doorlog/internal/store/sqlite"
)

// ═══════════════════════════════════════════════════════════════════════════
// Shard layout
// ═══════════════════════════════════════════════════════════════════════════

func TestShardPath_YearSubdirectory(t *testing.T) {
	st := sqlitestore.New("/data/metrics")

	got := st.ShardPath("2026-02")
	want := filepath.Join("/data/metrics", "2026", "2026-02.db")
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestEnsureShard_CreatesFileAndIsIdempotent(t *testing.T) {
	st := newTestStore(t)

	path, err := st.EnsureShard(context.Background(), "2026-02")
	if err != nil {
		t.Fatalf("EnsureShard: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("shard file missing: %v", err)
	}
	if !st.ShardExists("2026-02") {
		t.Error("ShardExists should be true after EnsureShard")
	}

	// Second ensure is a no-op, not an error.
	if _, err := st.EnsureShard(context.Background(), "2026-02"); err != nil {
		t.Fatalf("EnsureShard (second): %v", err)
	}
}

func TestShardExists_FalseForAbsentMonth(t *testing.T) {
	st := newTestStore(t)

	if st.ShardExists("1999-01") {
		t.Error("expected ShardExists=false for a month never written")
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// AppendMonth / QueryMonth
// ═══════════════════════════════════════════════════════════════════════════

func TestAppendMonth_RoundTripsThroughQueryMonth(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	recs := []event.Record{
		testRecord(t, "2026-02-15 09:00:00", event.TypeBadgeScan, "A1", "Granted"),
		testRecord(t, "2026-02-15 09:00:02", event.TypeDoorOpened, "A1", "Success"),
	}
	if err := st.AppendMonth(ctx, "2026-02", recs); err != nil {
		t.Fatalf("AppendMonth: %v", err)
	}

	got, err := st.QueryMonth(ctx, "2026-02")
	if err != nil {
		t.Fatalf("QueryMonth: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].EventType != event.TypeBadgeScan {
		t.Errorf("expected first event %q, got %q", event.TypeBadgeScan, got[0].EventType)
	}
	if got[0].BadgeID == nil || *got[0].BadgeID != "A1" {
		t.Errorf("expected badge A1, got %v", got[0].BadgeID)
	}
	if got[0].Timestamp() != "2026-02-15 09:00:00" {
		t.Errorf("timestamp mismatch: %s", got[0].Timestamp())
	}
}

func TestAppendMonth_SequenceIncreasesWithInsertionOrder(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	// Timestamps deliberately out of order: Seq must follow insertion order,
	// not timestamp order.
	recs := []event.Record{
		testRecord(t, "2026-02-15 12:00:00", event.TypeDoorOpened, "", "Success"),
		testRecord(t, "2026-02-15 09:00:00", event.TypeBadgeScan, "A1", "Granted"),
	}
	if err := st.AppendMonth(ctx, "2026-02", recs); err != nil {
		t.Fatalf("AppendMonth: %v", err)
	}

	got, err := st.QueryMonth(ctx, "2026-02")
	if err != nil {
		t.Fatalf("QueryMonth: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	// QueryMonth returns ts-ascending, so the later insert comes first.
	if got[0].Seq != 2 || got[1].Seq != 1 {
		t.Errorf("expected seqs [2 1], got [%d %d]", got[0].Seq, got[1].Seq)
	}
}

func TestAppendMonth_NilBadgeStaysNil(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	recs := []event.Record{
		testRecord(t, "2026-02-15 09:00:00", event.TypeDoorClosed, "", "Success"),
	}
	if err := st.AppendMonth(ctx, "2026-02", recs); err != nil {
		t.Fatalf("AppendMonth: %v", err)
	}

	got, err := st.QueryMonth(ctx, "2026-02")
	if err != nil {
		t.Fatalf("QueryMonth: %v", err)
	}
	if got[0].BadgeID != nil {
		t.Errorf("expected nil badge id, got %q", *got[0].BadgeID)
	}
}

func TestAppendMonth_EmptyBatchIsNoOp(t *testing.T) {
	st := newTestStore(t)

	if err := st.AppendMonth(context.Background(), "2026-02", nil); err != nil {
		t.Fatalf("AppendMonth(nil): %v", err)
	}
	// An empty append must not create the shard.
	if st.ShardExists("2026-02") {
		t.Error("empty append should not create a shard")
	}
}

func TestQueryMonth_AbsentShardIsEmptyNotError(t *testing.T) {
	st := newTestStore(t)

	got, err := st.QueryMonth(context.Background(), "1999-01")
	if err != nil {
		t.Fatalf("QueryMonth: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no events, got %d", len(got))
	}
}

func TestAppendMonth_MultipleBatchesKeepCounting(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		recs := []event.Record{
			testRecord(t, "2026-02-15 09:00:00", event.TypeBadgeScan, "A1", "Granted"),
		}
		if err := st.AppendMonth(ctx, "2026-02", recs); err != nil {
			t.Fatalf("AppendMonth #%d: %v", i, err)
		}
	}

	got, err := st.QueryMonth(ctx, "2026-02")
	if err != nil {
		t.Fatalf("QueryMonth: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	if got[2].Seq != 3 {
		t.Errorf("expected last seq 3, got %d", got[2].Seq)
	}
}
