package store

import (
	"context"
	"time"

	"github.com/doorlog/doorlog/internal/event"
)

// EventStore is the month-sharded audit log surface. The production backend
// keeps one SQLite file per calendar month; the memory backend serves tests
// and dev mode. A query spanning several shards behaves exactly as it would
// against a single unsharded store, but there is no cross-shard snapshot:
// visibility is per shard, best effort.
type EventStore interface {
	// AppendMonth appends a batch of records to the shard owning monthKey,
	// creating the shard on first touch. The whole batch commits in one
	// transaction; the shard assigns each record's Seq.
	AppendMonth(ctx context.Context, monthKey string, recs []event.Record) error

	// QueryRange returns events with timestamps in [start, end] in ascending
	// timestamp order, optionally restricted to the given event types
	// (exact match). A range covering no existing shard yields an empty
	// result, never an error.
	QueryRange(ctx context.Context, start, end time.Time, eventTypes []string) ([]event.Record, error)

	// QueryMonth returns one shard's full contents in ascending timestamp
	// order. An absent shard is empty, not an error.
	QueryMonth(ctx context.Context, monthKey string) ([]event.Record, error)

	Close() error
}
