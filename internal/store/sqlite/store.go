// Package sqlite implements the month-sharded event store on one SQLite
// file per calendar month, laid out as <base>/<year>/<year-month>.db.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	dbpkg "github.com/doorlog/doorlog/internal/db"
	"github.com/doorlog/doorlog/internal/event"
)

const eventsTableSQL = `
CREATE TABLE IF NOT EXISTS events (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  ts TEXT NOT NULL,
  event_type TEXT NOT NULL,
  badge_id TEXT,
  status TEXT NOT NULL,
  raw_message TEXT NOT NULL
);`

// Secondary indexes keep range scans and per-type aggregation off a full
// table scan. All DDL is IF NOT EXISTS so first-touch is idempotent.
var eventsIndexSQL = []string{
	"CREATE INDEX IF NOT EXISTS idx_events_ts ON events(ts);",
	"CREATE INDEX IF NOT EXISTS idx_events_event_type ON events(event_type);",
	"CREATE INDEX IF NOT EXISTS idx_events_badge_id ON events(badge_id);",
}

// Store routes appends and queries to per-month shard files under base.
// Shards are created lazily on first write, or on first read for the
// current month, and are never deleted.
type Store struct {
	base string
	now  func() time.Time

	mu     sync.Mutex
	shards map[string]*shard // open write handles by month key
}

// shard is one open month file: a pinned connection plus the single-writer
// worker that serializes its commits.
type shard struct {
	conn   *sql.DB
	writer *dbpkg.Worker
}

func New(basePath string) *Store {
	return &Store{
		base:   basePath,
		now:    time.Now,
		shards: make(map[string]*shard),
	}
}

// ShardPath returns the shard file path for a month key, e.g.
// "logs/metrics/2026/2026-02.db" for "2026-02".
func (s *Store) ShardPath(monthKey string) string {
	year, _, _ := strings.Cut(monthKey, "-")
	return filepath.Join(s.base, year, monthKey+".db")
}

// ShardExists reports whether the month's shard file is on disk.
func (s *Store) ShardExists(monthKey string) bool {
	_, err := os.Stat(s.ShardPath(monthKey))
	return err == nil
}

// EnsureShard creates the shard directory and schema if absent and returns
// the shard path. Safe to call concurrently from ingestion and query paths.
func (s *Store) EnsureShard(ctx context.Context, monthKey string) (string, error) {
	if _, err := s.getShard(ctx, monthKey); err != nil {
		return "", err
	}
	return s.ShardPath(monthKey), nil
}

// getShard returns the open handle for a month, opening and ensuring schema
// on first touch. The store mutex makes first-touch race-free in process;
// the IF NOT EXISTS DDL makes it race-free across processes.
func (s *Store) getShard(ctx context.Context, monthKey string) (*shard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sh, ok := s.shards[monthKey]; ok {
		return sh, nil
	}

	conn, err := dbpkg.Open(ctx, s.ShardPath(monthKey))
	if err != nil {
		return nil, fmt.Errorf("open shard %s: %w", monthKey, err)
	}
	if err := ensureSchema(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ensure shard %s schema: %w", monthKey, err)
	}

	sh := &shard{conn: conn, writer: dbpkg.NewWorker(conn, monthKey)}
	s.shards[monthKey] = sh
	return sh, nil
}

func ensureSchema(ctx context.Context, conn *sql.DB) error {
	if _, err := conn.ExecContext(ctx, eventsTableSQL); err != nil {
		return err
	}
	for _, stmt := range eventsIndexSQL {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// AppendMonth appends the batch to monthKey's shard in one transaction.
// Seq values come from AUTOINCREMENT, so they are strictly increasing with
// insertion order even when timestamps arrive out of order.
func (s *Store) AppendMonth(ctx context.Context, monthKey string, recs []event.Record) error {
	if len(recs) == 0 {
		return nil
	}

	sh, err := s.getShard(ctx, monthKey)
	if err != nil {
		return err
	}

	return sh.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO events (ts, event_type, badge_id, status, raw_message)
VALUES (?, ?, ?, ?, ?);`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, rec := range recs {
			var badge any
			if rec.BadgeID != nil {
				badge = *rec.BadgeID
			}
			if _, err := stmt.ExecContext(ctx,
				rec.Timestamp(), rec.EventType, badge, rec.Status, rec.RawMessage,
			); err != nil {
				return fmt.Errorf("insert event: %w", err)
			}
		}
		return nil
	})
}

// QueryMonth returns a whole shard's contents in ascending timestamp order.
// The read uses its own short-lived connection so it is not blocked by an
// in-flight batch commit (WAL).
func (s *Store) QueryMonth(ctx context.Context, monthKey string) ([]event.Record, error) {
	if !s.ShardExists(monthKey) {
		return nil, nil
	}

	conn, err := dbpkg.Open(ctx, s.ShardPath(monthKey))
	if err != nil {
		return nil, fmt.Errorf("open shard %s: %w", monthKey, err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, `
SELECT id, ts, event_type, badge_id, status, raw_message
FROM events ORDER BY ts ASC, id ASC;`)
	if err != nil {
		return nil, fmt.Errorf("query shard %s: %w", monthKey, err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]event.Record, error) {
	var out []event.Record
	for rows.Next() {
		var (
			rec   event.Record
			ts    string
			badge sql.NullString
		)
		if err := rows.Scan(&rec.Seq, &ts, &rec.EventType, &badge, &rec.Status, &rec.RawMessage); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		parsed, err := time.Parse(event.TimeLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("stored timestamp %q: %w", ts, err)
		}
		rec.TS = parsed
		if badge.Valid {
			b := badge.String
			rec.BadgeID = &b
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return out, nil
}

// Close closes every open shard handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for key, sh := range s.shards {
		sh.writer.Close()
		if err := sh.conn.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close shard %s: %w", key, err)
		}
		delete(s.shards, key)
	}
	return firstErr
}
