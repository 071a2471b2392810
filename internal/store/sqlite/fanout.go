package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	dbpkg "github.com/doorlog/doorlog/internal/db"
	"github.com/doorlog/doorlog/internal/event"
)

// maxAttachedShards is SQLite's default SQLITE_MAX_ATTACHED. Ranges touching
// more shards than this are fanned out in batches of this size.
const maxAttachedShards = 10

// QueryRange fans one logical range query out across every shard overlapping
// [start, end] and merges the results in ascending timestamp order. Callers
// see exactly what a single unsharded store would return for the same
// predicate. A range touching no existing shard yields an empty result.
func (s *Store) QueryRange(ctx context.Context, start, end time.Time, eventTypes []string) ([]event.Record, error) {
	paths, err := s.shardPathsInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, nil
	}

	// Shards partition time by month and paths arrive in chronological
	// order, so every record in one batch precedes every record in the
	// next. Concatenating batch results keeps the global order.
	var out []event.Record
	for len(paths) > 0 {
		batch := paths
		if len(batch) > maxAttachedShards {
			batch = batch[:maxAttachedShards]
		}
		paths = paths[len(batch):]

		recs, err := s.queryShardBatch(ctx, batch, start, end, eventTypes)
		if err != nil {
			return nil, err
		}
		out = append(out, recs...)
	}
	return out, nil
}

// queryShardBatch attaches up to maxAttachedShards shard files to a scratch
// connection and runs a UNION ALL of identical filtered selects over them.
// The scratch connection is closed on every path, which also detaches the
// shards.
func (s *Store) queryShardBatch(ctx context.Context, paths []string, start, end time.Time, eventTypes []string) ([]event.Record, error) {
	conn, err := dbpkg.OpenScratch(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	aliases := make([]string, len(paths))
	for i, path := range paths {
		aliases[i] = fmt.Sprintf("m%d", i)
		if _, err := conn.ExecContext(ctx,
			fmt.Sprintf("ATTACH DATABASE ? AS %s;", aliases[i]), path,
		); err != nil {
			return nil, fmt.Errorf("attach shard %s: %w", path, err)
		}
	}

	where := "WHERE ts >= ? AND ts <= ?"
	if len(eventTypes) > 0 {
		where += fmt.Sprintf(" AND event_type IN (%s)", placeholders(len(eventTypes)))
	}

	var args []any
	for range aliases {
		args = append(args, start.Format(event.TimeLayout), end.Format(event.TimeLayout))
		for _, et := range eventTypes {
			args = append(args, et)
		}
	}

	query := fmt.Sprintf(
		"SELECT id, ts, event_type, badge_id, status, raw_message FROM (%s) ORDER BY ts ASC, id ASC;",
		unionQuery(aliases, where),
	)

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("range query: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// shardPathsInRange resolves the existing shard files overlapping the range,
// in chronological order. An absent shard contributes nothing, except the
// current month's, which is created so "now" queries never spuriously miss
// the active shard.
func (s *Store) shardPathsInRange(ctx context.Context, start, end time.Time) ([]string, error) {
	nowKey := event.MonthKey(s.now())

	var paths []string
	for _, monthKey := range event.MonthKeysInRange(start, end) {
		if s.ShardExists(monthKey) {
			paths = append(paths, s.ShardPath(monthKey))
			continue
		}
		if monthKey == nowKey {
			path, err := s.EnsureShard(ctx, monthKey)
			if err != nil {
				return nil, err
			}
			paths = append(paths, path)
		}
	}
	return paths, nil
}

// unionQuery builds the per-shard selects joined by UNION ALL. Each select
// carries the identical where clause, so the parameter list repeats per
// alias in attachment order.
func unionQuery(aliases []string, where string) string {
	parts := make([]string, len(aliases))
	for i, alias := range aliases {
		parts[i] = fmt.Sprintf(
			"SELECT id, ts, event_type, badge_id, status, raw_message FROM %s.events %s",
			alias, where,
		)
	}
	return strings.Join(parts, " UNION ALL ")
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
