package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// pragmas applied to every shard connection. Good defaults for a
// single-process server:
// - WAL so range reads proceed while a batch commits
// - synchronous NORMAL for performance with good safety
// - busy_timeout to reduce SQLITE_BUSY when a shard is first-touched twice
const pragmas = "_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)"

// Open opens one shard file, creating its parent directory if needed.
// The pool is pinned to a single connection: SQLite allows one writer at a
// time per file, and a single connection keeps transactions trivially
// serialized without SQLITE_BUSY churn.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir shard dir: %w", err)
	}

	conn, err := sql.Open("sqlite", fmt.Sprintf("file:%s?%s", path, pragmas))
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("shard ping: %w", err)
	}

	return conn, nil
}

// OpenScratch opens a private in-memory database. The cross-shard range
// query attaches shard files to one of these and merges with a UNION ALL.
func OpenScratch(ctx context.Context) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("scratch db ping: %w", err)
	}

	return conn, nil
}
