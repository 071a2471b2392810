package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := Open(context.Background(), filepath.Join(t.TempDir(), "shard.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestWorker_CommitsOnSuccess(t *testing.T) {
	conn := openTestDB(t)
	w := NewWorker(conn, "2026-02")
	defer w.Close()

	ctx := context.Background()
	err := w.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "CREATE TABLE t (n INTEGER);"); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, "INSERT INTO t (n) VALUES (1);")
		return err
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}

	var n int
	if err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM t;").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 committed row, got %d", n)
	}
}

func TestWorker_ErrorsCarryShardKey(t *testing.T) {
	conn := openTestDB(t)
	w := NewWorker(conn, "2026-02")
	defer w.Close()

	boom := errors.New("boom")
	err := w.Do(context.Background(), func(ctx context.Context, tx *sql.Tx) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped fn error, got %v", err)
	}
	if !strings.Contains(err.Error(), "shard 2026-02") {
		t.Errorf("expected the shard key in the error, got %q", err)
	}
}

func TestWorker_RollsBackOnError(t *testing.T) {
	conn := openTestDB(t)
	w := NewWorker(conn, "2026-02")
	defer w.Close()

	ctx := context.Background()
	if err := w.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "CREATE TABLE t (n INTEGER);")
		return err
	}); err != nil {
		t.Fatalf("Do: %v", err)
	}

	wantErr := errors.New("abort")
	if err := w.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "INSERT INTO t (n) VALUES (1);"); err != nil {
			return err
		}
		return wantErr
	}); !errors.Is(err, wantErr) {
		t.Fatalf("expected abort error, got %v", err)
	}

	var n int
	if err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM t;").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("expected rollback to discard the insert, got %d rows", n)
	}
}
