package db

import (
	"context"
	"database/sql"
	"fmt"
)

type TxFn func(ctx context.Context, tx *sql.Tx) error

type job struct {
	ctx context.Context
	fn  TxFn
	ch  chan error
}

// Worker serializes write transactions against one shard. Every shard handle
// gets its own worker, so concurrent ingestion paths touching the same month
// commit one at a time while different months proceed independently.
type Worker struct {
	db    *sql.DB
	shard string
	jobs  chan job
	done  chan struct{}
}

// NewWorker starts the writer goroutine for one shard handle. The shard key
// labels transaction errors so a failing month is identifiable from the
// ingestion log alone.
func NewWorker(db *sql.DB, shard string) *Worker {
	w := &Worker{
		db:    db,
		shard: shard,
		jobs:  make(chan job, 64),
		done:  make(chan struct{}),
	}
	go w.loop()
	return w
}

func (w *Worker) Close() {
	close(w.jobs)
	<-w.done
}

// Do runs fn inside a transaction on the worker goroutine and waits for the
// result. If the caller's context expires while the job is queued or running,
// Do returns early; the transaction still completes and its result is
// discarded via the buffered channel.
func (w *Worker) Do(ctx context.Context, fn TxFn) error {
	ch := make(chan error, 1)
	j := job{ctx: ctx, fn: fn, ch: ch}

	select {
	case w.jobs <- j:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-ch:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) loop() {
	defer close(w.done)

	for j := range w.jobs {
		tx, err := w.db.BeginTx(j.ctx, nil)
		if err != nil {
			j.ch <- fmt.Errorf("shard %s: begin tx: %w", w.shard, err)
			continue
		}

		if err := j.fn(j.ctx, tx); err != nil {
			_ = tx.Rollback()
			j.ch <- fmt.Errorf("shard %s: %w", w.shard, err)
			continue
		}

		if err := tx.Commit(); err != nil {
			j.ch <- fmt.Errorf("shard %s: commit: %w", w.shard, err)
			continue
		}
		j.ch <- nil
	}
}
