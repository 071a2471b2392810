// Package ingest streams controller action logs into the month-sharded store.
package ingest

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/doorlog/doorlog/internal/event"
	"github.com/doorlog/doorlog/internal/logparse"
	"github.com/doorlog/doorlog/internal/store"
)

// DefaultBatchSize bounds how many records accumulate per shard before a
// commit. One commit per batch (and one at EOF) keeps write amplification
// bounded without holding a file's worth of rows in memory.
const DefaultBatchSize = 500

type Ingestor struct {
	store     store.EventStore
	batchSize int
	logger    *log.Logger
}

func New(st store.EventStore, batchSize int, logger *log.Logger) *Ingestor {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Ingestor{store: st, batchSize: batchSize, logger: logger}
}

// File streams one action log through the parser and appends every usable
// record to its owning month shard. Malformed lines are skipped silently;
// an absent file is a no-op (ingestion may be invoked speculatively).
// Storage failures propagate immediately; batches already committed stay
// durable, the in-flight batch is lost.
func (ing *Ingestor) File(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("open action log: %w", err)
	}
	defer f.Close()

	inserted := 0
	pending := make(map[string][]event.Record)

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		rec, ok := logparse.Parse(sc.Text())
		if !ok {
			continue
		}

		monthKey := event.MonthKey(rec.TS)
		pending[monthKey] = append(pending[monthKey], rec)
		if len(pending[monthKey]) < ing.batchSize {
			continue
		}

		if err := ing.store.AppendMonth(ctx, monthKey, pending[monthKey]); err != nil {
			return inserted, fmt.Errorf("append %s batch: %w", monthKey, err)
		}
		inserted += len(pending[monthKey])
		pending[monthKey] = nil
	}
	if err := sc.Err(); err != nil {
		return inserted, fmt.Errorf("read action log: %w", err)
	}

	for monthKey, recs := range pending {
		if len(recs) == 0 {
			continue
		}
		if err := ing.store.AppendMonth(ctx, monthKey, recs); err != nil {
			return inserted, fmt.Errorf("append %s batch: %w", monthKey, err)
		}
		inserted += len(recs)
	}

	if ing.logger != nil {
		ing.logger.Printf("ingested %d events from %s", inserted, path)
	}
	return inserted, nil
}
