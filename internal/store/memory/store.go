// Package memory implements the event store interface on in-process maps.
// It is intended for tests and dev environments.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/doorlog/doorlog/internal/event"
)

// Store keeps one slice of records per month key, mirroring the sqlite
// backend's shard-per-month semantics (including per-month Seq assignment).
type Store struct {
	mu     sync.Mutex
	months map[string][]event.Record
	seqs   map[string]int64
}

func New() *Store {
	return &Store{
		months: make(map[string][]event.Record),
		seqs:   make(map[string]int64),
	}
}

func (s *Store) AppendMonth(_ context.Context, monthKey string, recs []event.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range recs {
		s.seqs[monthKey]++
		rec.Seq = s.seqs[monthKey]
		s.months[monthKey] = append(s.months[monthKey], rec)
	}
	return nil
}

func (s *Store) QueryRange(_ context.Context, start, end time.Time, eventTypes []string) ([]event.Record, error) {
	var filter map[string]struct{}
	if len(eventTypes) > 0 {
		filter = make(map[string]struct{}, len(eventTypes))
		for _, et := range eventTypes {
			filter[et] = struct{}{}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []event.Record
	for _, recs := range s.months {
		for _, rec := range recs {
			if rec.TS.Before(start) || rec.TS.After(end) {
				continue
			}
			if filter != nil {
				if _, ok := filter[rec.EventType]; !ok {
					continue
				}
			}
			out = append(out, rec)
		}
	}
	sortRecords(out)
	return out, nil
}

func (s *Store) QueryMonth(_ context.Context, monthKey string) ([]event.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := s.months[monthKey]
	out := make([]event.Record, len(recs))
	copy(out, recs)
	sortRecords(out)
	return out, nil
}

func (s *Store) Close() error { return nil }

// sortRecords matches the sqlite backend's ORDER BY ts ASC, id ASC.
func sortRecords(recs []event.Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		if !recs[i].TS.Equal(recs[j].TS) {
			return recs[i].TS.Before(recs[j].TS)
		}
		return recs[i].Seq < recs[j].Seq
	})
}
