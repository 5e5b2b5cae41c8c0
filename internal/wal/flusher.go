// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package wal

import (
	"context"
	"fmt"

	"github.com/tomtom215/mercator/internal/logging"
	"github.com/tomtom215/mercator/internal/metrics"
	"github.com/tomtom215/mercator/internal/recommend"
)

// Sink receives flushed events. *database.DB satisfies it.
type Sink interface {
	InsertEvents(ctx context.Context, events []recommend.Event) error
}

// Flusher moves pending entries from the WAL into a Sink in batches.
type Flusher struct {
	wal       *WAL
	sink      Sink
	batchSize int
}

// NewFlusher creates a flusher delivering batches of batchSize entries.
func NewFlusher(w *WAL, sink Sink, batchSize int) *Flusher {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Flusher{wal: w, sink: sink, batchSize: batchSize}
}

// Flush delivers pending entries until the WAL is drained or a batch fails.
// It returns the number of entries delivered. On failure the batch stays in
// the WAL with its attempt count raised.
func (f *Flusher) Flush(ctx context.Context) (int, error) {
	delivered := 0
	for {
		entries, err := f.wal.Pending(ctx, f.batchSize)
		if err != nil {
			return delivered, err
		}
		if len(entries) == 0 {
			return delivered, nil
		}

		events := make([]recommend.Event, len(entries))
		ids := make([]string, len(entries))
		for i, entry := range entries {
			events[i] = entry.Event
			ids[i] = entry.ID
		}

		if err := f.sink.InsertEvents(ctx, events); err != nil {
			metrics.WALFlushErrors.Inc()
			dropped, rerr := f.wal.RecordFailure(entries, err)
			if rerr != nil {
				logging.Error().Err(rerr).Msg("WAL failed to record delivery failure")
			}
			logging.Warn().
				Err(err).
				Int("batch", len(entries)).
				Int("dropped", dropped).
				Msg("WAL flush failed")
			return delivered, fmt.Errorf("flush %d WAL entries: %w", len(entries), err)
		}

		if err := f.wal.Delete(ids...); err != nil {
			return delivered, fmt.Errorf("delete flushed entries: %w", err)
		}
		delivered += len(entries)

		if len(entries) < f.batchSize {
			return delivered, nil
		}
	}
}
