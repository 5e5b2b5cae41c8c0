// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// WALFlusher drains buffered events into the store. Satisfied by
// *wal.Flusher.
type WALFlusher interface {
	Flush(ctx context.Context) (int, error)
}

// WALCollector reclaims value log space. Satisfied by *wal.WAL.
type WALCollector interface {
	RunGC() error
}

const (
	// walGCEvery runs value log GC once per this many flush ticks.
	walGCEvery = 60

	walFinalFlushTimeout = 10 * time.Second
)

// WALFlushService moves events from the WAL into DuckDB on a fixed
// interval and once more on shutdown.
//
// A failed flush leaves its batch in the WAL with an incremented attempt
// count, so the service logs and keeps ticking instead of returning an
// error; restarting would not make the store reachable any sooner.
type WALFlushService struct {
	flusher   WALFlusher
	collector WALCollector
	interval  time.Duration
	logger    zerolog.Logger
	name      string
}

// NewWALFlushService creates the flush loop. collector may be nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewWALFlushService(flusher WALFlusher, collector WALCollector, interval time.Duration, logger zerolog.Logger) *WALFlushService {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &WALFlushService{
		flusher:   flusher,
		collector: collector,
		interval:  interval,
		logger:    logger.With().Str("service", "wal-flush").Logger(),
		name:      "wal-flush",
	}
}

// Serve implements suture.Service.
func (s *WALFlushService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	ticks := 0
	for {
		select {
		case <-ctx.Done():
			// Drain what is left before the WAL is closed.
			finalCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), walFinalFlushTimeout)
			s.flush(finalCtx)
			cancel()
			return ctx.Err()

		case <-ticker.C:
			s.flush(ctx)
			ticks++
			if s.collector != nil && ticks%walGCEvery == 0 {
				if err := s.collector.RunGC(); err != nil {
					s.logger.Warn().Err(err).Msg("wal value log gc failed")
				}
			}
		}
	}
}

func (s *WALFlushService) flush(ctx context.Context) {
	n, err := s.flusher.Flush(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Int("flushed", n).Msg("wal flush incomplete")
		return
	}
	if n > 0 {
		s.logger.Debug().Int("flushed", n).Msg("wal flushed")
	}
}

// String implements fmt.Stringer for suture events.
func (s *WALFlushService) String() string {
	return s.name
}
