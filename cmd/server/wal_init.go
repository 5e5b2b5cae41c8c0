// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/mercator/internal/config"
	"github.com/tomtom215/mercator/internal/supervisor"
	"github.com/tomtom215/mercator/internal/supervisor/services"
	"github.com/tomtom215/mercator/internal/wal"
)

// initWAL opens the event WAL and registers its flush loop. It returns nil
// when WAL_ENABLED=false; callers must then insert events directly.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initWAL(cfg *config.WALConfig, sink wal.Sink, tree *supervisor.SupervisorTree, logger zerolog.Logger) (*wal.WAL, error) {
	if !cfg.Enabled {
		logger.Info().Msg("event WAL disabled (WAL_ENABLED=false), events are inserted directly")
		return nil, nil
	}

	w, err := wal.Open(*cfg)
	if err != nil {
		return nil, fmt.Errorf("open WAL: %w", err)
	}

	flusher := wal.NewFlusher(w, sink, cfg.BatchSize)
	tree.AddDataService(services.NewWALFlushService(flusher, w, cfg.FlushInterval, logger))

	logger.Info().
		Str("path", cfg.Path).
		Int64("pending", w.Stats().Pending).
		Dur("flush_interval", cfg.FlushInterval).
		Msg("event WAL opened")
	return w, nil
}
