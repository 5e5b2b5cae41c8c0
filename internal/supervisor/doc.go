// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

/*
Package supervisor provides process supervision for Mercator using suture v4.

The tree organizes long-running services into three layers:

	RootSupervisor ("mercator")
	├── DataSupervisor ("data-layer")
	│   ├── WALFlushService (if WAL_ENABLED)
	│   └── CacheJanitorService (if CACHE_ENABLED)
	├── ModelSupervisor ("model-layer")
	│   └── TrainerService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Each layer counts failures independently, so a flusher that cannot reach
DuckDB backs off without restarting the HTTP server, and a panicking
training run is restarted without dropping in-flight requests. The engine
keeps serving the last good snapshot throughout.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewWALFlushService(flusher, w, cfg.WAL.FlushInterval, logger))
	tree.AddModelService(services.NewTrainerService(engine, trainerCfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	errCh := tree.ServeBackground(ctx)
	<-ctx.Done()
	<-errCh

# Service Contract

Services implement suture.Service:

  - return nil: stopped cleanly, not restarted
  - return an error: crashed, restarted with backoff
  - context canceled: shutdown requested, return ctx.Err() promptly

# What Is NOT Supervised

DuckDB and BadgerDB are embedded libraries opened once in main. The
circuit breaker around the store isolates query failures; a database that
cannot be reopened requires a process restart.
*/
package supervisor
