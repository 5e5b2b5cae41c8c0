// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

/*
Package services provides suture.Service wrappers for Mercator components.

Each wrapper translates a component's lifecycle (ListenAndServe, a periodic
call) into suture's context-aware Serve and names itself through
fmt.Stringer for supervisor events.

# Available Services

HTTPServerService:
  - wraps *http.Server
  - drains in-flight requests on shutdown within a timeout

TrainerService:
  - optional training run at startup
  - periodic retraining via TryTrain, skipping ticks while a manual run holds the lock
  - failed runs are logged; the previous snapshot keeps serving

WALFlushService:
  - moves buffered events from BadgerDB into DuckDB every flush interval
  - performs a final flush on shutdown with a detached context
  - runs BadgerDB value log GC periodically

CacheJanitorService:
  - evicts expired trending and related cache entries

# Return Contract

Every service returns ctx.Err() on shutdown. Only the HTTP service returns
other errors (listener failure), which makes suture restart it with
backoff. Periodic work that fails is logged and retried on the next tick.
*/
package services
