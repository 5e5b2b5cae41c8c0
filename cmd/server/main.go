// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

// Package main is the entry point for the Mercator recommendation server.
//
// Mercator scores products for an e-commerce storefront from its interaction
// events: personalized rankings per user or session, trending products, and
// also-bought / also-viewed lists for a product page.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: defaults, config.yaml, then environment (Koanf v2)
//  2. Database: DuckDB with versioned migrations, optional demo seed
//  3. Circuit breaker around every store query (gobreaker)
//  4. Engine: the configured strategy plus trending and related rankers,
//     optionally behind the LRU ranking cache
//  5. Event WAL (optional): BadgerDB buffer flushed into DuckDB
//  6. HTTP server: chi router with CORS, rate limiting and Prometheus metrics
//  7. Supervisor tree (suture v4) running the services above
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains,
// the WAL flusher performs a final flush, and then the WAL and database
// are closed in that order.
//
// # Example Usage
//
//	export RECOMMEND_STRATEGY=profile
//	export SEED_DEMO_DATA=true
//	./mercator
//
//	curl -X POST localhost:5001/recommendations/personalized \
//	  -d '{"userId":"65a1f0c2e4b0a1b2c3d4e5f6","limit":5}'
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/mercator/internal/api"
	"github.com/tomtom215/mercator/internal/breaker"
	"github.com/tomtom215/mercator/internal/config"
	"github.com/tomtom215/mercator/internal/database"
	"github.com/tomtom215/mercator/internal/logging"
	"github.com/tomtom215/mercator/internal/supervisor"
	"github.com/tomtom215/mercator/internal/supervisor/services"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Mercator stopped with an error")
	}
}

//nolint:gocyclo // sequential setup steps
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Format = cfg.Logging.Format
	logCfg.Caller = cfg.Logging.Caller
	logging.Init(logCfg)

	logger := logging.Logger()
	logger.Info().
		Str("addr", cfg.Server.Addr()).
		Str("db_path", cfg.Database.Path).
		Str("strategy", cfg.Recommend.Strategy).
		Msg("Starting Mercator")

	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	if cfg.Database.SeedDemo {
		seeded, err := db.SeedDemoData(context.Background(), time.Now().UTC())
		if err != nil {
			return err
		}
		logging.Info().Bool("seeded", seeded).Msg("Demo data check complete")
	}

	store := breaker.NewStore(db, cfg.Breaker)

	rec, err := initRecommend(cfg, store, logger)
	if err != nil {
		return err
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout + 5*time.Second,
	})
	if err != nil {
		return err
	}

	// Writes bypass the breaker.
	eventLog, err := initWAL(&cfg.WAL, db, tree, logger)
	if err != nil {
		return err
	}

	deps := api.Deps{
		Engine:        rec.Engine,
		Events:        db,
		DB:            db,
		Breaker:       store,
		TrainCooldown: cfg.Recommend.TrainCooldown,
		Logger:        logger,
	}
	if eventLog != nil {
		deps.WAL = eventLog
	}
	handler, err := api.NewHandler(deps)
	if err != nil {
		return err
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(cfg.Security)))

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout).WithLogger(logger))
	tree.AddModelService(services.NewTrainerService(rec.Engine, services.TrainerConfig{
		TrainOnStartup: cfg.Recommend.TrainOnStartup,
		Interval:       cfg.Recommend.TrainInterval,
		Timeout:        cfg.Recommend.TrainTimeout,
	}, logger))
	if rec.Rankings != nil {
		tree.AddDataService(services.NewCacheJanitorService(rec.Rankings, cfg.Cache.TTL, logger))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := tree.ServeBackground(ctx)
	logging.Info().Str("addr", server.Addr).Msg("Mercator is ready")

	<-ctx.Done()
	logging.Info().Msg("Shutdown signal received")

	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree stopped with error")
	}
	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		logging.Warn().Int("count", len(report)).Msg("Services did not stop within the shutdown timeout")
	}

	if eventLog != nil {
		if err := eventLog.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event WAL")
		}
	}

	logging.Info().Msg("Mercator stopped")
	return nil
}
