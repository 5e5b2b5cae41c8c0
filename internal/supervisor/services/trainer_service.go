// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/mercator/internal/recommend"
)

// Trainer is the training surface of *recommend.Engine.
type Trainer interface {
	Train(ctx context.Context) (recommend.TrainStats, error)
	TryTrain(ctx context.Context) (recommend.TrainStats, error)
}

// TrainerConfig holds the training schedule.
type TrainerConfig struct {
	// TrainOnStartup trains once as soon as the service starts.
	TrainOnStartup bool

	// Interval between scheduled runs. Zero disables the schedule.
	Interval time.Duration

	// Timeout bounds a single run. Default: 30m
	Timeout time.Duration
}

// TrainerService retrains the engine's strategy on a schedule.
//
// A failed run is logged and the previous snapshot keeps serving; the
// service itself only returns on shutdown. A scheduled tick that lands while
// a manual POST /train is running is skipped rather than queued.
type TrainerService struct {
	engine Trainer
	config TrainerConfig
	logger zerolog.Logger
	name   string
}

// NewTrainerService creates the training scheduler.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTrainerService(engine Trainer, cfg TrainerConfig, logger zerolog.Logger) *TrainerService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Minute
	}
	return &TrainerService{
		engine: engine,
		config: cfg,
		logger: logger.With().Str("service", "trainer").Logger(),
		name:   "trainer-service",
	}
}

// Serve implements suture.Service.
func (s *TrainerService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("train_on_startup", s.config.TrainOnStartup).
		Dur("train_interval", s.config.Interval).
		Msg("trainer starting")

	if s.config.TrainOnStartup {
		s.run(ctx, s.engine.Train, "startup")
	}

	if s.config.Interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("trainer shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.run(ctx, s.engine.TryTrain, "scheduled")
		}
	}
}

func (s *TrainerService) run(ctx context.Context, train func(context.Context) (recommend.TrainStats, error), trigger string) {
	trainCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	stats, err := train(trainCtx)
	switch {
	case errors.Is(err, recommend.ErrTrainingInProgress):
		s.logger.Debug().Str("trigger", trigger).Msg("training already running, tick skipped")
	case err != nil:
		s.logger.Warn().Err(err).Str("trigger", trigger).Msg("training failed, previous model kept")
	default:
		s.logger.Info().
			Str("trigger", trigger).
			Int64("events", stats.Events).
			Int64("products", stats.Products).
			Dur("duration", time.Since(start)).
			Msg("training complete")
	}
}

// String implements fmt.Stringer for suture events.
func (s *TrainerService) String() string {
	return s.name
}
