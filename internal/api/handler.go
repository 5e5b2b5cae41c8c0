// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

// Package api provides the HTTP surface of the recommendation engine: chi
// routing, request validation and JSON responses.
package api

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/mercator/internal/recommend"
)

// Recommender is the engine surface used by the handlers.
// *recommend.Engine satisfies it.
type Recommender interface {
	Personalized(ctx context.Context, req recommend.PersonalizedRequest) recommend.Recommendation
	Trending(ctx context.Context, days, limit int) recommend.Ranked
	AlsoBought(ctx context.Context, seed string, limit int) recommend.Ranked
	AlsoViewed(ctx context.Context, seed string, limit int) recommend.Ranked
	Profile(ctx context.Context, actor recommend.ActorKey) (*recommend.UserProfile, error)
	TryTrain(ctx context.Context) (recommend.TrainStats, error)
	Snapshot() recommend.SnapshotInfo
	LastTrain() *recommend.TrainReport
	StrategyName() string
	Config() recommend.Config
}

// EventInserter writes events straight to the store. *database.DB
// satisfies it.
type EventInserter interface {
	InsertEvents(ctx context.Context, events []recommend.Event) error
}

// EventLog buffers events durably. *wal.WAL satisfies it.
type EventLog interface {
	Write(ctx context.Context, events []recommend.Event) ([]string, error)
}

// Pinger reports store liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StateReporter reports circuit breaker state.
type StateReporter interface {
	State() string
}

// Deps are the collaborators of a Handler. Engine and Events are required.
type Deps struct {
	Engine  Recommender
	Events  EventInserter
	WAL     EventLog // optional; events go to Events directly when nil
	DB      Pinger   // optional
	Breaker StateReporter

	// TrainCooldown is the minimum spacing of manual train requests.
	// Zero disables the cooldown.
	TrainCooldown time.Duration

	Logger zerolog.Logger
}

// Handler serves the API endpoints.
type Handler struct {
	engine  Recommender
	events  EventInserter
	wal     EventLog
	db      Pinger
	breaker StateReporter

	trainLimiter *rate.Limiter
	startTime    time.Time
	now          func() time.Time
	logger       zerolog.Logger
}

// NewHandler creates a Handler.
//
//nolint:gocritic // Deps carries a zerolog.Logger by value
func NewHandler(deps Deps) (*Handler, error) {
	if deps.Engine == nil {
		return nil, errors.New("engine is required")
	}
	if deps.Events == nil {
		return nil, errors.New("event inserter is required")
	}

	var limiter *rate.Limiter
	if deps.TrainCooldown > 0 {
		limiter = rate.NewLimiter(rate.Every(deps.TrainCooldown), 1)
	}

	return &Handler{
		engine:       deps.Engine,
		events:       deps.Events,
		wal:          deps.WAL,
		db:           deps.DB,
		breaker:      deps.Breaker,
		trainLimiter: limiter,
		startTime:    time.Now(),
		now:          time.Now,
		logger:       deps.Logger.With().Str("component", "api").Logger(),
	}, nil
}
