// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Note: this package has no dependencies on other internal packages. The
// Store, Strategy and Observer interfaces let the database, algorithm and
// metrics layers plug in without import cycles.

// Method names the orchestrator path that satisfied a request. It is
// informational only.
type Method string

const (
	// MethodTrending: no actor was supplied.
	MethodTrending Method = "trending"
	// MethodCollaborative: the collaborative stage filled the request.
	MethodCollaborative Method = "collaborative"
	// MethodHybrid: the hybrid merge stage filled the request.
	MethodHybrid Method = "hybrid"
	// MethodContentBackfill: the content stage was needed.
	MethodContentBackfill Method = "content_backfill"
	// MethodTrendingBackfill: the trending stage was needed.
	MethodTrendingBackfill Method = "trending_backfill"
)

// Stage labels reported to the Observer.
const (
	StageCollaborative = "collaborative"
	StageContent       = "content"
	StageHybrid        = "hybrid"
	StageTrending      = "trending"
	StageAlsoBought    = "also_bought"
	StageAlsoViewed    = "also_viewed"
)

// PersonalizedRequest asks for recommendations for an actor. A nil Actor
// is an anonymous request.
type PersonalizedRequest struct {
	Actor *ActorKey
	Limit int
}

// Recommendation is an ordered, duplicate-free product list.
type Recommendation struct {
	ProductIDs []ProductID `json:"productIds"`
	Method     Method      `json:"method"`
}

// Engine orchestrates a Strategy and the side-path rankers.
// It is safe for concurrent use.
type Engine struct {
	config   *Config
	logger   zerolog.Logger
	strategy Strategy
	rankers  Rankers
	observer Observer

	// trainMu serializes Train; ranking never takes it.
	trainMu   sync.Mutex
	training  atomic.Bool
	lastTrain atomic.Pointer[TrainReport]
}

// TrainReport is the outcome of the most recent train run.
type TrainReport struct {
	Stats      TrainStats    `json:"stats"`
	Error      string        `json:"error,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
	Successful bool          `json:"successful"`
}

// NewEngine creates an engine. Trending is required; the remaining rankers
// are optional and their operations return empty results when unset.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, strategy Strategy, rankers Rankers, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if strategy == nil {
		return nil, errors.New("strategy is required")
	}
	if rankers.Trending == nil {
		return nil, errors.New("trending ranker is required")
	}

	return &Engine{
		config:   cfg,
		logger:   logger.With().Str("component", "recommend").Str("strategy", strategy.Name()).Logger(),
		strategy: strategy,
		rankers:  rankers,
		observer: nopObserver{},
	}, nil
}

// SetObserver installs a metrics observer.
func (e *Engine) SetObserver(o Observer) {
	if o == nil {
		o = nopObserver{}
	}
	e.observer = o
}

// StrategyName returns the configured strategy.
func (e *Engine) StrategyName() string {
	return e.strategy.Name()
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return *e.config
}

// Personalized runs the fallback chain for a request:
//
//  1. no actor: trending, done
//  2. collaborative (or hybrid merge when enabled)
//  3. content backfill for the shortfall
//  4. trending backfill for the shortfall
//  5. truncate to the limit
//
// Each stage only appends candidates not already accepted, so earlier
// stages are never reordered. The result is never an error: failing stages
// degrade to empty output and the chain continues.
func (e *Engine) Personalized(ctx context.Context, req PersonalizedRequest) Recommendation {
	limit := e.config.clampLimit(req.Limit, e.config.DefaultLimit)

	if req.Actor == nil || req.Actor.IsZero() {
		trending := e.Trending(ctx, e.config.TrendingDays, limit)
		return Recommendation{ProductIDs: truncate(trending.ProductIDs, limit), Method: MethodTrending}
	}

	actor := *req.Actor
	logger := e.logger.With().Str("actor", actor.String()).Int("limit", limit).Logger()
	acc := newAccumulator(limit)

	method := MethodCollaborative
	if e.config.HybridMerge {
		method = MethodHybrid
		acc.add(e.hybrid(ctx, actor, limit))
	} else {
		collab := e.strategy.Collaborative(ctx, actor, limit)
		e.observe(StageCollaborative, collab, logger)
		acc.add(collab.ProductIDs)
	}

	if !acc.full() {
		method = MethodContentBackfill
		content := e.strategy.Content(ctx, actor, acc.remaining())
		e.observe(StageContent, content, logger)
		acc.add(content.ProductIDs)
	}

	if !acc.full() {
		method = MethodTrendingBackfill
		trending := e.Trending(ctx, e.config.TrendingDays, acc.remaining())
		acc.add(trending.ProductIDs)
	}

	logger.Debug().
		Str("method", string(method)).
		Int("returned", len(acc.ids)).
		Msg("personalized recommendation complete")

	return Recommendation{ProductIDs: acc.ids, Method: method}
}

// hybrid merges collaborative and content candidates, each fetched at twice
// the requested size so the merge has material to reorder.
func (e *Engine) hybrid(ctx context.Context, actor ActorKey, limit int) []ProductID {
	collab := e.strategy.Collaborative(ctx, actor, 2*limit)
	e.observe(StageCollaborative, collab, e.logger)
	content := e.strategy.Content(ctx, actor, 2*limit)
	e.observe(StageContent, content, e.logger)

	merged := OK(HybridMerge(collab.ProductIDs, content.ProductIDs, limit))
	e.observe(StageHybrid, merged, e.logger)
	return merged.ProductIDs
}

// Trending returns the trailing-window trending ranking. days <= 0 uses the
// configured window.
func (e *Engine) Trending(ctx context.Context, days, limit int) Ranked {
	if days <= 0 {
		days = e.config.TrendingDays
	}
	limit = e.config.clampLimit(limit, e.config.DefaultLimit)
	r := e.rankers.Trending.Trending(ctx, days, limit)
	r.ProductIDs = truncate(r.ProductIDs, limit)
	e.observe(StageTrending, r, e.logger)
	return r
}

// AlsoBought ranks products co-purchased with seed.
func (e *Engine) AlsoBought(ctx context.Context, seed string, limit int) Ranked {
	return e.related(ctx, StageAlsoBought, e.rankers.AlsoBought, seed, limit)
}

// AlsoViewed ranks products co-viewed with seed.
func (e *Engine) AlsoViewed(ctx context.Context, seed string, limit int) Ranked {
	return e.related(ctx, StageAlsoViewed, e.rankers.AlsoViewed, seed, limit)
}

func (e *Engine) related(ctx context.Context, stage string, ranker RelatedRanker, seed string, limit int) Ranked {
	if ranker == nil {
		return Empty()
	}
	limit = e.config.clampLimit(limit, e.config.RelatedLimit)
	r := ranker.Related(ctx, seed, limit)
	r.ProductIDs = truncate(r.ProductIDs, limit)
	e.observe(stage, r, e.logger)
	return r
}

// Profile builds the preference profile of an actor.
func (e *Engine) Profile(ctx context.Context, actor ActorKey) (*UserProfile, error) {
	if e.rankers.Profiles == nil {
		return NewUserProfile(actor), nil
	}
	return e.rankers.Profiles.Profile(ctx, actor)
}

// Train rebuilds the strategy's model state. Concurrent calls are
// serialized; each call runs a full rebuild and the last one to finish
// provides the served snapshot.
func (e *Engine) Train(ctx context.Context) (TrainStats, error) {
	e.trainMu.Lock()
	defer e.trainMu.Unlock()
	return e.trainLocked(ctx)
}

// TryTrain is Train that fails fast with ErrTrainingInProgress instead of
// waiting for a running train.
func (e *Engine) TryTrain(ctx context.Context) (TrainStats, error) {
	if !e.trainMu.TryLock() {
		return TrainStats{}, ErrTrainingInProgress
	}
	defer e.trainMu.Unlock()
	return e.trainLocked(ctx)
}

// trainLocked must be called with trainMu held.
func (e *Engine) trainLocked(ctx context.Context) (TrainStats, error) {
	e.training.Store(true)
	defer e.training.Store(false)

	start := time.Now()
	e.logger.Info().Msg("starting model training")

	trainCtx, cancel := context.WithTimeout(ctx, e.config.TrainTimeout)
	defer cancel()

	stats, err := e.strategy.Train(trainCtx)
	duration := time.Since(start)

	report := &TrainReport{
		Stats:      stats,
		StartedAt:  start,
		Duration:   duration,
		Successful: err == nil,
	}
	e.observer.ObserveTrain(e.strategy.Name(), duration, err)

	if err != nil {
		report.Error = err.Error()
		e.lastTrain.Store(report)
		e.logger.Error().Err(err).Dur("duration", duration).Msg("model training failed, keeping previous snapshot")
		return stats, fmt.Errorf("train %s strategy: %w", e.strategy.Name(), err)
	}

	e.lastTrain.Store(report)
	info := e.strategy.Snapshot()
	e.observer.ObserveSnapshot(info)

	event := e.logger.Info().
		Int64("events", stats.Events).
		Int64("products", stats.Products).
		Int64("version", info.Version).
		Dur("duration", duration)
	if stats.Users != nil {
		event = event.Int("users", *stats.Users)
	}
	event.Msg("model training complete")

	return stats, nil
}

// IsTraining reports whether a train run is in progress.
func (e *Engine) IsTraining() bool {
	return e.training.Load()
}

// LastTrain returns the report of the most recent train run, or nil.
func (e *Engine) LastTrain() *TrainReport {
	return e.lastTrain.Load()
}

// Snapshot describes the served model state.
func (e *Engine) Snapshot() SnapshotInfo {
	return e.strategy.Snapshot()
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) observe(stage string, r Ranked, logger zerolog.Logger) {
	e.observer.ObserveStage(stage, r.Outcome.Kind, len(r.ProductIDs))

	switch r.Outcome.Kind {
	case ResultQueryFailure:
		logger.Warn().Err(r.Outcome.Err).Str("stage", stage).Msg("ranking stage degraded after store failure")
	case ResultParseFailure:
		logger.Debug().Err(r.Outcome.Err).Str("stage", stage).Msg("ranking stage rejected identifier")
	}
}

// accumulator collects candidates in first-seen order up to a limit.
type accumulator struct {
	limit int
	ids   []ProductID
	seen  map[ProductID]struct{}
}

func newAccumulator(limit int) *accumulator {
	return &accumulator{
		limit: limit,
		ids:   make([]ProductID, 0, limit),
		seen:  make(map[ProductID]struct{}, limit),
	}
}

// add appends unseen ids until the limit is reached and returns how many
// were accepted.
func (a *accumulator) add(ids []ProductID) int {
	added := 0
	for _, id := range ids {
		if a.full() {
			break
		}
		if _, dup := a.seen[id]; dup {
			continue
		}
		a.seen[id] = struct{}{}
		a.ids = append(a.ids, id)
		added++
	}
	return added
}

func (a *accumulator) full() bool {
	return len(a.ids) >= a.limit
}

func (a *accumulator) remaining() int {
	return a.limit - len(a.ids)
}

func truncate(ids []ProductID, limit int) []ProductID {
	if ids == nil {
		return []ProductID{}
	}
	if len(ids) > limit {
		return ids[:limit]
	}
	return ids
}
