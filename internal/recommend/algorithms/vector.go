// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package algorithms

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/mercator/internal/recommend"
)

// VectorConfig contains parameters for the vector strategy.
type VectorConfig struct {
	// TrainWindow is how far back training events reach.
	// Default: 90 days
	TrainWindow time.Duration

	// Neighbours is the number of most similar actors consulted by the
	// collaborative ranker.
	// Default: 10
	Neighbours int
}

// vectorSnapshot is the immutable model state served between trains.
type vectorSnapshot struct {
	matrix    *UserItemMatrix
	features  *FeatureSet
	version   int64
	trainedAt time.Time
}

// VectorStrategy ranks with a user-item matrix and product feature vectors.
type VectorStrategy struct {
	store      recommend.Store
	logger     zerolog.Logger
	window     time.Duration
	neighbours int
	now        func() time.Time

	current atomic.Pointer[vectorSnapshot]
	version atomic.Int64
}

// NewVectorStrategy creates an untrained vector strategy. Until the first
// successful Train, both rankers report every actor as cold.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewVectorStrategy(store recommend.Store, cfg VectorConfig, logger zerolog.Logger) *VectorStrategy {
	if cfg.TrainWindow <= 0 {
		cfg.TrainWindow = DefaultHistoryWindow
	}
	if cfg.Neighbours <= 0 {
		cfg.Neighbours = 10
	}

	return &VectorStrategy{
		store:      store,
		logger:     logger.With().Str("component", "vector_strategy").Logger(),
		window:     cfg.TrainWindow,
		neighbours: cfg.Neighbours,
		now:        time.Now,
	}
}

// Name returns the strategy identifier.
func (v *VectorStrategy) Name() string {
	return "vector"
}

// Train loads the training window and published products concurrently,
// builds a new snapshot and swaps it in. On any error the served snapshot is
// left untouched.
func (v *VectorStrategy) Train(ctx context.Context) (recommend.TrainStats, error) {
	since := v.now().Add(-v.window)

	var (
		events   []recommend.Event
		products []recommend.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		events, err = v.store.FindEvents(gctx, recommend.EventFilter{Since: since, RequireProduct: true})
		if err != nil {
			return recommend.DataUnavailable("load training events", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		products, err = v.store.FindProducts(gctx, recommend.ProductFilter{Status: recommend.StatusPublished})
		if err != nil {
			return recommend.DataUnavailable("load published products", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return recommend.TrainStats{}, err
	}

	if err := ctx.Err(); err != nil {
		return recommend.TrainStats{}, fmt.Errorf("train canceled: %w", err)
	}

	snap := &vectorSnapshot{
		matrix:    BuildUserItemMatrix(events),
		features:  ExtractFeatures(products),
		version:   v.version.Add(1),
		trainedAt: v.now(),
	}
	v.current.Store(snap)

	users := snap.matrix.NumActors()
	v.logger.Debug().
		Int("events", len(events)).
		Int("products", len(products)).
		Int("actors", users).
		Int("dimensions", len(snap.features.dims)).
		Int64("version", snap.version).
		Msg("vector snapshot swapped")

	return recommend.TrainStats{
		Events:   int64(len(events)),
		Products: int64(len(products)),
		Users:    &users,
	}, nil
}

// Snapshot describes the served snapshot.
func (v *VectorStrategy) Snapshot() recommend.SnapshotInfo {
	snap := v.current.Load()
	if snap == nil {
		return recommend.SnapshotInfo{}
	}
	return recommend.SnapshotInfo{
		Trained:   true,
		Version:   snap.version,
		TrainedAt: snap.trainedAt,
		Actors:    snap.matrix.NumActors(),
		Products:  snap.features.Len(),
	}
}

// Collaborative ranks products held by the actor's most similar rows.
func (v *VectorStrategy) Collaborative(_ context.Context, actor recommend.ActorKey, limit int) recommend.Ranked {
	snap := v.current.Load()
	if snap == nil {
		return recommend.Empty()
	}
	return recommend.OK(collaborativeVector(snap.matrix, actor, v.neighbours, limit))
}

// Content ranks products whose features resemble the actor's history.
func (v *VectorStrategy) Content(_ context.Context, actor recommend.ActorKey, limit int) recommend.Ranked {
	snap := v.current.Load()
	if snap == nil {
		return recommend.Empty()
	}
	return recommend.OK(contentVector(snap.matrix, snap.features, actor, limit))
}
