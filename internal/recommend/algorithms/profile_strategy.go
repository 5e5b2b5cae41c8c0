// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package algorithms

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/mercator/internal/recommend"
)

// ProfileConfig contains parameters for the profile strategy.
type ProfileConfig struct {
	// HistoryWindow is how far back an actor's own events reach.
	// Default: 90 days
	HistoryWindow time.Duration

	// NeighbourWindow is how far back a co-occurrence neighbour's events reach.
	// Default: 30 days
	NeighbourWindow time.Duration

	// MaxNeighbours caps the actors sharing products with the target.
	// Default: 20
	MaxNeighbours int

	// TopCategories is how many preferred categories feed the content ranker.
	// Default: 3
	TopCategories int

	// MaxProfileEvents caps the history replayed into a profile.
	// Default: 1000
	MaxProfileEvents int

	// Concurrency bounds parallel neighbour fetches.
	// Default: 4
	Concurrency int
}

// DefaultProfileConfig returns the defaults listed on ProfileConfig.
func DefaultProfileConfig() ProfileConfig {
	return ProfileConfig{
		HistoryWindow:    DefaultHistoryWindow,
		NeighbourWindow:  DefaultNeighbourWindow,
		MaxNeighbours:    20,
		TopCategories:    3,
		MaxProfileEvents: DefaultMaxProfileEvents,
		Concurrency:      4,
	}
}

func (c *ProfileConfig) applyDefaults() {
	d := DefaultProfileConfig()
	if c.HistoryWindow <= 0 {
		c.HistoryWindow = d.HistoryWindow
	}
	if c.NeighbourWindow <= 0 {
		c.NeighbourWindow = d.NeighbourWindow
	}
	if c.MaxNeighbours <= 0 {
		c.MaxNeighbours = d.MaxNeighbours
	}
	if c.TopCategories <= 0 {
		c.TopCategories = d.TopCategories
	}
	if c.MaxProfileEvents <= 0 {
		c.MaxProfileEvents = d.MaxProfileEvents
	}
	if c.Concurrency <= 0 {
		c.Concurrency = d.Concurrency
	}
}

// ProfileStrategy ranks from per-request profiles and co-occurrence counts.
// It keeps no model state; Train only refreshes the reported counts.
type ProfileStrategy struct {
	store    recommend.Store
	logger   zerolog.Logger
	cfg      ProfileConfig
	profiles *ProfileBuilder
	now      func() time.Time

	info    atomic.Pointer[recommend.SnapshotInfo]
	version atomic.Int64
}

// NewProfileStrategy creates a profile strategy.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewProfileStrategy(store recommend.Store, cfg ProfileConfig, logger zerolog.Logger) *ProfileStrategy {
	cfg.applyDefaults()
	return &ProfileStrategy{
		store:    store,
		logger:   logger.With().Str("component", "profile_strategy").Logger(),
		cfg:      cfg,
		profiles: NewProfileBuilder(store, cfg.HistoryWindow, cfg.MaxProfileEvents, logger),
		now:      time.Now,
	}
}

// Name returns the strategy identifier.
func (p *ProfileStrategy) Name() string {
	return "profile"
}

// Profiles exposes the builder the strategy ranks with.
func (p *ProfileStrategy) Profiles() *ProfileBuilder {
	return p.profiles
}

// Train counts events and published products. Profiles are computed per
// request, so there is nothing to rebuild.
func (p *ProfileStrategy) Train(ctx context.Context) (recommend.TrainStats, error) {
	var stats recommend.TrainStats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := p.store.CountEvents(gctx, recommend.EventFilter{})
		if err != nil {
			return recommend.DataUnavailable("count events", err)
		}
		stats.Events = n
		return nil
	})
	g.Go(func() error {
		n, err := p.store.CountProducts(gctx, recommend.ProductFilter{Status: recommend.StatusPublished})
		if err != nil {
			return recommend.DataUnavailable("count published products", err)
		}
		stats.Products = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return recommend.TrainStats{}, err
	}

	info := &recommend.SnapshotInfo{
		Trained:   true,
		Version:   p.version.Add(1),
		TrainedAt: p.now(),
		Products:  int(stats.Products),
	}
	p.info.Store(info)

	return stats, nil
}

// Snapshot describes the last counted state.
func (p *ProfileStrategy) Snapshot() recommend.SnapshotInfo {
	if info := p.info.Load(); info != nil {
		return *info
	}
	return recommend.SnapshotInfo{}
}
