// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/mercator/internal/cache"
	"github.com/tomtom215/mercator/internal/config"
	"github.com/tomtom215/mercator/internal/metrics"
	"github.com/tomtom215/mercator/internal/recommend"
	"github.com/tomtom215/mercator/internal/recommend/algorithms"
)

// RecommendComponents holds the engine and its optional ranking cache.
type RecommendComponents struct {
	Engine   *recommend.Engine
	Rankings *cache.Rankings // nil when CACHE_ENABLED=false
}

// initRecommend builds the strategy selected by RECOMMEND_STRATEGY, the
// side-path rankers and the engine over store.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(cfg *config.Config, store recommend.Store, logger zerolog.Logger) (*RecommendComponents, error) {
	rc := &cfg.Recommend

	strategy, err := buildStrategy(rc, store, logger)
	if err != nil {
		return nil, err
	}

	rankers := recommend.Rankers{
		Trending:   algorithms.NewTrending(store, logger),
		AlsoBought: algorithms.NewAlsoBought(store, logger),
		AlsoViewed: algorithms.NewAlsoViewed(store, logger),
		Profiles:   profileBuilder(strategy, rc, store, logger),
	}

	var rankings *cache.Rankings
	if cfg.Cache.Enabled {
		rankings = cache.NewRankings(cfg.Cache.MaxEntries, cfg.Cache.TTL)
		rankers = rankings.Wrap(rankers)
	}

	engine, err := recommend.NewEngine(buildEngineConfig(rc), strategy, rankers, logger)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	var observer recommend.Observer = metrics.Observer{}
	if rankings != nil {
		observer = cache.ClearingObserver{Observer: observer, Rankings: rankings}
	}
	engine.SetObserver(observer)

	logger.Info().
		Str("strategy", strategy.Name()).
		Bool("hybrid_merge", rc.HybridMerge).
		Bool("cache", rankings != nil).
		Msg("recommendation engine initialized")

	return &RecommendComponents{Engine: engine, Rankings: rankings}, nil
}

//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func buildStrategy(rc *config.RecommendConfig, store recommend.Store, logger zerolog.Logger) (recommend.Strategy, error) {
	switch rc.Strategy {
	case "", "vector":
		return algorithms.NewVectorStrategy(store, algorithms.VectorConfig{
			TrainWindow: rc.HistoryWindow,
			Neighbours:  rc.Neighbours,
		}, logger), nil
	case "profile":
		pc := algorithms.DefaultProfileConfig()
		if rc.HistoryWindow > 0 {
			pc.HistoryWindow = rc.HistoryWindow
		}
		if rc.NeighbourWindow > 0 {
			pc.NeighbourWindow = rc.NeighbourWindow
		}
		if rc.MaxNeighbours > 0 {
			pc.MaxNeighbours = rc.MaxNeighbours
		}
		if rc.ProfileEvents > 0 {
			pc.MaxProfileEvents = rc.ProfileEvents
		}
		return algorithms.NewProfileStrategy(store, pc, logger), nil
	default:
		return nil, fmt.Errorf("unknown recommendation strategy %q", rc.Strategy)
	}
}

// profileBuilder reuses the profile strategy's own builder so reports and
// rankings replay the same window.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func profileBuilder(strategy recommend.Strategy, rc *config.RecommendConfig, store recommend.Store, logger zerolog.Logger) *algorithms.ProfileBuilder {
	if ps, ok := strategy.(*algorithms.ProfileStrategy); ok {
		return ps.Profiles()
	}
	return algorithms.NewProfileBuilder(store, rc.HistoryWindow, rc.ProfileEvents, logger)
}

// buildEngineConfig maps the config section onto engine defaults.
func buildEngineConfig(rc *config.RecommendConfig) *recommend.Config {
	ec := recommend.DefaultConfig()
	ec.HybridMerge = rc.HybridMerge
	if rc.DefaultLimit > 0 {
		ec.DefaultLimit = rc.DefaultLimit
	}
	if rc.MaxLimit > 0 {
		ec.MaxLimit = rc.MaxLimit
	}
	if rc.TrendingDays > 0 {
		ec.TrendingDays = rc.TrendingDays
	}
	if rc.RelatedLimit > 0 {
		ec.RelatedLimit = rc.RelatedLimit
	}
	if rc.TrainTimeout > 0 {
		ec.TrainTimeout = rc.TrainTimeout
	}
	return ec
}
