// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

// Package recommend implements the product recommendation engine.
//
// # Architecture
//
// The engine turns interaction events (views, cart adds, purchases, wishlist
// adds, ratings) and product attributes into ranked product id lists:
//
//   - Weighting: each EventKind carries a fixed engagement strength
//   - Strategies: "vector" (user-item matrix + cosine similarity) and
//     "profile" (category/brand/co-occurrence counting) behind one Strategy
//     interface
//   - Side paths: trending, also-bought and also-viewed rankers
//   - Orchestration: Engine.Personalized runs the collaborative, content and
//     trending stages as an append-only fallback chain
//
// # Actor Identity
//
// Requests identify the actor with an explicit ActorKey (user or session).
// ResolveActor is the single place that turns request fields into a key;
// nothing downstream inspects the shape of an identifier string.
//
// # Concurrency
//
// Ranking never blocks on training. The vector strategy builds a complete
// snapshot off to the side and publishes it with an atomic pointer swap, so a
// concurrent reader sees either the old snapshot or the new one. Train calls
// are serialized by the Engine; a failed train keeps the previous snapshot.
//
// # Usage
//
//	strategy := algorithms.NewVectorStrategy(store, algorithms.VectorConfig{}, logger)
//	engine, err := recommend.NewEngine(cfg, store, strategy, recommend.Rankers{
//	    Trending:   algorithms.NewTrending(store, logger),
//	    AlsoBought: algorithms.NewAlsoBought(store, logger),
//	    AlsoViewed: algorithms.NewAlsoViewed(store, logger),
//	}, logger)
//
//	stats, err := engine.Train(ctx)
//	rec := engine.Personalized(ctx, recommend.PersonalizedRequest{Actor: &actor, Limit: 10})
package recommend
