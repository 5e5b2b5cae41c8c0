// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package algorithms

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tomtom215/mercator/internal/recommend"
)

// DefaultSeedEvents caps the seed events scanned for co-interacting actors.
const DefaultSeedEvents = 100

// Related ranks products that actors who interacted with a seed product also
// interacted with, counting one kind of event. The purchase ranker backs
// "also bought" and the view ranker backs "also viewed".
type Related struct {
	store      recommend.Store
	logger     zerolog.Logger
	kind       recommend.EventKind
	seedEvents int
}

// NewAlsoBought creates the co-purchase ranker.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewAlsoBought(store recommend.Store, logger zerolog.Logger) *Related {
	return newRelated(store, recommend.EventPurchase, logger)
}

// NewAlsoViewed creates the co-view ranker.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewAlsoViewed(store recommend.Store, logger zerolog.Logger) *Related {
	return newRelated(store, recommend.EventView, logger)
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func newRelated(store recommend.Store, kind recommend.EventKind, logger zerolog.Logger) *Related {
	return &Related{
		store:      store,
		logger:     logger.With().Str("component", "related").Str("kind", kind.String()).Logger(),
		kind:       kind,
		seedEvents: DefaultSeedEvents,
	}
}

// Related returns up to limit products ordered by how many co-interacting
// events they received. The seed itself is never returned. A malformed seed
// is a ParseFailure; a seed nobody interacted with is Empty.
func (r *Related) Related(ctx context.Context, seed string, limit int) recommend.Ranked {
	seedID, err := recommend.ParseProductID(seed)
	if err != nil {
		return recommend.ParseFailure(err)
	}
	if limit <= 0 {
		return recommend.Empty()
	}

	kinds := []recommend.EventKind{r.kind}
	seedEvents, err := r.store.FindEvents(ctx, recommend.EventFilter{
		ProductID: seedID,
		Kinds:     kinds,
		Limit:     r.seedEvents,
	})
	if err != nil {
		r.logger.Warn().Err(err).Str("seed", seedID.String()).Msg("seed events query failed")
		return recommend.QueryFailure("load seed events", err, nil)
	}

	actors := make([]recommend.ActorKey, 0, len(seedEvents))
	seen := make(map[recommend.ActorKey]struct{}, len(seedEvents))
	for i := range seedEvents {
		actor, ok := seedEvents[i].Actor()
		if !ok {
			continue
		}
		if _, dup := seen[actor]; dup {
			continue
		}
		seen[actor] = struct{}{}
		actors = append(actors, actor)
	}
	if len(actors) == 0 {
		return recommend.Empty()
	}

	events, err := r.store.FindEvents(ctx, recommend.EventFilter{
		Actors:           actors,
		Kinds:            kinds,
		ExcludeProductID: seedID,
		RequireProduct:   true,
	})
	if err != nil {
		r.logger.Warn().Err(err).Str("seed", seedID.String()).Msg("co-interaction query failed")
		return recommend.QueryFailure("load co-interactions", err, nil)
	}

	board := newScoreBoard(len(events))
	for i := range events {
		if events[i].ProductID == seedID {
			continue
		}
		board.add(events[i].ProductID, 1)
	}
	return recommend.OK(board.top(limit))
}
