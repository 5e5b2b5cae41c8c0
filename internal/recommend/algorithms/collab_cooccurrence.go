// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package algorithms

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/mercator/internal/recommend"
)

// Collaborative ranks products that actors sharing the target's products
// interacted with recently, weighted by event kind.
//
// A failed history or grouping query degrades to an empty QueryFailure
// result. A neighbour whose history cannot be loaded is skipped; only when
// every neighbour fails is the result a QueryFailure.
func (p *ProfileStrategy) Collaborative(ctx context.Context, actor recommend.ActorKey, limit int) recommend.Ranked {
	if limit <= 0 {
		return recommend.Empty()
	}

	now := p.now()
	history, err := p.store.FindEvents(ctx, recommend.ForActor(actor, now.Add(-p.cfg.HistoryWindow)))
	if err != nil {
		p.logger.Warn().Err(err).Str("actor", actor.String()).Msg("actor history query failed")
		return recommend.QueryFailure("load actor history", err, nil)
	}

	held := make(map[recommend.ProductID]struct{}, len(history))
	for i := range history {
		held[history[i].ProductID] = struct{}{}
	}
	if len(held) == 0 {
		return recommend.Empty()
	}

	groups, err := p.store.GroupActorsByCommonProducts(ctx, sortedProductIDs(held), actor, p.cfg.MaxNeighbours)
	if err != nil {
		p.logger.Warn().Err(err).Str("actor", actor.String()).Msg("neighbour grouping failed")
		return recommend.QueryFailure("group actors by common products", err, nil)
	}
	if len(groups) == 0 {
		return recommend.Empty()
	}

	since := now.Add(-p.cfg.NeighbourWindow)
	results := make([][]recommend.Event, len(groups))
	errs := make([]error, len(groups))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Concurrency)
	for i := range groups {
		g.Go(func() error {
			results[i], errs[i] = p.store.FindEvents(gctx, recommend.ForActor(groups[i].Actor, since))
			return nil
		})
	}
	_ = g.Wait()

	var lastErr error
	failed := 0
	for i, err := range errs {
		if err == nil {
			continue
		}
		failed++
		lastErr = err
		p.logger.Warn().
			Err(err).
			Str("actor", actor.String()).
			Str("neighbour", groups[i].Actor.String()).
			Msg("neighbour history query failed, skipping")
	}
	if failed == len(groups) {
		return recommend.QueryFailure("load neighbour history", lastErr, nil)
	}

	board := newScoreBoard(64)
	for _, events := range results {
		for i := range events {
			ev := &events[i]
			if _, own := held[ev.ProductID]; own {
				continue
			}
			board.add(ev.ProductID, float64(ev.Kind.Weight()))
		}
	}

	return recommend.OK(board.top(limit))
}
