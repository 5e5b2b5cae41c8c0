// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package algorithms

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/mercator/internal/recommend"
)

// DefaultTrendingDays is the trailing window used when none is given.
const DefaultTrendingDays = 7

// Trending ranks products by weighted recent activity.
type Trending struct {
	store  recommend.Store
	logger zerolog.Logger
	now    func() time.Time
}

// NewTrending creates a trending ranker.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTrending(store recommend.Store, logger zerolog.Logger) *Trending {
	return &Trending{
		store:  store,
		logger: logger.With().Str("component", "trending").Logger(),
		now:    time.Now,
	}
}

// Trending aggregates view, add_to_cart and purchase weights over the last
// days and returns the top limit products.
//
// When the aggregation fails, the published catalog ordered by discount is
// returned instead, flagged as QueryFailure. If that query fails too the
// result is empty.
func (t *Trending) Trending(ctx context.Context, days, limit int) recommend.Ranked {
	if limit <= 0 {
		return recommend.Empty()
	}
	if days <= 0 {
		days = DefaultTrendingDays
	}

	since := t.now().AddDate(0, 0, -days)
	scores, err := t.store.AggregateWeightedEventCounts(ctx, since, recommend.TrendingWeights, limit)
	if err == nil {
		ids := make([]recommend.ProductID, 0, len(scores))
		for _, s := range scores {
			ids = append(ids, s.ProductID)
		}
		return recommend.OK(truncateIDs(ids, limit))
	}

	t.logger.Warn().Err(err).Int("days", days).Msg("trending aggregation failed, falling back to discounted catalog")

	products, ferr := t.store.FindProducts(ctx, recommend.ProductFilter{
		Status: recommend.StatusPublished,
		Sort:   recommend.SortDiscountDesc,
		Limit:  limit,
	})
	if ferr != nil {
		t.logger.Error().Err(ferr).Msg("trending fallback query failed")
		return recommend.QueryFailure("trending fallback", ferr, nil)
	}

	ids := make([]recommend.ProductID, 0, len(products))
	for i := range products {
		ids = append(ids, products[i].ID)
	}
	return recommend.QueryFailure("aggregate weighted event counts", err, truncateIDs(ids, limit))
}
