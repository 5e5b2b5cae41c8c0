// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package algorithms

import (
	"context"

	"github.com/tomtom215/mercator/internal/recommend"
)

// Content ranks published products in the actor's top categories by
// discount. Discount stands in for relevance here; nothing is learned.
func (p *ProfileStrategy) Content(ctx context.Context, actor recommend.ActorKey, limit int) recommend.Ranked {
	if limit <= 0 {
		return recommend.Empty()
	}

	profile, err := p.profiles.Profile(ctx, actor)
	if err != nil {
		p.logger.Warn().Err(err).Str("actor", actor.String()).Msg("profile build failed")
		return recommend.QueryFailure("build profile", err, nil)
	}

	categories := profile.TopCategories(p.cfg.TopCategories)
	if len(categories) == 0 {
		return recommend.Empty()
	}

	products, err := p.store.FindProducts(ctx, recommend.ProductFilter{
		Categories: categories,
		Status:     recommend.StatusPublished,
		ExcludeIDs: profile.Products(),
		Sort:       recommend.SortDiscountDesc,
		Limit:      limit,
	})
	if err != nil {
		p.logger.Warn().Err(err).Strs("categories", categories).Msg("category products query failed")
		return recommend.QueryFailure("find category products", err, nil)
	}

	ids := make([]recommend.ProductID, 0, len(products))
	for i := range products {
		ids = append(ids, products[i].ID)
	}
	return recommend.OK(truncateIDs(ids, limit))
}

func truncateIDs(ids []recommend.ProductID, limit int) []recommend.ProductID {
	if len(ids) > limit {
		return ids[:limit]
	}
	return ids
}
