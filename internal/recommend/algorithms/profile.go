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

// DefaultMaxProfileEvents caps the history replayed into a profile.
const DefaultMaxProfileEvents = 1000

// ProfileBuilder replays an actor's recent events against the catalog.
type ProfileBuilder struct {
	store     recommend.Store
	logger    zerolog.Logger
	window    time.Duration
	maxEvents int
	now       func() time.Time
}

// NewProfileBuilder creates a profile builder over the given history window.
// A non-positive window or event cap falls back to the defaults.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewProfileBuilder(store recommend.Store, window time.Duration, maxEvents int, logger zerolog.Logger) *ProfileBuilder {
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	if maxEvents <= 0 {
		maxEvents = DefaultMaxProfileEvents
	}
	return &ProfileBuilder{
		store:     store,
		logger:    logger.With().Str("component", "profile_builder").Logger(),
		window:    window,
		maxEvents: maxEvents,
		now:       time.Now,
	}
}

// Profile builds the profile of actor. An actor with no history gets an
// empty profile, not an error.
func (b *ProfileBuilder) Profile(ctx context.Context, actor recommend.ActorKey) (*recommend.UserProfile, error) {
	filter := recommend.ForActor(actor, b.now().Add(-b.window))
	filter.Limit = b.maxEvents

	events, err := b.store.FindEvents(ctx, filter)
	if err != nil {
		return nil, recommend.DataUnavailable("load actor history", err)
	}
	if len(events) == 0 {
		return recommend.NewUserProfile(actor), nil
	}

	seen := make(map[recommend.ProductID]struct{}, len(events))
	for i := range events {
		seen[events[i].ProductID] = struct{}{}
	}
	products, err := b.store.FindProducts(ctx, recommend.ProductFilter{IDs: sortedProductIDs(seen)})
	if err != nil {
		return nil, recommend.DataUnavailable("resolve profile products", err)
	}

	catalog := make(map[recommend.ProductID]*recommend.Product, len(products))
	for i := range products {
		catalog[products[i].ID] = &products[i]
	}

	profile := BuildProfile(actor, events, catalog)
	b.logger.Debug().
		Str("actor", actor.String()).
		Int("events", len(events)).
		Int("resolved", len(catalog)).
		Msg("profile built")
	return profile, nil
}

// BuildProfile accumulates events into a profile. Events whose product is
// missing from catalog contribute nothing.
func BuildProfile(actor recommend.ActorKey, events []recommend.Event, catalog map[recommend.ProductID]*recommend.Product) *recommend.UserProfile {
	profile := recommend.NewUserProfile(actor)

	var (
		priceSum   float64
		priceCount int
	)

	for i := range events {
		ev := &events[i]
		product, ok := catalog[ev.ProductID]
		if !ok {
			continue
		}

		weight := ev.Kind.Weight()
		profile.EventCount++
		profile.ProductScores[product.ID] += weight
		if product.Category != "" {
			profile.CategoryScores[product.Category] += weight
		}
		if product.Brand != "" {
			profile.BrandScores[product.Brand] += weight
		}
		for _, tag := range product.Tags {
			profile.TagScores[tag] += weight
		}

		if product.Price > 0 {
			if profile.PriceRange == nil {
				profile.PriceRange = &recommend.PriceRange{Min: product.Price, Max: product.Price}
			}
			profile.PriceRange.Min = min(profile.PriceRange.Min, product.Price)
			profile.PriceRange.Max = max(profile.PriceRange.Max, product.Price)
			priceSum += product.Price
			priceCount++
		}

		switch ev.Kind {
		case recommend.EventView:
			profile.Viewed[product.ID]++
		case recommend.EventPurchase:
			qty := ev.Quantity
			if qty <= 0 {
				qty = 1
			}
			price := ev.Price
			if price <= 0 {
				price = product.Price
			}
			spent := price * float64(qty)

			summary := profile.Purchased[product.ID]
			summary.Count++
			summary.TotalSpent += spent
			profile.Purchased[product.ID] = summary
			profile.TotalSpent += spent
		}
	}

	if priceCount > 0 {
		profile.PriceRange.Avg = priceSum / float64(priceCount)
	}
	return profile
}
