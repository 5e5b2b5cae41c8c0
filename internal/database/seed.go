// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package database

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/tomtom215/mercator/internal/logging"
	"github.com/tomtom215/mercator/internal/recommend"
)

// Demo data parameters.
const (
	demoProducts      = 40
	demoUsers         = 25
	demoSessions      = 10
	demoEvents        = 600
	demoDaysOfHistory = 30
)

var (
	demoCategories = []string{"shoes", "hats", "bags", "jackets", "watches"}
	demoBrands     = []string{"acme", "zeta", "nordwind", "lumen"}
	demoTags       = []string{"new", "sale", "eco", "limited", "classic"}
)

// demoKinds is sampled uniformly, so views dominate and purchases are rare.
var demoKinds = []recommend.EventKind{
	recommend.EventView, recommend.EventView, recommend.EventView, recommend.EventView,
	recommend.EventView, recommend.EventClick, recommend.EventAddToCart, recommend.EventAddToCart,
	recommend.EventWishlist, recommend.EventPurchase, recommend.EventRating, recommend.EventRemoveFromCart,
}

// SeedDemoData fills an empty database with a deterministic demo catalog and
// event history ending at now. It returns false when products already exist.
func (db *DB) SeedDemoData(ctx context.Context, now time.Time) (bool, error) {
	n, err := db.CountProducts(ctx, recommend.ProductFilter{})
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	logging.Info().Msg("Seeding database with demo catalog and events")

	rng := newDemoRand()
	products := demoCatalog(rng)
	if err := db.InsertProducts(ctx, products); err != nil {
		return false, fmt.Errorf("seed products: %w", err)
	}
	events := demoHistory(rng, products, now)
	if err := db.InsertEvents(ctx, events); err != nil {
		return false, fmt.Errorf("seed events: %w", err)
	}

	logging.Info().
		Int("products", len(products)).
		Int("events", len(events)).
		Msg("Demo data seeded")
	return true, nil
}

func newDemoRand() *rand.Rand {
	return rand.New(rand.NewPCG(42, 2026))
}

// DemoProductID returns the id of the n-th demo product.
func DemoProductID(n int) recommend.ProductID {
	return recommend.ProductID(fmt.Sprintf("%024x", 0xd000+n))
}

// DemoUserID returns the id of the n-th demo user.
func DemoUserID(n int) string {
	return fmt.Sprintf("%024x", 0xa000+n)
}

func demoCatalog(rng *rand.Rand) []recommend.Product {
	products := make([]recommend.Product, demoProducts)
	for i := range products {
		status := recommend.StatusPublished
		switch i % 13 {
		case 11:
			status = recommend.StatusDraft
		case 12:
			status = recommend.StatusHidden
		}
		category := demoCategories[i%len(demoCategories)]
		products[i] = recommend.Product{
			ID:       DemoProductID(i),
			Name:     fmt.Sprintf("%s %s #%d", demoBrands[i%len(demoBrands)], category, i),
			Category: category,
			Brand:    demoBrands[i%len(demoBrands)],
			Price:    float64(10+rng.IntN(190)) + 0.99,
			Discount: float64(rng.IntN(6) * 5),
			Stock:    rng.IntN(200),
			Rating:   float64(20+rng.IntN(31)) / 10,
			Tags:     []string{demoTags[rng.IntN(len(demoTags))]},
			Status:   status,
		}
	}
	return products
}

func demoHistory(rng *rand.Rand, products []recommend.Product, now time.Time) []recommend.Event {
	events := make([]recommend.Event, 0, demoEvents)
	for i := range demoEvents {
		p := products[rng.IntN(len(products))]
		kind := demoKinds[rng.IntN(len(demoKinds))]

		ev := recommend.Event{
			ID:         fmt.Sprintf("demo-%05d", i),
			ProductID:  p.ID,
			Kind:       kind,
			OccurredAt: now.Add(-time.Duration(rng.Int64N(int64(demoDaysOfHistory * 24 * time.Hour)))),
			Context:    recommend.EventContext{Page: "product", Category: p.Category},
		}
		if rng.IntN(demoUsers+demoSessions) < demoUsers {
			ev.UserID = DemoUserID(rng.IntN(demoUsers))
		} else {
			ev.SessionID = fmt.Sprintf("demo-session-%02d", rng.IntN(demoSessions))
		}
		if kind == recommend.EventPurchase {
			ev.Price = p.Price * (1 - p.Discount/100)
			ev.Quantity = 1 + rng.IntN(3)
		}
		events = append(events, ev)
	}
	return events
}
