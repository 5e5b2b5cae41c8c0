// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package recommend

import (
	"context"
	"time"
)

// Store is the query surface the engine consumes. It is implemented by the
// database layer; the engine never writes through it.
type Store interface {
	// FindEvents returns events matching the filter, newest first.
	FindEvents(ctx context.Context, filter EventFilter) ([]Event, error)

	// FindProducts returns products matching the filter.
	FindProducts(ctx context.Context, filter ProductFilter) ([]Product, error)

	// GroupActorsByCommonProducts returns up to limit actors, other than
	// exclude, that interacted with at least one of productIDs.
	GroupActorsByCommonProducts(ctx context.Context, productIDs []ProductID, exclude ActorKey, limit int) ([]ActorGroup, error)

	// AggregateWeightedEventCounts sums weights[kind] per product over events
	// at or after since, for the kinds present in weights, ordered by score
	// descending.
	AggregateWeightedEventCounts(ctx context.Context, since time.Time, weights map[EventKind]int, limit int) ([]ProductScore, error)

	// CountEvents counts events matching the filter (Limit is ignored).
	CountEvents(ctx context.Context, filter EventFilter) (int64, error)

	// CountProducts counts products matching the filter (Limit is ignored).
	CountProducts(ctx context.Context, filter ProductFilter) (int64, error)
}

// EventFilter selects events. Zero-valued fields do not constrain.
type EventFilter struct {
	// Actors restricts to events produced by any of the given actors.
	Actors []ActorKey

	// ProductID restricts to events on one product.
	ProductID ProductID

	// ExcludeProductID drops events on one product.
	ExcludeProductID ProductID

	// Kinds restricts to the given event kinds.
	Kinds []EventKind

	// Since restricts to events at or after the given time.
	Since time.Time

	// RequireProduct drops events without a product reference.
	RequireProduct bool

	// Limit caps the number of returned events (0 means unlimited).
	Limit int
}

// ProductSort orders FindProducts results.
type ProductSort int

const (
	// SortNone leaves ordering to the store (stable by id).
	SortNone ProductSort = iota
	// SortDiscountDesc orders by discount descending, id ascending on ties.
	SortDiscountDesc
)

// ProductFilter selects products. Zero-valued fields do not constrain.
type ProductFilter struct {
	IDs        []ProductID
	ExcludeIDs []ProductID
	Categories []string
	Status     ProductStatus
	Sort       ProductSort
	Limit      int
}

// ForActor is a convenience for a single-actor event filter.
func ForActor(actor ActorKey, since time.Time) EventFilter {
	return EventFilter{
		Actors:         []ActorKey{actor},
		Since:          since,
		RequireProduct: true,
	}
}
