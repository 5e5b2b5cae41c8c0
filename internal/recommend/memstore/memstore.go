// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

// Package memstore is an in-memory recommend.Store for tests, demos and
// local development. It follows the ordering rules of the DuckDB store so
// rankers behave identically over both.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/mercator/internal/recommend"
)

// Store holds events and products in memory. Data is lost on restart.
type Store struct {
	mu       sync.RWMutex
	events   []recommend.Event
	products map[recommend.ProductID]recommend.Product
}

var _ recommend.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		products: make(map[recommend.ProductID]recommend.Product),
	}
}

// AddEvents appends events. Insertion order breaks OccurredAt ties.
func (s *Store) AddEvents(events ...recommend.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
}

// InsertEvents appends events; it satisfies the event sink used by the API.
func (s *Store) InsertEvents(_ context.Context, events []recommend.Event) error {
	s.AddEvents(events...)
	return nil
}

// AddProducts inserts or replaces products.
func (s *Store) AddProducts(products ...recommend.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range products {
		s.products[products[i].ID] = products[i]
	}
}

// FindEvents returns matching events newest first.
func (s *Store) FindEvents(ctx context.Context, filter recommend.EventFilter) ([]recommend.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.matchEvents(filter)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// CountEvents counts matching events.
func (s *Store) CountEvents(ctx context.Context, filter recommend.EventFilter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.matchEvents(filter))), nil
}

// matchesActor reports whether ev was produced by one of actors. Users match
// on UserID and sessions on SessionID.
func matchesActor(ev *recommend.Event, actors map[recommend.ActorKey]struct{}) bool {
	if ev.UserID != "" {
		if _, ok := actors[recommend.UserActor(ev.UserID)]; ok {
			return true
		}
	}
	if ev.SessionID != "" {
		if _, ok := actors[recommend.SessionActor(ev.SessionID)]; ok {
			return true
		}
	}
	return false
}

func (s *Store) matchEvents(filter recommend.EventFilter) []recommend.Event {
	actors := make(map[recommend.ActorKey]struct{}, len(filter.Actors))
	for _, a := range filter.Actors {
		actors[a] = struct{}{}
	}
	kinds := make(map[recommend.EventKind]struct{}, len(filter.Kinds))
	for _, k := range filter.Kinds {
		kinds[k] = struct{}{}
	}

	out := make([]recommend.Event, 0)
	for i := range s.events {
		ev := &s.events[i]
		if filter.RequireProduct && ev.ProductID == "" {
			continue
		}
		if filter.ProductID != "" && ev.ProductID != filter.ProductID {
			continue
		}
		if filter.ExcludeProductID != "" && ev.ProductID == filter.ExcludeProductID {
			continue
		}
		if !filter.Since.IsZero() && ev.OccurredAt.Before(filter.Since) {
			continue
		}
		if len(kinds) > 0 {
			if _, ok := kinds[ev.Kind]; !ok {
				continue
			}
		}
		if len(actors) > 0 && !matchesActor(ev, actors) {
			continue
		}
		out = append(out, *ev)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt.After(out[j].OccurredAt)
	})
	return out
}

// FindProducts returns matching products ordered by id, or by discount
// descending then id when requested.
func (s *Store) FindProducts(ctx context.Context, filter recommend.ProductFilter) ([]recommend.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.matchProducts(filter)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// CountProducts counts matching products.
func (s *Store) CountProducts(ctx context.Context, filter recommend.ProductFilter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.matchProducts(filter))), nil
}

func (s *Store) matchProducts(filter recommend.ProductFilter) []recommend.Product {
	include := idSet(filter.IDs)
	exclude := idSet(filter.ExcludeIDs)
	categories := make(map[string]struct{}, len(filter.Categories))
	for _, c := range filter.Categories {
		categories[c] = struct{}{}
	}

	out := make([]recommend.Product, 0)
	for id := range s.products {
		p := s.products[id]
		if filter.IDs != nil {
			if _, ok := include[p.ID]; !ok {
				continue
			}
		}
		if _, ok := exclude[p.ID]; ok {
			continue
		}
		if len(categories) > 0 {
			if _, ok := categories[p.Category]; !ok {
				continue
			}
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool {
		if filter.Sort == recommend.SortDiscountDesc && out[i].Discount != out[j].Discount {
			return out[i].Discount > out[j].Discount
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// GroupActorsByCommonProducts returns actors other than exclude that touched
// any of productIDs, most shared products first, then by actor key.
func (s *Store) GroupActorsByCommonProducts(ctx context.Context, productIDs []recommend.ProductID, exclude recommend.ActorKey, limit int) ([]recommend.ActorGroup, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := idSet(productIDs)
	shared := make(map[recommend.ActorKey]map[recommend.ProductID]struct{})
	for i := range s.events {
		ev := &s.events[i]
		if _, ok := wanted[ev.ProductID]; !ok {
			continue
		}
		actor, ok := ev.Actor()
		if !ok || actor == exclude {
			continue
		}
		if shared[actor] == nil {
			shared[actor] = make(map[recommend.ProductID]struct{})
		}
		shared[actor][ev.ProductID] = struct{}{}
	}

	groups := make([]recommend.ActorGroup, 0, len(shared))
	for actor, set := range shared {
		ids := make([]recommend.ProductID, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		groups = append(groups, recommend.ActorGroup{Actor: actor, SharedProducts: ids})
	}

	sort.Slice(groups, func(i, j int) bool {
		if len(groups[i].SharedProducts) != len(groups[j].SharedProducts) {
			return len(groups[i].SharedProducts) > len(groups[j].SharedProducts)
		}
		return groups[i].Actor.String() < groups[j].Actor.String()
	})
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}
	return groups, nil
}

// AggregateWeightedEventCounts sums weights per product, highest first, ties
// by product id.
func (s *Store) AggregateWeightedEventCounts(ctx context.Context, since time.Time, weights map[recommend.EventKind]int, limit int) ([]recommend.ProductScore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := make(map[recommend.ProductID]float64)
	for i := range s.events {
		ev := &s.events[i]
		if ev.ProductID == "" || ev.OccurredAt.Before(since) {
			continue
		}
		w, ok := weights[ev.Kind]
		if !ok {
			continue
		}
		totals[ev.ProductID] += float64(w)
	}

	scores := make([]recommend.ProductScore, 0, len(totals))
	for id, score := range totals {
		scores = append(scores, recommend.ProductScore{ProductID: id, Score: score})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].ProductID < scores[j].ProductID
	})
	if limit > 0 && len(scores) > limit {
		scores = scores[:limit]
	}
	return scores, nil
}

func idSet(ids []recommend.ProductID) map[recommend.ProductID]struct{} {
	set := make(map[recommend.ProductID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
