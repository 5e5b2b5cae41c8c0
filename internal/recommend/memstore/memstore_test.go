// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/mercator/internal/recommend"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestFindEvents_FiltersAndOrder(t *testing.T) {
	t.Parallel()

	s := New()
	s.AddEvents(
		recommend.Event{ID: "1", UserID: "u1", SessionID: "s1", ProductID: "p1", Kind: recommend.EventView, OccurredAt: base},
		recommend.Event{ID: "2", SessionID: "s1", ProductID: "p2", Kind: recommend.EventPurchase, OccurredAt: base.Add(time.Hour)},
		recommend.Event{ID: "3", SessionID: "s1", Kind: recommend.EventSearch, OccurredAt: base.Add(2 * time.Hour)},
		recommend.Event{ID: "4", UserID: "u2", ProductID: "p1", Kind: recommend.EventPurchase, OccurredAt: base.Add(-48 * time.Hour)},
	)

	tests := []struct {
		name   string
		filter recommend.EventFilter
		want   []string
	}{
		{"all newest first", recommend.EventFilter{}, []string{"3", "2", "1", "4"}},
		{"require product", recommend.EventFilter{RequireProduct: true}, []string{"2", "1", "4"}},
		{"session includes signed-in events", recommend.EventFilter{Actors: []recommend.ActorKey{recommend.SessionActor("s1")}}, []string{"3", "2", "1"}},
		{"user actor", recommend.EventFilter{Actors: []recommend.ActorKey{recommend.UserActor("u1")}}, []string{"1"}},
		{"since", recommend.EventFilter{Since: base.Add(-time.Hour)}, []string{"3", "2", "1"}},
		{"kinds", recommend.EventFilter{Kinds: []recommend.EventKind{recommend.EventPurchase}}, []string{"2", "4"}},
		{"product", recommend.EventFilter{ProductID: "p1"}, []string{"1", "4"}},
		{"exclude product", recommend.EventFilter{ExcludeProductID: "p1", RequireProduct: true}, []string{"2"}},
		{"limit", recommend.EventFilter{Limit: 2}, []string{"3", "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := s.FindEvents(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("FindEvents() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("FindEvents() returned %d events, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].ID != tt.want[i] {
					t.Errorf("event[%d] = %s, want %s", i, got[i].ID, tt.want[i])
				}
			}
		})
	}
}

func TestFindProducts_SortAndFilter(t *testing.T) {
	t.Parallel()

	s := New()
	s.AddProducts(
		recommend.Product{ID: "c", Category: "shoes", Discount: 10, Status: recommend.StatusPublished},
		recommend.Product{ID: "a", Category: "shoes", Discount: 10, Status: recommend.StatusPublished},
		recommend.Product{ID: "b", Category: "hats", Discount: 30, Status: recommend.StatusPublished},
		recommend.Product{ID: "d", Category: "shoes", Discount: 50, Status: recommend.StatusDraft},
	)

	ctx := context.Background()
	got, err := s.FindProducts(ctx, recommend.ProductFilter{Status: recommend.StatusPublished, Sort: recommend.SortDiscountDesc})
	if err != nil {
		t.Fatalf("FindProducts() error = %v", err)
	}
	want := []recommend.ProductID{"b", "a", "c"}
	for i, p := range got {
		if p.ID != want[i] {
			t.Errorf("product[%d] = %s, want %s", i, p.ID, want[i])
		}
	}

	got, _ = s.FindProducts(ctx, recommend.ProductFilter{Categories: []string{"shoes"}, ExcludeIDs: []recommend.ProductID{"a"}})
	if len(got) != 2 || got[0].ID != "c" || got[1].ID != "d" {
		t.Errorf("category filter = %+v, want [c d]", got)
	}

	got, _ = s.FindProducts(ctx, recommend.ProductFilter{IDs: []recommend.ProductID{}})
	if len(got) != 0 {
		t.Errorf("empty id set matched %d products, want 0", len(got))
	}

	n, _ := s.CountProducts(ctx, recommend.ProductFilter{Status: recommend.StatusPublished})
	if n != 3 {
		t.Errorf("CountProducts() = %d, want 3", n)
	}
}

func TestGroupActorsByCommonProducts(t *testing.T) {
	t.Parallel()

	s := New()
	s.AddEvents(
		recommend.Event{UserID: "me", ProductID: "p1", Kind: recommend.EventView, OccurredAt: base},
		recommend.Event{UserID: "x", ProductID: "p1", Kind: recommend.EventView, OccurredAt: base},
		recommend.Event{UserID: "y", ProductID: "p1", Kind: recommend.EventView, OccurredAt: base},
		recommend.Event{UserID: "y", ProductID: "p2", Kind: recommend.EventView, OccurredAt: base},
		recommend.Event{UserID: "z", ProductID: "p9", Kind: recommend.EventView, OccurredAt: base},
	)

	groups, err := s.GroupActorsByCommonProducts(context.Background(),
		[]recommend.ProductID{"p1", "p2"}, recommend.UserActor("me"), 10)
	if err != nil {
		t.Fatalf("GroupActorsByCommonProducts() error = %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].Actor.ID != "y" || len(groups[0].SharedProducts) != 2 {
		t.Errorf("groups[0] = %+v, want y with 2 shared", groups[0])
	}
	if groups[1].Actor.ID != "x" {
		t.Errorf("groups[1] = %+v, want x", groups[1])
	}
}

func TestAggregateWeightedEventCounts(t *testing.T) {
	t.Parallel()

	s := New()
	s.AddEvents(
		recommend.Event{SessionID: "s", ProductID: "p1", Kind: recommend.EventView, OccurredAt: base},
		recommend.Event{SessionID: "s", ProductID: "p1", Kind: recommend.EventView, OccurredAt: base},
		recommend.Event{SessionID: "s", ProductID: "p2", Kind: recommend.EventAddToCart, OccurredAt: base},
		recommend.Event{SessionID: "s", ProductID: "p3", Kind: recommend.EventWishlist, OccurredAt: base},
		recommend.Event{SessionID: "s", ProductID: "p4", Kind: recommend.EventPurchase, OccurredAt: base.AddDate(0, 0, -30)},
	)

	scores, err := s.AggregateWeightedEventCounts(context.Background(), base.AddDate(0, 0, -7), recommend.TrendingWeights, 10)
	if err != nil {
		t.Fatalf("AggregateWeightedEventCounts() error = %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("got %d scores, want 2: %+v", len(scores), scores)
	}
	if scores[0].ProductID != "p2" || scores[0].Score != 3 {
		t.Errorf("scores[0] = %+v, want p2=3", scores[0])
	}
	if scores[1].ProductID != "p1" || scores[1].Score != 2 {
		t.Errorf("scores[1] = %+v, want p1=2", scores[1])
	}
}

func TestFailing(t *testing.T) {
	t.Parallel()

	f := NewFailing(New(), OpAggregate|OpCountEvents)
	ctx := context.Background()

	if _, err := f.AggregateWeightedEventCounts(ctx, base, nil, 1); !errors.Is(err, ErrInjected) {
		t.Errorf("aggregate error = %v, want ErrInjected", err)
	}
	if _, err := f.CountEvents(ctx, recommend.EventFilter{}); !errors.Is(err, ErrInjected) {
		t.Errorf("count error = %v, want ErrInjected", err)
	}
	if _, err := f.FindProducts(ctx, recommend.ProductFilter{}); err != nil {
		t.Errorf("FindProducts() error = %v, want nil", err)
	}

	f.SetFailing(0)
	if _, err := f.AggregateWeightedEventCounts(ctx, base, nil, 1); err != nil {
		t.Errorf("aggregate after reset error = %v", err)
	}
}
