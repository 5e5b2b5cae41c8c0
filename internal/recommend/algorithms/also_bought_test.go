// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package algorithms

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/mercator/internal/recommend"
	"github.com/tomtom215/mercator/internal/recommend/memstore"
)

func relatedStore() *memstore.Store {
	s := memstore.New()
	at := daysAgo(3)
	s.AddEvents(
		userEvent("u1", pid(1), recommend.EventPurchase, at),
		userEvent("u1", pid(2), recommend.EventPurchase, at),
		userEvent("u1", pid(3), recommend.EventPurchase, at),
		userEvent("u1", pid(5), recommend.EventView, at),
		userEvent("u2", pid(1), recommend.EventPurchase, at),
		userEvent("u2", pid(2), recommend.EventPurchase, at),
		userEvent("u2", pid(1), recommend.EventPurchase, at),
		userEvent("u3", pid(4), recommend.EventPurchase, at),
		recommend.Event{SessionID: "s1", ProductID: pid(1), Kind: recommend.EventView, OccurredAt: at},
		recommend.Event{SessionID: "s1", ProductID: pid(6), Kind: recommend.EventView, OccurredAt: at},
		recommend.Event{SessionID: "s2", ProductID: pid(1), Kind: recommend.EventView, OccurredAt: at},
		recommend.Event{SessionID: "s2", ProductID: pid(6), Kind: recommend.EventView, OccurredAt: at},
		recommend.Event{SessionID: "s2", ProductID: pid(5), Kind: recommend.EventView, OccurredAt: at},
	)
	return s
}

func TestAlsoBought(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := NewAlsoBought(relatedStore(), zerolog.Nop())

	tests := []struct {
		name  string
		seed  string
		limit int
		want  []recommend.ProductID
		kind  recommend.ResultKind
	}{
		{"co-purchase counts", pid(1).String(), 6, []recommend.ProductID{pid(2), pid(3)}, recommend.ResultOK},
		{"uppercase seed", strings.ToUpper(pid(1).String()), 6, []recommend.ProductID{pid(2), pid(3)}, recommend.ResultOK},
		{"limit", pid(1).String(), 1, []recommend.ProductID{pid(2)}, recommend.ResultOK},
		{"no purchasers", pid(9).String(), 6, nil, recommend.ResultEmpty},
		{"malformed seed", "not-a-product", 6, nil, recommend.ResultParseFailure},
		{"empty seed", "", 6, nil, recommend.ResultParseFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := r.Related(ctx, tt.seed, tt.limit)
			assertKind(t, got, tt.kind)
			assertIDs(t, got.ProductIDs, tt.want)
		})
	}
}

func TestAlsoBought_NeverReturnsSeed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := NewAlsoBought(relatedStore(), zerolog.Nop())
	for n := 0; n <= 10; n++ {
		seed := pid(n)
		for _, id := range r.Related(ctx, seed.String(), 100).ProductIDs {
			if id == seed {
				t.Errorf("Related(%s) returned the seed", seed)
			}
		}
	}
}

func TestAlsoViewed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := NewAlsoViewed(relatedStore(), zerolog.Nop())

	got := r.Related(ctx, pid(1).String(), 6)
	assertKind(t, got, recommend.ResultOK)
	assertIDs(t, got.ProductIDs, []recommend.ProductID{pid(6), pid(5)})
}

func TestRelated_QueryFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := NewAlsoBought(memstore.NewFailing(relatedStore(), memstore.OpFindEvents), zerolog.Nop())

	got := r.Related(ctx, pid(1).String(), 6)
	assertKind(t, got, recommend.ResultQueryFailure)
	if len(got.ProductIDs) != 0 {
		t.Errorf("ids = %v, want empty", got.ProductIDs)
	}
}
