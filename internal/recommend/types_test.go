// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package recommend

import (
	"errors"
	"testing"
)

func TestEventKind_Weight(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind EventKind
		want int
	}{
		{EventView, 1},
		{EventAddToCart, 3},
		{EventWishlist, 5},
		{EventRating, 7},
		{EventPurchase, 10},
		{EventSearch, 1},
		{EventRemoveFromCart, 1},
		{EventKind("teleport"), 1},
		{EventKind(""), 1},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			t.Parallel()
			if got := tt.kind.Weight(); got != tt.want {
				t.Errorf("%q.Weight() = %d, want %d", tt.kind, got, tt.want)
			}
		})
	}
}

func TestEventKind_WeightMonotonic(t *testing.T) {
	t.Parallel()

	order := []EventKind{EventView, EventAddToCart, EventWishlist, EventRating, EventPurchase}
	for i := 1; i < len(order); i++ {
		if order[i].Weight() <= order[i-1].Weight() {
			t.Errorf("weight(%s)=%d should exceed weight(%s)=%d",
				order[i], order[i].Weight(), order[i-1], order[i-1].Weight())
		}
	}
}

func TestEventKind_Valid(t *testing.T) {
	t.Parallel()

	for _, k := range []EventKind{EventView, EventClick, EventSearch, EventRemoveFromCart} {
		if !k.Valid() {
			t.Errorf("%q.Valid() = false, want true", k)
		}
	}
	if EventKind("refund").Valid() {
		t.Error(`"refund".Valid() = true, want false`)
	}
}

func TestTrendingWeights_ExcludeWishlistAndRating(t *testing.T) {
	t.Parallel()

	if _, ok := TrendingWeights[EventWishlist]; ok {
		t.Error("wishlist should not count toward trending")
	}
	if _, ok := TrendingWeights[EventRating]; ok {
		t.Error("rating should not count toward trending")
	}
	if TrendingWeights[EventPurchase] != 10 || TrendingWeights[EventAddToCart] != 3 || TrendingWeights[EventView] != 1 {
		t.Errorf("unexpected trending weights: %v", TrendingWeights)
	}
}

func TestParseProductID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    ProductID
		wantErr bool
	}{
		{"valid lowercase", "64b7f0c2a1b2c3d4e5f60718", "64b7f0c2a1b2c3d4e5f60718", false},
		{"valid uppercase normalized", "64B7F0C2A1B2C3D4E5F60718", "64b7f0c2a1b2c3d4e5f60718", false},
		{"too short", "64b7f0c2", "", true},
		{"non hex", "zzb7f0c2a1b2c3d4e5f60718", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseProductID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseProductID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("error should be a validation error, got %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseProductID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEvent_Actor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		event  Event
		want   ActorKey
		wantOK bool
	}{
		{"user wins over session", Event{UserID: "u1", SessionID: "s1"}, UserActor("u1"), true},
		{"session only", Event{SessionID: "s1"}, SessionActor("s1"), true},
		{"no actor", Event{}, ActorKey{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := tt.event.Actor()
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Actor() = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
