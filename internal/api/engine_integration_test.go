// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package api

import (
	"net/http"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/mercator/internal/recommend"
	"github.com/tomtom215/mercator/internal/recommend/algorithms"
	"github.com/tomtom215/mercator/internal/recommend/memstore"
)

// TestEngineRoundTrip drives the router against a real engine over the
// in-memory store: events go in through POST /events and come back out as
// recommendations.
func TestEngineRoundTrip(t *testing.T) {
	t.Parallel()

	store := memstore.New()
	logger := zerolog.Nop()
	engine, err := recommend.NewEngine(nil,
		algorithms.NewVectorStrategy(store, algorithms.VectorConfig{}, logger),
		recommend.Rankers{
			Trending:   algorithms.NewTrending(store, logger),
			AlsoBought: algorithms.NewAlsoBought(store, logger),
			AlsoViewed: algorithms.NewAlsoViewed(store, logger),
			Profiles:   algorithms.NewProfileBuilder(store, algorithms.DefaultHistoryWindow, 0, logger),
		},
		logger,
	)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	_, router := newTestHandler(t, Deps{Engine: engine, Events: store})

	const (
		userA = "aaaaaaaaaaaaaaaaaaaaaaa1"
		userB = "aaaaaaaaaaaaaaaaaaaaaaa2"
		prod1 = "bbbbbbbbbbbbbbbbbbbbbbb1"
		prod2 = "bbbbbbbbbbbbbbbbbbbbbbb2"
		prod3 = "bbbbbbbbbbbbbbbbbbbbbbb3"
	)
	store.AddProducts(
		recommend.Product{ID: prod1, Name: "Kettle", Category: "kitchen", Price: 30, Status: recommend.StatusPublished},
		recommend.Product{ID: prod2, Name: "Mug", Category: "kitchen", Price: 8, Status: recommend.StatusPublished},
		recommend.Product{ID: prod3, Name: "Tea", Category: "pantry", Price: 5, Status: recommend.StatusPublished},
	)
	purchases := []struct{ user, product string }{
		{userA, prod1}, {userA, prod2},
		{userB, prod1}, {userB, prod2}, {userB, prod3},
	}
	for _, p := range purchases {
		rec := doRequest(t, router, http.MethodPost, "/events", map[string]any{
			"eventType": "purchase",
			"sessionId": "s-" + p.user,
			"userId":    p.user,
			"productId": p.product,
			"price":     10,
			"quantity":  1,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("POST /events status = %d: %s", rec.Code, rec.Body.String())
		}
	}

	t.Run("also bought", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/recommendations/also-bought", map[string]any{"productId": prod1})
		got := decodeBody[ProductListResponse](t, rec)
		if len(got.ProductIDs) == 0 || got.ProductIDs[0] != prod2 {
			t.Errorf("also-bought = %v, want %s first", got.ProductIDs, prod2)
		}
		for _, id := range got.ProductIDs {
			if id == prod1 {
				t.Error("seed product returned")
			}
		}
	})

	t.Run("malformed seed is an empty list", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/recommendations/also-bought", map[string]any{"productId": "p1"})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if got := decodeBody[ProductListResponse](t, rec); len(got.ProductIDs) != 0 {
			t.Errorf("got %v, want empty", got.ProductIDs)
		}
	})

	t.Run("train", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/train", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		if got := decodeBody[TrainResponse](t, rec); got.Stats.Events != int64(len(purchases)) {
			t.Errorf("trained on %d events, want %d", got.Stats.Events, len(purchases))
		}
	})

	t.Run("profile", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/recommendations/profile", map[string]any{"userId": userA})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		got := decodeBody[recommend.UserProfile](t, rec)
		if got.Actor != "user:"+userA || got.EventCount != 2 {
			t.Errorf("profile = %+v", got)
		}
	})

	t.Run("anonymous personalized uses trending", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/recommendations/personalized", map[string]any{})
		got := decodeBody[recommend.Recommendation](t, rec)
		if got.Method != recommend.MethodTrending {
			t.Errorf("method = %q, want trending", got.Method)
		}
	})
}
