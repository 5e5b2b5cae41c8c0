// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"slices"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/mercator/internal/recommend"
)

// Cache names used as metric labels.
const (
	NameTrending   = "trending"
	NameAlsoBought = "also_bought"
	NameAlsoViewed = "also_viewed"
)

// Rankings caches the non-personalized rankings. Only ResultOK rankings are
// stored, so a degraded answer is never served from cache.
type Rankings struct {
	trending   *LRU[[]recommend.ProductID]
	alsoBought *LRU[[]recommend.ProductID]
	alsoViewed *LRU[[]recommend.ProductID]
}

// NewRankings creates the ranking caches.
func NewRankings(maxEntries int, ttl time.Duration) *Rankings {
	return &Rankings{
		trending:   NewLRU[[]recommend.ProductID](NameTrending, maxEntries, ttl),
		alsoBought: NewLRU[[]recommend.ProductID](NameAlsoBought, maxEntries, ttl),
		alsoViewed: NewLRU[[]recommend.ProductID](NameAlsoViewed, maxEntries, ttl),
	}
}

// Clear empties every ranking cache.
func (r *Rankings) Clear() {
	r.trending.Clear()
	r.alsoBought.Clear()
	r.alsoViewed.Clear()
}

// CleanupExpired drops expired entries from every cache.
func (r *Rankings) CleanupExpired() int {
	return r.trending.CleanupExpired() + r.alsoBought.CleanupExpired() + r.alsoViewed.CleanupExpired()
}

// Wrap returns rankers that consult the caches before inner. Nil inner
// rankers stay nil; Profiles is passed through uncached.
func (r *Rankings) Wrap(inner recommend.Rankers) recommend.Rankers {
	out := recommend.Rankers{Profiles: inner.Profiles}
	if inner.Trending != nil {
		out.Trending = &trendingRanker{inner: inner.Trending, lru: r.trending}
	}
	if inner.AlsoBought != nil {
		out.AlsoBought = &relatedRanker{name: NameAlsoBought, inner: inner.AlsoBought, lru: r.alsoBought}
	}
	if inner.AlsoViewed != nil {
		out.AlsoViewed = &relatedRanker{name: NameAlsoViewed, inner: inner.AlsoViewed, lru: r.alsoViewed}
	}
	return out
}

type trendingRanker struct {
	inner recommend.TrendingRanker
	lru   *LRU[[]recommend.ProductID]
}

func (t *trendingRanker) Trending(ctx context.Context, days, limit int) recommend.Ranked {
	key := GenerateKey(NameTrending, struct {
		Days  int `json:"days"`
		Limit int `json:"limit"`
	}{days, limit})
	return lookup(t.lru, key, func() recommend.Ranked {
		return t.inner.Trending(ctx, days, limit)
	})
}

type relatedRanker struct {
	name  string
	inner recommend.RelatedRanker
	lru   *LRU[[]recommend.ProductID]
}

func (r *relatedRanker) Related(ctx context.Context, seed string, limit int) recommend.Ranked {
	key := GenerateKey(r.name, struct {
		Seed  string `json:"seed"`
		Limit int    `json:"limit"`
	}{seed, limit})
	return lookup(r.lru, key, func() recommend.Ranked {
		return r.inner.Related(ctx, seed, limit)
	})
}

func lookup(lru *LRU[[]recommend.ProductID], key string, compute func() recommend.Ranked) recommend.Ranked {
	if ids, ok := lru.Get(key); ok {
		return recommend.OK(slices.Clone(ids))
	}
	r := compute()
	if r.Outcome.Kind == recommend.ResultOK {
		lru.Set(key, slices.Clone(r.ProductIDs))
	}
	return r
}

// GenerateKey creates a compact cache key from a name and JSON-encodable
// parameters.
func GenerateKey(name string, params any) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", name, params)
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", name, hash[:16])
}

// ClearingObserver forwards engine events to Observer and clears the
// ranking caches whenever a new snapshot is published.
type ClearingObserver struct {
	recommend.Observer
	Rankings *Rankings
}

// ObserveSnapshot implements recommend.Observer.
func (o ClearingObserver) ObserveSnapshot(info recommend.SnapshotInfo) {
	o.Rankings.Clear()
	if o.Observer != nil {
		o.Observer.ObserveSnapshot(info)
	}
}
