// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package algorithms

import (
	"math"
	"sort"
	"time"

	"github.com/tomtom215/mercator/internal/recommend"
)

// Window defaults.
const (
	// DefaultHistoryWindow is how far back actor history and training data reach.
	DefaultHistoryWindow = 90 * 24 * time.Hour

	// DefaultNeighbourWindow is how far back a co-occurrence neighbour's
	// events are replayed.
	DefaultNeighbourWindow = 30 * 24 * time.Hour
)

// Ensure all strategies and rankers implement their interfaces.
var (
	_ recommend.Strategy       = (*VectorStrategy)(nil)
	_ recommend.Strategy       = (*ProfileStrategy)(nil)
	_ recommend.TrendingRanker = (*Trending)(nil)
	_ recommend.RelatedRanker  = (*Related)(nil)
	_ recommend.ProfileBuilder = (*ProfileBuilder)(nil)
)

// cosineSimilarity computes cosine similarity between two dense vectors of
// equal length. Zero vectors have similarity 0 with everything.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// scored is a candidate with an accumulated score. seq records first
// appearance and breaks ties.
type scored struct {
	id    recommend.ProductID
	score float64
	seq   int
}

// scoreBoard accumulates scores per product in first-seen order.
type scoreBoard struct {
	index map[recommend.ProductID]int
	items []scored
}

func newScoreBoard(capacity int) *scoreBoard {
	return &scoreBoard{
		index: make(map[recommend.ProductID]int, capacity),
		items: make([]scored, 0, capacity),
	}
}

func (b *scoreBoard) add(id recommend.ProductID, delta float64) {
	if i, ok := b.index[id]; ok {
		b.items[i].score += delta
		return
	}
	b.index[id] = len(b.items)
	b.items = append(b.items, scored{id: id, score: delta, seq: len(b.items)})
}

// top returns up to limit ids with a positive score, highest first, ties in
// first-seen order.
func (b *scoreBoard) top(limit int) []recommend.ProductID {
	return b.ranked(limit, func(score float64) bool { return score > 0 })
}

// topNonNegative is top with zero-score candidates kept at the tail.
func (b *scoreBoard) topNonNegative(limit int) []recommend.ProductID {
	return b.ranked(limit, func(score float64) bool { return score >= 0 })
}

func (b *scoreBoard) ranked(limit int, keep func(float64) bool) []recommend.ProductID {
	items := make([]scored, 0, len(b.items))
	for _, it := range b.items {
		if keep(it.score) {
			items = append(items, it)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].score > items[j].score
	})
	if limit >= 0 && len(items) > limit {
		items = items[:limit]
	}
	ids := make([]recommend.ProductID, len(items))
	for i, it := range items {
		ids[i] = it.id
	}
	return ids
}

// productSet builds a lookup set from ids.
func productSet(ids []recommend.ProductID) map[recommend.ProductID]struct{} {
	set := make(map[recommend.ProductID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// sortedProductIDs returns the keys of set ordered by id.
func sortedProductIDs(set map[recommend.ProductID]struct{}) []recommend.ProductID {
	ids := make([]recommend.ProductID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
