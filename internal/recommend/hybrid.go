// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package recommend

import "sort"

// Rank-position weights of the hybrid merge.
const (
	HybridCollaborativeWeight = 0.6
	HybridContentWeight       = 0.4
)

// HybridMerge fuses a collaborative and a content candidate list.
//
// The i-th entry (0-indexed) of a list of length N contributes (N-i) times
// the list weight to its product; products in both lists sum both
// contributions. The top k products by combined score are returned, ties
// kept in first-encountered order (collaborative list first).
//
// This is a deliberate simplification: it fuses rank positions, not the
// relevance scores the rankers computed, so a list's score scale carries no
// information into the merge.
func HybridMerge(collaborative, content []ProductID, k int) []ProductID {
	ids, _ := HybridMergeScores(collaborative, content, k)
	return ids
}

// HybridMergeScores is HybridMerge that also returns the combined score of
// every product seen in either list.
func HybridMergeScores(collaborative, content []ProductID, k int) ([]ProductID, map[ProductID]float64) {
	scores := make(map[ProductID]float64, len(collaborative)+len(content))
	order := make([]ProductID, 0, len(collaborative)+len(content))

	accumulate := func(list []ProductID, weight float64) {
		n := len(list)
		for i, id := range list {
			if _, seen := scores[id]; !seen {
				order = append(order, id)
			}
			scores[id] += float64(n-i) * weight
		}
	}
	accumulate(collaborative, HybridCollaborativeWeight)
	accumulate(content, HybridContentWeight)

	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	if k < 0 {
		k = 0
	}
	if len(order) > k {
		order = order[:k]
	}
	return order, scores
}
