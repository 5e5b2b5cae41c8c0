// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package algorithms

import (
	"math"
	"sort"

	"github.com/tomtom215/mercator/internal/recommend"
)

// excludedSimilarity is assigned to products the actor already interacted
// with so they sort below every real candidate.
const excludedSimilarity = -1.0

// contentVector averages the feature vectors of the products the actor has
// nonzero weight on and ranks every encoded product by cosine similarity to
// that mean. Interacted products are forced to excludedSimilarity and never
// returned.
func contentVector(m *UserItemMatrix, f *FeatureSet, actor recommend.ActorKey, limit int) []recommend.ProductID {
	if m == nil || f.Len() == 0 || limit <= 0 {
		return nil
	}

	interacted := m.Interacted(actor)
	if len(interacted) == 0 {
		return nil
	}

	profile, ok := f.Mean(interacted)
	if !ok {
		return nil
	}

	held := productSet(interacted)
	type candidate struct {
		idx int
		sim float64
	}
	candidates := make([]candidate, len(f.products))
	for i, id := range f.products {
		sim := cosineSimilarity(profile, f.vectors[i])
		if _, own := held[id]; own || math.IsNaN(sim) {
			sim = excludedSimilarity
		}
		candidates[i] = candidate{idx: i, sim: sim}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].sim > candidates[j].sim
	})

	out := make([]recommend.ProductID, 0, limit)
	for _, c := range candidates {
		if len(out) == limit {
			break
		}
		id := f.products[c.idx]
		if _, own := held[id]; own {
			continue
		}
		out = append(out, id)
	}
	return out
}
