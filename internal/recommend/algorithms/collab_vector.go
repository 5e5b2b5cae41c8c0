// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package algorithms

import (
	"sort"

	"github.com/tomtom215/mercator/internal/recommend"
)

type neighbour struct {
	row int
	sim float64
}

// nearestRows returns up to k rows most similar to row r, excluding r
// itself. Equal similarities keep matrix row order.
func (m *UserItemMatrix) nearestRows(r, k int) []neighbour {
	candidates := make([]neighbour, 0, len(m.rows)-1)
	for other := range m.rows {
		if other == r {
			continue
		}
		candidates = append(candidates, neighbour{row: other, sim: m.rowCosine(r, other)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].sim > candidates[j].sim
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates
}

// collaborativeVector scores each product held by the actor's k nearest
// rows as the sum of neighbourScore x similarity, skipping products the
// actor already has weight on. Neighbours are taken whatever their
// similarity, so products of zero-similarity rows still rank at the tail.
// An actor without a row is a cold start and gets no candidates.
func collaborativeVector(m *UserItemMatrix, actor recommend.ActorKey, k, limit int) []recommend.ProductID {
	if m == nil || limit <= 0 {
		return nil
	}
	r, ok := m.rowIndex[actor]
	if !ok {
		return nil
	}

	held := make(map[int]struct{}, len(m.rows[r]))
	for _, x := range m.rows[r] {
		if x.value > 0 {
			held[x.col] = struct{}{}
		}
	}

	board := newScoreBoard(64)
	for _, n := range m.nearestRows(r, k) {
		for _, x := range m.rows[n.row] {
			if x.value <= 0 {
				continue
			}
			if _, own := held[x.col]; own {
				continue
			}
			board.add(m.products[x.col], x.value*n.sim)
		}
	}

	return board.topNonNegative(limit)
}
