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

// UserItemMatrix is a sparse actor x product matrix of accumulated event
// weights. Rows and columns are ordered by first appearance in the events
// the matrix was built from. A built matrix is never modified.
type UserItemMatrix struct {
	actors   []recommend.ActorKey
	rowIndex map[recommend.ActorKey]int

	products []recommend.ProductID
	colIndex map[recommend.ProductID]int

	// rows[r] holds the nonzero cells of row r ordered by column.
	rows  [][]cell
	norms []float64
}

type cell struct {
	col   int
	value float64
}

// BuildUserItemMatrix accumulates weight(kind) into matrix[actor][product]
// for every event with a resolvable actor and product.
//
// It returns nil when no event qualifies. A nil matrix means "no vector
// recommendations possible", which is distinct from a matrix whose rows are
// all zero.
func BuildUserItemMatrix(events []recommend.Event) *UserItemMatrix {
	m := &UserItemMatrix{
		rowIndex: make(map[recommend.ActorKey]int),
		colIndex: make(map[recommend.ProductID]int),
	}
	var acc []map[int]float64

	for i := range events {
		ev := &events[i]
		actor, ok := ev.Actor()
		if !ok || ev.ProductID == "" {
			continue
		}

		r, ok := m.rowIndex[actor]
		if !ok {
			r = len(m.actors)
			m.rowIndex[actor] = r
			m.actors = append(m.actors, actor)
			acc = append(acc, make(map[int]float64))
		}

		c, ok := m.colIndex[ev.ProductID]
		if !ok {
			c = len(m.products)
			m.colIndex[ev.ProductID] = c
			m.products = append(m.products, ev.ProductID)
		}

		acc[r][c] += float64(ev.Kind.Weight())
	}

	if len(m.actors) == 0 {
		return nil
	}

	m.rows = make([][]cell, len(acc))
	m.norms = make([]float64, len(acc))
	for r, cells := range acc {
		row := make([]cell, 0, len(cells))
		for c, v := range cells {
			row = append(row, cell{col: c, value: v})
		}
		sort.Slice(row, func(i, j int) bool { return row[i].col < row[j].col })

		var sum float64
		for _, x := range row {
			sum += x.value * x.value
		}
		m.rows[r] = row
		m.norms[r] = math.Sqrt(sum)
	}
	return m
}

// NumActors returns the number of rows.
func (m *UserItemMatrix) NumActors() int {
	if m == nil {
		return 0
	}
	return len(m.actors)
}

// NumProducts returns the number of columns.
func (m *UserItemMatrix) NumProducts() int {
	if m == nil {
		return 0
	}
	return len(m.products)
}

// HasActor reports whether actor has a row.
func (m *UserItemMatrix) HasActor(actor recommend.ActorKey) bool {
	if m == nil {
		return false
	}
	_, ok := m.rowIndex[actor]
	return ok
}

// Score returns the accumulated weight of a cell; absent cells are 0.
func (m *UserItemMatrix) Score(actor recommend.ActorKey, product recommend.ProductID) float64 {
	if m == nil {
		return 0
	}
	r, ok := m.rowIndex[actor]
	if !ok {
		return 0
	}
	c, ok := m.colIndex[product]
	if !ok {
		return 0
	}
	row := m.rows[r]
	i := sort.Search(len(row), func(i int) bool { return row[i].col >= c })
	if i < len(row) && row[i].col == c {
		return row[i].value
	}
	return 0
}

// Interacted returns the products actor has nonzero weight on, in column
// order.
func (m *UserItemMatrix) Interacted(actor recommend.ActorKey) []recommend.ProductID {
	if m == nil {
		return nil
	}
	r, ok := m.rowIndex[actor]
	if !ok {
		return nil
	}
	out := make([]recommend.ProductID, 0, len(m.rows[r]))
	for _, x := range m.rows[r] {
		if x.value > 0 {
			out = append(out, m.products[x.col])
		}
	}
	return out
}

// RowSimilarity returns the cosine similarity between two rows.
func (m *UserItemMatrix) RowSimilarity(a, b recommend.ActorKey) float64 {
	if m == nil {
		return 0
	}
	ra, okA := m.rowIndex[a]
	rb, okB := m.rowIndex[b]
	if !okA || !okB {
		return 0
	}
	return m.rowCosine(ra, rb)
}

// rowCosine is cosine similarity over two sparse rows; it equals
// cosineSimilarity over the dense rows. Cells are merged in column order so
// the floating-point sum is reproducible.
func (m *UserItemMatrix) rowCosine(ra, rb int) float64 {
	if m.norms[ra] == 0 || m.norms[rb] == 0 {
		return 0
	}
	a, b := m.rows[ra], m.rows[rb]
	var dot float64
	for i, j := 0, 0; i < len(a) && j < len(b); {
		switch {
		case a[i].col == b[j].col:
			dot += a[i].value * b[j].value
			i++
			j++
		case a[i].col < b[j].col:
			i++
		default:
			j++
		}
	}
	return dot / (m.norms[ra] * m.norms[rb])
}

// denseRow materializes a row over all columns.
func (m *UserItemMatrix) denseRow(r int) []float64 {
	out := make([]float64, len(m.products))
	for _, x := range m.rows[r] {
		out[x.col] = x.value
	}
	return out
}
