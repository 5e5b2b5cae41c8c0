// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package algorithms

import (
	"github.com/tomtom215/mercator/internal/recommend"
)

// numericFeatures is the count of raw numeric dimensions that lead every
// feature vector: price, discount, stock, rating.
const numericFeatures = 4

// FeatureSet holds one feature vector per product over a fixed dimension
// set. The categorical dimensions are the distinct non-empty categories and
// brands of the products it was built from; a product outside that set
// cannot be encoded without rebuilding.
type FeatureSet struct {
	products []recommend.ProductID
	index    map[recommend.ProductID]int
	vectors  [][]float64

	// dims names every dimension, e.g. "price", "category=shoes", "brand=acme".
	dims []string
}

// ExtractFeatures builds feature vectors for products. Dimensions follow
// first appearance: categories first, then brands. Products with an empty
// category or brand get no indicator for it.
func ExtractFeatures(products []recommend.Product) *FeatureSet {
	dims := make([]string, 0, numericFeatures+8)
	dims = append(dims, "price", "discount", "stock", "rating")
	categoryDim := make(map[string]int)
	brandDim := make(map[string]int)

	for i := range products {
		if c := products[i].Category; c != "" {
			if _, ok := categoryDim[c]; !ok {
				categoryDim[c] = len(dims)
				dims = append(dims, "category="+c)
			}
		}
	}
	for i := range products {
		if b := products[i].Brand; b != "" {
			if _, ok := brandDim[b]; !ok {
				brandDim[b] = len(dims)
				dims = append(dims, "brand="+b)
			}
		}
	}

	fs := &FeatureSet{
		products: make([]recommend.ProductID, 0, len(products)),
		index:    make(map[recommend.ProductID]int, len(products)),
		vectors:  make([][]float64, 0, len(products)),
		dims:     dims,
	}

	for i := range products {
		p := &products[i]
		if _, dup := fs.index[p.ID]; dup {
			continue
		}

		vec := make([]float64, len(dims))
		vec[0] = p.Price
		vec[1] = p.Discount
		vec[2] = float64(p.Stock)
		vec[3] = p.Rating
		if p.Category != "" {
			vec[categoryDim[p.Category]] = 1
		}
		if p.Brand != "" {
			vec[brandDim[p.Brand]] = 1
		}

		fs.index[p.ID] = len(fs.products)
		fs.products = append(fs.products, p.ID)
		fs.vectors = append(fs.vectors, vec)
	}

	return fs
}

// Len returns the number of encoded products.
func (f *FeatureSet) Len() int {
	if f == nil {
		return 0
	}
	return len(f.products)
}

// Dimensions returns the dimension names.
func (f *FeatureSet) Dimensions() []string {
	if f == nil {
		return nil
	}
	out := make([]string, len(f.dims))
	copy(out, f.dims)
	return out
}

// Vector returns the feature vector of a product.
func (f *FeatureSet) Vector(id recommend.ProductID) ([]float64, bool) {
	if f == nil {
		return nil, false
	}
	i, ok := f.index[id]
	if !ok {
		return nil, false
	}
	return f.vectors[i], true
}

// Mean averages the vectors of the given products that are encoded. It
// returns false when none of them is.
func (f *FeatureSet) Mean(ids []recommend.ProductID) ([]float64, bool) {
	if f == nil {
		return nil, false
	}
	sum := make([]float64, len(f.dims))
	n := 0
	for _, id := range ids {
		vec, ok := f.Vector(id)
		if !ok {
			continue
		}
		for d, v := range vec {
			sum[d] += v
		}
		n++
	}
	if n == 0 {
		return nil, false
	}
	for d := range sum {
		sum[d] /= float64(n)
	}
	return sum, true
}
