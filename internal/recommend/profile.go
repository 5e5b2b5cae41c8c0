// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package recommend

import "sort"

// UserProfile is the weighted preference summary of one actor, derived by
// replaying the actor's events against the catalog.
type UserProfile struct {
	Actor string `json:"actor"`

	// CategoryScores, ProductScores and BrandScores accumulate event weights
	// under the product's category, id and brand.
	CategoryScores map[string]int    `json:"categoryScores"`
	ProductScores  map[ProductID]int `json:"productScores"`
	BrandScores    map[string]int    `json:"brandScores"`
	TagScores      map[string]int    `json:"tagScores"`

	// PriceRange covers resolved products with a positive price; nil when
	// there were none.
	PriceRange *PriceRange `json:"priceRange,omitempty"`

	// Viewed counts view events per product.
	Viewed map[ProductID]int `json:"viewed"`

	// Purchased summarizes purchase events per product.
	Purchased map[ProductID]PurchaseSummary `json:"purchased"`

	TotalSpent float64 `json:"totalSpent"`
	EventCount int     `json:"eventCount"`
}

// PriceRange is the min/max/mean price of products an actor touched.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

// PurchaseSummary aggregates purchases of one product.
type PurchaseSummary struct {
	Count      int     `json:"count"`
	TotalSpent float64 `json:"totalSpent"`
}

// NewUserProfile returns a profile with all maps allocated.
func NewUserProfile(actor ActorKey) *UserProfile {
	return &UserProfile{
		Actor:          actor.String(),
		CategoryScores: make(map[string]int),
		ProductScores:  make(map[ProductID]int),
		BrandScores:    make(map[string]int),
		TagScores:      make(map[string]int),
		Viewed:         make(map[ProductID]int),
		Purchased:      make(map[ProductID]PurchaseSummary),
	}
}

// TopCategories returns up to n categories by score descending. Equal scores
// are ordered by category name so the result is deterministic.
func (p *UserProfile) TopCategories(n int) []string {
	cats := make([]string, 0, len(p.CategoryScores))
	for c := range p.CategoryScores {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		si, sj := p.CategoryScores[cats[i]], p.CategoryScores[cats[j]]
		if si != sj {
			return si > sj
		}
		return cats[i] < cats[j]
	})
	if len(cats) > n {
		cats = cats[:n]
	}
	return cats
}

// Products returns the ids of every product the actor has weight on,
// ordered by id.
func (p *UserProfile) Products() []ProductID {
	ids := make([]ProductID, 0, len(p.ProductScores))
	for id := range p.ProductScores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
