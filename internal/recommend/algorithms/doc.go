// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

// Package algorithms implements the ranking strategies and side-path rankers
// used by the recommendation engine.
//
// # Strategies
//
// Both strategies implement recommend.Strategy and are selected by
// configuration:
//
// Vector:
//   - UserItemMatrix: sparse actor x product matrix of summed event weights
//   - FeatureSet: price, discount, stock, rating plus one-hot category/brand
//   - Collaborative: cosine similarity between matrix rows, top-10 neighbours
//   - Content: cosine similarity between products and the actor's mean
//     feature vector
//
// Profile:
//   - ProfileBuilder: category/product/brand/tag scores replayed per request
//   - Collaborative: co-occurrence counting over actors sharing products
//   - Content: discounted published products in the actor's top categories
//
// # Side Paths
//
//   - Trending: windowed weighted activity with a published-by-discount
//     fallback when aggregation fails
//   - Related: co-purchase ("also bought") and co-view ("also viewed")
//     counting for a seed product
//
// # Snapshots
//
// The vector strategy serves an immutable snapshot through an atomic
// pointer. Train builds a new snapshot completely before swapping it in,
// so rankers never observe a partially built matrix.
//
// # Determinism
//
// Given the same store contents, every ranker returns the same output:
// matrix rows and feature dimensions follow first-appearance order and all
// sorts are stable with explicit tie-breaks.
package algorithms
