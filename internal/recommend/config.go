// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package recommend

import (
	"fmt"
	"time"
)

// Config contains the orchestration settings of the engine. Strategy
// specific tuning lives with the strategy implementations.
type Config struct {
	// HybridMerge replaces the collaborative stage of Personalized with a
	// rank-position merge of collaborative and content candidates.
	HybridMerge bool `json:"hybrid_merge"`

	// DefaultLimit applies when a request does not specify a limit.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit caps any requested limit.
	MaxLimit int `json:"max_limit"`

	// TrendingDays is the trailing window of the trending stage.
	TrendingDays int `json:"trending_days"`

	// RelatedLimit is the default limit of also-bought and also-viewed.
	RelatedLimit int `json:"related_limit"`

	// TrainTimeout bounds a single train run.
	TrainTimeout time.Duration `json:"train_timeout"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() *Config {
	return &Config{
		HybridMerge:  false,
		DefaultLimit: 10,
		MaxLimit:     100,
		TrendingDays: 7,
		RelatedLimit: 6,
		TrainTimeout: 30 * time.Minute,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.DefaultLimit <= 0 {
		return fmt.Errorf("default_limit must be positive, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("max_limit (%d) must be >= default_limit (%d)", c.MaxLimit, c.DefaultLimit)
	}
	if c.TrendingDays <= 0 {
		return fmt.Errorf("trending_days must be positive, got %d", c.TrendingDays)
	}
	if c.RelatedLimit <= 0 {
		return fmt.Errorf("related_limit must be positive, got %d", c.RelatedLimit)
	}
	if c.TrainTimeout <= 0 {
		return fmt.Errorf("train_timeout must be positive, got %v", c.TrainTimeout)
	}
	return nil
}

// clampLimit applies the default and maximum to a requested limit.
func (c *Config) clampLimit(limit, fallback int) int {
	if limit <= 0 {
		limit = fallback
	}
	if limit > c.MaxLimit {
		limit = c.MaxLimit
	}
	return limit
}
