// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// ExpiringCache drops entries past their TTL. Satisfied by
// *cache.Rankings.
type ExpiringCache interface {
	CleanupExpired() int
}

// CacheJanitorService evicts expired ranking cache entries so that cold
// keys do not hold memory until LRU pressure pushes them out.
type CacheJanitorService struct {
	cache    ExpiringCache
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewCacheJanitorService creates the janitor. Default interval: 1m
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCacheJanitorService(c ExpiringCache, interval time.Duration, logger zerolog.Logger) *CacheJanitorService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CacheJanitorService{
		cache:    c,
		interval: interval,
		logger:   logger.With().Str("service", "cache-janitor").Logger(),
		name:     "cache-janitor",
	}
}

// Serve implements suture.Service.
func (s *CacheJanitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := s.cache.CleanupExpired(); n > 0 {
				s.logger.Debug().Int("evicted", n).Msg("expired cache entries removed")
			}
		}
	}
}

// String implements fmt.Stringer for suture events.
func (s *CacheJanitorService) String() string {
	return s.name
}
