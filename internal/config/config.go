// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

// Package config loads the server configuration.
//
// Sources are layered, later layers winning:
//
//  1. built-in defaults (defaultConfig)
//  2. an optional YAML file: $CONFIG_PATH, else the first of DefaultConfigPaths
//  3. environment variables listed in envMappings
//
// The result is validated before it is returned; see Config.Validate.
package config

import (
	"fmt"
	"time"
)

// Config is the complete server configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Recommend RecommendConfig `koanf:"recommend"`
	Cache     CacheConfig     `koanf:"cache"`
	Breaker   BreakerConfig   `koanf:"breaker"`
	WAL       WALConfig       `koanf:"wal"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig configures the embedded DuckDB store.
type DatabaseConfig struct {
	Path      string `koanf:"path"`       // file path, or ":memory:"
	MaxMemory string `koanf:"max_memory"` // DuckDB memory_limit, e.g. "1GB"
	Threads   int    `koanf:"threads"`    // 0 = DuckDB default
	SeedDemo  bool   `koanf:"seed_demo"`  // insert a small demo catalog on empty databases
}

// RecommendConfig configures the recommendation engine.
type RecommendConfig struct {
	// Strategy selects the ranking family: "vector" or "profile".
	Strategy string `koanf:"strategy"`

	// HybridMerge replaces the collaborative stage with a rank-position merge
	// of collaborative and content candidates.
	HybridMerge bool `koanf:"hybrid_merge"`

	TrainOnStartup bool          `koanf:"train_on_startup"`
	TrainInterval  time.Duration `koanf:"train_interval"` // 0 disables scheduled training
	TrainTimeout   time.Duration `koanf:"train_timeout"`
	TrainCooldown  time.Duration `koanf:"train_cooldown"` // minimum spacing of manual POST /train

	// HistoryWindow bounds training data and actor history.
	HistoryWindow time.Duration `koanf:"history_window"`
	// NeighbourWindow bounds co-occurrence neighbour history (profile strategy).
	NeighbourWindow time.Duration `koanf:"neighbour_window"`

	DefaultLimit  int `koanf:"default_limit"`
	MaxLimit      int `koanf:"max_limit"`
	TrendingDays  int `koanf:"trending_days"`
	RelatedLimit  int `koanf:"related_limit"`
	Neighbours    int `koanf:"neighbours"`     // vector strategy
	MaxNeighbours int `koanf:"max_neighbours"` // profile strategy
	ProfileEvents int `koanf:"profile_events"`
}

// CacheConfig configures the response cache for trending and related
// rankings.
type CacheConfig struct {
	Enabled    bool          `koanf:"enabled"`
	TTL        time.Duration `koanf:"ttl"`
	MaxEntries int           `koanf:"max_entries"`
}

// BreakerConfig configures the circuit breaker around store queries.
type BreakerConfig struct {
	Enabled      bool          `koanf:"enabled"`
	MaxRequests  uint32        `koanf:"max_requests"` // trial requests allowed while half-open
	Interval     time.Duration `koanf:"interval"`     // closed-state counter reset period
	Timeout      time.Duration `koanf:"timeout"`      // open-state duration
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio"`
}

// WALConfig configures the durable event buffer.
type WALConfig struct {
	Enabled       bool          `koanf:"enabled"`
	Path          string        `koanf:"path"`
	SyncWrites    bool          `koanf:"sync_writes"`
	FlushInterval time.Duration `koanf:"flush_interval"`
	BatchSize     int           `koanf:"batch_size"`
	EntryTTL      time.Duration `koanf:"entry_ttl"`
	MaxRetries    int           `koanf:"max_retries"`
}

// SecurityConfig configures CORS and rate limiting.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
