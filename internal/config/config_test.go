// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package config

import (
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"empty db path", func(c *Config) { c.Database.Path = "" }, true},
		{"negative threads", func(c *Config) { c.Database.Threads = -1 }, true},
		{"memory db", func(c *Config) { c.Database.Path = ":memory:" }, false},
		{"unknown strategy", func(c *Config) { c.Recommend.Strategy = "als" }, true},
		{"profile strategy", func(c *Config) { c.Recommend.Strategy = "profile" }, false},
		{"scheduled training off", func(c *Config) { c.Recommend.TrainInterval = 0 }, false},
		{"negative interval", func(c *Config) { c.Recommend.TrainInterval = -time.Second }, true},
		{"zero train timeout", func(c *Config) { c.Recommend.TrainTimeout = 0 }, true},
		{"max below default", func(c *Config) { c.Recommend.MaxLimit = 5 }, true},
		{"zero trending days", func(c *Config) { c.Recommend.TrendingDays = 0 }, true},
		{"zero neighbours", func(c *Config) { c.Recommend.Neighbours = 0 }, true},
		{"cache ttl zero", func(c *Config) { c.Cache.TTL = 0 }, true},
		{"cache disabled ttl zero", func(c *Config) { c.Cache.Enabled = false; c.Cache.TTL = 0 }, false},
		{"breaker ratio above one", func(c *Config) { c.Breaker.FailureRatio = 1.5 }, true},
		{"breaker disabled bad ratio", func(c *Config) { c.Breaker.Enabled = false; c.Breaker.FailureRatio = 0 }, false},
		{"wal without path", func(c *Config) { c.WAL.Enabled = true; c.WAL.Path = "" }, true},
		{"wal enabled", func(c *Config) { c.WAL.Enabled = true }, false},
		{"rate limit zero", func(c *Config) { c.Security.RateLimitReqs = 0 }, true},
		{"rate limit disabled", func(c *Config) { c.Security.RateLimitDisabled = true; c.Security.RateLimitReqs = 0 }, false},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, true},
		{"console format", func(c *Config) { c.Logging.Format = "console" }, false},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestServerConfig_Addr(t *testing.T) {
	t.Parallel()

	s := ServerConfig{Host: "127.0.0.1", Port: 5001}
	if got := s.Addr(); got != "127.0.0.1:5001" {
		t.Errorf("Addr() = %q", got)
	}
}
