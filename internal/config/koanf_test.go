// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns the documented
// defaults and that they validate.
func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()

	if cfg.Server.Port != 5001 {
		t.Errorf("Server.Port = %d, want 5001", cfg.Server.Port)
	}
	if cfg.Recommend.Strategy != "vector" {
		t.Errorf("Recommend.Strategy = %q, want vector", cfg.Recommend.Strategy)
	}
	if cfg.Recommend.HybridMerge {
		t.Error("Recommend.HybridMerge should be off by default")
	}
	if cfg.Recommend.TrainInterval != 24*time.Hour {
		t.Errorf("Recommend.TrainInterval = %v, want 24h", cfg.Recommend.TrainInterval)
	}
	if cfg.Recommend.DefaultLimit != 10 || cfg.Recommend.RelatedLimit != 6 || cfg.Recommend.TrendingDays != 7 {
		t.Errorf("recommend limits = %+v", cfg.Recommend)
	}
	if cfg.WAL.Enabled {
		t.Error("WAL should be disabled by default")
	}
	if !cfg.Breaker.Enabled || cfg.Breaker.FailureRatio != 0.6 {
		t.Errorf("Breaker = %+v", cfg.Breaker)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"HTTP_PORT":              "server.port",
		"DUCKDB_PATH":            "database.path",
		"RECOMMEND_STRATEGY":     "recommend.strategy",
		"RECOMMEND_HYBRID_MERGE": "recommend.hybrid_merge",
		"wal_enabled":            "wal.enabled",
		"CORS_ORIGINS":           "security.cors_origins",
		"LOG_LEVEL":              "logging.level",
		"PATH":                   "",
		"HOME":                   "",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}

// The Load tests mutate the environment and cannot run in parallel.

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(cfg, defaultConfig()) {
		t.Errorf("Load() without overrides differs from defaults:\n%+v\n%+v", cfg, defaultConfig())
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("RECOMMEND_STRATEGY", "profile")
	t.Setenv("RECOMMEND_HYBRID_MERGE", "true")
	t.Setenv("RECOMMEND_TRAIN_INTERVAL", "6h")
	t.Setenv("BREAKER_FAILURE_RATIO", "0.25")
	t.Setenv("CORS_ORIGINS", "https://shop.example, https://admin.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Recommend.Strategy != "profile" || !cfg.Recommend.HybridMerge {
		t.Errorf("Recommend = %+v", cfg.Recommend)
	}
	if cfg.Recommend.TrainInterval != 6*time.Hour {
		t.Errorf("TrainInterval = %v, want 6h", cfg.Recommend.TrainInterval)
	}
	if cfg.Breaker.FailureRatio != 0.25 {
		t.Errorf("FailureRatio = %v, want 0.25", cfg.Breaker.FailureRatio)
	}
	want := []string{"https://shop.example", "https://admin.example"}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, want) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: 9000
recommend:
  strategy: profile
  default_limit: 20
wal:
  enabled: true
  path: /tmp/wal
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "9100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("env should win over file: port = %d", cfg.Server.Port)
	}
	if cfg.Recommend.Strategy != "profile" || cfg.Recommend.DefaultLimit != 20 {
		t.Errorf("file values not applied: %+v", cfg.Recommend)
	}
	if !cfg.WAL.Enabled || cfg.WAL.Path != "/tmp/wal" {
		t.Errorf("WAL = %+v", cfg.WAL)
	}
	if cfg.WAL.BatchSize != 500 {
		t.Errorf("unset file keys should keep defaults, WAL.BatchSize = %d", cfg.WAL.BatchSize)
	}
}

func TestLoad_InvalidFails(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("RECOMMEND_STRATEGY", "neural")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "RECOMMEND_STRATEGY") {
		t.Errorf("Load() error = %v, want strategy validation error", err)
	}
}
