// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

/*
Package metrics registers the Prometheus metrics of the server.

Metrics are exposed at /metrics in Prometheus text format:

	curl http://localhost:5001/metrics

Families:
  - api_*: request count, latency, in-flight requests, rate limit hits
  - duckdb_*: store query latency and errors
  - recommend_*: stage outcomes, train runs, served snapshot
  - cache_*: response cache hits, misses, size, evictions
  - circuit_breaker_*: breaker state, requests, transitions
  - wal_*: durable event buffer writes, flushes, retries
  - events_ingested_total: tracked events accepted by the API
*/
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of failed DuckDB store queries",
		},
		[]string{"operation"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of requests rejected by a rate limit",
		},
		[]string{"endpoint"},
	)

	// Recommendation Metrics
	RecommendStageTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_stage_total",
			Help: "Ranking stage runs by outcome",
		},
		[]string{"stage", "result"},
	)

	RecommendStageReturned = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_stage_returned_products",
			Help:    "Number of products a ranking stage returned",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
		[]string{"stage"},
	)

	RecommendTrainDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_train_duration_seconds",
			Help:    "Model training duration in seconds",
			Buckets: []float64{.1, .5, 1, 5, 10, 30, 60, 300, 900, 1800},
		},
		[]string{"strategy"},
	)

	RecommendTrainTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_train_total",
			Help: "Model training runs by status",
		},
		[]string{"strategy", "status"},
	)

	RecommendLastTrainSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_last_train_success_timestamp",
			Help: "Unix timestamp of the last successful training run",
		},
	)

	RecommendSnapshotVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_snapshot_version",
			Help: "Version of the served model snapshot",
		},
	)

	RecommendSnapshotSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recommend_snapshot_size",
			Help: "Actors and products in the served model snapshot",
		},
		[]string{"dimension"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of response cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of response cache misses",
		},
		[]string{"cache"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of response cache entries",
		},
		[]string{"cache"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of response cache evictions",
		},
		[]string{"cache", "reason"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Requests through a circuit breaker by result",
		},
		[]string{"name", "result"},
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current consecutive failures seen by a circuit breaker",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// WAL Metrics
	WALWrites = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wal_writes_total",
			Help: "Events durably written to the WAL",
		},
	)

	WALFlushed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wal_flushed_total",
			Help: "WAL entries delivered to the store and confirmed",
		},
	)

	WALFlushErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wal_flush_errors_total",
			Help: "Failed WAL flush batches",
		},
	)

	WALDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wal_dropped_total",
			Help: "WAL entries dropped after exhausting retries",
		},
	)

	WALPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wal_pending_entries",
			Help: "WAL entries awaiting delivery",
		},
	)

	// Ingestion Metrics
	EventsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_ingested_total",
			Help: "Tracked events accepted by the API",
		},
		[]string{"event_type"},
	)
)

// RecordDBQuery records a store query.
func RecordDBQuery(operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
