// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

// Package breaker wraps the recommendation store with a circuit breaker and
// query metrics.
//
// While the circuit is open, store calls fail fast with an error that
// matches recommend.ErrDataUnavailable, so rankers degrade exactly as they
// would on a failed query: empty stage output and the fallback chain
// continues.
//
// The breaker uses real time for its interval and timeout. Tests should
// exercise the trip logic with a short Timeout rather than mock the clock.
package breaker

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/mercator/internal/config"
	"github.com/tomtom215/mercator/internal/logging"
	"github.com/tomtom215/mercator/internal/metrics"
	"github.com/tomtom215/mercator/internal/recommend"
)

// DefaultName labels the store breaker in logs and metrics.
const DefaultName = "store"

// Store decorates a recommend.Store. A disabled breaker still records query
// metrics.
type Store struct {
	inner recommend.Store
	cb    *gobreaker.CircuitBreaker[any]
	name  string
}

var _ recommend.Store = (*Store)(nil)

// NewStore wraps inner according to cfg.
func NewStore(inner recommend.Store, cfg config.BreakerConfig) *Store {
	s := &Store{inner: inner, name: DefaultName}
	if !cfg.Enabled {
		return s
	}

	metrics.CircuitBreakerState.WithLabelValues(s.name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(s.name).Set(0)

	s.cb = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        s.name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= cfg.FailureRatio
			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening store circuit")
			}
			return shouldTrip
		},

		// A caller giving up is not a store failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})
	return s
}

// State returns the breaker state, "disabled" when no breaker is configured.
func (s *Store) State() string {
	if s.cb == nil {
		return "disabled"
	}
	return stateToString(s.cb.State())
}

// execute runs fn through the breaker and records metrics.
func (s *Store) execute(op string, fn func() (any, error)) (any, error) {
	start := time.Now()

	if s.cb == nil {
		result, err := fn()
		metrics.RecordDBQuery(op, time.Since(start), err)
		return result, err
	}

	result, err := s.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(s.name, "rejected").Inc()
			logging.Debug().Err(err).Str("op", op).Msg("[CIRCUIT BREAKER] Request rejected")
			return nil, recommend.DataUnavailable(op, err)
		}
		metrics.RecordDBQuery(op, time.Since(start), err)
		metrics.CircuitBreakerRequests.WithLabelValues(s.name, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(s.name).Set(float64(s.cb.Counts().ConsecutiveFailures))
		return nil, err
	}

	metrics.RecordDBQuery(op, time.Since(start), nil)
	metrics.CircuitBreakerRequests.WithLabelValues(s.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(s.name).Set(0)
	return result, nil
}

// castResult type-asserts a breaker result.
func castResult[T any](result any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// FindEvents implements recommend.Store.
func (s *Store) FindEvents(ctx context.Context, filter recommend.EventFilter) ([]recommend.Event, error) {
	return castResult[[]recommend.Event](s.execute("find_events", func() (any, error) {
		return s.inner.FindEvents(ctx, filter)
	}))
}

// FindProducts implements recommend.Store.
func (s *Store) FindProducts(ctx context.Context, filter recommend.ProductFilter) ([]recommend.Product, error) {
	return castResult[[]recommend.Product](s.execute("find_products", func() (any, error) {
		return s.inner.FindProducts(ctx, filter)
	}))
}

// GroupActorsByCommonProducts implements recommend.Store.
func (s *Store) GroupActorsByCommonProducts(ctx context.Context, productIDs []recommend.ProductID, exclude recommend.ActorKey, limit int) ([]recommend.ActorGroup, error) {
	return castResult[[]recommend.ActorGroup](s.execute("group_actors", func() (any, error) {
		return s.inner.GroupActorsByCommonProducts(ctx, productIDs, exclude, limit)
	}))
}

// AggregateWeightedEventCounts implements recommend.Store.
func (s *Store) AggregateWeightedEventCounts(ctx context.Context, since time.Time, weights map[recommend.EventKind]int, limit int) ([]recommend.ProductScore, error) {
	return castResult[[]recommend.ProductScore](s.execute("aggregate_weighted", func() (any, error) {
		return s.inner.AggregateWeightedEventCounts(ctx, since, weights, limit)
	}))
}

// CountEvents implements recommend.Store.
func (s *Store) CountEvents(ctx context.Context, filter recommend.EventFilter) (int64, error) {
	return castResult[int64](s.execute("count_events", func() (any, error) {
		return s.inner.CountEvents(ctx, filter)
	}))
}

// CountProducts implements recommend.Store.
func (s *Store) CountProducts(ctx context.Context, filter recommend.ProductFilter) (int64, error) {
	return castResult[int64](s.execute("count_products", func() (any, error) {
		return s.inner.CountProducts(ctx, filter)
	}))
}

// stateToFloat converts a breaker state to its gauge value.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
