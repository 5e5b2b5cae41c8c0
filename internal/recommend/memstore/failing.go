// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package memstore

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/tomtom215/mercator/internal/recommend"
)

// ErrInjected is returned by a Failing store for every failing operation.
var ErrInjected = errors.New("injected store failure")

// Op names a Store operation for failure injection.
type Op int

const (
	OpFindEvents Op = 1 << iota
	OpFindProducts
	OpGroupActors
	OpAggregate
	OpCountEvents
	OpCountProducts
)

// Failing wraps a Store and fails the selected operations. The failure set
// can be changed while the store is in use.
type Failing struct {
	recommend.Store
	ops atomic.Int64

	// AfterFindEvents lets the first N FindEvents calls succeed before the
	// OpFindEvents failure applies. Zero fails immediately.
	AfterFindEvents int64
	findCalls       atomic.Int64
}

var _ recommend.Store = (*Failing)(nil)

// NewFailing wraps inner, failing ops (a bitmask of Op values).
func NewFailing(inner recommend.Store, ops Op) *Failing {
	f := &Failing{Store: inner}
	f.ops.Store(int64(ops))
	return f
}

// SetFailing replaces the failing operation set.
func (f *Failing) SetFailing(ops Op) {
	f.ops.Store(int64(ops))
}

func (f *Failing) fails(op Op) bool {
	return Op(f.ops.Load())&op != 0
}

// FindEvents implements recommend.Store.
func (f *Failing) FindEvents(ctx context.Context, filter recommend.EventFilter) ([]recommend.Event, error) {
	n := f.findCalls.Add(1)
	if f.fails(OpFindEvents) && n > f.AfterFindEvents {
		return nil, ErrInjected
	}
	return f.Store.FindEvents(ctx, filter)
}

// FindProducts implements recommend.Store.
func (f *Failing) FindProducts(ctx context.Context, filter recommend.ProductFilter) ([]recommend.Product, error) {
	if f.fails(OpFindProducts) {
		return nil, ErrInjected
	}
	return f.Store.FindProducts(ctx, filter)
}

// GroupActorsByCommonProducts implements recommend.Store.
func (f *Failing) GroupActorsByCommonProducts(ctx context.Context, productIDs []recommend.ProductID, exclude recommend.ActorKey, limit int) ([]recommend.ActorGroup, error) {
	if f.fails(OpGroupActors) {
		return nil, ErrInjected
	}
	return f.Store.GroupActorsByCommonProducts(ctx, productIDs, exclude, limit)
}

// AggregateWeightedEventCounts implements recommend.Store.
func (f *Failing) AggregateWeightedEventCounts(ctx context.Context, since time.Time, weights map[recommend.EventKind]int, limit int) ([]recommend.ProductScore, error) {
	if f.fails(OpAggregate) {
		return nil, ErrInjected
	}
	return f.Store.AggregateWeightedEventCounts(ctx, since, weights, limit)
}

// CountEvents implements recommend.Store.
func (f *Failing) CountEvents(ctx context.Context, filter recommend.EventFilter) (int64, error) {
	if f.fails(OpCountEvents) {
		return 0, ErrInjected
	}
	return f.Store.CountEvents(ctx, filter)
}

// CountProducts implements recommend.Store.
func (f *Failing) CountProducts(ctx context.Context, filter recommend.ProductFilter) (int64, error) {
	if f.fails(OpCountProducts) {
		return 0, ErrInjected
	}
	return f.Store.CountProducts(ctx, filter)
}
