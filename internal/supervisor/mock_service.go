// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package supervisor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// MockService is a scripted suture.Service for exercising the tree.
//
// It stands in for the real layer services (WAL flusher, trainer, HTTP
// server) so restart and isolation behavior can be tested without a
// database or a listening socket. A MockService can be told to fail its
// first N runs, or to fail every run with a fixed error. Once a run gets
// past its scripted failures it blocks until the context is canceled, the
// same way the long-running services do.
type MockService struct {
	name string

	starts   atomic.Int32
	stops    atomic.Int32
	failures atomic.Int32

	mu        sync.Mutex
	failFirst int32
	failWith  error

	running     chan struct{}
	runningOnce sync.Once
}

// NewMockService creates a mock service that runs until canceled.
func NewMockService(name string) *MockService {
	return &MockService{
		name:    name,
		running: make(chan struct{}),
	}
}

// Serve implements suture.Service.
//
// Scripted failures are returned immediately so suture counts them against
// the layer's failure threshold and schedules a restart.
func (m *MockService) Serve(ctx context.Context) error {
	m.starts.Add(1)
	defer m.stops.Add(1)

	m.mu.Lock()
	failFirst, failWith := m.failFirst, m.failWith
	m.mu.Unlock()

	if failFirst > 0 {
		if n := m.failures.Add(1); n <= failFirst {
			return fmt.Errorf("%s: scripted failure %d of %d", m.name, n, failFirst)
		}
	}
	if failWith != nil {
		return failWith
	}

	m.runningOnce.Do(func() { close(m.running) })
	<-ctx.Done()
	return ctx.Err()
}

// FailWith makes every subsequent run return err immediately.
func (m *MockService) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

// FailFirst makes the first n runs fail before the service settles.
func (m *MockService) FailFirst(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failFirst = int32(n)
}

// WaitRunning blocks until a run has got past its scripted failures, or
// until ctx is done. It reports whether the service is running.
func (m *MockService) WaitRunning(ctx context.Context) bool {
	select {
	case <-m.running:
		return true
	case <-ctx.Done():
		return false
	}
}

// StartCount returns how many runs have begun.
func (m *MockService) StartCount() int32 {
	return m.starts.Load()
}

// StopCount returns how many runs have returned.
func (m *MockService) StopCount() int32 {
	return m.stops.Load()
}

// String implements fmt.Stringer. Suture uses it to name the service in
// its event log.
func (m *MockService) String() string {
	return m.name
}
