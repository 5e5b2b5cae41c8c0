// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

// Package wal provides a durable write-ahead log for ingested events.
//
// Events accepted by the API are persisted to BadgerDB before the request
// returns and are delivered to DuckDB in batches by a Flusher. An entry is
// removed only after the store accepted it, so a crash between accept and
// insert loses nothing. Delivery is at-least-once: a crash after the insert
// but before the delete replays the entry.
//
// Entries are keyed by UUIDv7, so iteration order is write order.
package wal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/mercator/internal/config"
	"github.com/tomtom215/mercator/internal/logging"
	"github.com/tomtom215/mercator/internal/metrics"
	"github.com/tomtom215/mercator/internal/recommend"
)

var (
	// ErrClosed is returned by operations on a closed WAL.
	ErrClosed = errors.New("WAL is closed")

	// ErrNoEvents is returned when Write is called with nothing to write.
	ErrNoEvents = errors.New("no events to write")
)

const prefixPending = "pending:"

// Entry is a single buffered event.
type Entry struct {
	ID        string          `json:"id"`
	Event     recommend.Event `json:"event"`
	CreatedAt time.Time       `json:"created_at"`
	Attempts  int             `json:"attempts"`
	LastError string          `json:"last_error,omitempty"`
}

// Stats reports WAL activity since Open.
type Stats struct {
	Pending      int64
	TotalWrites  int64
	TotalFlushed int64
	TotalDropped int64
}

// WAL is a BadgerDB-backed event buffer.
type WAL struct {
	db  *badger.DB
	cfg config.WALConfig
	now func() time.Time

	mu     sync.RWMutex
	closed bool

	totalWrites  atomic.Int64
	totalFlushed atomic.Int64
	totalDropped atomic.Int64
}

// Open opens (or creates) the WAL at cfg.Path.
func Open(cfg config.WALConfig) (*WAL, error) {
	if cfg.Path == "" {
		return nil, errors.New("open WAL: path is required")
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 10
	}

	opts := badger.DefaultOptions(cfg.Path)
	opts.SyncWrites = cfg.SyncWrites
	opts.Compression = options.Snappy
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	w := &WAL{db: db, cfg: cfg, now: time.Now}

	pending, err := w.countPending()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("count pending entries: %w", err)
	}
	metrics.WALPending.Set(float64(pending))

	logging.Info().
		Str("path", cfg.Path).
		Bool("sync_writes", cfg.SyncWrites).
		Int64("pending", pending).
		Msg("WAL opened")
	return w, nil
}

// Write durably stores events and returns their ids. Events without an id
// get a fresh one and events without a timestamp are stamped with the
// current time, so a replay inserts exactly what was accepted.
func (w *WAL) Write(ctx context.Context, events []recommend.Event) ([]string, error) {
	if err := w.checkOpen(); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ErrNoEvents
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := w.now().UTC()
	ids := make([]string, len(events))
	err := w.db.Update(func(txn *badger.Txn) error {
		for i, ev := range events {
			if ev.ID == "" {
				ev.ID = uuid.NewString()
			}
			if ev.OccurredAt.IsZero() {
				ev.OccurredAt = now
			}
			key, err := uuid.NewV7()
			if err != nil {
				return fmt.Errorf("generate entry id: %w", err)
			}
			entry := Entry{ID: key.String(), Event: ev, CreatedAt: now}
			if err := w.setEntry(txn, &entry, w.cfg.EntryTTL); err != nil {
				return err
			}
			ids[i] = ev.ID
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("write WAL entries: %w", err)
	}

	w.totalWrites.Add(int64(len(events)))
	metrics.WALWrites.Add(float64(len(events)))
	metrics.WALPending.Add(float64(len(events)))
	return ids, nil
}

// Pending returns up to limit entries in write order. A non-positive limit
// returns everything. Entries that cannot be decoded are logged and skipped.
func (w *WAL) Pending(ctx context.Context, limit int) ([]*Entry, error) {
	if err := w.checkOpen(); err != nil {
		return nil, err
	}

	var entries []*Entry
	err := w.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(prefixPending)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			var entry Entry
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			}); err != nil {
				logging.Warn().Err(err).Str("key", string(item.Key())).Msg("WAL failed to unmarshal entry")
				continue
			}
			entries = append(entries, &entry)
			if limit > 0 && len(entries) >= limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate pending entries: %w", err)
	}
	return entries, nil
}

// Delete removes delivered entries.
func (w *WAL) Delete(entryIDs ...string) error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	if len(entryIDs) == 0 {
		return nil
	}

	err := w.db.Update(func(txn *badger.Txn) error {
		for _, id := range entryIDs {
			if err := txn.Delete(pendingKey(id)); err != nil {
				return fmt.Errorf("delete entry %s: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	w.totalFlushed.Add(int64(len(entryIDs)))
	metrics.WALFlushed.Add(float64(len(entryIDs)))
	metrics.WALPending.Sub(float64(len(entryIDs)))
	return nil
}

// RecordFailure bumps the attempt count of entries whose delivery failed.
// Entries that reach MaxRetries, or whose TTL has run out, are dropped. It
// returns the number dropped.
func (w *WAL) RecordFailure(entries []*Entry, cause error) (int, error) {
	if err := w.checkOpen(); err != nil {
		return 0, err
	}

	now := w.now()
	dropped := 0
	err := w.db.Update(func(txn *badger.Txn) error {
		dropped = 0
		for _, entry := range entries {
			updated := *entry
			updated.Attempts++
			if cause != nil {
				updated.LastError = cause.Error()
			}

			ttl := w.cfg.EntryTTL
			if ttl > 0 {
				ttl = entry.CreatedAt.Add(w.cfg.EntryTTL).Sub(now)
			}
			if updated.Attempts >= w.cfg.MaxRetries || (w.cfg.EntryTTL > 0 && ttl <= 0) {
				if err := txn.Delete(pendingKey(entry.ID)); err != nil {
					return fmt.Errorf("drop entry %s: %w", entry.ID, err)
				}
				dropped++
				logging.Warn().
					Str("entry_id", entry.ID).
					Str("event_id", entry.Event.ID).
					Int("attempts", updated.Attempts).
					Str("last_error", updated.LastError).
					Msg("WAL entry dropped")
				continue
			}
			if err := w.setEntry(txn, &updated, ttl); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("record WAL failure: %w", err)
	}

	if dropped > 0 {
		w.totalDropped.Add(int64(dropped))
		metrics.WALDropped.Add(float64(dropped))
		metrics.WALPending.Sub(float64(dropped))
	}
	return dropped, nil
}

// Stats returns counters and the current pending count.
func (w *WAL) Stats() Stats {
	var pending int64 = -1
	if w.checkOpen() == nil {
		if n, err := w.countPending(); err == nil {
			pending = n
		}
	}
	return Stats{
		Pending:      pending,
		TotalWrites:  w.totalWrites.Load(),
		TotalFlushed: w.totalFlushed.Load(),
		TotalDropped: w.totalDropped.Load(),
	}
}

// RunGC reclaims value log space. It is a no-op when nothing can be
// rewritten.
func (w *WAL) RunGC() error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	err := w.db.RunValueLogGC(0.5)
	if errors.Is(err, badger.ErrNoRewrite) {
		return nil
	}
	return err
}

// Close closes the underlying database. Pending entries stay on disk and
// are delivered after the next Open.
func (w *WAL) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	logging.Info().Msg("WAL closed")
	return nil
}

func (w *WAL) checkOpen() error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return ErrClosed
	}
	return nil
}

func (w *WAL) setEntry(txn *badger.Txn, entry *Entry, ttl time.Duration) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	e := badger.NewEntry(pendingKey(entry.ID), data)
	if ttl > 0 {
		e = e.WithTTL(ttl)
	}
	return txn.SetEntry(e)
}

func (w *WAL) countPending() (int64, error) {
	var n int64
	err := w.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(prefixPending)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

func pendingKey(id string) []byte {
	return []byte(prefixPending + id)
}
