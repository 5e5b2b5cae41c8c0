// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

/*
database_schema.go - Database Schema Management

Tables:
  - events: interaction events. actor_kind/actor_id hold the resolved actor
    (user id wins over session id) that neighbour grouping keys on; actor
    filters match user_id or session_id directly. seq preserves insertion
    order for timestamp ties.
  - products: the catalog. tags is a JSON array of strings.

Timestamps are stored as UTC TIMESTAMP values.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

var tableCreationQueries = []string{
	`CREATE SEQUENCE IF NOT EXISTS events_seq START 1`,

	`CREATE TABLE IF NOT EXISTS events (
		seq BIGINT PRIMARY KEY DEFAULT nextval('events_seq'),
		id TEXT NOT NULL,
		user_id TEXT NOT NULL DEFAULT '',
		session_id TEXT NOT NULL DEFAULT '',
		actor_kind TEXT NOT NULL DEFAULT '',
		actor_id TEXT NOT NULL DEFAULT '',
		product_id TEXT NOT NULL DEFAULT '',
		event_type TEXT NOT NULL,
		price DOUBLE NOT NULL DEFAULT 0,
		quantity INTEGER NOT NULL DEFAULT 0,
		context TEXT NOT NULL DEFAULT '{}',
		occurred_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		brand TEXT NOT NULL DEFAULT '',
		price DOUBLE NOT NULL DEFAULT 0,
		discount DOUBLE NOT NULL DEFAULT 0,
		stock INTEGER NOT NULL DEFAULT 0,
		rating DOUBLE NOT NULL DEFAULT 0,
		tags TEXT NOT NULL DEFAULT '[]',
		status TEXT NOT NULL DEFAULT 'Draft'
	)`,
}

// createIndexes creates indexes for the ranking queries
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_events_actor ON events(actor_kind, actor_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_product ON events(product_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_occurred ON events(occurred_at)`,
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category, status)`,
	}
	for _, query := range indexes {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}
	return nil
}
