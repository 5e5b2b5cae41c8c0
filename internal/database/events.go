// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/mercator/internal/recommend"
)

const eventColumns = `id, user_id, session_id, product_id, event_type, price, quantity, context, occurred_at`

const insertEventSQL = `INSERT INTO events
	(id, user_id, session_id, actor_kind, actor_id, product_id, event_type, price, quantity, context, occurred_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// InsertEvents stores events in one transaction. Events without an id get a
// random UUID; events without a timestamp are stamped with the current time.
func (db *DB) InsertEvents(ctx context.Context, events []recommend.Event) error {
	if len(events) == 0 {
		return nil
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert events: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, insertEventSQL)
	if err != nil {
		return fmt.Errorf("prepare insert events: %w", err)
	}
	defer closeWithLog(stmt, "prepared statement")

	for i := range events {
		args, err := eventArgs(&events[i])
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert event %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert events: %w", err)
	}
	return nil
}

func eventArgs(ev *recommend.Event) ([]any, error) {
	id := ev.ID
	if id == "" {
		id = uuid.NewString()
	}
	occurred := ev.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now()
	}
	ctxJSON, err := json.Marshal(ev.Context)
	if err != nil {
		return nil, fmt.Errorf("encode event context: %w", err)
	}

	var actorKind, actorID string
	if actor, ok := ev.Actor(); ok {
		actorKind, actorID = actor.Kind.String(), actor.ID
	}

	return []any{
		id, ev.UserID, ev.SessionID, actorKind, actorID,
		string(ev.ProductID), string(ev.Kind), ev.Price, ev.Quantity,
		string(ctxJSON), occurred.UTC(),
	}, nil
}

// FindEvents returns events matching filter, newest first.
func (db *DB) FindEvents(ctx context.Context, filter recommend.EventFilter) ([]recommend.Event, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	qb := eventQuery(`SELECT `+eventColumns+` FROM events`, filter)
	query, args := qb.build("ORDER BY occurred_at DESC, seq ASC " + limitClause(filter.Limit))

	events, err := queryAndScan(ctx, db.conn, query, args, scanEvent)
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}
	return events, nil
}

// CountEvents counts events matching filter. Limit is ignored.
func (db *DB) CountEvents(ctx context.Context, filter recommend.EventFilter) (int64, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	query, args := eventQuery(`SELECT COUNT(*) FROM events`, filter).build("")
	var n int64
	if err := db.conn.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

func eventQuery(base string, filter recommend.EventFilter) *queryBuilder {
	qb := newQueryBuilder(base)
	if filter.RequireProduct {
		qb.addFilter("product_id <> ''")
	}
	if filter.ProductID != "" {
		qb.addFilter("product_id = ?", string(filter.ProductID))
	}
	if filter.ExcludeProductID != "" {
		qb.addFilter("product_id <> ?", string(filter.ExcludeProductID))
	}
	if !filter.Since.IsZero() {
		qb.addFilter("occurred_at >= ?", filter.Since.UTC())
	}
	addInFilter(qb, "event_type", filter.Kinds)
	qb.addActorsFilter(filter.Actors)
	return qb
}

func scanEvent(rows *sql.Rows) (recommend.Event, error) {
	var (
		ev        recommend.Event
		productID string
		kind      string
		ctxJSON   string
	)
	if err := rows.Scan(&ev.ID, &ev.UserID, &ev.SessionID, &productID, &kind,
		&ev.Price, &ev.Quantity, &ctxJSON, &ev.OccurredAt); err != nil {
		return ev, fmt.Errorf("scan event: %w", err)
	}
	ev.ProductID = recommend.ProductID(productID)
	ev.Kind = recommend.EventKind(kind)
	ev.OccurredAt = ev.OccurredAt.UTC()
	if ctxJSON != "" {
		if err := json.Unmarshal([]byte(ctxJSON), &ev.Context); err != nil {
			return ev, fmt.Errorf("decode event context %s: %w", ev.ID, err)
		}
	}
	return ev, nil
}
