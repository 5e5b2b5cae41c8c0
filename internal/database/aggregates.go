// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package database

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/tomtom215/mercator/internal/recommend"
)

// GroupActorsByCommonProducts returns up to limit actors other than exclude
// that interacted with any of productIDs, most shared products first.
func (db *DB) GroupActorsByCommonProducts(ctx context.Context, productIDs []recommend.ProductID, exclude recommend.ActorKey, limit int) ([]recommend.ActorGroup, error) {
	if len(productIDs) == 0 {
		return []recommend.ActorGroup{}, nil
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	args := make([]any, 0, len(productIDs)+2)
	for _, id := range productIDs {
		args = append(args, string(id))
	}
	args = append(args, exclude.Kind.String(), exclude.ID)

	query := `
		WITH shared AS (
			SELECT DISTINCT actor_kind, actor_id, product_id
			FROM events
			WHERE product_id IN (` + placeholders(len(productIDs)) + `)
			  AND actor_kind <> ''
			  AND NOT (actor_kind = ? AND actor_id = ?)
		),
		ranked AS (
			SELECT actor_kind, actor_id, COUNT(*) AS shared_count
			FROM shared
			GROUP BY actor_kind, actor_id
			ORDER BY shared_count DESC, actor_kind || ':' || actor_id ASC
			` + limitClause(limit) + `
		)
		SELECT s.actor_kind, s.actor_id, s.product_id
		FROM shared s
		JOIN ranked r ON r.actor_kind = s.actor_kind AND r.actor_id = s.actor_id
		ORDER BY r.shared_count DESC, s.actor_kind || ':' || s.actor_id ASC, s.product_id ASC`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("group actors: %w", err)
	}
	defer rows.Close()

	groups := make([]recommend.ActorGroup, 0)
	for rows.Next() {
		var kind, actorID, productID string
		if err := rows.Scan(&kind, &actorID, &productID); err != nil {
			return nil, fmt.Errorf("scan actor group: %w", err)
		}
		actor, err := parseActor(kind, actorID)
		if err != nil {
			return nil, err
		}
		if n := len(groups); n == 0 || groups[n-1].Actor != actor {
			groups = append(groups, recommend.ActorGroup{Actor: actor})
		}
		last := &groups[len(groups)-1]
		last.SharedProducts = append(last.SharedProducts, recommend.ProductID(productID))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("group actors: %w", err)
	}
	return groups, nil
}

// AggregateWeightedEventCounts sums weights[event_type] per product over
// events at or after since, highest score first, ties by product id.
func (db *DB) AggregateWeightedEventCounts(ctx context.Context, since time.Time, weights map[recommend.EventKind]int, limit int) ([]recommend.ProductScore, error) {
	if len(weights) == 0 {
		return []recommend.ProductScore{}, nil
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	kinds := make([]recommend.EventKind, 0, len(weights))
	for k := range weights {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)

	var sb strings.Builder
	args := make([]any, 0, 3*len(kinds)+1)
	sb.WriteString("CASE event_type")
	for _, k := range kinds {
		sb.WriteString(" WHEN ? THEN ?")
		args = append(args, string(k), weights[k])
	}
	sb.WriteString(" ELSE 0 END")

	args = append(args, since.UTC())
	for _, k := range kinds {
		args = append(args, string(k))
	}

	query := `
		SELECT product_id, CAST(SUM(` + sb.String() + `) AS DOUBLE) AS score
		FROM events
		WHERE product_id <> ''
		  AND occurred_at >= ?
		  AND event_type IN (` + placeholders(len(kinds)) + `)
		GROUP BY product_id
		ORDER BY score DESC, product_id ASC
		` + limitClause(limit)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("aggregate weighted counts: %w", err)
	}
	defer rows.Close()

	scores := make([]recommend.ProductScore, 0)
	for rows.Next() {
		var (
			id    string
			score float64
		)
		if err := rows.Scan(&id, &score); err != nil {
			return nil, fmt.Errorf("scan product score: %w", err)
		}
		scores = append(scores, recommend.ProductScore{ProductID: recommend.ProductID(id), Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("aggregate weighted counts: %w", err)
	}
	return scores, nil
}

func parseActor(kind, id string) (recommend.ActorKey, error) {
	switch kind {
	case recommend.ActorUser.String():
		return recommend.UserActor(id), nil
	case recommend.ActorSession.String():
		return recommend.SessionActor(id), nil
	default:
		return recommend.ActorKey{}, fmt.Errorf("unknown actor kind %q", kind)
	}
}
