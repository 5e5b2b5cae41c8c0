// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package database

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/tomtom215/mercator/internal/recommend"
)

// queryBuilder accumulates WHERE conditions and their arguments.
type queryBuilder struct {
	baseQuery string
	args      []any
	filters   []string
}

func newQueryBuilder(baseQuery string) *queryBuilder {
	return &queryBuilder{
		baseQuery: baseQuery,
		args:      make([]any, 0, 8),
		filters:   make([]string, 0, 4),
	}
}

// addFilter adds a condition with its arguments.
func (qb *queryBuilder) addFilter(condition string, args ...any) *queryBuilder {
	qb.filters = append(qb.filters, condition)
	qb.args = append(qb.args, args...)
	return qb
}

// addInFilter adds "column IN (?, ...)". Empty values add nothing.
func addInFilter[T ~string](qb *queryBuilder, column string, values []T) *queryBuilder {
	if len(values) == 0 {
		return qb
	}
	qb.filters = append(qb.filters, column+" IN ("+placeholders(len(values))+")")
	for _, v := range values {
		qb.args = append(qb.args, string(v))
	}
	return qb
}

// addNotInFilter adds "column NOT IN (?, ...)". Empty values add nothing.
func addNotInFilter[T ~string](qb *queryBuilder, column string, values []T) *queryBuilder {
	if len(values) == 0 {
		return qb
	}
	qb.filters = append(qb.filters, column+" NOT IN ("+placeholders(len(values))+")")
	for _, v := range values {
		qb.args = append(qb.args, string(v))
	}
	return qb
}

// addActorsFilter matches any of the given actors. Users match user_id and
// sessions match session_id, so a session also sees events a signed-in
// user produced during it.
func (qb *queryBuilder) addActorsFilter(actors []recommend.ActorKey) *queryBuilder {
	if len(actors) == 0 {
		return qb
	}
	terms := make([]string, len(actors))
	for i, a := range actors {
		if a.Kind == recommend.ActorSession {
			terms[i] = "session_id = ?"
		} else {
			terms[i] = "user_id = ?"
		}
		qb.args = append(qb.args, a.ID)
	}
	qb.filters = append(qb.filters, "("+strings.Join(terms, " OR ")+")")
	return qb
}

// build returns the query with its WHERE clause and suffix appended.
func (qb *queryBuilder) build(suffix string) (string, []any) {
	query := qb.baseQuery
	if len(qb.filters) > 0 {
		query += " WHERE " + strings.Join(qb.filters, " AND ")
	}
	if suffix != "" {
		query += " " + suffix
	}
	return query, qb.args
}

// limitClause returns "LIMIT n", or "" for an unlimited query.
func limitClause(limit int) string {
	if limit <= 0 {
		return ""
	}
	return "LIMIT " + strconv.Itoa(limit)
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// scanFunc scans a single row into a result type
type scanFunc[T any] func(*sql.Rows) (T, error)

// queryAndScan executes a query and scans all rows with scan.
func queryAndScan[T any](ctx context.Context, db *sql.DB, query string, args []any, scan scanFunc[T]) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
