// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package database

import (
	"reflect"
	"testing"

	"github.com/tomtom215/mercator/internal/recommend"
)

func TestQueryBuilder_Build(t *testing.T) {
	t.Parallel()

	qb := newQueryBuilder("SELECT id FROM events")
	qb.addFilter("product_id <> ''")
	addInFilter(qb, "event_type", []recommend.EventKind{recommend.EventView, recommend.EventPurchase})
	addNotInFilter(qb, "id", []string{})
	qb.addActorsFilter([]recommend.ActorKey{recommend.SessionActor("s1"), recommend.UserActor("u1")})

	query, args := qb.build("ORDER BY seq " + limitClause(5))

	wantQuery := "SELECT id FROM events WHERE product_id <> '' AND event_type IN (?, ?) AND (session_id = ? OR user_id = ?) ORDER BY seq LIMIT 5"
	if query != wantQuery {
		t.Errorf("query = %q\nwant    %q", query, wantQuery)
	}
	wantArgs := []any{"view", "purchase", "s1", "u1"}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Errorf("args = %v, want %v", args, wantArgs)
	}
}

func TestQueryBuilder_NoFilters(t *testing.T) {
	t.Parallel()

	query, args := newQueryBuilder("SELECT COUNT(*) FROM products").build(limitClause(0))
	if query != "SELECT COUNT(*) FROM products" || len(args) != 0 {
		t.Errorf("build() = %q, %v", query, args)
	}
}

func TestPlaceholders(t *testing.T) {
	t.Parallel()

	tests := map[int]string{0: "", 1: "?", 3: "?, ?, ?"}
	for n, want := range tests {
		if got := placeholders(n); got != want {
			t.Errorf("placeholders(%d) = %q, want %q", n, got, want)
		}
	}
}
