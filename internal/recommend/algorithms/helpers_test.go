// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package algorithms

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/mercator/internal/recommend"
)

// testNow is the fixed clock every strategy under test runs on.
var testNow = time.Date(2026, 5, 20, 9, 0, 0, 0, time.UTC)

// pid returns a well-formed catalog id.
func pid(n int) recommend.ProductID {
	return recommend.ProductID(fmt.Sprintf("%024x", n))
}

func daysAgo(d int) time.Time {
	return testNow.AddDate(0, 0, -d)
}

func userEvent(user string, product recommend.ProductID, kind recommend.EventKind, at time.Time) recommend.Event {
	return recommend.Event{UserID: user, ProductID: product, Kind: kind, OccurredAt: at}
}

func published(id recommend.ProductID, category, brand string, discount float64) recommend.Product {
	return recommend.Product{
		ID:       id,
		Category: category,
		Brand:    brand,
		Price:    10,
		Discount: discount,
		Stock:    1,
		Rating:   3,
		Status:   recommend.StatusPublished,
	}
}

func assertIDs(t *testing.T, got, want []recommend.ProductID) {
	t.Helper()
	if len(got) == 0 && len(want) == 0 {
		return
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
}

func assertKind(t *testing.T, got recommend.Ranked, want recommend.ResultKind) {
	t.Helper()
	if got.Outcome.Kind != want {
		t.Errorf("outcome = %s (%v), want %s", got.Outcome.Kind, got.Outcome.Err, want)
	}
}
