// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package recommend

import (
	"context"
	"time"
)

// Strategy is a ranking family: it owns whatever model state its rankers
// need and exposes a collaborative and a content ranker over it.
//
// Rankers must exclude products the actor already has weight on and must
// report a cold-start actor as ResultEmpty, not as a failure.
type Strategy interface {
	// Name returns the strategy identifier ("vector", "profile").
	Name() string

	// Train rebuilds the strategy's model state. On error the previous state
	// stays in use.
	Train(ctx context.Context) (TrainStats, error)

	// Collaborative ranks products held by actors similar to actor.
	Collaborative(ctx context.Context, actor ActorKey, limit int) Ranked

	// Content ranks products similar to what actor already interacted with.
	Content(ctx context.Context, actor ActorKey, limit int) Ranked

	// Snapshot describes the model state currently served.
	Snapshot() SnapshotInfo
}

// TrainStats reports the data a train run saw.
type TrainStats struct {
	Events   int64 `json:"events"`
	Products int64 `json:"products"`

	// Users is the number of distinct actors in the matrix. Nil when the
	// strategy does not build one.
	Users *int `json:"users,omitempty"`
}

// SnapshotInfo describes served model state.
type SnapshotInfo struct {
	Trained   bool      `json:"trained"`
	Version   int64     `json:"version"`
	TrainedAt time.Time `json:"trained_at,omitempty"`
	Actors    int       `json:"actors"`
	Products  int       `json:"products"`
}

// TrendingRanker ranks products by recent weighted activity.
type TrendingRanker interface {
	Trending(ctx context.Context, days, limit int) Ranked
}

// RelatedRanker ranks products related to a seed product. The seed is
// passed unparsed; a malformed seed yields ResultParseFailure.
type RelatedRanker interface {
	Related(ctx context.Context, seed string, limit int) Ranked
}

// ProfileBuilder builds the preference profile of an actor.
type ProfileBuilder interface {
	Profile(ctx context.Context, actor ActorKey) (*UserProfile, error)
}

// Rankers groups the side-path rankers of the engine.
type Rankers struct {
	Trending   TrendingRanker
	AlsoBought RelatedRanker
	AlsoViewed RelatedRanker
	Profiles   ProfileBuilder
}

// Observer receives engine events for metrics. All methods must be cheap
// and safe for concurrent use.
type Observer interface {
	ObserveStage(stage string, kind ResultKind, returned int)
	ObserveTrain(strategy string, duration time.Duration, err error)
	ObserveSnapshot(info SnapshotInfo)
}

type nopObserver struct{}

func (nopObserver) ObserveStage(string, ResultKind, int)      {}
func (nopObserver) ObserveTrain(string, time.Duration, error) {}
func (nopObserver) ObserveSnapshot(SnapshotInfo)              {}
