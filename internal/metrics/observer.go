// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package metrics

import (
	"time"

	"github.com/tomtom215/mercator/internal/recommend"
)

// Observer records engine events as Prometheus metrics.
type Observer struct{}

var _ recommend.Observer = Observer{}

// ObserveStage counts a ranking stage by outcome.
func (Observer) ObserveStage(stage string, kind recommend.ResultKind, returned int) {
	RecommendStageTotal.WithLabelValues(stage, kind.String()).Inc()
	RecommendStageReturned.WithLabelValues(stage).Observe(float64(returned))
}

// ObserveTrain records a train run.
func (Observer) ObserveTrain(strategy string, duration time.Duration, err error) {
	RecommendTrainDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	status := "success"
	if err != nil {
		status = "failure"
	}
	RecommendTrainTotal.WithLabelValues(strategy, status).Inc()
	if err == nil {
		RecommendLastTrainSuccess.SetToCurrentTime()
	}
}

// ObserveSnapshot publishes the served snapshot.
func (Observer) ObserveSnapshot(info recommend.SnapshotInfo) {
	RecommendSnapshotVersion.Set(float64(info.Version))
	RecommendSnapshotSize.WithLabelValues("actors").Set(float64(info.Actors))
	RecommendSnapshotSize.WithLabelValues("products").Set(float64(info.Products))
}
