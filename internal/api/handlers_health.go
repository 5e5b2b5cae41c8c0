// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/mercator/internal/recommend"
)

// HealthStatus is the GET /health response.
type HealthStatus struct {
	Status            string                 `json:"status"`
	Strategy          string                 `json:"strategy"`
	Snapshot          recommend.SnapshotInfo `json:"snapshot"`
	LastTrain         *recommend.TrainReport `json:"last_train,omitempty"`
	DatabaseConnected bool                   `json:"database_connected"`
	Breaker           string                 `json:"breaker,omitempty"`
	Uptime            float64                `json:"uptime_seconds"`
}

// Health reports liveness. It always answers 200; a failed store ping or
// an open breaker downgrades the status to "degraded".
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dbConnected := true
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		dbConnected = h.db.Ping(ctx) == nil
		cancel()
	}

	breakerState := ""
	if h.breaker != nil {
		breakerState = h.breaker.State()
	}

	status := "healthy"
	if !dbConnected || breakerState == "open" {
		status = "degraded"
	}

	respondJSON(w, http.StatusOK, &HealthStatus{
		Status:            status,
		Strategy:          h.engine.StrategyName(),
		Snapshot:          h.engine.Snapshot(),
		LastTrain:         h.engine.LastTrain(),
		DatabaseConnected: dbConnected,
		Breaker:           breakerState,
		Uptime:            h.now().Sub(h.startTime).Seconds(),
	})
}
