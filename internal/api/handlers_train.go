// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/mercator/internal/logging"
	"github.com/tomtom215/mercator/internal/recommend"
)

// TrainResponse is the POST /train success response.
type TrainResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Stats   recommend.TrainStats `json:"stats"`
}

// Train rebuilds the model snapshot synchronously.
//
// A train already running answers 409, a request inside the cooldown
// answers 429 and a failed train answers 500; the previous snapshot keeps
// serving in all three cases.
func (h *Handler) Train(w http.ResponseWriter, r *http.Request) {
	if h.trainLimiter != nil && !h.trainLimiter.Allow() {
		respondError(w, r, http.StatusTooManyRequests, CodeRateLimited,
			"Training was requested too recently, try again later", nil)
		return
	}

	// A client disconnect must not abort a rebuild other requests will use.
	ctx := context.WithoutCancel(r.Context())

	stats, err := h.engine.TryTrain(ctx)
	switch {
	case errors.Is(err, recommend.ErrTrainingInProgress):
		respondError(w, r, http.StatusConflict, CodeTrainingInProgress,
			"Training is already in progress", nil)
		return
	case err != nil:
		respondError(w, r, http.StatusInternalServerError, CodeTrainingFailed,
			"Training failed, the previous model is still served", err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Int64("events", stats.Events).
		Int64("products", stats.Products).
		Msg("training requested via API completed")

	respondJSON(w, http.StatusOK, &TrainResponse{
		Success: true,
		Message: "Models trained successfully",
		Stats:   stats,
	})
}
