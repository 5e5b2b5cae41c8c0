// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package api

import (
	"context"
	"net/http"

	"github.com/tomtom215/mercator/internal/logging"
	"github.com/tomtom215/mercator/internal/recommend"
)

// Request bodies and query parameters. Limits of 0 select the engine
// defaults; larger limits are capped by the engine.
type (
	// PersonalizedRequest is the POST /recommendations/personalized body.
	PersonalizedRequest struct {
		UserID    string `json:"userId" validate:"max=128"`
		SessionID string `json:"sessionId" validate:"max=128"`
		Limit     int    `json:"limit" validate:"min=0,max=1000"`
	}

	// RelatedRequest is the also-bought and also-viewed body. A malformed
	// productId yields an empty list rather than an error.
	RelatedRequest struct {
		ProductID string `json:"productId" validate:"max=128"`
		Limit     int    `json:"limit" validate:"min=0,max=1000"`
	}

	// TrendingQuery holds the GET /recommendations/trending parameters.
	TrendingQuery struct {
		Days  int `json:"days" validate:"min=0,max=365"`
		Limit int `json:"limit" validate:"min=0,max=1000"`
	}

	// ProfileRequest is the POST /recommendations/profile body.
	ProfileRequest struct {
		UserID    string `json:"userId" validate:"max=128"`
		SessionID string `json:"sessionId" validate:"max=128"`
	}
)

// ProductListResponse is a ranked product id list.
type ProductListResponse struct {
	ProductIDs []recommend.ProductID `json:"productIds"`
}

// Personalized serves the fallback chain for a user or session. Requests
// without a usable actor are answered with trending products.
func (h *Handler) Personalized(w http.ResponseWriter, r *http.Request) {
	var req PersonalizedRequest
	if apiErr := decodeJSON(r, &req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	ctx := r.Context()
	actor, outcome := recommend.ResolveActor(req.UserID, req.SessionID)
	switch {
	case outcome.Kind == recommend.ResultParseFailure:
		logging.Ctx(ctx).Debug().
			Str("user_id", sanitizeLogValue(req.UserID)).
			Msg("malformed user id, serving anonymous recommendations")
	case actor != nil:
		ctx = logging.ContextWithActor(ctx, actor.String())
	}

	rec := h.engine.Personalized(ctx, recommend.PersonalizedRequest{Actor: actor, Limit: req.Limit})
	if rec.ProductIDs == nil {
		rec.ProductIDs = []recommend.ProductID{}
	}
	respondJSON(w, http.StatusOK, &rec)
}

// AlsoBought lists products co-purchased with the seed product.
func (h *Handler) AlsoBought(w http.ResponseWriter, r *http.Request) {
	h.related(w, r, h.engine.AlsoBought)
}

// AlsoViewed lists products co-viewed with the seed product.
func (h *Handler) AlsoViewed(w http.ResponseWriter, r *http.Request) {
	h.related(w, r, h.engine.AlsoViewed)
}

type relatedFunc func(ctx context.Context, seed string, limit int) recommend.Ranked

func (h *Handler) related(w http.ResponseWriter, r *http.Request, rank relatedFunc) {
	var req RelatedRequest
	if apiErr := decodeJSON(r, &req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	respondRanked(w, rank(r.Context(), req.ProductID, req.Limit))
}

// Trending lists products by weighted activity over the last days.
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	days, okDays := getIntParam(r, "days", 0)
	limit, okLimit := getIntParam(r, "limit", 0)
	if !okDays || !okLimit {
		respondError(w, r, http.StatusBadRequest, CodeValidation, "days and limit must be integers", nil)
		return
	}

	q := TrendingQuery{Days: days, Limit: limit}
	if apiErr := validateRequest(&q); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	respondRanked(w, h.engine.Trending(r.Context(), q.Days, q.Limit))
}

// Profile reports the preference profile of a user or session.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if apiErr := decodeJSON(r, &req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	actor, outcome := recommend.ResolveActor(req.UserID, req.SessionID)
	if actor == nil {
		message := "userId or sessionId is required"
		if outcome.Kind == recommend.ResultParseFailure {
			message = "userId must be 24 hexadecimal characters"
		}
		respondError(w, r, http.StatusBadRequest, CodeValidation, message, nil)
		return
	}

	ctx := logging.ContextWithActor(r.Context(), actor.String())
	profile, err := h.engine.Profile(ctx, *actor)
	if err != nil {
		status, code := engineErrorStatus(err)
		respondError(w, r.WithContext(ctx), status, code, "Failed to build profile", err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// respondRanked writes a ranking. Degraded outcomes are still 200: ranking
// endpoints answer with whatever the fallback produced.
func respondRanked(w http.ResponseWriter, ranked recommend.Ranked) {
	ids := ranked.ProductIDs
	if ids == nil {
		ids = []recommend.ProductID{}
	}
	respondJSON(w, http.StatusOK, &ProductListResponse{ProductIDs: ids})
}
