// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package api

import (
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/tomtom215/mercator/internal/logging"
	"github.com/tomtom215/mercator/internal/metrics"
	"github.com/tomtom215/mercator/internal/recommend"
)

// EventContextRequest is the client-supplied context of a tracked event.
type EventContextRequest struct {
	Page       string `json:"page" validate:"max=512"`
	ReferrerID string `json:"referrerId" validate:"max=128"`
	Query      string `json:"query" validate:"max=256"`
	Device     string `json:"device" validate:"max=64"`
	Category   string `json:"category" validate:"max=128"`
}

// EventRequest is the POST /events body.
type EventRequest struct {
	EventType string              `json:"eventType" validate:"required,eventtype"`
	SessionID string              `json:"sessionId" validate:"required,max=128"`
	UserID    string              `json:"userId" validate:"omitempty,catalogid"`
	ProductID string              `json:"productId" validate:"omitempty,catalogid"`
	Context   EventContextRequest `json:"context"`
	Price     float64             `json:"price" validate:"gte=0"`
	Quantity  int                 `json:"quantity" validate:"gte=0,lte=10000"`
}

// EventResponse is the POST /events response.
type EventResponse struct {
	Success bool   `json:"success"`
	EventID string `json:"eventId"`
}

// TrackEvent records an interaction event. The server stamps the event id,
// timestamp, user agent and client IP. With the WAL enabled the event is
// durable once the response is sent and reaches the store on the next
// flush; otherwise it is inserted directly.
func (h *Handler) TrackEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if apiErr := decodeJSON(r, &req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	ev := h.buildEvent(r, &req)
	ctx := r.Context()

	if h.wal != nil {
		if _, err := h.wal.Write(ctx, []recommend.Event{ev}); err != nil {
			respondError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to record event", err)
			return
		}
	} else if err := h.events.InsertEvents(ctx, []recommend.Event{ev}); err != nil {
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to record event", err)
		return
	}

	metrics.EventsIngested.WithLabelValues(string(ev.Kind)).Inc()
	logging.Ctx(ctx).Debug().
		Str("event_id", ev.ID).
		Str("event_type", string(ev.Kind)).
		Str("product_id", string(ev.ProductID)).
		Msg("event tracked")

	respondJSON(w, http.StatusCreated, &EventResponse{Success: true, EventID: ev.ID})
}

func (h *Handler) buildEvent(r *http.Request, req *EventRequest) recommend.Event {
	var productID recommend.ProductID
	if req.ProductID != "" {
		// Already validated as a catalog id.
		productID, _ = recommend.ParseProductID(req.ProductID)
	}

	return recommend.Event{
		ID:        uuid.NewString(),
		UserID:    strings.ToLower(req.UserID),
		SessionID: req.SessionID,
		ProductID: productID,
		Kind:      recommend.EventKind(req.EventType),
		Price:     req.Price,
		Quantity:  req.Quantity,
		Context: recommend.EventContext{
			Page:       req.Context.Page,
			ReferrerID: req.Context.ReferrerID,
			Query:      req.Context.Query,
			Device:     req.Context.Device,
			Category:   req.Context.Category,
			UserAgent:  r.UserAgent(),
			IP:         clientIP(r),
		},
		OccurredAt: h.now().UTC(),
	}
}

// clientIP returns the host part of RemoteAddr. chi's RealIP middleware has
// already applied X-Forwarded-For / X-Real-IP.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
