// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared process-wide; it caches struct
// metadata and is safe for concurrent use. Field names in errors are taken
// from json tags so messages refer to the names clients actually send.
//
// Custom tags:
//   - catalogid: 24 hexadecimal characters (product and user ids)
//   - eventtype: a known interaction event kind
//
// Usage:
//
//	type AlsoBoughtRequest struct {
//	    ProductID string `json:"productId" validate:"required"`
//	    Limit     int    `json:"limit" validate:"min=0,max=100"`
//	}
//
//	if err := validation.ValidateStruct(&req); err != nil {
//	    apiErr := err.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
package validation
