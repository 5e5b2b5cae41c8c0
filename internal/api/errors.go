// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package api

import (
	"net/http"

	"github.com/tomtom215/mercator/internal/recommend"
)

// Error codes returned in APIError.Code.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidJSON        = "INVALID_JSON"
	CodeTrainingFailed     = "TRAINING_FAILED"
	CodeTrainingInProgress = "TRAINING_IN_PROGRESS"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeNotFound           = "NOT_FOUND"
	CodeRateLimited        = "RATE_LIMITED"
	CodeUnavailable        = "DATA_UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
)

// APIError is the error body of a failed request.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorResponse wraps an APIError.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error"`
}

// engineErrorStatus maps an engine error to its HTTP status and code.
func engineErrorStatus(err error) (int, string) {
	switch recommend.Classify(err) {
	case recommend.ErrValidation:
		return http.StatusBadRequest, CodeValidation
	case recommend.ErrDataUnavailable:
		return http.StatusServiceUnavailable, CodeUnavailable
	case recommend.ErrColdStart:
		return http.StatusNotFound, CodeNotFound
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}
