// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

// Package middleware provides the HTTP middleware shared by all API routes:
// request id propagation, Prometheus request metrics and access logging.
//
// Middleware is written against http.HandlerFunc; the api package adapts it
// to chi's func(http.Handler) http.Handler with chiMiddleware.
package middleware
