// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func TestRequestIDRoundTrip(t *testing.T) {
	t.Parallel()

	id := NewRequestID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("NewRequestID() = %q, not a uuid: %v", id, err)
	}

	ctx := ContextWithRequestID(context.Background(), id)
	if got := RequestIDFromContext(ctx); got != id {
		t.Errorf("RequestIDFromContext() = %q, want %q", got, id)
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("empty context returned %q", got)
	}
}

func TestCtx(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	t.Cleanup(func() { Init(DefaultConfig()) })

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithActor(ctx, "session:abc")
	Ctx(ctx).Info().Msg("handled")

	out := buf.String()
	if !strings.Contains(out, `"request_id":"req-1"`) {
		t.Errorf("request id missing: %s", out)
	}
	if !strings.Contains(out, `"actor":"session:abc"`) {
		t.Errorf("actor missing: %s", out)
	}

	buf.Reset()
	Ctx(context.Background()).Info().Msg("bare")
	if strings.Contains(buf.String(), "request_id") {
		t.Errorf("unexpected request id: %s", buf.String())
	}
}
