// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/mercator/internal/recommend"
)

// mockRecommender is a hand-written Recommender.
type mockRecommender struct {
	mu sync.Mutex

	lastPersonalized *recommend.PersonalizedRequest
	lastSeed         string
	lastDays         int
	lastLimit        int
	lastProfileActor recommend.ActorKey

	ranked     recommend.Ranked
	rec        recommend.Recommendation
	profile    *recommend.UserProfile
	profileErr error
	trainStats recommend.TrainStats
	trainErr   error
	trainCalls int
}

func (m *mockRecommender) Personalized(_ context.Context, req recommend.PersonalizedRequest) recommend.Recommendation {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastPersonalized = &req
	return m.rec
}

func (m *mockRecommender) Trending(_ context.Context, days, limit int) recommend.Ranked {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastDays, m.lastLimit = days, limit
	return m.ranked
}

func (m *mockRecommender) AlsoBought(_ context.Context, seed string, limit int) recommend.Ranked {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastSeed, m.lastLimit = seed, limit
	return m.ranked
}

func (m *mockRecommender) AlsoViewed(ctx context.Context, seed string, limit int) recommend.Ranked {
	return m.AlsoBought(ctx, "viewed:"+seed, limit)
}

func (m *mockRecommender) Profile(_ context.Context, actor recommend.ActorKey) (*recommend.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastProfileActor = actor
	return m.profile, m.profileErr
}

func (m *mockRecommender) TryTrain(context.Context) (recommend.TrainStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trainCalls++
	return m.trainStats, m.trainErr
}

func (m *mockRecommender) Snapshot() recommend.SnapshotInfo {
	return recommend.SnapshotInfo{Trained: true, Version: 3}
}

func (m *mockRecommender) LastTrain() *recommend.TrainReport { return nil }
func (m *mockRecommender) StrategyName() string              { return "vector" }
func (m *mockRecommender) Config() recommend.Config          { return *recommend.DefaultConfig() }

// mockEvents records inserted events.
type mockEvents struct {
	mu     sync.Mutex
	events []recommend.Event
	err    error
}

func (m *mockEvents) InsertEvents(_ context.Context, events []recommend.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, events...)
	return nil
}

// mockWAL records buffered events.
type mockWAL struct {
	mockEvents
}

func (m *mockWAL) Write(ctx context.Context, events []recommend.Event) ([]string, error) {
	if err := m.InsertEvents(ctx, events); err != nil {
		return nil, err
	}
	ids := make([]string, len(events))
	for i := range events {
		ids[i] = events[i].ID
	}
	return ids, nil
}

type mockPinger struct{ err error }

func (m mockPinger) Ping(context.Context) error { return m.err }

type mockBreaker string

func (m mockBreaker) State() string { return string(m) }

const (
	testUserID    = "aaaaaaaaaaaaaaaaaaaaaaa1"
	testProductID = "bbbbbbbbbbbbbbbbbbbbbbb1"
)

func newTestHandler(t *testing.T, deps Deps) (*Handler, http.Handler) {
	t.Helper()
	if deps.Engine == nil {
		deps.Engine = &mockRecommender{}
	}
	if deps.Events == nil {
		deps.Events = &mockEvents{}
	}
	deps.Logger = zerolog.Nop()

	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true

	h, err := NewHandler(deps)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	return h, NewRouter(h, NewChiMiddleware(cfg))
}

func doRequest(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			if err := json.NewEncoder(&buf).Encode(b); err != nil {
				t.Fatal(err)
			}
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.7:51234"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestNewHandler_RequiresDeps(t *testing.T) {
	t.Parallel()
	if _, err := NewHandler(Deps{Events: &mockEvents{}}); err == nil {
		t.Error("NewHandler() without engine should fail")
	}
	if _, err := NewHandler(Deps{Engine: &mockRecommender{}}); err == nil {
		t.Error("NewHandler() without event inserter should fail")
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		db         Pinger
		breaker    StateReporter
		wantStatus string
		wantDB     bool
	}{
		{name: "healthy", db: mockPinger{}, breaker: mockBreaker("closed"), wantStatus: "healthy", wantDB: true},
		{name: "db down", db: mockPinger{err: errors.New("down")}, breaker: mockBreaker("closed"), wantStatus: "degraded"},
		{name: "breaker open", db: mockPinger{}, breaker: mockBreaker("open"), wantStatus: "degraded", wantDB: true},
		{name: "no collaborators", wantStatus: "healthy", wantDB: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, router := newTestHandler(t, Deps{DB: tt.db, Breaker: tt.breaker})

			rec := doRequest(t, router, http.MethodGet, "/health", nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			got := decodeBody[HealthStatus](t, rec)
			if got.Status != tt.wantStatus || got.DatabaseConnected != tt.wantDB {
				t.Errorf("health = %+v", got)
			}
			if got.Strategy != "vector" || !got.Snapshot.Trained || got.Snapshot.Version != 3 {
				t.Errorf("strategy/snapshot = %q %+v", got.Strategy, got.Snapshot)
			}
			if rec.Header().Get("X-Request-ID") == "" {
				t.Error("missing X-Request-ID header")
			}
		})
	}
}

func TestTrain(t *testing.T) {
	t.Parallel()

	users := 4
	tests := []struct {
		name     string
		engine   *mockRecommender
		wantCode int
		wantErr  string
	}{
		{
			name:     "success",
			engine:   &mockRecommender{trainStats: recommend.TrainStats{Events: 10, Products: 5, Users: &users}},
			wantCode: http.StatusOK,
		},
		{
			name:     "in progress",
			engine:   &mockRecommender{trainErr: recommend.ErrTrainingInProgress},
			wantCode: http.StatusConflict,
			wantErr:  CodeTrainingInProgress,
		},
		{
			name:     "failure",
			engine:   &mockRecommender{trainErr: recommend.DataUnavailable("find events", errors.New("io"))},
			wantCode: http.StatusInternalServerError,
			wantErr:  CodeTrainingFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, router := newTestHandler(t, Deps{Engine: tt.engine})

			rec := doRequest(t, router, http.MethodPost, "/train", nil)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantErr != "" {
				got := decodeBody[ErrorResponse](t, rec)
				if got.Success || got.Error == nil || got.Error.Code != tt.wantErr {
					t.Errorf("error response = %+v", got)
				}
				return
			}
			got := decodeBody[TrainResponse](t, rec)
			if !got.Success || got.Stats.Events != 10 || got.Stats.Products != 5 || got.Stats.Users == nil || *got.Stats.Users != 4 {
				t.Errorf("train response = %+v", got)
			}
		})
	}
}

func TestTrain_Cooldown(t *testing.T) {
	t.Parallel()
	engine := &mockRecommender{}
	_, router := newTestHandler(t, Deps{Engine: engine, TrainCooldown: time.Hour})

	if rec := doRequest(t, router, http.MethodPost, "/train", nil); rec.Code != http.StatusOK {
		t.Fatalf("first train status = %d", rec.Code)
	}
	rec := doRequest(t, router, http.MethodPost, "/train", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second train status = %d, want 429", rec.Code)
	}
	if got := decodeBody[ErrorResponse](t, rec); got.Error.Code != CodeRateLimited {
		t.Errorf("code = %q", got.Error.Code)
	}
	if engine.trainCalls != 1 {
		t.Errorf("engine trained %d times, want 1", engine.trainCalls)
	}
}

func TestPersonalized(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		body      any
		wantCode  int
		wantActor string // "" means anonymous
		wantLimit int
	}{
		{name: "user", body: map[string]any{"userId": testUserID, "limit": 5}, wantCode: 200, wantActor: "user:" + testUserID, wantLimit: 5},
		{name: "session", body: map[string]any{"sessionId": "sess-1"}, wantCode: 200, wantActor: "session:sess-1"},
		{name: "user wins over session", body: map[string]any{"userId": testUserID, "sessionId": "sess-1"}, wantCode: 200, wantActor: "user:" + testUserID},
		{name: "malformed user falls back to session", body: map[string]any{"userId": "nope", "sessionId": "sess-2"}, wantCode: 200, wantActor: "session:sess-2"},
		{name: "malformed user alone is anonymous", body: map[string]any{"userId": "nope"}, wantCode: 200},
		{name: "empty body is anonymous", body: nil, wantCode: 200},
		{name: "negative limit", body: map[string]any{"limit": -1}, wantCode: 400},
		{name: "invalid json", body: "{", wantCode: 400},
		{name: "wrong type", body: `{"limit":"ten"}`, wantCode: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			engine := &mockRecommender{rec: recommend.Recommendation{
				ProductIDs: []recommend.ProductID{"p1", "p2"},
				Method:     recommend.MethodCollaborative,
			}}
			_, router := newTestHandler(t, Deps{Engine: engine})

			rec := doRequest(t, router, http.MethodPost, "/recommendations/personalized", tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				return
			}

			got := decodeBody[recommend.Recommendation](t, rec)
			if len(got.ProductIDs) != 2 || got.Method != recommend.MethodCollaborative {
				t.Errorf("response = %+v", got)
			}

			req := engine.lastPersonalized
			switch {
			case tt.wantActor == "" && req.Actor != nil:
				t.Errorf("actor = %v, want anonymous", req.Actor)
			case tt.wantActor != "" && (req.Actor == nil || req.Actor.String() != tt.wantActor):
				t.Errorf("actor = %v, want %s", req.Actor, tt.wantActor)
			}
			if req.Limit != tt.wantLimit {
				t.Errorf("limit = %d, want %d", req.Limit, tt.wantLimit)
			}
		})
	}
}

func TestPersonalized_EmptyListNotNull(t *testing.T) {
	t.Parallel()
	_, router := newTestHandler(t, Deps{Engine: &mockRecommender{rec: recommend.Recommendation{Method: recommend.MethodTrending}}})

	rec := doRequest(t, router, http.MethodPost, "/recommendations/personalized", nil)
	if !bytes.Contains(rec.Body.Bytes(), []byte(`"productIds":[]`)) {
		t.Errorf("body = %s, want empty productIds array", rec.Body.String())
	}
}

func TestRelated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		body     any
		wantCode int
		wantSeed string
	}{
		{name: "also bought", path: "/recommendations/also-bought", body: map[string]any{"productId": testProductID, "limit": 3}, wantCode: 200, wantSeed: testProductID},
		{name: "also viewed", path: "/recommendations/also-viewed", body: map[string]any{"productId": testProductID}, wantCode: 200, wantSeed: "viewed:" + testProductID},
		{name: "malformed seed passes to engine", path: "/recommendations/also-bought", body: map[string]any{"productId": "bad"}, wantCode: 200, wantSeed: "bad"},
		{name: "limit too large", path: "/recommendations/also-bought", body: map[string]any{"productId": testProductID, "limit": 5000}, wantCode: 400},
		{name: "GET not allowed", path: "/recommendations/also-bought", wantCode: 405},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			engine := &mockRecommender{ranked: recommend.OK([]recommend.ProductID{"p9"})}
			_, router := newTestHandler(t, Deps{Engine: engine})

			method := http.MethodPost
			if tt.wantCode == http.StatusMethodNotAllowed {
				method = http.MethodGet
			}
			rec := doRequest(t, router, method, tt.path, tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				if got := decodeBody[ErrorResponse](t, rec); got.Error == nil {
					t.Errorf("missing error body: %s", rec.Body.String())
				}
				return
			}
			if engine.lastSeed != tt.wantSeed {
				t.Errorf("seed = %q, want %q", engine.lastSeed, tt.wantSeed)
			}
			got := decodeBody[ProductListResponse](t, rec)
			if len(got.ProductIDs) != 1 || got.ProductIDs[0] != "p9" {
				t.Errorf("response = %+v", got)
			}
		})
	}
}

func TestRelated_DegradedStillOK(t *testing.T) {
	t.Parallel()
	engine := &mockRecommender{ranked: recommend.QueryFailure("also_bought", errors.New("down"), nil)}
	_, router := newTestHandler(t, Deps{Engine: engine})

	rec := doRequest(t, router, http.MethodPost, "/recommendations/also-bought", map[string]any{"productId": testProductID})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := decodeBody[ProductListResponse](t, rec); got.ProductIDs == nil || len(got.ProductIDs) != 0 {
		t.Errorf("response = %+v, want empty list", got)
	}
}

func TestTrending(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		query     string
		wantCode  int
		wantDays  int
		wantLimit int
	}{
		{name: "defaults", query: "", wantCode: 200},
		{name: "explicit", query: "?days=30&limit=4", wantCode: 200, wantDays: 30, wantLimit: 4},
		{name: "not an integer", query: "?days=week", wantCode: 400},
		{name: "days out of range", query: "?days=1000", wantCode: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			engine := &mockRecommender{ranked: recommend.OK([]recommend.ProductID{"p1"})}
			_, router := newTestHandler(t, Deps{Engine: engine})

			rec := doRequest(t, router, http.MethodGet, "/recommendations/trending"+tt.query, nil)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode == http.StatusOK && (engine.lastDays != tt.wantDays || engine.lastLimit != tt.wantLimit) {
				t.Errorf("engine got days=%d limit=%d, want %d %d", engine.lastDays, engine.lastLimit, tt.wantDays, tt.wantLimit)
			}
		})
	}
}

func TestProfile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     any
		err      error
		wantCode int
		wantErr  string
	}{
		{name: "user", body: map[string]any{"userId": testUserID}, wantCode: 200},
		{name: "session", body: map[string]any{"sessionId": "s1"}, wantCode: 200},
		{name: "missing actor", body: map[string]any{}, wantCode: 400, wantErr: CodeValidation},
		{name: "malformed user", body: map[string]any{"userId": "xyz"}, wantCode: 400, wantErr: CodeValidation},
		{name: "store unavailable", body: map[string]any{"sessionId": "s1"}, err: recommend.DataUnavailable("find events", errors.New("io")), wantCode: 503, wantErr: CodeUnavailable},
		{name: "unexpected", body: map[string]any{"sessionId": "s1"}, err: errors.New("boom"), wantCode: 500, wantErr: CodeInternal},
		{name: "rejected by engine", body: map[string]any{"sessionId": "s1"}, err: &recommend.Error{Kind: recommend.ErrValidation, Op: "profile"}, wantCode: 400, wantErr: CodeValidation},
		{name: "no history", body: map[string]any{"sessionId": "s1"}, err: &recommend.Error{Kind: recommend.ErrColdStart, Op: "profile"}, wantCode: 404, wantErr: CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			engine := &mockRecommender{profileErr: tt.err}
			if tt.err == nil {
				engine.profile = recommend.NewUserProfile(recommend.SessionActor("s1"))
			}
			_, router := newTestHandler(t, Deps{Engine: engine})

			rec := doRequest(t, router, http.MethodPost, "/recommendations/profile", tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantErr != "" {
				if got := decodeBody[ErrorResponse](t, rec); got.Error == nil || got.Error.Code != tt.wantErr {
					t.Errorf("error = %s, want %s", rec.Body.String(), tt.wantErr)
				}
				return
			}
			got := decodeBody[recommend.UserProfile](t, rec)
			if got.Actor == "" {
				t.Errorf("profile = %+v", got)
			}
		})
	}
}

func TestTrackEvent(t *testing.T) {
	t.Parallel()

	valid := map[string]any{
		"eventType": "purchase",
		"sessionId": "sess-9",
		"userId":    "AAAAAAAAAAAAAAAAAAAAAAA1",
		"productId": testProductID,
		"price":     19.99,
		"quantity":  2,
		"context":   map[string]any{"page": "/p/1", "device": "mobile"},
	}

	t.Run("direct insert", func(t *testing.T) {
		t.Parallel()
		events := &mockEvents{}
		h, router := newTestHandler(t, Deps{Events: events})
		fixed := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
		h.now = func() time.Time { return fixed }

		rec := doRequest(t, router, http.MethodPost, "/events", valid)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		resp := decodeBody[EventResponse](t, rec)
		if !resp.Success || resp.EventID == "" {
			t.Errorf("response = %+v", resp)
		}

		if len(events.events) != 1 {
			t.Fatalf("inserted %d events, want 1", len(events.events))
		}
		ev := events.events[0]
		if ev.ID != resp.EventID || ev.Kind != recommend.EventPurchase || ev.Quantity != 2 || ev.Price != 19.99 {
			t.Errorf("event = %+v", ev)
		}
		if ev.UserID != testUserID {
			t.Errorf("UserID = %q, want lowercased %q", ev.UserID, testUserID)
		}
		if !ev.OccurredAt.Equal(fixed) {
			t.Errorf("OccurredAt = %v, want %v", ev.OccurredAt, fixed)
		}
		if ev.Context.IP != "203.0.113.7" || ev.Context.Device != "mobile" {
			t.Errorf("Context = %+v", ev.Context)
		}
	})

	t.Run("through WAL", func(t *testing.T) {
		t.Parallel()
		events := &mockEvents{}
		log := &mockWAL{}
		_, router := newTestHandler(t, Deps{Events: events, WAL: log})

		rec := doRequest(t, router, http.MethodPost, "/events", valid)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		if len(log.events) != 1 || len(events.events) != 0 {
			t.Errorf("wal=%d direct=%d, want 1 and 0", len(log.events), len(events.events))
		}
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		_, router := newTestHandler(t, Deps{Events: &mockEvents{err: errors.New("locked")}})
		rec := doRequest(t, router, http.MethodPost, "/events", valid)
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
	})

	invalid := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"missing session", func(m map[string]any) { delete(m, "sessionId") }},
		{"unknown event type", func(m map[string]any) { m["eventType"] = "teleport" }},
		{"malformed product", func(m map[string]any) { m["productId"] = "p1" }},
		{"negative price", func(m map[string]any) { m["price"] = -1 }},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			body := make(map[string]any, len(valid))
			for k, v := range valid {
				body[k] = v
			}
			tt.mutate(body)

			events := &mockEvents{}
			_, router := newTestHandler(t, Deps{Events: events})
			rec := doRequest(t, router, http.MethodPost, "/events", body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if got := decodeBody[ErrorResponse](t, rec); got.Error.Code != CodeValidation {
				t.Errorf("code = %q", got.Error.Code)
			}
			if len(events.events) != 0 {
				t.Error("invalid event must not be stored")
			}
		})
	}
}

func TestRouter_NotFound(t *testing.T) {
	t.Parallel()
	_, router := newTestHandler(t, Deps{})
	rec := doRequest(t, router, http.MethodGet, "/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decodeBody[ErrorResponse](t, rec); got.Error.Code != CodeNotFound {
		t.Errorf("code = %q", got.Error.Code)
	}
}

func TestRouter_RateLimit(t *testing.T) {
	t.Parallel()
	h, err := NewHandler(Deps{Engine: &mockRecommender{}, Events: &mockEvents{}, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatal(err)
	}
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitRequests = 2
	cfg.RateLimitWindow = time.Minute
	router := NewRouter(h, NewChiMiddleware(cfg))

	codes := make([]int, 3)
	for i := range codes {
		codes[i] = doRequest(t, router, http.MethodGet, "/recommendations/trending", nil).Code
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 200 429]", codes)
	}

	// Health is outside the limited group.
	if rec := doRequest(t, router, http.MethodGet, "/health", nil); rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	t.Parallel()
	_, router := newTestHandler(t, Deps{})

	req := httptest.NewRequest(http.MethodOptions, "/recommendations/personalized", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestSanitizeLogValue(t *testing.T) {
	t.Parallel()
	if got := sanitizeLogValue("a\nb\x7f"); got != `a\x0ab\x7f` {
		t.Errorf("sanitizeLogValue() = %q", got)
	}
}
