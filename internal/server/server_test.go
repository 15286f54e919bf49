package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/jobmatch/internal/analysis"
	"github.com/jonathan/jobmatch/internal/assistant"
	"github.com/jonathan/jobmatch/internal/capabilities"
	"github.com/jonathan/jobmatch/internal/config"
	"github.com/jonathan/jobmatch/internal/db"
	"github.com/jonathan/jobmatch/internal/embedding"
	"github.com/jonathan/jobmatch/internal/entities"
	"github.com/jonathan/jobmatch/internal/experience"
	"github.com/jonathan/jobmatch/internal/matching"
	"github.com/jonathan/jobmatch/internal/salary"
	"github.com/jonathan/jobmatch/internal/skills"
	"github.com/jonathan/jobmatch/internal/types"
)

const handlerSecret = "test-secret-for-handlers"

// markerEmbedder embeds text as counts of a few marker words.
type markerEmbedder struct{}

func (markerEmbedder) Available() bool { return true }
func (markerEmbedder) Dimension() int  { return 3 }
func (markerEmbedder) Model() string   { return "marker" }
func (markerEmbedder) Embed(_ context.Context, text string) embedding.Vector {
	lower := strings.ToLower(text)
	return embedding.Vector{
		float64(strings.Count(lower, "python")),
		float64(strings.Count(lower, "docker")),
		float64(strings.Count(lower, "design")),
	}
}

func newTestProviders(embedder embedding.Provider) *capabilities.Providers {
	extractor := skills.NewExtractor(skills.DefaultVocabulary(), entities.None{}, nil)
	store := db.NewMemoryStore()
	return &capabilities.Providers{
		Embedding: embedder,
		Entities:  entities.None{},
		Assistant: assistant.Canned{},
		Analysis:  analysis.NewService(extractor, experience.NewEstimator(2025), embedder, nil),
		Salary:    salary.NewEstimator(0, ""),
		Store:     store,
		Matcher:   matching.NewMatcher(store, embedder, matching.DefaultThreshold, 2, nil),
	}
}

func newTestServer(t *testing.T, cfg *config.Config, providers *capabilities.Providers) *Server {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{}
	}
	if providers == nil {
		providers = newTestProviders(markerEmbedder{})
	}
	s, err := New(cfg, providers, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(s.rateLimiter.Stop)
	return s
}

// do sends body (a string or a value to marshal) and returns the recorded response.
func do(t *testing.T, h http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "192.0.2.10:4321"
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestNew_AuthRequiresSecret(t *testing.T) {
	_, err := New(&config.Config{Auth: config.AuthConfig{Required: true}}, newTestProviders(markerEmbedder{}), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT secret")
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := do(t, s.Handler(), http.MethodGet, "/health", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	health := decodeBody[types.HealthResponse](t, rec)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, ServiceName, health.Service)
	assert.True(t, health.Models.Embedding)
	assert.False(t, health.Models.Entities)
	assert.False(t, health.Models.Assistant)
	assert.Equal(t, db.DriverMemory, health.Store)
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t, nil, nil)

	t.Run("generated", func(t *testing.T) {
		rec := do(t, s.Handler(), http.MethodGet, "/health", nil, "")
		assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(RequestIDHeader, "req-123")
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
	})
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := do(t, s.Handler(), http.MethodOptions, "/resume/analyze", nil, "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestWithRecover(t *testing.T) {
	s := newTestServer(t, nil, nil)
	h := s.withRecover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := do(t, h, http.MethodGet, "/", nil, "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decodeBody[map[string]string](t, rec)["error"])
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := do(t, s.Handler(), http.MethodGet, "/nope", nil, "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimit(t *testing.T) {
	cfg := &config.Config{RateLimit: config.RateLimitConfig{Enabled: true, DefaultLimit: 1000, DefaultWindow: time.Minute}}
	s := newTestServer(t, cfg, nil)

	// /resume/compare allows a burst of five.
	for i := 0; i < 5; i++ {
		rec := do(t, s.Handler(), http.MethodPost, "/resume/compare", "{}", "")
		require.Equal(t, http.StatusBadRequest, rec.Code, "request %d", i)
		assert.Equal(t, "30", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := do(t, s.Handler(), http.MethodPost, "/resume/compare", "{}", "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "rate_limit_exceeded", body["error"])

	// Health is never limited.
	for i := 0; i < 20; i++ {
		assert.Equal(t, http.StatusOK, do(t, s.Handler(), http.MethodGet, "/health", nil, "").Code)
	}
}

func TestAuth(t *testing.T) {
	cfg := &config.Config{Auth: config.AuthConfig{Required: true, JWTSecret: handlerSecret}}
	s := newTestServer(t, cfg, nil)
	tokens := s.JWTService()
	require.NotNil(t, tokens)

	candidate, err := tokens.GenerateToken("alice", types.RoleCandidate)
	require.NoError(t, err)
	recruiter, err := tokens.GenerateToken("bob", types.RoleRecruiter)
	require.NoError(t, err)

	job := map[string]string{"text": "Python and Docker engineer"}

	t.Run("health is public", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, do(t, s.Handler(), http.MethodGet, "/health", nil, "").Code)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := do(t, s.Handler(), http.MethodPost, "/resume/analyze", map[string]string{"resumeText": "Python"}, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		rec := do(t, s.Handler(), http.MethodPost, "/resume/analyze", map[string]string{"resumeText": "Python"}, "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("any role may analyze", func(t *testing.T) {
		rec := do(t, s.Handler(), http.MethodPost, "/resume/analyze", map[string]string{"resumeText": "Python"}, candidate)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("candidates cannot store jobs", func(t *testing.T) {
		rec := do(t, s.Handler(), http.MethodPut, "/profiles/job/j1", job, candidate)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("recruiters store jobs", func(t *testing.T) {
		rec := do(t, s.Handler(), http.MethodPut, "/profiles/job/j1", job, recruiter)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("recruiters cannot store resumes", func(t *testing.T) {
		rec := do(t, s.Handler(), http.MethodPut, "/profiles/candidate/c1", job, recruiter)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("reads need any valid token", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, do(t, s.Handler(), http.MethodGet, "/profiles/job/j1", nil, candidate).Code)
		assert.Equal(t, http.StatusUnauthorized, do(t, s.Handler(), http.MethodGet, "/profiles/job/j1", nil, "").Code)
	})
}
