package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Rrens/honeypot/internal/api/middleware"
	"github.com/Rrens/honeypot/internal/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestAPIKey(t *testing.T) {
	h := middleware.APIKey(security.NewAPIKeyChecker("secret"))(okHandler)

	tests := []struct {
		name   string
		key    string
		status int
	}{
		{name: "missing", key: "", status: http.StatusUnauthorized},
		{name: "wrong", key: "nope", status: http.StatusForbidden},
		{name: "valid", key: "secret", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/honeypot", nil)
			if tt.key != "" {
				req.Header.Set("x-api-key", tt.key)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestAPIKey_DisabledPassesThrough(t *testing.T) {
	h := middleware.APIKey(security.NewAPIKeyChecker(""))(okHandler)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/honeypot", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticateAndScope(t *testing.T) {
	manager := security.NewJWTManager("test-secret-key-with-32-chars!!", time.Hour)
	auth := middleware.NewAuthMiddleware(manager)

	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = middleware.GetOperator(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	h := auth.Authenticate(middleware.RequireScope(security.ScopeSessionsWrite)(inner))

	readOnly, err := manager.GenerateToken("viewer", []string{security.ScopeSessionsRead})
	require.NoError(t, err)
	writer, err := manager.GenerateToken("admin", []string{security.ScopeSessionsWrite})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "no header", header: "", status: http.StatusUnauthorized},
		{name: "bad format", header: "Token abc", status: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer abc", status: http.StatusUnauthorized},
		{name: "missing scope", header: "Bearer " + readOnly, status: http.StatusForbidden},
		{name: "granted", header: "Bearer " + writer, status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/x", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
	assert.Equal(t, "admin", seen)
}

type stubLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (s *stubLimiter) Allow(ctx context.Context, key string) (bool, int, time.Time, error) {
	s.keys = append(s.keys, key)
	return s.allowed, 7, time.Date(2026, 1, 1, 0, 1, 0, 0, time.UTC), s.err
}

func (s *stubLimiter) Limit() int { return 10 }

func TestRateLimit(t *testing.T) {
	t.Run("allowed", func(t *testing.T) {
		limiter := &stubLimiter{allowed: true}
		h := middleware.NewRateLimitMiddleware(limiter).Limit(okHandler)

		req := httptest.NewRequest(http.MethodPost, "/honeypot", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "10", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "7", rec.Header().Get("X-RateLimit-Remaining"))
		assert.Equal(t, []string{"ip:10.0.0.1"}, limiter.keys)
	})

	t.Run("rejected", func(t *testing.T) {
		limiter := &stubLimiter{allowed: false}
		h := middleware.NewRateLimitMiddleware(limiter).Limit(okHandler)

		req := httptest.NewRequest(http.MethodPost, "/honeypot", nil)
		req.Header.Set("x-api-key", "secret")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.Len(t, limiter.keys, 1)
		assert.Contains(t, limiter.keys[0], "key:")
		assert.NotContains(t, limiter.keys[0], "secret")
	})

	t.Run("limiter failure allows", func(t *testing.T) {
		limiter := &stubLimiter{err: errors.New("redis down")}
		h := middleware.NewRateLimitMiddleware(limiter).Limit(okHandler)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/honeypot", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestLogger_PassesThrough(t *testing.T) {
	h := middleware.Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
