package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Rrens/honeypot/internal/api/response"
	"github.com/Rrens/honeypot/internal/security"
)

type contextKey string

const (
	OperatorKey contextKey = "operator"
	ClaimsKey   contextKey = "claims"
)

// AuthMiddleware handles operator JWT authentication
type AuthMiddleware struct {
	jwtManager *security.JWTManager
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *security.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager}
}

// Authenticate validates the bearer token
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(w, "invalid authorization header format")
			return
		}

		claims, err := m.jwtManager.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(w, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), OperatorKey, claims.Operator)
		ctx = context.WithValue(ctx, ClaimsKey, claims)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireScope rejects tokens lacking scope. Must run after Authenticate.
func RequireScope(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := r.Context().Value(ClaimsKey).(*security.Claims)
			if !ok || !claims.HasScope(scope) {
				response.Forbidden(w, "missing scope "+scope)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetOperator gets the operator name from context
func GetOperator(ctx context.Context) (string, bool) {
	operator, ok := ctx.Value(OperatorKey).(string)
	return operator, ok
}

// APIKey guards the honeypot endpoint with the shared x-api-key header
func APIKey(checker *security.APIKeyChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !checker.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get(security.APIKeyHeader)
			if key == "" {
				response.Unauthorized(w, "missing x-api-key header")
				return
			}
			if !checker.Valid(key) {
				response.Forbidden(w, "invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
