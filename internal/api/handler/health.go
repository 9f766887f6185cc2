package handler

import (
	"context"
	"net/http"

	"github.com/Rrens/honeypot/internal/api/response"
	"github.com/Rrens/honeypot/internal/llm"
)

// Pinger is a dependency the service needs to be ready
type Pinger interface {
	Ping(ctx context.Context) error
}

// SessionCounter reports the number of live sessions
type SessionCounter interface {
	ActiveSessions(ctx context.Context) int
}

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// ReadyCheck reports readiness with the live session count. A nil redis
// means rate limiting is disabled and not checked.
func ReadyCheck(sessions SessionCounter, redis Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if redis != nil {
			if err := redis.Ping(r.Context()); err != nil {
				response.Unavailable(w, "redis not ready")
				return
			}
		}

		response.OK(w, map[string]any{
			"status":          "ready",
			"active_sessions": sessions.ActiveSessions(r.Context()),
		})
	}
}

// ListLLMProviders returns registered LLM providers
func ListLLMProviders(router *llm.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]any{
			"providers":        router.GetProvidersInfo(),
			"default_provider": router.DefaultProvider(),
		})
	}
}
