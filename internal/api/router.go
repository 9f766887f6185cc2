package api

import (
	"net/http"

	"github.com/Rrens/honeypot/internal/api/handler"
	customMiddleware "github.com/Rrens/honeypot/internal/api/middleware"
	"github.com/Rrens/honeypot/internal/config"
	"github.com/Rrens/honeypot/internal/llm"
	"github.com/Rrens/honeypot/internal/security"
	"github.com/Rrens/honeypot/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// Dependencies are the wired components the router serves
type Dependencies struct {
	Config          *config.Config
	HoneypotService *service.HoneypotService
	LLMRouter       *llm.Router
	JWTManager      *security.JWTManager

	// Limiter is nil when rate limiting is disabled
	Limiter customMiddleware.Limiter
	// Redis is checked by the readiness probe when set
	Redis handler.Pinger
}

// NewRouter creates and configures the HTTP router
func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	if cfg.Server.MiddlewareTimeout > 0 {
		r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))
	}

	// CORS
	origins := cfg.Server.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		ExposedHeaders: []string{"X-Request-ID", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:         300,
	}))

	apiKey := security.NewAPIKeyChecker(cfg.Auth.APIKey)
	if !apiKey.Enabled() {
		log.Warn().Msg("auth.api_key is empty, honeypot endpoint is unauthenticated")
	}

	honeypotHandler := handler.NewHoneypotHandler(deps.HoneypotService)
	sessionHandler := handler.NewSessionHandler(deps.HoneypotService)
	authMiddleware := customMiddleware.NewAuthMiddleware(deps.JWTManager)

	honeypot := func(r chi.Router) {
		r.Use(customMiddleware.APIKey(apiKey))
		if deps.Limiter != nil {
			r.Use(customMiddleware.NewRateLimitMiddleware(deps.Limiter).Limit)
		}
		r.Post("/", honeypotHandler.Handle)
	}

	r.Get("/health", handler.HealthCheck)
	r.Route("/honeypot", honeypot)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(deps.HoneypotService, deps.Redis))
		r.Get("/llm-providers", handler.ListLLMProviders(deps.LLMRouter))

		r.Route("/honeypot", honeypot)

		// Operator routes
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.With(customMiddleware.RequireScope(security.ScopeSessionsRead)).Get("/", sessionHandler.Get)
			r.With(customMiddleware.RequireScope(security.ScopeSessionsWrite)).Delete("/", sessionHandler.Delete)
		})
	})

	return r
}
