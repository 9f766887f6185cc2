package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Rrens/honeypot/internal/api"
	"github.com/Rrens/honeypot/internal/api/handler"
	"github.com/Rrens/honeypot/internal/api/middleware"
	"github.com/Rrens/honeypot/internal/callback"
	"github.com/Rrens/honeypot/internal/config"
	"github.com/Rrens/honeypot/internal/extractor"
	"github.com/Rrens/honeypot/internal/gateway"
	"github.com/Rrens/honeypot/internal/llm"
	"github.com/Rrens/honeypot/internal/llm/anthropic"
	"github.com/Rrens/honeypot/internal/llm/deepseek"
	"github.com/Rrens/honeypot/internal/llm/gemini"
	"github.com/Rrens/honeypot/internal/llm/ollama"
	"github.com/Rrens/honeypot/internal/llm/openai"
	"github.com/Rrens/honeypot/internal/repository/memory"
	"github.com/Rrens/honeypot/internal/repository/redis"
	"github.com/Rrens/honeypot/internal/security"
	"github.com/Rrens/honeypot/internal/service"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file - try multiple locations
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(p); err == nil {
			fmt.Printf("Loaded .env from: %s\n", p)
			break
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logFile, err := setupLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Msg("Starting honeypot API server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Session store
	store := memory.NewSessionStore(cfg.Session.IdleTimeout)
	store.StartSweeper(ctx, cfg.Session.SweepInterval)
	defer store.Close()

	// Redis is optional: rate limiting and cross-replica report dedup
	var (
		limiter middleware.Limiter
		pinger  handler.Pinger
		ledger  callback.Ledger
	)
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()

		limiter = redis.NewRateLimiter(redisClient, cfg.Redis.RateLimit.RequestsPerMinute)
		ledger = redis.NewReportLedger(redisClient, callback.ReportedRetention)
		pinger = redisClient
		log.Info().Str("addr", cfg.Redis.Addr()).Msg("Redis enabled")
	}

	llmRouter := newLLMRouter(cfg.LLM)

	classifierOpts := gateway.Options{Provider: cfg.Gateway.ClassifierProvider, Timeout: cfg.Gateway.Timeout}
	responderOpts := gateway.Options{Provider: cfg.Gateway.ResponderProvider, Timeout: cfg.Gateway.Timeout}

	var fallback extractor.Fallback
	if cfg.Gateway.LLMFallbackExtraction {
		fallback = gateway.NewLLMExtractor(llmRouter, classifierOpts)
	}

	reporter := callback.NewReporter(cfg.Callback, ledger)
	if reporter.Enabled() {
		log.Info().Str("url", cfg.Callback.URL).Msg("Final result callback enabled")
	}

	honeypotService := service.NewHoneypotService(
		store,
		gateway.NewLLMClassifier(llmRouter, classifierOpts, cfg.Session.ContextMessages),
		gateway.NewLLMResponder(llmRouter, responderOpts, cfg.Session.ContextMessages),
		extractor.NewPipeline(fallback),
		reporter,
		service.Options{NeutralReply: cfg.Session.NeutralReply},
	)

	router := api.NewRouter(api.Dependencies{
		Config:          cfg,
		HoneypotService: honeypotService,
		LLMRouter:       llmRouter,
		JWTManager:      security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.OperatorTokenTTL),
		Limiter:         limiter,
		Redis:           pinger,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	reporter.Wait()

	log.Info().Msg("Server stopped")
}

// newLLMRouter registers every provider with credentials
func newLLMRouter(cfg config.LLMConfig) *llm.Router {
	router := llm.NewRouter(cfg.DefaultProvider)
	log.Info().Msgf("Initializing LLM providers. Default: %s", cfg.DefaultProvider)

	if cfg.Gemini.APIKey != "" {
		router.RegisterProvider(gemini.NewProvider(cfg.Gemini))
	} else {
		log.Warn().Msg("Gemini API Key is empty, skipping registration")
	}
	if cfg.OpenAI.APIKey != "" {
		router.RegisterProvider(openai.NewProvider(cfg.OpenAI.APIKey, cfg.OpenAI.Model))
	}
	if cfg.DeepSeek.APIKey != "" {
		router.RegisterProvider(deepseek.NewProvider(cfg.DeepSeek.APIKey, cfg.DeepSeek.Model))
	}
	if cfg.Anthropic.APIKey != "" {
		router.RegisterProvider(anthropic.NewProvider(cfg.Anthropic.APIKey, cfg.Anthropic.Model, cfg.Anthropic.BaseURL))
	}
	if cfg.Ollama.Host != "" {
		log.Info().Str("host", cfg.Ollama.Host).Msg("Registering Ollama provider")
		router.RegisterProvider(ollama.NewProvider(cfg.Ollama.Host, cfg.Ollama.DefaultModel))
	}

	if _, err := router.GetProvider(""); err != nil {
		log.Warn().Err(err).Msg("default LLM provider unavailable, gateways will fall back")
	}
	return router
}
