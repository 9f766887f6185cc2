package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Rrens/honeypot/internal/domain"
	"github.com/Rrens/honeypot/internal/llm"
	"github.com/rs/zerolog/log"
)

// Classifier decides whether an inbound message is a scam
type Classifier interface {
	Classify(ctx context.Context, req domain.ClassifyRequest) (*domain.Verdict, error)
}

// Responder produces the persona's reply to a scam message
type Responder interface {
	Reply(ctx context.Context, req domain.ReplyRequest) (string, error)
}

// client resolves a provider from the router for every call so that a
// provider registered at runtime is picked up without a restart
type client struct {
	router   *llm.Router
	provider string
	model    string
	timeout  time.Duration
}

func (c *client) generate(ctx context.Context, req llm.Request) (string, error) {
	provider, err := c.router.Resolve(c.provider)
	if err != nil {
		return "", err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := provider.Generate(ctx, req, c.model)
	if err != nil {
		return "", fmt.Errorf("%s generation failed: %w", provider.Name(), err)
	}

	log.Debug().
		Str("provider", provider.Name()).
		Str("model", resp.Model).
		Int("tokens", resp.TokensUsed).
		Int64("latency_ms", resp.LatencyMs).
		Msg("llm call completed")

	return resp.Text, nil
}

// Options selects the provider and bounds each call
type Options struct {
	Provider string
	Model    string
	Timeout  time.Duration
}

func newClient(router *llm.Router, opts Options) *client {
	return &client{
		router:   router,
		provider: opts.Provider,
		model:    opts.Model,
		timeout:  opts.Timeout,
	}
}

// formatContext renders the most recent turns for a prompt
func formatContext(turns []domain.Turn, max int) string {
	if max > 0 && len(turns) > max {
		turns = turns[len(turns)-max:]
	}

	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		label := "Scammer"
		if t.Role == domain.RoleAgent {
			label = "You (Honeypot)"
		}
		lines = append(lines, label+": "+t.Text)
	}
	return strings.Join(lines, "\n")
}
