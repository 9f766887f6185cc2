package extractor

import (
	"context"
	"strings"

	"github.com/Rrens/honeypot/internal/domain"
	"github.com/rs/zerolog/log"
)

// Fallback is a best-effort secondary source of raw indicator candidates,
// typically a language model asked to spell out obfuscated details
type Fallback interface {
	Candidates(ctx context.Context, text string) ([]string, error)
}

// Pipeline runs the deterministic matcher first and consults the fallback
// only when the matcher found nothing
type Pipeline struct {
	fallback Fallback
}

// NewPipeline creates an extraction pipeline. A nil fallback disables stage two.
func NewPipeline(fallback Fallback) *Pipeline {
	return &Pipeline{fallback: fallback}
}

// Extract returns the indicators of text. Fallback failures are logged and
// never reported to the caller.
func (p *Pipeline) Extract(ctx context.Context, text string) domain.Intelligence {
	intel := Extract(text)
	if !intel.IsEmpty() || p.fallback == nil || strings.TrimSpace(text) == "" {
		return intel
	}

	candidates, err := p.fallback.Candidates(ctx, text)
	if err != nil {
		log.Warn().Err(err).Msg("fallback extraction skipped")
		return intel
	}

	// candidates go back through the matcher so normalization stays uniform
	intel.Merge(ExtractAll(candidates...))
	if !intel.IsEmpty() {
		log.Debug().Int("indicators", intel.Len()).Msg("fallback extraction found indicators")
	}
	return intel
}
