package gateway

import (
	"context"
	"strings"

	"github.com/Rrens/honeypot/internal/llm"
)

var indicatorKeys = []string{"bank_accounts:", "upi_ids:", "phone_numbers:", "phishing_urls:"}

// LLMExtractor asks a model to spell out indicators the patterns missed.
// It satisfies extractor.Fallback.
type LLMExtractor struct {
	client *client
}

// NewLLMExtractor creates an extraction fallback backed by the router's provider
func NewLLMExtractor(router *llm.Router, opts Options) *LLMExtractor {
	return &LLMExtractor{client: newClient(router, opts)}
}

func (e *LLMExtractor) Candidates(ctx context.Context, text string) ([]string, error) {
	out, err := e.client.generate(ctx, llm.Request{
		System:      extractorSystemPrompt,
		Prompt:      buildExtractPrompt(text),
		Temperature: 0.1,
		MaxTokens:   800,
	})
	if err != nil {
		return nil, err
	}
	return parseCandidates(out), nil
}

// parseCandidates reads "key: [a, b]" lines and returns the raw list items
func parseCandidates(text string) []string {
	var candidates []string
	for _, line := range strings.Split(llm.CleanText(text), "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)

		for _, key := range indicatorKeys {
			idx := strings.Index(lower, key)
			if idx < 0 {
				continue
			}
			list := strings.TrimSpace(line[idx+len(key):])
			list = strings.TrimSuffix(strings.TrimPrefix(list, "["), "]")
			for _, item := range strings.Split(list, ",") {
				item = strings.Trim(strings.TrimSpace(item), `"'`)
				if item != "" && !strings.EqualFold(item, "none") {
					candidates = append(candidates, item)
				}
			}
			break
		}
	}
	return candidates
}
