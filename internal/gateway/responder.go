package gateway

import (
	"context"
	"errors"
	"strings"

	"github.com/Rrens/honeypot/internal/domain"
	"github.com/Rrens/honeypot/internal/llm"
)

const maxReplySentences = 2

// LLMResponder voices a confused, cooperative victim
type LLMResponder struct {
	client          *client
	contextMessages int
}

// NewLLMResponder creates a responder backed by the router's provider
func NewLLMResponder(router *llm.Router, opts Options, contextMessages int) *LLMResponder {
	return &LLMResponder{
		client:          newClient(router, opts),
		contextMessages: contextMessages,
	}
}

func (r *LLMResponder) Reply(ctx context.Context, req domain.ReplyRequest) (string, error) {
	text, err := r.client.generate(ctx, llm.Request{
		System:      personaSystemPrompt,
		Prompt:      buildReplyPrompt(req.Text, formatContext(req.Context, r.contextMessages)),
		Temperature: 0.9,
		MaxTokens:   150,
	})
	if err != nil {
		return "", err
	}

	reply := truncateSentences(llm.CleanText(text), maxReplySentences)
	if reply == "" {
		return "", errors.New("empty persona reply")
	}
	return reply, nil
}

// truncateSentences keeps the first n sentences of text
func truncateSentences(text string, n int) string {
	text = strings.TrimSpace(text)
	count := 0
	for i, r := range text {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		next := i + 1
		if next < len(text) && text[next] != ' ' && text[next] != '\n' {
			continue
		}
		count++
		if count == n {
			return strings.TrimSpace(text[:next])
		}
	}
	return text
}
