package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Rrens/honeypot/internal/domain"
	"github.com/Rrens/honeypot/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestKeywordScore(t *testing.T) {
	assert.Equal(t, 0.0, KeywordScore("see you at lunch"))

	low := KeywordScore("please verify")
	high := KeywordScore("URGENT: your account blocked, send money and share OTP immediately")
	assert.Greater(t, low, 0.0)
	assert.Greater(t, high, low)
	assert.LessOrEqual(t, high, 1.0)
}

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantScam   bool
		wantConf   float64
		wantReason string
	}{
		{
			name:       "numbered lines",
			input:      "1. YES\n2. Confidence: 0.92\n3. Reasoning: Asks for an OTP with urgency.",
			wantScam:   true,
			wantConf:   0.92,
			wantReason: "Asks for an OTP with urgency.",
		},
		{
			name:       "plain lines",
			input:      "NO\n0.1\nA friendly greeting.",
			wantScam:   false,
			wantConf:   0.1,
			wantReason: "A friendly greeting.",
		},
		{
			name:       "confidence clamped",
			input:      "YES\n1.7\nobvious",
			wantScam:   true,
			wantConf:   1,
			wantReason: "obvious",
		},
		{
			name:       "missing confidence falls back to keyword score",
			input:      "YES",
			wantScam:   true,
			wantConf:   0.25,
			wantReason: "no reasoning provided",
		},
		{
			name:       "fenced reply",
			input:      "```\nYES\n2. 0.8\n3. Reasoning: impersonates a bank\n```",
			wantScam:   true,
			wantConf:   0.8,
			wantReason: "impersonates a bank",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := parseVerdict(tt.input, 0.25)
			require.NoError(t, err)
			assert.Equal(t, tt.wantScam, v.IsScam)
			assert.InDelta(t, tt.wantConf, v.Confidence, 1e-9)
			assert.Equal(t, tt.wantReason, v.Rationale)
		})
	}

	_, err := parseVerdict("  \n ", 0)
	assert.Error(t, err)
}

func TestLLMClassifier_Classify(t *testing.T) {
	provider := new(MockLLMProvider)
	provider.On("Generate", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return req.System == classifierSystemPrompt && assert.Contains(t, req.Prompt, "Your account is blocked")
	}), "").Return(&llm.Response{Text: "YES\n0.9\n3. Reasoning: threat and urgency"}, nil)

	c := NewLLMClassifier(newMockRouter(provider), Options{Timeout: time.Second}, 10)
	v, err := c.Classify(context.Background(), domain.ClassifyRequest{Text: "Your account is blocked"})
	require.NoError(t, err)

	assert.True(t, v.IsScam)
	assert.InDelta(t, 0.9, v.Confidence, 1e-9)
	assert.Equal(t, "threat and urgency", v.Rationale)
	provider.AssertExpectations(t)
}

func TestLLMClassifier_ProviderError(t *testing.T) {
	provider := new(MockLLMProvider)
	provider.On("Generate", mock.Anything, mock.Anything, "").Return(nil, errors.New("quota exceeded"))

	c := NewLLMClassifier(newMockRouter(provider), Options{}, 10)
	_, err := c.Classify(context.Background(), domain.ClassifyRequest{Text: "hi"})
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestLLMClassifier_UnknownProvider(t *testing.T) {
	c := NewLLMClassifier(llm.NewRouter("missing"), Options{}, 10)
	_, err := c.Classify(context.Background(), domain.ClassifyRequest{Text: "hi"})
	assert.ErrorContains(t, err, "provider not found")
}

func TestLLMClassifier_Timeout(t *testing.T) {
	provider := new(MockLLMProvider)
	provider.On("Generate", mock.Anything, mock.Anything, "").
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.DeadlineExceeded)

	c := NewLLMClassifier(newMockRouter(provider), Options{Timeout: 10 * time.Millisecond}, 10)
	_, err := c.Classify(context.Background(), domain.ClassifyRequest{Text: "hi"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLLMResponder_Reply(t *testing.T) {
	provider := new(MockLLMProvider)
	provider.On("Generate", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return req.System == personaSystemPrompt &&
			assert.Contains(t, req.Prompt, "Scammer: pay now") &&
			assert.Contains(t, req.Prompt, "You (Honeypot): how?") &&
			assert.NotContains(t, req.Prompt, "oldest")
	}), "").Return(&llm.Response{Text: `"Oh no! Which account is blocked? I can send it now. Please hurry."`}, nil)

	context3 := []domain.Turn{
		{Role: domain.RoleUser, Text: "oldest"},
		{Role: domain.RoleUser, Text: "pay now"},
		{Role: domain.RoleAgent, Text: "how?"},
	}

	r := NewLLMResponder(newMockRouter(provider), Options{}, 2)
	reply, err := r.Reply(context.Background(), domain.ReplyRequest{Text: "send the OTP", Context: context3})
	require.NoError(t, err)

	assert.Equal(t, "Oh no! Which account is blocked?", reply)
	provider.AssertExpectations(t)
}

func TestLLMResponder_EmptyReply(t *testing.T) {
	provider := new(MockLLMProvider)
	provider.On("Generate", mock.Anything, mock.Anything, "").Return(&llm.Response{Text: "  "}, nil)

	r := NewLLMResponder(newMockRouter(provider), Options{}, 10)
	_, err := r.Reply(context.Background(), domain.ReplyRequest{Text: "hi"})
	assert.Error(t, err)
}

func TestTruncateSentences(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"One. Two. Three.", "One. Two."},
		{"Only one", "Only one"},
		{"Visit www.bank.com now? okay! more", "Visit www.bank.com now? okay!"},
		{"Wait... what? really? yes", "Wait... what?"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, truncateSentences(tt.in, 2))
		})
	}
}

func TestLLMExtractor_Candidates(t *testing.T) {
	provider := new(MockLLMProvider)
	provider.On("Generate", mock.Anything, mock.Anything, "").Return(&llm.Response{Text: `bank_accounts: [123456789012]
upi_ids: ["scammer@ybl", none]
phone_numbers: []
phishing_urls: [http://evil.example/login, 'http://two.example']`}, nil)

	e := NewLLMExtractor(newMockRouter(provider), Options{})
	got, err := e.Candidates(context.Background(), "account one two three...")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"123456789012",
		"scammer@ybl",
		"http://evil.example/login",
		"http://two.example",
	}, got)
}
