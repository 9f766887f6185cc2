package gemini

import (
	"testing"

	"github.com/Rrens/honeypot/internal/config"
	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateText(t *testing.T) {
	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		want    string
		blocked bool
		wantErr bool
	}{
		{
			name: "joins text parts",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []genai.Part{genai.Text("YES\n"), genai.Text("0.9")}},
			}}},
			want: "YES\n0.9",
		},
		{
			name: "prompt blocked",
			resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.PromptFeedback{BlockReason: genai.BlockReasonSafety},
			},
			blocked: true,
		},
		{
			name: "candidate stopped for safety",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				FinishReason: genai.FinishReasonSafety,
			}}},
			blocked: true,
		},
		{
			name:    "no candidates",
			resp:    &genai.GenerateContentResponse{},
			wantErr: true,
		},
		{
			name:    "no parts",
			resp:    &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: &genai.Content{}}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := candidateText(tt.resp)
			switch {
			case tt.blocked:
				assert.ErrorIs(t, err, ErrBlocked)
			case tt.wantErr:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestProvider_Defaults(t *testing.T) {
	p := NewProvider(configFor("", ""))
	assert.False(t, p.IsConfigured())
	assert.Equal(t, defaultModel, p.DefaultModel())

	p = NewProvider(configFor("key", "gemini-1.5-pro"))
	assert.True(t, p.IsConfigured())
	assert.Equal(t, "gemini-1.5-pro", p.DefaultModel())
}

func configFor(key, model string) config.GeminiConfig {
	return config.GeminiConfig{APIKey: key, Model: model}
}
