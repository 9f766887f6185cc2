package anthropic_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Rrens/honeypot/internal/llm"
	"github.com/Rrens/honeypot/internal/llm/anthropic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.NotEmpty(t, r.Header.Get("anthropic-version"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "be confused", body["system"])
		assert.EqualValues(t, 1024, body["max_tokens"])

		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"type": "text", "text": "Is my account safe?"}},
			"usage":   map[string]int{"input_tokens": 10, "output_tokens": 5},
		})
	}))
	defer srv.Close()

	p := anthropic.NewProvider("secret", "", srv.URL)
	resp, err := p.Generate(context.Background(), llm.Request{System: "be confused", Prompt: "hi"}, "")
	require.NoError(t, err)

	assert.Equal(t, "Is my account safe?", resp.Text)
	assert.Equal(t, 15, resp.TokensUsed)
	assert.Equal(t, p.DefaultModel(), resp.Model)
}

func TestProvider_GenerateEmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[]}`))
	}))
	defer srv.Close()

	_, err := anthropic.NewProvider("secret", "", srv.URL).Generate(context.Background(), llm.Request{Prompt: "hi"}, "")
	assert.ErrorContains(t, err, "no response")
}
