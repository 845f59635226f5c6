package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name         string
		provider     string
		model        string
		expectedName string
		wantErr      bool
	}{
		{name: "openai", provider: "openai", expectedName: "openai"},
		{name: "anthropic", provider: "anthropic", expectedName: "anthropic"},
		{name: "claude alias", provider: "claude", expectedName: "anthropic"},
		{name: "case insensitive", provider: "OpenAI", expectedName: "openai"},
		{name: "explicit model", provider: "openai", model: "gpt-4o-mini", expectedName: "openai"},
		{name: "unknown", provider: "gemini", wantErr: true},
		{name: "empty", provider: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.provider, "key", tt.model)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedName, p.Name())
		})
	}
}

func TestOpenAIComplete(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"time_entries\":[]}"}}]}`))
	}))
	defer srv.Close()

	p := &OpenAI{apiKey: "key", model: "gpt-4o", baseURL: srv.URL, http: srv.Client()}

	text, err := p.Complete(context.Background(), "summarize my day")

	require.NoError(t, err)
	assert.Equal(t, `{"time_entries":[]}`, text)
	assert.Equal(t, "gpt-4o", gotBody["model"])

	format, ok := gotBody["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_object", format["type"])
}

func TestOpenAICompleteErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	p := &OpenAI{apiKey: "key", model: "gpt-4o", baseURL: srv.URL, http: srv.Client()}

	_, err := p.Complete(context.Background(), "x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestAnthropicComplete(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"{\"time_entries\":[]}"}]}`))
	}))
	defer srv.Close()

	p := &Anthropic{apiKey: "key", model: "claude-3-5-sonnet-20241022", baseURL: srv.URL, http: srv.Client()}

	text, err := p.Complete(context.Background(), "summarize my day")

	require.NoError(t, err)
	assert.Equal(t, `{"time_entries":[]}`, text)
	assert.Equal(t, float64(anthropicMaxTok), gotBody["max_tokens"])
}

func TestAnthropicCompleteNoText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer srv.Close()

	p := &Anthropic{apiKey: "key", model: "m", baseURL: srv.URL, http: srv.Client()}

	_, err := p.Complete(context.Background(), "x")

	assert.Error(t, err)
}
