// Package ai provides completion providers for the proposal pipeline.
// Providers submit one prompt and return raw text; they never retry, so a
// flaky provider surfaces immediately instead of burning tokens.
package ai

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/stevendejongnl/harv/internal/domain"
)

// Default models per provider, used when the configuration leaves the
// model unset.
const (
	DefaultOpenAIModel    = "gpt-4o"
	DefaultAnthropicModel = "claude-3-5-sonnet-20241022"
)

// NewProvider builds the provider named in the configuration. The name is
// a closed set: "openai", or "anthropic" (alias "claude").
func NewProvider(name, apiKey, model string) (domain.Provider, error) {
	httpClient := &http.Client{Timeout: 120 * time.Second}

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "openai":
		if model == "" {
			model = DefaultOpenAIModel
		}
		return &OpenAI{apiKey: apiKey, model: model, http: httpClient, baseURL: openAIBaseURL}, nil
	case "anthropic", "claude":
		if model == "" {
			model = DefaultAnthropicModel
		}
		return &Anthropic{apiKey: apiKey, model: model, http: httpClient, baseURL: anthropicBaseURL}, nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q (supported: openai, anthropic)", name)
	}
}
