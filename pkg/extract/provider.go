// Package extract distills a day's journal entries into long-term memories
// via an LLM and writes them to the memory store.
package extract

import (
	"context"
	"fmt"
)

// LLMProvider is an interface for LLM API providers
type LLMProvider interface {
	// Complete runs a single-turn completion
	Complete(ctx context.Context, request CompletionRequest) (string, error)

	// Provider returns the provider name
	Provider() string
}

// CompletionRequest contains the request parameters for a completion
type CompletionRequest struct {
	Model        string
	Prompt       string
	SystemPrompt string
	MaxTokens    int
}

// NewProvider creates an LLM provider by name.
func NewProvider(name, apiKey string) (LLMProvider, error) {
	switch name {
	case "anthropic":
		return NewAnthropicProvider(apiKey), nil
	case "openai":
		return NewOpenAIProvider(apiKey), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
}
