// Package llm provides LLM clients used to phrase auto-replies.
package llm

import (
	"context"
	"errors"
)

// CompletionRequest represents a completion request.
type CompletionRequest struct {
	Model       string
	Messages    []ChatMessage
	MaxTokens   int
	Temperature float64
}

// ChatMessage represents a chat message for LLM.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Roles understood by both providers.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// CompletionResponse represents a completion response.
type CompletionResponse struct {
	Content    string
	Model      string
	TokensIn   int
	TokensOut  int
	StopReason string
	LatencyMs  int64
}

// Client is the interface for LLM providers.
type Client interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name.
	Name() string

	// Models returns available models.
	Models() []string
}

// Provider is the type of LLM provider.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// ErrNoAPIKey is returned when no provider key is configured.
var ErrNoAPIKey = errors.New("no LLM API key configured")

// NewClient creates a new LLM client based on provider.
func NewClient(provider Provider, apiKey string) (Client, error) {
	switch provider {
	case ProviderAnthropic:
		return NewAnthropicClient(apiKey)
	case ProviderOpenAI:
		return NewOpenAIClient(apiKey)
	default:
		return NewAnthropicClient(apiKey)
	}
}

// FromKeys picks a provider from whichever key is set, preferring Anthropic.
func FromKeys(anthropicKey, openaiKey string) (Client, error) {
	switch {
	case anthropicKey != "":
		return NewClient(ProviderAnthropic, anthropicKey)
	case openaiKey != "":
		return NewClient(ProviderOpenAI, openaiKey)
	default:
		return nil, ErrNoAPIKey
	}
}
