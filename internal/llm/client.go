// Package llm provides interfaces and types for LLM-based model generation
// and edit proposals. It supports Anthropic and OpenAI-compatible backends
// (including Mistral) plus a placeholder implementation used when no
// provider is configured or a provider call fails.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/gyxcit/simdecision/internal/model"
	"github.com/gyxcit/simdecision/internal/proposal"
)

// ClientConfig configures an LLM client.
type ClientConfig struct {
	// Provider identifies the LLM backend: "anthropic", "openai", "mistral",
	// or "" for the placeholder client.
	Provider string `json:"provider" yaml:"provider"`

	// APIKey is the API key for the provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL is the API endpoint URL. Used for Mistral or custom
	// OpenAI-compatible endpoints.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Model is the model identifier to use for requests.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	// Timeout is the maximum duration to wait for a response.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// DefaultConfig returns a ClientConfig with sensible defaults.
func DefaultConfig() ClientConfig {
	return ClientConfig{
		Provider: "",
		Timeout:  30 * time.Second,
	}
}

// Client defines the interface for LLM-backed model operations.
type Client interface {
	// GenerateModel produces a complete causal model from a natural-language
	// description of a decision problem.
	GenerateModel(ctx context.Context, description string) (*model.SystemModel, error)

	// ProposeEdit asks for a set of model changes satisfying a free-text
	// instruction, scoped to target (an entity or component path, or empty
	// for the whole model). The returned proposal is validated but NOT
	// applied; approval and replay are the caller's responsibility.
	ProposeEdit(ctx context.Context, m *model.SystemModel, target, instruction string) (*proposal.Proposal, error)

	// Available returns true if the client is configured and ready to handle
	// requests. For API-based clients this checks that credentials are present.
	Available() bool
}

// NewClient constructs the client for the configured provider. Mistral uses
// the OpenAI-compatible client with its own base URL. An empty provider
// yields the placeholder client.
func NewClient(config ClientConfig) (Client, error) {
	switch config.Provider {
	case "anthropic":
		return NewAnthropicClient(config), nil
	case "openai", "mistral":
		return NewOpenAIClient(config), nil
	case "":
		return NewPlaceholderClient(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", config.Provider)
	}
}
