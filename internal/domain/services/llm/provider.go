package llm

import (
	"context"
)

// Completer produces one schema-constrained JSON completion.
// Implementations exist per provider (Anthropic, lorem).
type Completer interface {
	// Complete runs a single request. Content in the response is the raw
	// text the model produced; callers parse and validate it.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name (e.g., "anthropic", "lorem")
	Name() string

	// SupportsModel returns true if the provider supports the given model.
	SupportsModel(model string) bool
}

// CompletionRequest contains the parameters for one completion.
type CompletionRequest struct {
	// Model is the model identifier (e.g., "claude-haiku-4-5-20251001")
	Model string

	System string
	Prompt string

	// SchemaName names the output document; providers that force a tool
	// call use it as the tool name.
	SchemaName string

	// Schema is a JSON Schema the output must match.
	Schema map[string]any

	// Temperature is omitted from the request when nil.
	Temperature *float64

	MaxTokens int
}

// CompletionResponse is what the provider returned.
type CompletionResponse struct {
	Content      string
	Model        string
	InputTokens  int
	OutputTokens int
	StopReason   string
}

// ProviderResolver returns the Completer for a provider name.
type ProviderResolver interface {
	GetProvider(provider string) (Completer, error)
}
