package lorem

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	loremgen "github.com/bozaro/golorem"

	domainllm "studyplan/internal/domain/services/llm"
)

// Provider is a mock provider that fills the requested schema with lorem
// ipsum. Used for development without real API keys.
type Provider struct {
	mu        sync.Mutex // generator is not safe for concurrent use
	generator *loremgen.Lorem
}

// NewProvider creates a new lorem ipsum provider.
func NewProvider() *Provider {
	return &Provider{
		generator: loremgen.New(),
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "lorem"
}

// SupportsModel returns true if the model name starts with "lorem-".
// Example models: "lorem-fast", "lorem-slow"
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, "lorem-")
}

// Complete generates a document that matches req.Schema. lorem-slow waits
// two seconds first to simulate a hosted model.
func (p *Provider) Complete(ctx context.Context, req *domainllm.CompletionRequest) (*domainllm.CompletionResponse, error) {
	if !p.SupportsModel(req.Model) {
		return nil, fmt.Errorf("model '%s' is not supported by lorem provider", req.Model)
	}

	if delay := getDelay(req.Model); delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	p.mu.Lock()
	value := p.fill("", req.Schema, 0)
	p.mu.Unlock()

	body, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode lorem document: %w", err)
	}

	return &domainllm.CompletionResponse{
		Content:      string(body),
		Model:        req.Model,
		InputTokens:  len(strings.Fields(req.System)) + len(strings.Fields(req.Prompt)),
		OutputTokens: len(strings.Fields(string(body))),
		StopReason:   "end_turn",
	}, nil
}

func getDelay(model string) time.Duration {
	if strings.Contains(model, "slow") {
		return 2 * time.Second
	}
	return 0
}

// fill walks the schema and produces a value of the declared type.
func (p *Provider) fill(name string, schema map[string]any, index int) any {
	if schema == nil {
		return map[string]any{}
	}
	switch schema["type"] {
	case "object":
		props, _ := schema["properties"].(map[string]any)
		keys := make([]string, 0, len(props))
		for k := range props {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(map[string]any, len(props))
		for _, k := range keys {
			child, _ := props[k].(map[string]any)
			out[k] = p.fill(k, child, index)
		}
		return out

	case "array":
		items, _ := schema["items"].(map[string]any)
		n := 2 + index%2
		out := make([]any, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, p.fill(name, items, i))
		}
		return out

	case "integer", "number":
		v := 15 * (index%4 + 1)
		if minimum, ok := schema["minimum"].(int); ok && v < minimum {
			v = minimum
		}
		return v

	case "boolean":
		return index%2 == 0

	default:
		return p.text(name, index)
	}
}

func (p *Provider) text(name string, index int) string {
	switch name {
	case "id":
		return fmt.Sprintf("s%d", index+1)
	case "timezone":
		return "UTC"
	case "description", "notes":
		return p.generator.Sentence(8, 16)
	default:
		return strings.TrimSuffix(p.generator.Sentence(2, 5), ".")
	}
}
