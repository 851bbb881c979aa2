package llm

import (
	"context"
	"sync"
	"testing"

	"studyplan/internal/config"
	domainllm "studyplan/internal/domain/services/llm"
)

type stubCompleter struct{ name string }

func (s *stubCompleter) Complete(context.Context, *domainllm.CompletionRequest) (*domainllm.CompletionResponse, error) {
	return &domainllm.CompletionResponse{Content: "{}"}, nil
}
func (s *stubCompleter) Name() string               { return s.name }
func (s *stubCompleter) SupportsModel(string) bool { return true }

func TestProviderRegistry_CachesInstances(t *testing.T) {
	r := NewProviderRegistry(NewProviderFactory(&config.Config{}))

	var wg sync.WaitGroup
	got := make([]domainllm.Completer, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := r.GetProvider("lorem")
			if err != nil {
				t.Errorf("GetProvider() error = %v", err)
			}
			got[i] = c
		}(i)
	}
	wg.Wait()

	for i := range got {
		if got[i] != got[0] {
			t.Fatal("GetProvider returned different instances")
		}
	}
}

func TestProviderRegistry_Errors(t *testing.T) {
	r := NewProviderRegistry(NewProviderFactory(&config.Config{}))

	if _, err := r.GetProvider(""); err == nil {
		t.Error("expected error for empty provider")
	}
	if _, err := r.GetProvider("openai"); err == nil {
		t.Error("expected error for unsupported provider")
	}
	if _, err := r.GetProvider("anthropic"); err == nil {
		t.Error("expected error without ANTHROPIC_API_KEY")
	}
}

func TestProviderRegistry_Register(t *testing.T) {
	r := NewProviderRegistry(nil)
	stub := &stubCompleter{name: "anthropic"}
	r.Register("anthropic", stub)

	c, err := r.GetProvider("anthropic")
	if err != nil {
		t.Fatal(err)
	}
	if c != stub {
		t.Error("registered provider not returned")
	}
	if err := r.Validate(); err == nil {
		t.Error("Validate() should fail without a factory")
	}
}
