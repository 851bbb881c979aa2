package llm

import (
	"fmt"
	"sync"

	domainllm "studyplan/internal/domain/services/llm"
)

// ProviderRegistry creates providers on first use and caches them.
type ProviderRegistry struct {
	factory *ProviderFactory
	cache   map[string]domainllm.Completer // Cache provider instances
	mu      sync.RWMutex
}

// NewProviderRegistry creates a new provider registry.
func NewProviderRegistry(factory *ProviderFactory) *ProviderRegistry {
	return &ProviderRegistry{
		factory: factory,
		cache:   make(map[string]domainllm.Completer),
	}
}

// GetProvider returns the Completer for the given provider name.
func (r *ProviderRegistry) GetProvider(provider string) (domainllm.Completer, error) {
	if provider == "" {
		return nil, fmt.Errorf("provider cannot be empty")
	}

	// Fast path: check cache with read lock
	r.mu.RLock()
	if cached, exists := r.cache[provider]; exists {
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another goroutine may have created the provider while we waited for the lock
	if cached, exists := r.cache[provider]; exists {
		return cached, nil
	}

	completer, err := r.factory.GetProvider(provider)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider '%s': %w", provider, err)
	}

	r.cache[provider] = completer
	return completer, nil
}

// Register installs a provider directly, bypassing the factory.
func (r *ProviderRegistry) Register(provider string, c domainllm.Completer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[provider] = c
}

// Validate checks if the factory is properly configured.
// Should be called at startup to fail fast if misconfigured.
func (r *ProviderRegistry) Validate() error {
	if r.factory == nil {
		return fmt.Errorf("provider factory is not configured")
	}
	return nil
}
