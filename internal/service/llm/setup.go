package llm

import (
	"fmt"
	"log/slog"

	"studyplan/internal/capabilities"
	"studyplan/internal/config"
)

// SetupProviders builds the provider registry and reports which of the
// allow-list's providers can actually be reached with the current config.
func SetupProviders(cfg *config.Config, models *capabilities.Registry, logger *slog.Logger) (*ProviderRegistry, error) {
	registry := NewProviderRegistry(NewProviderFactory(cfg))
	if err := registry.Validate(); err != nil {
		return nil, fmt.Errorf("provider registry validation failed: %w", err)
	}

	for _, name := range models.Providers() {
		switch name {
		case "anthropic":
			if cfg.AnthropicAPIKey == "" {
				logger.Warn("ANTHROPIC_API_KEY not set - anthropic models will fail")
				continue
			}
		}
		logger.Info("provider available", "name", name)
	}

	return registry, nil
}
