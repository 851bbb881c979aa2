package capabilities

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Registry is the model allow-list. It is immutable after construction and
// safe for concurrent use.
type Registry struct {
	models       []ModelCapabilities
	byID         map[string]int
	defaultModel string
}

// NewRegistry loads the embedded allow-list. Dev-only models are kept only
// when includeDev is true.
func NewRegistry(includeDev bool) (*Registry, error) {
	data, err := configFiles.ReadFile("config/models.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read models.yaml: %w", err)
	}
	return parseRegistry(data, includeDev)
}

func parseRegistry(data []byte, includeDev bool) (*Registry, error) {
	var list AllowList
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to unmarshal models.yaml: %w", err)
	}

	r := &Registry{byID: make(map[string]int)}
	for _, m := range list.Models {
		if m.DevOnly && !includeDev {
			continue
		}
		r.byID[m.ID] = len(r.models)
		r.models = append(r.models, m)
	}
	if len(r.models) == 0 {
		return nil, fmt.Errorf("models.yaml lists no usable models")
	}

	r.defaultModel = list.DefaultModel
	if _, ok := r.byID[r.defaultModel]; !ok {
		r.defaultModel = r.models[0].ID
	}
	r.models[r.byID[r.defaultModel]].Default = true

	return r, nil
}

// WithDefault returns a copy of the registry whose default is model, if the
// model is allowed. Otherwise the registry is returned unchanged.
func (r *Registry) WithDefault(model string) *Registry {
	idx, ok := r.byID[model]
	if !ok || model == r.defaultModel {
		return r
	}
	c := &Registry{
		models:       make([]ModelCapabilities, len(r.models)),
		byID:         r.byID,
		defaultModel: model,
	}
	copy(c.models, r.models)
	for i := range c.models {
		c.models[i].Default = i == idx
	}
	return c
}

// Resolve maps a requested model id to an allowed one. Missing or unknown
// ids fall back to the default; the second result reports whether the
// requested id was used as-is.
func (r *Registry) Resolve(model string) (ModelCapabilities, bool) {
	if idx, ok := r.byID[model]; ok {
		return r.models[idx], true
	}
	return r.models[r.byID[r.defaultModel]], false
}

// GetModelCapabilities returns capabilities for a specific model
func (r *Registry) GetModelCapabilities(model string) (*ModelCapabilities, error) {
	idx, ok := r.byID[model]
	if !ok {
		return nil, fmt.Errorf("unknown model %s", model)
	}
	m := r.models[idx]
	return &m, nil
}

// ListModels returns all allowed models (ordered as defined in YAML)
func (r *Registry) ListModels() []ModelCapabilities {
	out := make([]ModelCapabilities, len(r.models))
	copy(out, r.models)
	return out
}

// DefaultModel is the id used when a request names no allowed model.
func (r *Registry) DefaultModel() string { return r.defaultModel }

// Providers returns the distinct providers referenced by allowed models.
func (r *Registry) Providers() []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range r.models {
		if !seen[m.Provider] {
			seen[m.Provider] = true
			out = append(out, m.Provider)
		}
	}
	return out
}
