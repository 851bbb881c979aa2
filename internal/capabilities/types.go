package capabilities

import "gopkg.in/yaml.v3"

// ModelCapabilities describes one allowed model
type ModelCapabilities struct {
	// Model identifier (set during YAML unmarshaling)
	ID string `yaml:"-" json:"id"`

	Provider    string `yaml:"provider" json:"provider"`
	DisplayName string `yaml:"display_name" json:"display_name"`
	Description string `yaml:"description" json:"description"`

	// SupportsTemperature is false for models that reject a non-default
	// temperature; the request then omits the parameter.
	SupportsTemperature bool `yaml:"supports_temperature" json:"supports_temperature"`

	MaxOutput int `yaml:"max_output" json:"max_output"`

	// DevOnly models are hidden unless the registry is built with dev models enabled.
	DevOnly bool `yaml:"dev_only" json:"dev_only,omitempty"`

	// Default is set by the registry, not the YAML.
	Default bool `yaml:"-" json:"default"`
}

// AllowList is the parsed models.yaml
type AllowList struct {
	DefaultModel string              `yaml:"default" json:"default"`
	Models       []ModelCapabilities `yaml:"-" json:"models"` // Ordered slice, populated by custom unmarshaler
}

// UnmarshalYAML implements custom YAML unmarshaling to preserve model order from YAML file
func (a *AllowList) UnmarshalYAML(node *yaml.Node) error {
	type withMap struct {
		DefaultModel string                       `yaml:"default"`
		Models       map[string]ModelCapabilities `yaml:"models"`
	}
	var m withMap
	if err := node.Decode(&m); err != nil {
		return err
	}
	a.DefaultModel = m.DefaultModel

	// Extract model keys in YAML order and build the slice
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "models" {
			continue
		}
		modelsNode := node.Content[i+1]
		// modelsNode.Content alternates: key, value, key, value...
		for j := 0; j+1 < len(modelsNode.Content); j += 2 {
			modelID := modelsNode.Content[j].Value
			if model, ok := m.Models[modelID]; ok {
				model.ID = modelID
				a.Models = append(a.Models, model)
			}
		}
		break
	}

	return nil
}
