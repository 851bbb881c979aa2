package capabilities

import "testing"

func TestNewRegistry_Embedded(t *testing.T) {
	r, err := NewRegistry(false)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	for _, m := range r.ListModels() {
		if m.DevOnly {
			t.Errorf("dev-only model %s listed", m.ID)
		}
	}
	if _, err := r.GetModelCapabilities(r.DefaultModel()); err != nil {
		t.Errorf("default model not allowed: %v", err)
	}

	dev, err := NewRegistry(true)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := dev.GetModelCapabilities("lorem-fast"); err != nil {
		t.Errorf("lorem-fast missing with dev models enabled: %v", err)
	}
}

const testYAML = `
default: b
models:
  c:
    provider: p2
    supports_temperature: false
  b:
    provider: p1
    supports_temperature: true
  x:
    provider: dev
    dev_only: true
`

func TestResolve(t *testing.T) {
	r, err := parseRegistry([]byte(testYAML), false)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		requested string
		want      string
		wantExact bool
	}{
		{"allowed", "c", "c", true},
		{"empty", "", "b", false},
		{"unknown", "gpt-4o-mini", "b", false},
		{"dev hidden", "x", "b", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, exact := r.Resolve(tt.requested)
			if got.ID != tt.want || exact != tt.wantExact {
				t.Errorf("Resolve(%q) = %s/%v, want %s/%v", tt.requested, got.ID, exact, tt.want, tt.wantExact)
			}
		})
	}
}

func TestListModels_KeepsYAMLOrder(t *testing.T) {
	r, err := parseRegistry([]byte(testYAML), true)
	if err != nil {
		t.Fatal(err)
	}
	models := r.ListModels()
	if len(models) != 3 || models[0].ID != "c" || models[1].ID != "b" || models[2].ID != "x" {
		t.Fatalf("order = %+v", models)
	}
	if !models[1].Default || models[0].Default {
		t.Error("Default flag not set on b only")
	}
	if got := r.Providers(); len(got) != 3 || got[0] != "p2" {
		t.Errorf("Providers() = %v", got)
	}
}

func TestWithDefault(t *testing.T) {
	r, err := parseRegistry([]byte(testYAML), false)
	if err != nil {
		t.Fatal(err)
	}

	c := r.WithDefault("c")
	if c.DefaultModel() != "c" {
		t.Errorf("DefaultModel() = %s, want c", c.DefaultModel())
	}
	if r.DefaultModel() != "b" {
		t.Error("WithDefault mutated the original registry")
	}
	if got := r.WithDefault("nope"); got != r {
		t.Error("unknown default should return the same registry")
	}
}

func TestParseRegistry_BadDefaultFallsBackToFirst(t *testing.T) {
	r, err := parseRegistry([]byte("default: missing\nmodels:\n  a:\n    provider: p\n"), false)
	if err != nil {
		t.Fatal(err)
	}
	if r.DefaultModel() != "a" {
		t.Errorf("DefaultModel() = %s, want a", r.DefaultModel())
	}
}

func TestParseRegistry_Empty(t *testing.T) {
	if _, err := parseRegistry([]byte("default: a\nmodels: {}\n"), false); err == nil {
		t.Error("expected error for empty allow-list")
	}
}
