package schedule

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"studyplan/internal/capabilities"
	"studyplan/internal/domain"
	models "studyplan/internal/domain/models/schedule"
	domainllm "studyplan/internal/domain/services/llm"
)

type fakeCompleter struct {
	content string
	err     error
	calls   int
	last    *domainllm.CompletionRequest
}

func (f *fakeCompleter) Complete(_ context.Context, req *domainllm.CompletionRequest) (*domainllm.CompletionResponse, error) {
	f.calls++
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &domainllm.CompletionResponse{Content: f.content, Model: req.Model}, nil
}

func (f *fakeCompleter) Name() string                { return "fake" }
func (f *fakeCompleter) SupportsModel(m string) bool { return true }

type fakeResolver struct {
	completer domainllm.Completer
	err       error
	asked     []string
}

func (r *fakeResolver) GetProvider(provider string) (domainllm.Completer, error) {
	r.asked = append(r.asked, provider)
	if r.err != nil {
		return nil, r.err
	}
	return r.completer, nil
}

const validSchedule = `{
	"title": "Calculus",
	"timezone": "Europe/Berlin",
	"sessions": [
		{"id": "s1", "topic": "Limits", "description": "intro", "duration_min": 0,
		 "materials": ["https://example.com/limits"],
		 "subsections": [{"id": "s1a", "name": "Warmup", "description": "d", "duration_min": 10, "materials": ["x"]}]},
		{"id": "s2", "topic": "Derivatives", "description": "rules", "duration_min": 45, "materials": null, "subsections": null}
	],
	"notes": "bring coffee"
}`

func newTestService(t *testing.T, c *fakeCompleter) (*Service, *fakeResolver, *bytes.Buffer) {
	t.Helper()
	reg, err := capabilities.NewRegistry(true)
	if err != nil {
		t.Fatal(err)
	}
	res := &fakeResolver{completer: c}
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	svc := NewService(reg, res, 0, logger).(*Service)
	return svc, res, &logs
}

func TestGenerate_Success(t *testing.T) {
	c := &fakeCompleter{content: validSchedule}
	svc, _, _ := newTestService(t, c)

	resp, err := svc.Generate(context.Background(), "user-1", &models.GenerateRequest{
		Brief:       "  Learn calculus in two weeks  ",
		Constraints: json.RawMessage(`{"max_daily_minutes": 90}`),
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !resp.OK || resp.Model == "" {
		t.Errorf("resp = %+v", resp)
	}
	if resp.Schedule.Title != "Calculus" || len(resp.Schedule.Sessions) != 2 {
		t.Fatalf("schedule = %+v", resp.Schedule)
	}

	first := resp.Schedule.Sessions[0]
	if first.DurationMin != 1 {
		t.Errorf("duration_min = %d, want clamped to 1", first.DurationMin)
	}
	if len(first.Subsections) != 0 {
		t.Errorf("subsections kept although disabled by default: %+v", first.Subsections)
	}
	second := resp.Schedule.Sessions[1]
	if second.Materials == nil || second.Subsections == nil {
		t.Error("nil lists not replaced")
	}

	if !strings.Contains(c.last.Prompt, "Learn calculus in two weeks\n") {
		t.Errorf("brief not trimmed into prompt: %q", c.last.Prompt)
	}
	if !strings.Contains(c.last.Prompt, `"max_daily_minutes": 90`) {
		t.Errorf("constraints not forwarded: %q", c.last.Prompt)
	}
	if c.last.SchemaName != SchemaName || c.last.Schema == nil {
		t.Error("schema not sent")
	}
}

func TestGenerate_Unauthenticated(t *testing.T) {
	c := &fakeCompleter{content: validSchedule}
	svc, _, _ := newTestService(t, c)

	_, err := svc.Generate(context.Background(), "", &models.GenerateRequest{Brief: "x"})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
	if c.calls != 0 {
		t.Error("model called for unauthenticated request")
	}
}

// Bad input fails before any provider call.
func TestGenerate_EmptyBrief(t *testing.T) {
	tests := []struct {
		name string
		req  *models.GenerateRequest
	}{
		{"empty", &models.GenerateRequest{Brief: "", Constraints: json.RawMessage(`{}`)}},
		{"blank", &models.GenerateRequest{Brief: "   \n\t"}},
		{"nil request", nil},
		{"too long", &models.GenerateRequest{Brief: strings.Repeat("a", 8001)}},
		{"bad constraints", &models.GenerateRequest{Brief: "ok", Constraints: json.RawMessage(`{not json`)}},
		{"array constraints", &models.GenerateRequest{Brief: "ok", Constraints: json.RawMessage(`[1]`)}},
		{"string constraints", &models.GenerateRequest{Brief: "ok", Constraints: json.RawMessage(`"x"`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &fakeCompleter{content: validSchedule}
			svc, res, _ := newTestService(t, c)

			_, err := svc.Generate(context.Background(), "user-1", tt.req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
			if c.calls != 0 || len(res.asked) != 0 {
				t.Error("provider touched before validation passed")
			}
		})
	}
}

// Non-JSON output is an internal error with no retry.
func TestGenerate_NonJSONOutput(t *testing.T) {
	long := "Sure! Here is a plan for you: " + strings.Repeat("é", 500)
	c := &fakeCompleter{content: long}
	svc, _, logs := newTestService(t, c)

	_, err := svc.Generate(context.Background(), "user-1", &models.GenerateRequest{Brief: "plan"})
	if !errors.Is(err, domain.ErrInternal) {
		t.Fatalf("error = %v, want ErrInternal", err)
	}
	if err.Error() != msgInvalidJSON {
		t.Errorf("message = %q, want %q", err.Error(), msgInvalidJSON)
	}
	if c.calls != 1 {
		t.Errorf("model called %d times, want exactly 1", c.calls)
	}

	var entry struct {
		Msg     string `json:"msg"`
		Snippet string `json:"content_snippet"`
	}
	found := false
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		if err := json.Unmarshal([]byte(line), &entry); err == nil && entry.Msg == "JSON parse failed" {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("parse failure not logged: %s", logs.String())
	}
	if n := len([]rune(entry.Snippet)); n != snippetRunes {
		t.Errorf("snippet length = %d runes, want %d", n, snippetRunes)
	}
}

func TestGenerate_ProviderErrorIsGeneric(t *testing.T) {
	c := &fakeCompleter{err: fmt.Errorf("dial tcp: secret-host:443 refused")}
	svc, _, _ := newTestService(t, c)

	_, err := svc.Generate(context.Background(), "user-1", &models.GenerateRequest{Brief: "plan"})
	if !errors.Is(err, domain.ErrInternal) {
		t.Fatalf("error = %v, want ErrInternal", err)
	}
	if strings.Contains(err.Error(), "secret-host") {
		t.Errorf("internal detail leaked: %q", err.Error())
	}
	if c.calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry)", c.calls)
	}
}

func TestGenerate_ProviderUnavailable(t *testing.T) {
	svc, res, _ := newTestService(t, &fakeCompleter{})
	res.err = errors.New("ANTHROPIC_API_KEY environment variable not set")

	_, err := svc.Generate(context.Background(), "user-1", &models.GenerateRequest{Brief: "plan"})
	if !errors.Is(err, domain.ErrInternal) {
		t.Errorf("error = %v, want ErrInternal", err)
	}
}

func TestGenerate_ModelResolution(t *testing.T) {
	tests := []struct {
		name      string
		requested string
		wantModel string
		wantTemp  bool
	}{
		{"default", "", "claude-haiku-4-5-20251001", true},
		{"unknown falls back", "gpt-4o-mini", "claude-haiku-4-5-20251001", true},
		{"allowed", "claude-sonnet-4-5-20250929", "claude-sonnet-4-5-20250929", true},
		{"no temperature", "claude-opus-4-1-20250805", "claude-opus-4-1-20250805", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &fakeCompleter{content: validSchedule}
			svc, res, _ := newTestService(t, c)

			resp, err := svc.Generate(context.Background(), "u", &models.GenerateRequest{Brief: "b", Model: tt.requested})
			if err != nil {
				t.Fatal(err)
			}
			if resp.Model != tt.wantModel || c.last.Model != tt.wantModel {
				t.Errorf("model = %s/%s, want %s", resp.Model, c.last.Model, tt.wantModel)
			}
			if (c.last.Temperature != nil) != tt.wantTemp {
				t.Errorf("temperature set = %v, want %v", c.last.Temperature != nil, tt.wantTemp)
			}
			if c.last.Temperature != nil && *c.last.Temperature != defaultTemperature {
				t.Errorf("temperature = %v", *c.last.Temperature)
			}
			if res.asked[0] != "anthropic" {
				t.Errorf("provider = %s, want anthropic", res.asked[0])
			}
		})
	}
}

func TestGenerate_Controls(t *testing.T) {
	yes, no := true, false
	c := &fakeCompleter{content: validSchedule}
	svc, _, _ := newTestService(t, c)

	resp, err := svc.Generate(context.Background(), "u", &models.GenerateRequest{
		Brief: "b",
		Controls: &models.Controls{
			IncludeLinks:        &no,
			IncludeDescriptions: &no,
			IncludeSubsections:  &yes,
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	first := resp.Schedule.Sessions[0]
	if first.Description != "" || len(first.Materials) != 0 {
		t.Errorf("disabled parts kept: %+v", first)
	}
	if len(first.Subsections) != 1 {
		t.Fatalf("subsections = %+v, want 1", first.Subsections)
	}
	if sub := first.Subsections[0]; sub.Description != "" || len(sub.Materials) != 0 {
		t.Errorf("subsection parts kept: %+v", sub)
	}

	if !strings.Contains(c.last.System, "Omit descriptions") || !strings.Contains(c.last.System, "Omit materials") {
		t.Errorf("controls missing from system prompt: %q", c.last.System)
	}
	if strings.Contains(c.last.System, "Omit subsections") {
		t.Error("subsections wrongly disabled in prompt")
	}
}

func TestBuildSchema_ClosesEveryObject(t *testing.T) {
	schema := BuildSchema()

	var walk func(path string, node map[string]any)
	objects := 0
	walk = func(path string, node map[string]any) {
		if node["type"] == "object" {
			objects++
			if node["additionalProperties"] != false {
				t.Errorf("%s: additionalProperties = %v", path, node["additionalProperties"])
			}
			props := node["properties"].(map[string]any)
			required := node["required"].([]string)
			if len(required) != len(props) {
				t.Errorf("%s: required %v does not cover %d properties", path, required, len(props))
			}
			for _, r := range required {
				if _, ok := props[r]; !ok {
					t.Errorf("%s: required %q is not a property", path, r)
				}
			}
		}
		if props, ok := node["properties"].(map[string]any); ok {
			for k, v := range props {
				walk(path+"."+k, v.(map[string]any))
			}
		}
		if items, ok := node["items"].(map[string]any); ok {
			walk(path+"[]", items)
		}
	}
	walk("$", schema)

	if objects != 3 {
		t.Errorf("object nodes = %d, want 3 (root, session, subsection)", objects)
	}
	if _, err := json.Marshal(schema); err != nil {
		t.Errorf("schema is not serializable: %v", err)
	}
}

func TestSnippet(t *testing.T) {
	if got := snippet("héllo", 2); got != "hé" {
		t.Errorf("snippet = %q", got)
	}
	if got := snippet("ok", 10); got != "ok" {
		t.Errorf("snippet = %q", got)
	}
}
