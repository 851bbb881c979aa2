package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"

	domainllm "studyplan/internal/domain/services/llm"
)

func newTestProvider(t *testing.T, reply string, captured *map[string]any) *Provider {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if captured != nil {
			if err := json.Unmarshal(body, captured); err != nil {
				t.Errorf("request body is not JSON: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)

	p, err := NewProvider("test-key", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	if err != nil {
		t.Fatal(err)
	}
	return p
}

const toolReply = `{
	"id": "msg_1",
	"type": "message",
	"role": "assistant",
	"model": "claude-haiku-4-5-20251001",
	"content": [
		{"type": "tool_use", "id": "toolu_1", "name": "study_schedule", "input": {"title": "Plan", "sessions": []}}
	],
	"stop_reason": "tool_use",
	"stop_sequence": null,
	"usage": {"input_tokens": 12, "output_tokens": 34}
}`

func TestComplete_ForcedToolCall(t *testing.T) {
	var sent map[string]any
	p := newTestProvider(t, toolReply, &sent)

	schema := map[string]any{
		"type":                 "object",
		"properties":           map[string]any{"title": map[string]any{"type": "string"}},
		"required":             []string{"title"},
		"additionalProperties": false,
	}
	resp, err := p.Complete(context.Background(), &domainllm.CompletionRequest{
		Model:      "claude-haiku-4-5-20251001",
		System:     "sys",
		Prompt:     "brief",
		SchemaName: "study_schedule",
		Schema:     schema,
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(resp.Content), &out); err != nil {
		t.Fatalf("Content is not JSON: %q", resp.Content)
	}
	if out["title"] != "Plan" {
		t.Errorf("title = %v, want Plan", out["title"])
	}
	if resp.InputTokens != 12 || resp.OutputTokens != 34 {
		t.Errorf("usage = %d/%d", resp.InputTokens, resp.OutputTokens)
	}

	if _, ok := sent["temperature"]; ok {
		t.Error("temperature sent although none was requested")
	}
	choice, _ := sent["tool_choice"].(map[string]any)
	if choice["type"] != "tool" || choice["name"] != "study_schedule" {
		t.Errorf("tool_choice = %v", sent["tool_choice"])
	}
	tools, _ := sent["tools"].([]any)
	if len(tools) != 1 {
		t.Fatalf("tools = %v", sent["tools"])
	}
	input, _ := tools[0].(map[string]any)["input_schema"].(map[string]any)
	if input["additionalProperties"] != false {
		t.Errorf("input_schema.additionalProperties = %v, want false", input["additionalProperties"])
	}
}

func TestComplete_SendsTemperatureWhenSet(t *testing.T) {
	var sent map[string]any
	p := newTestProvider(t, toolReply, &sent)

	temp := 0.2
	_, err := p.Complete(context.Background(), &domainllm.CompletionRequest{
		Model:       "claude-haiku-4-5-20251001",
		Prompt:      "brief",
		Temperature: &temp,
		Schema:      map[string]any{"type": "object", "properties": map[string]any{}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if sent["temperature"] != 0.2 {
		t.Errorf("temperature = %v, want 0.2", sent["temperature"])
	}
}

func TestComplete_TextFallback(t *testing.T) {
	reply := `{
		"id": "msg_2", "type": "message", "role": "assistant",
		"model": "claude-haiku-4-5-20251001",
		"content": [{"type": "text", "text": "Sure! Here is your plan"}],
		"stop_reason": "end_turn", "stop_sequence": null,
		"usage": {"input_tokens": 1, "output_tokens": 1}
	}`
	p := newTestProvider(t, reply, nil)

	resp, err := p.Complete(context.Background(), &domainllm.CompletionRequest{
		Model:  "claude-haiku-4-5-20251001",
		Prompt: "brief",
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Content != "Sure! Here is your plan" {
		t.Errorf("Content = %q", resp.Content)
	}
}

func TestComplete_RejectsForeignModel(t *testing.T) {
	p := newTestProvider(t, toolReply, nil)
	if _, err := p.Complete(context.Background(), &domainllm.CompletionRequest{Model: "gpt-4o-mini"}); err == nil {
		t.Error("expected error for non-claude model")
	}
}

func TestConvertSchema(t *testing.T) {
	got, err := convertSchema(map[string]any{
		"type":                 "object",
		"properties":           map[string]any{"a": map[string]any{"type": "string"}},
		"required":             []any{"a"},
		"additionalProperties": false,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Required) != 1 || got.Required[0] != "a" {
		t.Errorf("Required = %v", got.Required)
	}
	if got.ExtraFields["additionalProperties"] != false {
		t.Errorf("ExtraFields = %v", got.ExtraFields)
	}

	if _, err := convertSchema(map[string]any{"type": "array"}); err == nil {
		t.Error("expected error for non-object root")
	}
}
