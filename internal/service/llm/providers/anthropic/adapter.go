package anthropic

import (
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	domainllm "studyplan/internal/domain/services/llm"
)

const defaultMaxTokens = 4096

func toolName(req *domainllm.CompletionRequest) string {
	if req.SchemaName != "" {
		return req.SchemaName
	}
	return "emit_result"
}

// buildParams converts a completion request to SDK parameters.
func buildParams(req *domainllm.CompletionRequest) (anthropic.MessageNewParams, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	apiParams := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}

	if req.System != "" {
		apiParams.System = []anthropic.TextBlockParam{
			{
				Type: "text",
				Text: req.System,
			},
		}
	}

	// Temperature is left unset for models that only accept the default
	if req.Temperature != nil {
		apiParams.Temperature = anthropic.Float(*req.Temperature)
	}

	if req.Schema != nil {
		schema, err := convertSchema(req.Schema)
		if err != nil {
			return apiParams, err
		}
		name := toolName(req)
		apiParams.Tools = []anthropic.ToolUnionParam{
			{
				OfTool: &anthropic.ToolParam{
					Name:        name,
					Description: anthropic.String("Return the result as the input of this tool."),
					InputSchema: schema,
				},
			},
		}
		apiParams.ToolChoice = anthropic.ToolChoiceParamOfTool(name)
	}

	return apiParams, nil
}

// convertSchema splits a root object schema into the SDK's input schema
// shape. Keys other than type/properties/required travel as extra fields.
func convertSchema(schema map[string]any) (anthropic.ToolInputSchemaParam, error) {
	var out anthropic.ToolInputSchemaParam
	if t, ok := schema["type"]; ok && t != "object" {
		return out, fmt.Errorf("root schema must be an object, got %v", t)
	}

	out.Properties = schema["properties"]
	switch req := schema["required"].(type) {
	case nil:
	case []string:
		out.Required = req
	case []any:
		for _, r := range req {
			s, ok := r.(string)
			if !ok {
				return out, fmt.Errorf("required entry %v is not a string", r)
			}
			out.Required = append(out.Required, s)
		}
	default:
		return out, fmt.Errorf("required must be a list, got %T", req)
	}

	extra := make(map[string]any)
	for k, v := range schema {
		switch k {
		case "type", "properties", "required":
		default:
			extra[k] = v
		}
	}
	if len(extra) > 0 {
		out.ExtraFields = extra
	}
	return out, nil
}

// convertFromAnthropicResponse converts an Anthropic response to domain
// format. The forced tool call's input is the content; if the model
// answered with text instead, the text is returned for the caller to reject.
func convertFromAnthropicResponse(msg *anthropic.Message, tool string) *domainllm.CompletionResponse {
	var toolInput string
	var text strings.Builder
	for _, content := range msg.Content {
		switch content.Type {
		case "tool_use":
			if content.Name == tool && toolInput == "" {
				toolInput = string(content.Input)
			}
		case "text":
			text.WriteString(content.Text)
		}
	}

	body := toolInput
	if body == "" {
		body = text.String()
	}

	return &domainllm.CompletionResponse{
		Content:      body,
		Model:        string(msg.Model),
		InputTokens:  int(msg.Usage.InputTokens),
		OutputTokens: int(msg.Usage.OutputTokens),
		StopReason:   string(msg.StopReason),
	}
}
