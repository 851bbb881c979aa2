package schedule

import (
	"sort"
)

// SchemaName is the name of the output document sent to the model.
const SchemaName = "study_schedule"

func stringProp(description string) map[string]any {
	p := map[string]any{"type": "string"}
	if description != "" {
		p["description"] = description
	}
	return p
}

func stringList(description string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": description,
	}
}

func durationProp() map[string]any {
	return map[string]any{
		"type":        "integer",
		"minimum":     1,
		"description": "Whole minutes, at least 1",
	}
}

// BuildSchema returns the JSON Schema for a schedule. Every object node is
// closed and lists all of its properties as required.
func BuildSchema() map[string]any {
	subsection := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":           stringProp(""),
			"name":         stringProp(""),
			"description":  stringProp(""),
			"duration_min": durationProp(),
			"materials":    stringList("Links or references"),
		},
	}

	session := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":           stringProp(""),
			"topic":        stringProp(""),
			"description":  stringProp(""),
			"duration_min": durationProp(),
			"materials":    stringList("Links or references"),
			"subsections": map[string]any{
				"type":  "array",
				"items": subsection,
			},
		},
	}

	root := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":    stringProp(""),
			"timezone": stringProp("IANA timezone name"),
			"sessions": map[string]any{
				"type":  "array",
				"items": session,
			},
			"notes": stringProp(""),
		},
	}

	closeObjects(root)
	return root
}

// closeObjects walks the schema and, on every object node, forbids extra
// properties and marks every declared property as required.
func closeObjects(node map[string]any) {
	if node["type"] == "object" {
		node["additionalProperties"] = false
		props, _ := node["properties"].(map[string]any)
		required := make([]string, 0, len(props))
		for name := range props {
			required = append(required, name)
		}
		sort.Strings(required)
		node["required"] = required
	}

	if props, ok := node["properties"].(map[string]any); ok {
		for _, child := range props {
			if c, ok := child.(map[string]any); ok {
				closeObjects(c)
			}
		}
	}
	if items, ok := node["items"].(map[string]any); ok {
		closeObjects(items)
	}
}
