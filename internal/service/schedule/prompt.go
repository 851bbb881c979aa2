package schedule

import (
	"bytes"
	"encoding/json"
	"strings"

	models "studyplan/internal/domain/models/schedule"
)

const baseSystemPrompt = `You convert study briefs into conflict-free study schedules.
Respect constraints if present: timezone, start_date, days_of_week, session_length_min,
max_daily_minutes, consecutive_days. duration_min is a whole number of minutes, at least 1.
Give every session and subsection a short unique id.`

// systemPrompt states the output controls in words. The schema cannot make
// fields conditionally required, so these rules are instructions only.
func systemPrompt(c models.ResolvedControls) string {
	var b strings.Builder
	b.WriteString(baseSystemPrompt)
	b.WriteString("\n\nOutput rules:\n")

	if c.IncludeDescriptions {
		b.WriteString("- description: one or two sentences on what to study.\n")
	} else {
		b.WriteString("- Omit descriptions: use an empty string for every description.\n")
	}
	if c.IncludeLinks {
		b.WriteString("- materials: real, specific resources; prefer full https URLs.\n")
	} else {
		b.WriteString("- Omit materials: use an empty array for every materials list.\n")
	}
	if c.IncludeSubsections {
		b.WriteString("- subsections: split longer sessions into 2-4 subsections whose durations add up to the session.\n")
	} else {
		b.WriteString("- Omit subsections: use an empty array for every subsections list.\n")
	}
	return b.String()
}

// userPrompt embeds the brief and the constraints verbatim.
func userPrompt(brief string, constraints json.RawMessage) string {
	var b strings.Builder
	b.WriteString("Brief:\n")
	b.WriteString(brief)
	b.WriteString("\n\nConstraints:\n")
	b.WriteString(formatConstraints(constraints))
	b.WriteString("\nReturn ONLY JSON matching the schema.")
	return b.String()
}

func formatConstraints(raw json.RawMessage) string {
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return "{}"
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return string(raw)
	}
	return out.String()
}
