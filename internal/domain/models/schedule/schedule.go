package schedule

import "encoding/json"

// Schedule is the structured study plan returned by the completion model.
type Schedule struct {
	Title    string    `json:"title"`
	Timezone string    `json:"timezone"`
	Sessions []Session `json:"sessions"`
	Notes    string    `json:"notes"`
}

// Session is one study block of a schedule.
type Session struct {
	ID          string       `json:"id"`
	Topic       string       `json:"topic"`
	Description string       `json:"description"`
	DurationMin int          `json:"duration_min"`
	Materials   []string     `json:"materials"`
	Subsections []Subsection `json:"subsections"`
}

// Subsection is a smaller block nested in a session.
type Subsection struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	DurationMin int      `json:"duration_min"`
	Materials   []string `json:"materials"`
}

// Controls toggles optional parts of the generated output.
// Nil fields take the defaults from DefaultControls.
type Controls struct {
	IncludeLinks        *bool `json:"include_links,omitempty"`
	IncludeDescriptions *bool `json:"include_descriptions,omitempty"`
	IncludeSubsections  *bool `json:"include_subsections,omitempty"`
}

// ResolvedControls is Controls with defaults applied.
type ResolvedControls struct {
	IncludeLinks        bool
	IncludeDescriptions bool
	IncludeSubsections  bool
}

// DefaultControls returns the defaults for unset controls.
func DefaultControls() ResolvedControls {
	return ResolvedControls{
		IncludeLinks:        true,
		IncludeDescriptions: true,
		IncludeSubsections:  false,
	}
}

// Resolve applies defaults to unset fields.
func (c *Controls) Resolve() ResolvedControls {
	out := DefaultControls()
	if c == nil {
		return out
	}
	if c.IncludeLinks != nil {
		out.IncludeLinks = *c.IncludeLinks
	}
	if c.IncludeDescriptions != nil {
		out.IncludeDescriptions = *c.IncludeDescriptions
	}
	if c.IncludeSubsections != nil {
		out.IncludeSubsections = *c.IncludeSubsections
	}
	return out
}

// GenerateRequest is the gateway input.
type GenerateRequest struct {
	Brief       string          `json:"brief"`
	Constraints json.RawMessage `json:"constraints,omitempty"` // opaque, forwarded as-is
	Model       string          `json:"model,omitempty"`
	Controls    *Controls       `json:"controls,omitempty"`
}

// GenerateResponse is the gateway success payload.
type GenerateResponse struct {
	OK       bool      `json:"ok"`
	Schedule *Schedule `json:"schedule"`
	Model    string    `json:"model"`
}

// TotalMinutes sums session durations.
func (s *Schedule) TotalMinutes() int {
	total := 0
	for _, sess := range s.Sessions {
		total += sess.DurationMin
	}
	return total
}
