package outline

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

const (
	// DefaultMinutes is used when a stored duration is missing or unusable.
	DefaultMinutes = 5.0
	// MinMinutes is the smallest duration an edit can set.
	MinMinutes = 0.25
)

// Minutes is a section duration. Decoding accepts JSON numbers and numeric
// strings; anything else decodes to NaN and is repaired by normalization.
type Minutes float64

// UnmarshalJSON implements json.Unmarshaler.
func (m *Minutes) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		*m = 0
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*m = Minutes(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*m = Minutes(v)
			return nil
		}
	}

	*m = Minutes(math.NaN())
	return nil
}

// Valid reports whether m is a finite positive duration.
func (m Minutes) Valid() bool {
	f := float64(m)
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f > 0
}

// Section is one timed unit of an outline.
type Section struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Minutes     Minutes   `json:"minutes"`
	Desc        string    `json:"desc"`
	Links       []Link    `json:"links"`
	Subsections []Section `json:"subsections,omitempty"`
}

// TotalMinutes sums the section and its subsections.
func (s Section) TotalMinutes() float64 {
	total := float64(s.Minutes)
	for _, sub := range s.Subsections {
		total += sub.TotalMinutes()
	}
	return total
}
