// Package markup cleans text that may carry HTML, such as model output or
// text pasted from a web page, before it is stored in an outline.
package markup

import (
	"html"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/microcosm-cc/bluemonday"
)

// Cleaner strips or converts HTML. Safe for concurrent use.
type Cleaner struct {
	strict    *bluemonday.Policy
	ugc       *bluemonday.Policy
	converter *md.Converter
}

// New creates a Cleaner.
func New() *Cleaner {
	return &Cleaner{
		strict:    bluemonday.StrictPolicy(),
		ugc:       bluemonday.UGCPolicy(),
		converter: md.NewConverter("", true, nil),
	}
}

// Line returns s with every tag removed, for titles, names and labels.
func (c *Cleaner) Line(s string) string {
	if !hasMarkup(s) {
		return s
	}
	return strings.TrimSpace(html.UnescapeString(c.strict.Sanitize(s)))
}

// Notes converts HTML in s to markdown, dropping anything unsafe
// (scripts, event handlers, javascript: URLs). Plain text is returned as is.
func (c *Cleaner) Notes(s string) string {
	if !hasMarkup(s) {
		return s
	}
	out, err := c.converter.ConvertString(c.ugc.Sanitize(s))
	if err != nil {
		return c.Line(s)
	}
	return strings.TrimSpace(out)
}

func hasMarkup(s string) bool {
	return strings.Contains(s, "<") && strings.Contains(s, ">")
}
