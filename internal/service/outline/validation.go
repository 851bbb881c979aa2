package outline

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"studyplan/internal/config"
	"studyplan/internal/domain"
	models "studyplan/internal/domain/models/outline"
)

func validateLength(field, value string, max int) error {
	if err := validation.Validate(value, validation.RuneLength(0, max)); err != nil {
		return domain.Invalid("%s: %v", field, err)
	}
	return nil
}

func validateLink(l *LinkInput) error {
	err := validation.Errors{
		"label": validation.Validate(l.Label, validation.RuneLength(0, config.MaxLinkLabelLength)),
		"url":   validation.Validate(l.URL, validation.RuneLength(0, config.MaxLinkURLLength)),
		"icon":  validation.Validate(l.Icon, validation.In(models.IconEmoji, models.IconImage)),
	}.Filter()
	if err != nil {
		return domain.Invalid("link: %v", err)
	}
	return nil
}

// orDefault returns def when s is blank, otherwise s trimmed.
func orDefault(s, def string) string {
	if t := strings.TrimSpace(s); t != "" {
		return t
	}
	return def
}

// checkIndex validates a position in a list of n elements.
func checkIndex(name string, i, n int) error {
	if i < 0 || i >= n {
		return domain.Invalid("%s index %d out of range [0,%d)", name, i, n)
	}
	return nil
}
