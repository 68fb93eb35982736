package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/nhle/projectpilot/internal/model"
)

// FormWidth clamps a huh form to a readable width for the given view width.
func FormWidth(width int) int {
	return max(40, min(width-4, 100))
}

// FormHeight leaves room around a huh form inside the given view height.
func FormHeight(height int) int {
	return max(10, height-4)
}

// ValidateRequired rejects blank input for the named field.
func ValidateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

// ValidateOptionalDate accepts an empty string or a YYYY-MM-DD date.
func ValidateOptionalDate(s string) error {
	if _, err := model.ParseOptionalDate(s); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}

// DateValue renders an optional date for a form input.
func DateValue(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(model.DateKeyLayout)
}
