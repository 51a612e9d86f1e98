package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/templui/tasbih/internal/errs"
	"golang.org/x/text/unicode/norm"
)

const maxNameLength = 100

// NormalizeName trims surrounding whitespace and composes the name to NFC so
// that visually identical Arabic names compare equal.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// ValidateName validates a goal name
func ValidateName(name string) error {
	trimmed := NormalizeName(name)

	if trimmed == "" {
		return errs.Validation("name", "name is required")
	}

	if utf8.RuneCountInString(trimmed) > maxNameLength {
		return errs.Validation("name", "name is too long (max 100 characters)")
	}

	return nil
}
