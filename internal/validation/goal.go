package validation

import (
	"strings"

	"github.com/templui/tasbih/internal/errs"
	"golang.org/x/text/unicode/norm"
)

const maxTextLength = 5000

func ValidateDailyLimit(limit int) error {
	if limit < 1 {
		return errs.Validation("daily_limit", "daily limit must be at least 1")
	}
	return nil
}

func NormalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}

func ValidateText(text string) error {
	if len(text) > maxTextLength {
		return errs.Validation("text", "text is too long (max 5000 bytes)")
	}
	return nil
}

// ValidateGoal checks all user-supplied goal fields, returning the first failure.
func ValidateGoal(name, text string, dailyLimit int) error {
	err := ValidateName(name)
	if err != nil {
		return err
	}

	err = ValidateText(NormalizeText(text))
	if err != nil {
		return err
	}

	return ValidateDailyLimit(dailyLimit)
}
