package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/tasbih/internal/errs"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain", "Tasbih", false},
		{"arabic", "سبحان الله", false},
		{"empty", "", true},
		{"whitespace only", "  \t\n ", true},
		{"too long", strings.Repeat("a", 101), true},
		{"exactly max runes", strings.Repeat("ب", 100), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errs.IsValidation(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNormalizeName(t *testing.T) {
	// "é" decomposed (e + combining acute) composes to a single rune.
	assert.Equal(t, "\u00e9t\u00e9", NormalizeName("  e\u0301te\u0301 "))
}

func TestValidateGoal(t *testing.T) {
	assert.NoError(t, ValidateGoal("Tasbih", "", 33))

	err := ValidateGoal("Tasbih", "", 0)
	require.Error(t, err)
	var verr *errs.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "daily_limit", verr.Field)

	err = ValidateGoal(" ", "text", 10)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)

	assert.Error(t, ValidateGoal("Tasbih", strings.Repeat("x", maxTextLength+1), 1))
	assert.Error(t, ValidateDailyLimit(-5))
}
