package validators

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameValidator(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"plain name", "Ursula Le Guin", nil},
		{"exactly max graphemes", strings.Repeat("ё", MaxNameLength), nil},
		{"empty", "", ErrNameEmpty},
		{"whitespace only", " \t\n ", ErrNameEmpty},
		{"too long", strings.Repeat("a", MaxNameLength+1), ErrNameTooLong},
		{"slash", "le/guin", ErrNameForbiddenChars},
		{"parenthesis", "le (guin)", ErrNameForbiddenChars},
		{"quote", `le "guin"`, ErrNameForbiddenChars},
		{"angle brackets", "<script>", ErrNameForbiddenChars},
		{"backslash", `le\guin`, ErrNameForbiddenChars},
		{"braces", "{guin}", ErrNameForbiddenChars},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NameValidator(tt.input)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, tt.want)

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, "name", vErr.Field)
		})
	}
}

func TestNameValidatorCountsGraphemesNotBytes(t *testing.T) {
	// e + combining acute accent is one grapheme, two runes.
	name := strings.Repeat("e\u0301", MaxNameLength)
	require.Greater(t, len([]rune(name)), MaxNameLength)

	assert.NoError(t, NameValidator(name))
}

func TestEmailValidator(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"valid", "ursula_le_guin@gmail.com", nil},
		{"subdomain", "someone@mail.example.co.uk", nil},
		{"empty", "", ErrEmailEmpty},
		{"blank", "   ", ErrEmailEmpty},
		{"missing at", "ursuladomain.com", ErrEmailInvalid},
		{"missing subject", "@domain.com", ErrEmailInvalid},
		{"not an email", "definitely-not-an-email", ErrEmailInvalid},
		{"display name", "Ursula <ursula@domain.com>", ErrEmailInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := EmailValidator(tt.input)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, tt.want)

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, "email", vErr.Field)
		})
	}
}
