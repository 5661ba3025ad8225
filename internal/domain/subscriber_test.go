package domain

import (
	"errors"
	"testing"

	"bitwise74/newsletter-api/pkg/validators"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNewSubscriber(t *testing.T) {
	sub, err := ParseNewSubscriber(SubscribeForm{Name: "le guin", Email: " ursula_le_guin@gmail.com "})
	require.NoError(t, err)

	assert.Equal(t, "le guin", sub.Name.String())
	assert.Equal(t, "ursula_le_guin@gmail.com", sub.Email.String())
}

func TestParseNewSubscriberRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		desc  string
		form  SubscribeForm
		field string
	}{
		{"empty name", SubscribeForm{Name: "", Email: "ursula_le_guin@gmail.com"}, "name"},
		{"empty email", SubscribeForm{Name: "Ursula", Email: ""}, "email"},
		{"invalid email", SubscribeForm{Name: "Ursula", Email: "definitely-not-an-email"}, "email"},
		{"both invalid reports name first", SubscribeForm{Name: "{}", Email: "nope"}, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			_, err := ParseNewSubscriber(tt.form)
			require.Error(t, err)

			var vErr *validators.ValidationError
			require.True(t, errors.As(err, &vErr), "expected a validation error, got %v", err)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestZeroValuesAreEmpty(t *testing.T) {
	var n SubscriberName
	var e SubscriberEmail

	assert.Empty(t, n.String())
	assert.Empty(t, e.String())
}
