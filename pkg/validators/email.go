package validators

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrEmailEmpty   = errors.New("no email address provided")
	ErrEmailInvalid = errors.New("invalid email address provided")
)

var validate = validator.New()

// EmailValidator accepts local-part@domain shaped addresses only.
// Display-name forms such as "Ursula <u@example.com>" are rejected.
func EmailValidator(e string) error {
	if strings.TrimSpace(e) == "" {
		return invalid("email", ErrEmailEmpty)
	}

	if err := validate.Var(e, "email"); err != nil {
		return invalid("email", ErrEmailInvalid)
	}

	return nil
}
