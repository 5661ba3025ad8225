// Package validators contains validators found throughout the application
// that have been abstracted away from the main code
package validators

import "fmt"

// ValidationError marks input that was rejected before touching storage.
// Field names the offending form field and Err is one of the sentinel
// errors declared next to each validator.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}
