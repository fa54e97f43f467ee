package framework

import "fmt"

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// RequiredError builds a ValidationError for a missing required field.
func RequiredError(field string) error {
	return &ValidationError{Field: field, Reason: "required"}
}
