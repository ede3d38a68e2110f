package apperrors

import (
	"strings"
)

// FieldError describes a single violated constraint on a request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every violated constraint found in a request
// so clients see all problems at once instead of fixing them one at a time.
type ValidationError struct {
	Violations []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Field+": "+v.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// NewValidationError creates a ValidationError from the given field errors.
func NewValidationError(violations ...FieldError) *ValidationError {
	return &ValidationError{Violations: violations}
}

// Add appends a violation for the given field.
func (e *ValidationError) Add(field, message string) {
	e.Violations = append(e.Violations, FieldError{Field: field, Message: message})
}

// HasViolations reports whether any constraint was violated.
func (e *ValidationError) HasViolations() bool {
	return len(e.Violations) > 0
}
