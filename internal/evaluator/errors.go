package evaluator

import "fmt"

// ValidationError reports a malformed or out-of-range input field. It is
// raised before any arithmetic runs; values outside their bounds are
// rejected, never clamped.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("evaluator: invalid %s: %s", e.Field, e.Reason)
}

// MissingFieldError reports a field the selected deal type requires but the
// input omits. The evaluator refuses to substitute a zero or a guess.
type MissingFieldError struct {
	Field    string
	DealType string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("evaluator: %s requires %s", e.DealType, e.Field)
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func missing(field, dealType string) *MissingFieldError {
	return &MissingFieldError{Field: field, DealType: dealType}
}
