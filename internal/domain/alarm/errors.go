package alarm

import (
	"errors"
	"fmt"
)

var (
	// ErrNotIdle is returned when an alarm that is already ringing or snoozing is asked to ring.
	ErrNotIdle = errors.New("alarm is not idle")
	// ErrNotRinging is returned when stop or snooze is requested for an alarm that is not ringing.
	ErrNotRinging = errors.New("alarm is not ringing")
	// ErrRemoved is returned for any transition on a removed alarm.
	ErrRemoved = errors.New("alarm has been removed")
)

// ValidationError describes malformed operator input.
type ValidationError struct {
	// Field names the offending input.
	Field string
	// Value is the raw value as entered.
	Value string
	// Reason explains what is wrong with the value.
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func newValidationError(field, value, reason string) *ValidationError {
	return &ValidationError{
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError

	return errors.As(err, &target)
}
