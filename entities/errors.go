package entities

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownField               = errors.New("unknown ticket field")
	ErrOrderAttendeesNotFound     = errors.New("order attendees not found")
	ErrAttendeesAlreadyRegistered = errors.New("attendees already registered for order")
)

// ValidationFailure carries a failed ValidationResult through layers that
// speak error.
type ValidationFailure struct {
	Result ValidationResult
}

func (v ValidationFailure) Error() string {
	return fmt.Sprintf("ticket fields validation failed: %d problem(s)", len(v.Result.GlobalMessages))
}

// IsPermanent reports that retrying with the same values can't succeed.
func (v ValidationFailure) IsPermanent() bool {
	return true
}
