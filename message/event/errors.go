package event

import "fmt"

// MalformedEventError is returned for messages that can never be handled.
type MalformedEventError struct {
	Err error
}

func (e MalformedEventError) Error() string {
	return fmt.Sprintf("malformed event: %v", e.Err)
}

func (e MalformedEventError) Unwrap() error {
	return e.Err
}

func (e MalformedEventError) IsPermanent() bool {
	return true
}
