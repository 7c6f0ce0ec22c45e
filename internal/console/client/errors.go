package client

import (
	"errors"
	"fmt"
)

var (
	ErrTransport = errors.New("network failure")
	ErrStatus    = errors.New("unexpected HTTP status")
	ErrMalformed = errors.New("malformed response")
)

// Error describes one failed backend call. Status is zero when no response
// was received.
type Error struct {
	Op     string // fetch, save or delete
	Method string
	URL    string
	Status int
	Detail string // error document returned by the backend, if any

	kind  error
	cause error
}

func (e *Error) Error() string {
	switch {
	case e.Detail != "":
		return e.Detail
	case e.Status != 0:
		return fmt.Sprintf("HTTP error: %d", e.Status)
	case e.cause != nil:
		return e.cause.Error()
	default:
		return e.kind.Error()
	}
}

// Unwrap exposes both the error class (ErrTransport, ErrStatus, ErrMalformed)
// and the underlying cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.cause == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.cause}
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Status
	}
	return 0
}
