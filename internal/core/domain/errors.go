package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrOutOfOrder indicates a point was appended at a position that does not
	// follow the series tail.
	ErrOutOfOrder = errors.New("position out of order")

	// Acquisition Errors.

	// ErrAlreadyRunning indicates acquisition was started twice.
	ErrAlreadyRunning = errors.New("acquisition already running")

	// ErrNotRunning indicates acquisition was stopped while idle.
	ErrNotRunning = errors.New("acquisition not running")

	// ErrUnsupportedPort indicates no transport can open the requested port.
	ErrUnsupportedPort = errors.New("unsupported port")

	// Capture Errors.

	// ErrCaptureActive indicates a capture session is already recording.
	ErrCaptureActive = errors.New("capture already active")

	// ErrCaptureInactive indicates no capture session is recording.
	ErrCaptureInactive = errors.New("no active capture")
)

// ParseError reports a record field that is not a base-10 integer.
// The record carrying it is discarded as a whole.
type ParseError struct {
	Token string
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid field %q: not an integer", e.Token)
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *ParseError) Unwrap() error {
	return ErrInvalidInput
}
