package submit

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by Controller.Submit matches exactly one
// of these with errors.Is.
var (
	// ErrValidation is returned when a precondition fails. No request is sent.
	ErrValidation = errors.New("submission is incomplete")

	// ErrBusy is returned when a submission is already in flight.
	ErrBusy = errors.New("a submission is already in progress")

	// ErrTransport is returned when the backend cannot be reached, the request
	// times out, or the backend answers with a non-2xx status.
	ErrTransport = errors.New("backend request failed")

	// ErrMalformedResponse is returned when a 2xx body does not have the
	// processing result shape.
	ErrMalformedResponse = errors.New("backend returned a malformed response")
)

// Validation causes, wrapped in a ValidationError.
var (
	ErrMissingIdentifier     = errors.New("patient ID or name is required")
	ErrNoFiles               = errors.New("at least one file must be selected")
	ErrMissingOutputLocation = errors.New("output folder is required")
	ErrMixedSelection        = errors.New("selection mixes uploaded files and file paths")
)

// ErrBackendRejected is wrapped in a transport error when the backend answers
// 2xx but reports {"success": false}.
var ErrBackendRejected = errors.New("backend rejected the submission")

// ValidationError reports a missing or invalid submission input.
type ValidationError struct {
	Field string
	Err   error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %v", e.Field, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is matches ErrValidation in addition to the wrapped cause.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// SubmitError describes a failed network call or response decode.
type SubmitError struct {
	// Op is the step that failed ("build", "send", "status", "decode").
	Op string

	// Kind is ErrTransport or ErrMalformedResponse.
	Kind error

	// Err is the underlying error.
	Err error

	// StatusCode is the HTTP status, when a response was received.
	StatusCode int
}

// Error implements the error interface.
func (e *SubmitError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("submit: %s failed (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("submit: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *SubmitError) Unwrap() error {
	return e.Err
}

// Is matches the error kind.
func (e *SubmitError) Is(target error) bool {
	return target == e.Kind
}

func transportError(op string, status int, err error) *SubmitError {
	return &SubmitError{Op: op, Kind: ErrTransport, Err: err, StatusCode: status}
}

func malformedError(status int, err error) *SubmitError {
	return &SubmitError{Op: "decode", Kind: ErrMalformedResponse, Err: err, StatusCode: status}
}
