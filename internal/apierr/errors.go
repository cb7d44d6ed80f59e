// Package apierr defines the error kinds shared between the backend
// client and the services that classify its failures.
package apierr

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrInvalidCredentials is returned when the backend explicitly
	// rejects a login attempt. It is terminal for that attempt: no
	// retry and no demo fallback.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnreachable is returned when the backend cannot be contacted
	// or answers with a server-side failure. It triggers the demo
	// fallback at login and the mock-data fallback at resource fetch.
	ErrUnreachable = errors.New("backend unreachable")

	// ErrMalformedResponse is returned when the backend answers with a
	// body that is not the expected JSON envelope. It is classified
	// like ErrUnreachable for fallback purposes.
	ErrMalformedResponse = errors.New("malformed response")
)

// StatusError is returned for HTTP responses outside the 2xx range
// that are neither credential rejections nor server-side failures.
type StatusError struct {
	// StatusCode is the HTTP status code returned by the backend.
	StatusCode int
	// Message is the server-provided message, if any.
	Message string
}

// Error returns a human-readable description, preferring the server
// message over the bare status code.
func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend error (%d)", e.StatusCode)
}

// UnreachableError wraps a connection-level failure (DNS, refused
// connection, timeout) or a 5xx response.
type UnreachableError struct {
	// Cause is the underlying error.
	Cause error
}

// Error returns a human-readable description of the failure.
func (e *UnreachableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("backend unreachable: %v", e.Cause)
	}
	return "backend unreachable"
}

// Unwrap returns the underlying error cause.
func (e *UnreachableError) Unwrap() error { return e.Cause }

// Is reports whether this error matches the target error.
// It supports errors.Is(err, ErrUnreachable).
func (e *UnreachableError) Is(target error) bool { return target == ErrUnreachable }

// MalformedResponseError wraps a response body that could not be
// decoded as the expected {success, data, message} envelope.
type MalformedResponseError struct {
	// Cause is the underlying decode error, if any.
	Cause error
}

// Error returns a human-readable description of the failure.
func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed response: %v", e.Cause)
	}
	return "malformed response"
}

// Unwrap returns the underlying error cause.
func (e *MalformedResponseError) Unwrap() error { return e.Cause }

// Is reports whether this error matches the target error.
// It supports errors.Is(err, ErrMalformedResponse).
func (e *MalformedResponseError) Is(target error) bool { return target == ErrMalformedResponse }

// InvalidCredentialsError carries the server-provided rejection
// message for a failed login.
type InvalidCredentialsError struct {
	// Message is the server-provided message, if any.
	Message string
}

// Error returns a human-readable description of the rejection.
func (e *InvalidCredentialsError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "invalid credentials"
}

// Is reports whether this error matches the target error.
// It supports errors.Is(err, ErrInvalidCredentials).
func (e *InvalidCredentialsError) Is(target error) bool { return target == ErrInvalidCredentials }

// Degraded reports whether err is a failure class that should trigger
// the fallback paths (demo login, mock data): unreachable backends and
// malformed responses qualify, explicit rejections do not.
func Degraded(err error) bool {
	return errors.Is(err, ErrUnreachable) || errors.Is(err, ErrMalformedResponse)
}
