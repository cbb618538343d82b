package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing errors
const (
	ErrAuth       = "AUTH"       // authentication rejected; credentials must change
	ErrTransport  = "TRANSPORT"  // network or SSH protocol failure; recoverable by reconnect
	ErrExec       = "EXEC"       // remote command reported a failure
	ErrData       = "DATA"       // remote output could not be parsed
	ErrCancelled  = "CANCELLED"  // user declined a confirmation
	ErrConfig     = "CONFIG"     // invalid configuration or arguments
	ErrUnexpected = "UNEXPECTED" // anything that fits no other bucket
)

// Error represents a structured error with code, message, suggestion, and optional cause.
// Rendered as:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Wrap wraps an existing error with a message, defaulting to ErrUnexpected code.
func Wrap(err error, message string) *Error {
	return &Error{
		Code:    ErrUnexpected,
		Message: message,
		Cause:   err,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// Error implements the error interface with formatted output.
func (e *Error) Error() string {
	var b strings.Builder

	// First line: failure symbol + main message
	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	// Include cause if present (why it failed)
	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	// Include suggestion if present (how to fix)
	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var pmxErr *Error
	if errors.As(err, &pmxErr) {
		return pmxErr.Code == code
	}
	return false
}

// CodeOf returns the code of a structured Error, or ErrUnexpected for
// any other non-nil error.
func CodeOf(err error) string {
	var pmxErr *Error
	if errors.As(err, &pmxErr) {
		return pmxErr.Code
	}
	return ErrUnexpected
}

// Message returns the one-line message of a structured Error, or the plain
// error text for anything else. Use it where the full multi-line rendering
// does not fit, like status bars and inline log output.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var pmxErr *Error
	if errors.As(err, &pmxErr) {
		return pmxErr.Message
	}
	return err.Error()
}
