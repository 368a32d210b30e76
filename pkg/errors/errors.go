// Package errors provides structured error types for the schematic engine.
//
// Every failure surfaced by the engine carries a machine-readable [Code] so
// that callers (CLI, HTTP server, tests) can branch on the failure category
// without string matching:
//
//   - INVALID_LINE: a netlist line could not be parsed (ParseError)
//   - NOT_FOUND: lookup of an unregistered component (NotFoundError)
//   - INVALID_CONFIG: a hint value the solver cannot interpret (ConfigurationError)
//   - DUPLICATE_NAME: a component name was redefined (non-fatal warning)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNotFound, "component %s", name)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // Handle lookup failure
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidLine, origErr, "line %d", n)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors
	ErrCodeInvalidLine   Code = "INVALID_LINE"
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Lookup errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Warnings
	ErrCodeDuplicateName Code = "DUPLICATE_NAME"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil && e.Cause.Error() != e.Message {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// LineError reports a malformed netlist line together with the offending text.
type LineError struct {
	Line   string // Raw line as given by the caller
	Number int    // 1-based line number, 0 when the line was added directly
	Reason string
}

// Error implements the error interface.
func (e *LineError) Error() string {
	if e.Number > 0 {
		return fmt.Sprintf("line %d: %s: %q", e.Number, e.Reason, e.Line)
	}
	return fmt.Sprintf("%s: %q", e.Reason, e.Line)
}

// Code returns the error code for this error type.
func (e *LineError) Code() Code {
	return ErrCodeInvalidLine
}

// ParseError builds an INVALID_LINE error for line.
func ParseError(line string, format string, args ...any) *Error {
	le := &LineError{Line: line, Reason: fmt.Sprintf(format, args...)}
	return &Error{Code: ErrCodeInvalidLine, Message: le.Error(), Cause: le}
}

// AtLine stamps a 1-based line number onto the LineError carried by err.
// Errors without a LineError are wrapped as INVALID_LINE.
func AtLine(err error, number int) error {
	var le *LineError
	if errors.As(err, &le) {
		le.Number = number
		return &Error{Code: ErrCodeInvalidLine, Message: le.Error(), Cause: le}
	}
	return Wrap(ErrCodeInvalidLine, err, "line %d", number)
}
