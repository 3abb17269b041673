// Package errors provides structured error types for the pythiaplotter
// application.
//
// Error codes give the CLI a stable way to decide severity: everything is
// fatal except RENDER_UNAVAILABLE, which downgrades to a warning because
// the DOT description file has already been written by the time the
// layout step can fail.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeParse, "line %d: expected %d columns", n, want)
//	if errors.Is(err, errors.ErrCodeRenderUnavailable) {
//	    // warn and keep going
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the failure taxonomy.
const (
	// ErrCodeInputNotFound: the input file is missing or unreadable.
	ErrCodeInputNotFound Code = "INPUT_NOT_FOUND"
	// ErrCodeParse: a malformed record, unexpected structure, or
	// unsupported variant of an input format.
	ErrCodeParse Code = "PARSE_ERROR"
	// ErrCodeDanglingParent: a particle references a parent barcode with
	// no record in the event.
	ErrCodeDanglingParent Code = "DANGLING_PARENT"
	// ErrCodeGraphCycle: the built graph contains a directed cycle.
	ErrCodeGraphCycle Code = "GRAPH_CYCLE"
	// ErrCodeInvalidFormat: unknown input format tag.
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	// ErrCodeInvalidMode: unknown graph representation mode.
	ErrCodeInvalidMode Code = "INVALID_MODE"
	// ErrCodeFormatUnavailable: the format's external runtime is absent.
	ErrCodeFormatUnavailable Code = "FORMAT_UNAVAILABLE"
	// ErrCodeRenderUnavailable: no layout engine could be used. Non-fatal;
	// the DOT file is still produced.
	ErrCodeRenderUnavailable Code = "RENDER_UNAVAILABLE"
	// ErrCodeInternal: unexpected internal errors.
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
	if e.Cause != nil {
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

// Is reports whether err carries the given error code.
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
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
