// Package errors provides structured error types for the boxr application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the pipeline
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input or configuration problems
//   - *_VIOLATION: Geometric feasibility failures
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidLabel, "tool at (%d,%d) has no label", row, col)
//	if errors.Is(err, errors.ErrCodeInvalidLabel) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidCSV, origErr, "failed to read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Structural validation errors (tool set consistency)
	ErrCodeEmptyInput        Code = "EMPTY_INPUT"
	ErrCodeInvalidLabel      Code = "INVALID_LABEL"
	ErrCodeInvalidPosition   Code = "INVALID_POSITION"
	ErrCodeInvalidDimension  Code = "INVALID_DIMENSION"
	ErrCodeDuplicatePosition Code = "DUPLICATE_POSITION"

	// Geometric validation errors (layout feasibility)
	ErrCodeSpacingViolation        Code = "SPACING_VIOLATION"
	ErrCodeMountOffsetViolation    Code = "MOUNT_OFFSET_VIOLATION"
	ErrCodeFloorThicknessViolation Code = "FLOOR_THICKNESS_VIOLATION"

	// Input and configuration errors
	ErrCodeInvalidCSV      Code = "INVALID_CSV"
	ErrCodeInvalidWorkbook Code = "INVALID_WORKBOOK"
	ErrCodeInvalidParams   Code = "INVALID_PARAMS"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"

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
