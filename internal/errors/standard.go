// Package errors provides standardized error messaging for the Quill tools
package errors

import (
	"fmt"
	"runtime"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryConfig  ErrorCategory = "CONFIG"
	CategoryIO      ErrorCategory = "IO"
	CategoryVersion ErrorCategory = "VERSION"
)

// StandardError provides a consistent error format
type StandardError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Context  map[string]interface{}
	Caller   string
	Cause    error
}

// Error implements the error interface
func (e *StandardError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any
func (e *StandardError) Unwrap() error {
	return e.Cause
}

// NewStandardError creates a new standardized error
func NewStandardError(category ErrorCategory, code, message string, context map[string]interface{}) *StandardError {
	return &StandardError{
		Category: category,
		Code:     code,
		Message:  message,
		Context:  context,
		Caller:   caller(2),
	}
}

func caller(skip int) string {
	pc, _, _, ok := runtime.Caller(skip)
	if !ok {
		return "unknown"
	}
	if fn := runtime.FuncForPC(pc); fn != nil {
		return fn.Name()
	}
	return "unknown"
}

// wrap attaches cause to a new error, recording the caller of the exported constructor
func wrap(category ErrorCategory, code, message string, context map[string]interface{}, cause error) *StandardError {
	return &StandardError{
		Category: category,
		Code:     code,
		Message:  message,
		Context:  context,
		Caller:   caller(3),
		Cause:    cause,
	}
}

// Common error constructors
func ReadFailed(path string, cause error) *StandardError {
	return wrap(CategoryIO, "READ_FAILED",
		fmt.Sprintf("failed to read %s", path),
		map[string]interface{}{"path": path}, cause)
}

func WatchFailed(path string, cause error) *StandardError {
	return wrap(CategoryIO, "WATCH_FAILED",
		fmt.Sprintf("failed to watch %s", path),
		map[string]interface{}{"path": path}, cause)
}

func InvalidConfig(path string, cause error) *StandardError {
	return wrap(CategoryConfig, "INVALID_CONFIG",
		fmt.Sprintf("failed to parse config file %s", path),
		map[string]interface{}{"path": path}, cause)
}

func InvalidOption(name, value string) *StandardError {
	return wrap(CategoryConfig, "INVALID_OPTION",
		fmt.Sprintf("invalid value %q for %s", value, name),
		map[string]interface{}{"option": name, "value": value}, nil)
}

func InvalidConstraint(constraint string, cause error) *StandardError {
	return wrap(CategoryVersion, "INVALID_CONSTRAINT",
		fmt.Sprintf("invalid version constraint %q", constraint),
		map[string]interface{}{"constraint": constraint}, cause)
}

func VersionMismatch(constraint, version string) *StandardError {
	return wrap(CategoryVersion, "VERSION_MISMATCH",
		fmt.Sprintf("front end version %s does not satisfy %s", version, constraint),
		map[string]interface{}{"constraint": constraint, "version": version}, nil)
}
