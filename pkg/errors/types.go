package errors

import (
	goerrors "errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrParse indicates an import declaration could not be interpreted.
	ErrParse = goerrors.New("parse error")

	// ErrConfig indicates an invalid category order or classification rule.
	ErrConfig = goerrors.New("configuration error")

	// ErrNonContiguousImports indicates an import block that cannot be rewritten safely.
	ErrNonContiguousImports = goerrors.New(ErrMsgNonContiguousImports)
)

// ParseError represents an import declaration that could not be interpreted.
// It aborts the check of the file it belongs to.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Line is the 1-based line of the declaration (0 if unknown)
	Line int
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ConfigError represents an invalid configuration. It is returned at load
// time, before any file is checked.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
