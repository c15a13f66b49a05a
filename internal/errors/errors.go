// Package errors defines the structured error types used across the
// resolution pipeline. Fatal failures (malformed source syntax, a content
// type missing its identifiers) are SlateErrors with Recoverable=false and
// halt resolution; everything the validator finds is reported as
// diagnostics through a side channel instead, never as an error.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeParse    ErrorType = "parse"
	ErrorTypeSchema   ErrorType = "schema"
	ErrorTypeIO       ErrorType = "io"
	ErrorTypeCache    ErrorType = "cache"
	ErrorTypeInternal ErrorType = "internal"
)

// SlateError is a structured error with context.
type SlateError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	SourceFile  string
	ContentType string
	FieldName   string
	Recoverable bool
}

// Error implements the error interface.
func (e *SlateError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}
	if e.SourceFile != "" {
		parts = append(parts, e.SourceFile)
	}
	if e.ContentType != "" {
		parts = append(parts, "contenttype:"+e.ContentType)
	}
	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")
	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}
	return result
}

// Unwrap returns the underlying cause error.
func (e *SlateError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison on type and code.
func (e *SlateError) Is(target error) bool {
	var t *SlateError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}
	return false
}

// WithSource adds the declarative source file the error came from.
func (e *SlateError) WithSource(path string) *SlateError {
	e.SourceFile = path
	return e
}

// WithContentType adds the content-type key the error refers to.
func (e *SlateError) WithContentType(key string) *SlateError {
	e.ContentType = key
	return e
}

// WithField adds the field name the error refers to.
func (e *SlateError) WithField(name string) *SlateError {
	e.FieldName = name
	return e
}

// NewParseError creates an error for a malformed declarative source.
// Parse errors are never recoverable: a source that exists but cannot be
// read as YAML halts resolution, unlike an absent source.
func NewParseError(path string, cause error) *SlateError {
	return &SlateError{
		Type:        ErrorTypeParse,
		Code:        ErrCodeMalformedSource,
		Message:     "malformed declarative source",
		Cause:       cause,
		SourceFile:  path,
		Recoverable: false,
	}
}

// NewSchemaError creates an error for a declaration that cannot be
// resolved at all, such as a content type with no usable identifier.
func NewSchemaError(code, message string) *SlateError {
	return &SlateError{
		Type:        ErrorTypeSchema,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *SlateError {
	return &SlateError{
		Type:        ErrorTypeIO,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// NewCacheError creates a cache read/write error. Cache errors are
// recoverable by design: a broken cache only forces a cold resolution.
func NewCacheError(message string, cause error) *SlateError {
	return &SlateError{
		Type:        ErrorTypeCache,
		Code:        ErrCodeCacheInvalid,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(message string, cause error) *SlateError {
	return &SlateError{
		Type:        ErrorTypeInternal,
		Code:        ErrCodeInternal,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var se *SlateError
	if errors.As(err, &se) {
		return se.Recoverable
	}
	return false
}

// IsParseError checks if an error came from a malformed source.
func IsParseError(err error) bool {
	var se *SlateError
	if errors.As(err, &se) {
		return se.Type == ErrorTypeParse
	}
	return false
}

// IsSchemaError checks if an error came from an unresolvable declaration.
func IsSchemaError(err error) bool {
	var se *SlateError
	if errors.As(err, &se) {
		return se.Type == ErrorTypeSchema
	}
	return false
}

// Common error codes.
const (
	ErrCodeMalformedSource = "ERR_MALFORMED_SOURCE"
	ErrCodeMissingIdentity = "ERR_MISSING_IDENTITY"
	ErrCodeCacheInvalid    = "ERR_CACHE_INVALID"
	ErrCodeCacheWrite      = "ERR_CACHE_WRITE"
	ErrCodeInternal        = "ERR_INTERNAL"
)

// ErrMissingIdentity creates the halting error for a content type that
// declares neither name nor slug, or (when singular is set) neither
// singular_name nor singular_slug. The key names the offending declaration
// so an operator can find it.
func ErrMissingIdentity(key string, singular bool) *SlateError {
	msg := fmt.Sprintf("content type %q: neither name nor slug set", key)
	if singular {
		msg = fmt.Sprintf("content type %q: neither singular_name nor singular_slug set", key)
	}
	return NewSchemaError(ErrCodeMissingIdentity, msg).WithContentType(key)
}
