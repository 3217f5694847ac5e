// Package domainerrors defines the error vocabulary shared by services and
// transports. Services return *Error values; transports map the Code onto a
// wire status without inspecting messages.
package domainerrors

import (
	"errors"
	"fmt"
	"sort"
)

// Code classifies a domain error.
type Code string

const (
	CodeBadRequest         Code = "bad_request"
	CodeValidation         Code = "validation_error"
	CodeInvalidInput       Code = "invalid_input"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeInvariantViolation Code = "invariant_violation"
	CodeTimeout            Code = "timeout"
	CodeInternal           Code = "internal_error"
)

// Error is a classified error with an optional cause and, for validation
// failures, the per-field messages.
type Error struct {
	Code    Code
	Message string
	Fields  map[string][]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a domain error with the given code and message.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying error. Field messages of a
// wrapped validation error are carried over so they survive re-classification.
func Wrap(err error, code Code, msg string) *Error {
	wrapped := &Error{Code: code, Message: msg, Err: err}
	var de *Error
	if errors.As(err, &de) && len(de.Fields) > 0 {
		wrapped.Fields = de.Fields
	}
	return wrapped
}

// NewValidation builds a validation error from collected field messages.
func NewValidation(fields map[string][]string) *Error {
	return &Error{Code: CodeValidation, Message: "Validation failed", Fields: fields}
}

// HasCode reports whether any error in the chain carries code.
func HasCode(err error, code Code) bool {
	for err != nil {
		var de *Error
		if !errors.As(err, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}

// Is is an alias of HasCode kept for call sites that read better with it.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the outermost domain code, or CodeInternal for foreign errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// FieldsOf returns the field messages of the outermost domain error carrying any.
func FieldsOf(err error) map[string][]string {
	for err != nil {
		var de *Error
		if !errors.As(err, &de) {
			return nil
		}
		if len(de.Fields) > 0 {
			return de.Fields
		}
		err = de.Err
	}
	return nil
}

// FieldErrors accumulates per-field validation messages.
type FieldErrors map[string][]string

// Add records msg against field.
func (f FieldErrors) Add(field, msg string) {
	f[field] = append(f[field], msg)
}

// Merge copies other's messages under prefix ("address" → "address.city").
func (f FieldErrors) Merge(prefix string, other FieldErrors) {
	for k, msgs := range other {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		f[key] = append(f[key], msgs...)
	}
}

// Keys returns the failing field names in sorted order.
func (f FieldErrors) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Err returns nil when no field failed, otherwise a validation error.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return NewValidation(f)
}
