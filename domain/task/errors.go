package task

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a task error for callers that map errors to responses.
type Kind string

const (
	// KindValidation is a missing or malformed task field.
	KindValidation Kind = "validation"
	// KindInvalidParameter is a malformed list filter parameter.
	KindInvalidParameter Kind = "invalid_parameter"
	// KindNotFound is a task that is absent, owned by someone else, or deleted,
	// or a valid filter that matched nothing.
	KindNotFound Kind = "not_found"
)

// Error is the typed error returned by the task store and service.
type Error struct {
	Kind    Kind
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Validation returns a validation error for field.
func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

// InvalidParameter returns an invalid filter error listing the allowed values.
func InvalidParameter(param string, allowed []string) *Error {
	return &Error{
		Kind:    KindInvalidParameter,
		Field:   param,
		Message: fmt.Sprintf("Invalid %s. Must be one of: %s", param, strings.Join(allowed, ", ")),
	}
}

// NotFound returns a not-found error with the given message.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// ErrTaskNotFound is the message used for any task that is not visible to the caller.
const ErrTaskNotFound = "Task not found"

// KindOf returns the Kind of err if it wraps an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindNotFound
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindValidation
}

// IsInvalidParameter reports whether err is an invalid filter parameter error.
func IsInvalidParameter(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindInvalidParameter
}
