// Package apperror is the error taxonomy shared by services and the HTTP
// error handler.
package apperror

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound   Kind = "NOT_FOUND"
	KindConflict   Kind = "CONFLICT"
	KindValidation Kind = "VALIDATION_ERROR"
	KindIO         Kind = "IO_ERROR"
	KindInternal   Kind = "INTERNAL_ERROR"
)

// Sentinels for errors.Is checks against a kind.
var (
	ErrNotFound   = &Error{Kind: KindNotFound, Message: "resource not found"}
	ErrConflict   = &Error{Kind: KindConflict, Message: "conflict"}
	ErrValidation = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrIO         = &Error{Kind: KindIO, Message: "storage failure"}
	ErrInternal   = &Error{Kind: KindInternal, Message: "internal error"}
)

type Error struct {
	Kind    Kind
	Message string
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

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func IO(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindIO, Message: fmt.Sprintf(format, args...), Err: err}
}

func Internal(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindInternal for anything unclassified.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// MessageOf returns the human readable reason for err. Unclassified errors
// are not leaked.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return ErrInternal.Message
}
