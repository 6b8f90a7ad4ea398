// Package apperr defines the error kinds surfaced by the service and how they map onto HTTP.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the caller.
type Kind string

const (
	KindValidation            Kind = "validation"
	KindConflict              Kind = "conflict"
	KindNotFound              Kind = "not_found"
	KindUnsupportedConversion Kind = "unsupported_conversion"
	KindUnimplemented         Kind = "unimplemented"
	KindInternal              Kind = "internal"
)

// Error is a classified, caller-facing error.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind (and code, when the target sets one).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

func newf(kind Kind, code, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Validation reports bad client input.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Code: "invalid_input", Message: msg}
}

func Validationf(format string, args ...any) *Error {
	return newf(KindValidation, "invalid_input", format, args...)
}

// Conflictf reports a write that clashes with existing records.
func Conflictf(format string, args ...any) *Error {
	return newf(KindConflict, "already_exists", format, args...)
}

func NotFoundf(format string, args ...any) *Error {
	return newf(KindNotFound, "not_found", format, args...)
}

func UnsupportedConversionf(format string, args ...any) *Error {
	return newf(KindUnsupportedConversion, "unsupported_conversion", format, args...)
}

func Unimplementedf(format string, args ...any) *Error {
	return newf(KindUnimplemented, "unimplemented", format, args...)
}

// WithCode returns a copy of e carrying a more specific code.
func (e *Error) WithCode(code string) *Error {
	cp := *e
	cp.Code = code
	return &cp
}

// Wrap attaches a cause.
func (e *Error) Wrap(err error) *Error {
	cp := *e
	cp.Err = err
	return &cp
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries kind k.
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// HTTPStatus maps an error onto a response status.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindUnsupportedConversion:
		return http.StatusUnprocessableEntity
	case KindUnimplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// Code returns the machine-readable code of err.
func Code(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "internal"
}
