// Package apperr is the error taxonomy every handler and guard reports in.
// Each error carries the HTTP status it is rendered with.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// MsgInternal is the body of every unexpected fault.
const MsgInternal = "Something went wrong, please try again later!"

type Kind int

const (
	KindAuth Kind = iota + 1
	KindNotFound
	KindValidation
	KindConflict
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Fields maps a request field to its help text.
type Fields map[string]string

type Error struct {
	Kind   Kind
	Status int
	// Message is either a string or Fields.
	Message any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Body is the JSON document the error renders as.
func (e *Error) Body() map[string]any {
	return map[string]any{"message": e.Message}
}

func Auth(msg string) *Error {
	return &Error{Kind: KindAuth, Status: http.StatusForbidden, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Message: msg}
}

func Validation(status int, msg string) *Error {
	return &Error{Kind: KindValidation, Status: status, Message: msg}
}

func FieldErrors(status int, fields Fields) *Error {
	return &Error{Kind: KindValidation, Status: status, Message: fields}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Status: http.StatusForbidden, Message: msg}
}

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Status: http.StatusInternalServerError, Message: msg, Err: err}
}

// WithStatus returns a copy of e rendered with a different status.
func (e *Error) WithStatus(status int) *Error {
	cp := *e
	cp.Status = status
	return &cp
}

func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func IsKind(err error, kind Kind) bool {
	ae, ok := As(err)
	return ok && ae.Kind == kind
}
