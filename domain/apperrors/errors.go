package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error so the presentation layer can map it to a
// transport-level response without string matching.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindAccessDenied
	KindInvalidInput
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAccessDenied:
		return "access_denied"
	case KindInvalidInput:
		return "invalid_input"
	case KindUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.err
}

func (e *Error) Kind() Kind {
	return e.kind
}

func NotFound(format string, args ...any) error {
	return &Error{kind: KindNotFound, msg: fmt.Sprintf(format, args...)}
}

func AccessDenied(format string, args ...any) error {
	return &Error{kind: KindAccessDenied, msg: fmt.Sprintf(format, args...)}
}

func InvalidInput(format string, args ...any) error {
	return &Error{kind: KindInvalidInput, msg: fmt.Sprintf(format, args...)}
}

func Unavailable(err error, format string, args ...any) error {
	return &Error{kind: KindUnavailable, msg: fmt.Sprintf(format, args...), err: err}
}

// KindOf returns the classification of err, or KindUnknown for errors that
// did not originate from this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindUnknown
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

func IsAccessDenied(err error) bool {
	return KindOf(err) == KindAccessDenied
}

func IsInvalidInput(err error) bool {
	return KindOf(err) == KindInvalidInput
}

func IsUnavailable(err error) bool {
	return KindOf(err) == KindUnavailable
}
