// Package apperr defines the closed set of error kinds the scheduling core
// returns. Callers branch on kind with errors.Is against the Kind sentinels;
// the HTTP layer maps kinds to status codes with HTTPStatus.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindSlotUnavailable
	KindInsufficientHours
	KindInvalidStateTransition
	KindAuthorization
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindSlotUnavailable:
		return "slot_unavailable"
	case KindInsufficientHours:
		return "insufficient_hours"
	case KindInvalidStateTransition:
		return "invalid_state_transition"
	case KindAuthorization:
		return "authorization"
	default:
		return "internal"
	}
}

// Error is a kind-tagged error. Msg is safe to show to API clients; Err is
// the wrapped cause, if any.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match any error of the same kind, so callers can write
// errors.Is(err, apperr.Validation(nil, "")) via the kind sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Kind sentinels for errors.Is checks.
var (
	ErrValidation             = &Error{Kind: KindValidation}
	ErrNotFound               = &Error{Kind: KindNotFound}
	ErrSlotUnavailable        = &Error{Kind: KindSlotUnavailable}
	ErrInsufficientHours      = &Error{Kind: KindInsufficientHours}
	ErrInvalidStateTransition = &Error{Kind: KindInvalidStateTransition}
	ErrAuthorization          = &Error{Kind: KindAuthorization}
)

func Validationf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func SlotUnavailablef(format string, args ...any) error {
	return &Error{Kind: KindSlotUnavailable, Msg: fmt.Sprintf(format, args...)}
}

func InsufficientHoursf(format string, args ...any) error {
	return &Error{Kind: KindInsufficientHours, Msg: fmt.Sprintf(format, args...)}
}

func InvalidTransitionf(format string, args ...any) error {
	return &Error{Kind: KindInvalidStateTransition, Msg: fmt.Sprintf(format, args...)}
}

func Authorizationf(format string, args ...any) error {
	return &Error{Kind: KindAuthorization, Msg: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected failure (storage errors and the like).
func Internal(err error, msg string) error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// KindOf extracts the kind of err, defaulting to KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the client-safe message of err, if it carries one.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	return "internal server error"
}

// HTTPStatus maps an error kind to the response status the controllers use.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindSlotUnavailable:
		return http.StatusConflict
	case KindInsufficientHours:
		return http.StatusUnprocessableEntity
	case KindInvalidStateTransition:
		return http.StatusConflict
	case KindAuthorization:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
