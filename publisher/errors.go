package publisher

import (
	"errors"

	"github.com/fxtracker/fx-tracker/pkg/errlvl"
)

var (
	// ErrSendFailed is returned when the webhook call could not be made.
	ErrSendFailed = errors.New("error sending message to the webhook")
	// ErrUnexpectedStatus is returned when the webhook answered with
	// anything other than 204 No Content.
	ErrUnexpectedStatus = errors.New("unexpected webhook response status")
)

// Error is a custom error type that contains the severity level of the error.
type Error struct {
	// severity level of the error
	level errlvl.Lvl
	// errors stack (preferably generic error + the real error)
	errs []error
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	return errlvl.Wrap(errors.Join(e.errs...), e.level).Error()
}

// Unwrap exposes the error stack for errors.Is matching.
func (e *Error) Unwrap() []error {
	return e.errs
}

// newError creates a new Error instance with the given errors.
func newError(lvl errlvl.Lvl, errs ...error) *Error {
	return &Error{
		level: lvl,
		errs:  errs,
	}
}
