package ffcal

import (
	"errors"

	"github.com/fxtracker/fx-tracker/pkg/errlvl"
)

// Extraction error taxonomy. None of these are fatal to the process:
// the job recovers every one of them to an empty event list.
var (
	// ErrNetworkFailure is returned on timeouts, DNS and connection errors.
	ErrNetworkFailure = errors.New("calendar fetch failed")
	// ErrBlockedOrChallenge is returned when the calendar source rejects the
	// request with a bot-mitigation challenge (non-2xx response).
	ErrBlockedOrChallenge = errors.New("calendar request blocked or challenged")
	// ErrUnexpectedFormat is returned when the response carries no calendar table.
	ErrUnexpectedFormat = errors.New("unexpected calendar page format")
)

// Row skip reasons. They never escape FetchDailyEvents.
var (
	errNoEventCell    = errors.New("no usable event title cell")
	errNoCurrencyCell = errors.New("no currency cell")
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
