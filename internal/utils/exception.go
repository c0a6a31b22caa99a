package utils

import (
	"errors"

	"github.com/getsentry/sentry-go"

	"github.com/fxtracker/fx-tracker/pkg/errlvl"
)

type sentryHub interface {
	CaptureException(exception error) *sentry.EventID
	WithScope(callback func(scope *sentry.Scope))
}

// CaptureSentryException captures an exception with the given name and error.
// The main purpose of this function is to rewrite the exception type to the given name.
// In Sentry, the exception type is always the name of the error type, which is
// errors.*something* and is not very useful.
func CaptureSentryException(name string, hub sentryHub, err error) {
	level := sentryLevel(err)
	hub.WithScope(func(scope *sentry.Scope) {
		scope.AddEventProcessor(func(e *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			// NOTE: we need to change top element type in the stack.
			// e.Exception[0] is the first element in the stack, so it's the bottom one.
			e.Exception[len(e.Exception)-1].Type = name
			e.Level = level
			return e
		})
		hub.CaptureException(err)
	})
}

var levelMap = []struct {
	sentinel error
	level    sentry.Level
}{
	{errlvl.ErrFatal, sentry.LevelFatal},
	{errlvl.ErrError, sentry.LevelError},
	{errlvl.ErrWarn, sentry.LevelWarning},
	{errlvl.ErrInfo, sentry.LevelInfo},
	{errlvl.ErrDebug, sentry.LevelDebug},
}

// sentryLevel returns the Sentry level for the given error based on the
// errlvl sentinel it carries. Unleveled errors report as errors.
func sentryLevel(err error) sentry.Level {
	if err == nil {
		return sentry.LevelDebug
	}
	for _, m := range levelMap {
		if errors.Is(err, m.sentinel) {
			return m.level
		}
	}
	return sentry.LevelError
}
