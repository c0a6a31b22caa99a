package errlvl

import (
	"errors"
	"fmt"
)

// Lvl represents the severity of an error in the application.
type Lvl uint8

const (
	DEBUG Lvl = iota + 1
	INFO
	WARN
	ERROR
	FATAL
)

// Sentinel errors that carry the severity level. Wrapped errors can be
// matched against them with errors.Is to recover the level later
// (e.g. when reporting to Sentry).
var (
	ErrDebug = errors.New("[DEBUG]")
	ErrInfo  = errors.New("[INFO]")
	ErrWarn  = errors.New("[WARN]")
	ErrError = errors.New("[ERROR]")
	ErrFatal = errors.New("[FATAL]")
)

var sentinels = map[Lvl]error{
	DEBUG: ErrDebug,
	INFO:  ErrInfo,
	WARN:  ErrWarn,
	ERROR: ErrError,
	FATAL: ErrFatal,
}

// Wrap annotates err with the given severity level.
// An error that already carries a level is returned unchanged.
// Unknown levels fall back to ERROR.
func Wrap(err error, level Lvl) error {
	if hasLevel(err) {
		return err
	}

	sentinel, ok := sentinels[level]
	if !ok {
		sentinel = ErrError
	}
	return fmt.Errorf("%w %w", sentinel, err)
}

// hasLevel checks if the given error carries a severity level already.
func hasLevel(err error) bool {
	for _, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
