package shift

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownShift = errors.New("unknown shift")
)

// TimingError reports a time-window rule violation together with the minutes
// value the rule was evaluated on.
type TimingError struct {
	Err     error
	Field   string // e.g. "minutes_early"
	Minutes int
}

func (e *TimingError) Error() string {
	return fmt.Sprintf("%s (%s=%d)", e.Err.Error(), e.Field, e.Minutes)
}

func (e *TimingError) Unwrap() error {
	return e.Err
}

// NewTimingError wraps sentinel with the evaluated minutes.
func NewTimingError(sentinel error, field string, minutes int) error {
	return &TimingError{Err: sentinel, Field: field, Minutes: minutes}
}
