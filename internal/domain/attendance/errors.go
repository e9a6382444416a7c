package attendance

import "errors"

var (
	// Clock-in errors
	ErrAlreadyClockedIn    = errors.New("you have already clocked in today")
	ErrNoConfirmedSchedule = errors.New("no confirmed schedule found for today")
	ErrScheduleMismatch    = errors.New("schedule does not match today's confirmed assignment")
	ErrTooEarly            = errors.New("too early to clock in")
	ErrTooLate             = errors.New("too late to clock in")

	// Clock-out errors
	ErrNoSchedule        = errors.New("no schedule found for today")
	ErrAlreadyClockedOut = errors.New("you have already clocked out")
	ErrInvalidTimeOrder  = errors.New("clock-out must be after clock-in")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrDuplicateRecord    = errors.New("attendance record already exists for this staff and date")
)
