package schedule

import "errors"

var (
	ErrAssignmentNotFound = errors.New("schedule assignment not found")

	// Constraint rejections
	ErrPastDate             = errors.New("cannot schedule a shift on a past date")
	ErrShiftAlreadyStarted  = errors.New("shift has already started")
	ErrInsufficientLeadTime = errors.New("not enough lead time before the shift")
	ErrDuplicateAssignment  = errors.New("staff is already assigned to this shift on this date")
	ErrDailyLimitExceeded   = errors.New("staff already has the maximum number of shifts on this date")
	ErrFullDayConflict      = errors.New("a full_day shift cannot be combined with other shifts on the same date")

	ErrInvalidTransition = errors.New("schedule assignment cannot move to the requested status")
	ErrInvalidCreator    = errors.New("invalid assignment creator")
	ErrStaffIDRequired   = errors.New("staff_id is required")
)
