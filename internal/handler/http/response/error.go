package response

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/identity"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/keylock"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Time-window violations carry the minutes they were judged on
	var timingErr *shift.TimingError
	if errors.As(err, &timingErr) {
		TimingViolation(w, timingErr.Err.Error(), map[string]string{
			timingErr.Field: strconv.Itoa(timingErr.Minutes),
		})
		return
	}

	switch {
	// Identity
	case errors.Is(err, identity.ErrMissingIdentity):
		Unauthorized(w, "Caller identity is required")
	case errors.Is(err, identity.ErrAdminRequired):
		Forbidden(w, "Admin privilege required")

	// Not found
	case errors.Is(err, staff.ErrStaffNotFound):
		NotFound(w, "Staff not found")
	case errors.Is(err, schedule.ErrAssignmentNotFound):
		NotFound(w, "Schedule assignment not found")
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrNoConfirmedSchedule),
		errors.Is(err, attendance.ErrNoSchedule):
		NotFound(w, err.Error())
	case errors.Is(err, payroll.ErrPayPeriodNotFound):
		NotFound(w, "Pay period not found")
	case errors.Is(err, cron.ErrUnknownSweep):
		NotFound(w, "Unknown sweep")

	// State conflicts
	case errors.Is(err, attendance.ErrAlreadyClockedIn),
		errors.Is(err, attendance.ErrAlreadyClockedOut),
		errors.Is(err, attendance.ErrDuplicateRecord),
		errors.Is(err, schedule.ErrDuplicateAssignment),
		errors.Is(err, schedule.ErrDailyLimitExceeded),
		errors.Is(err, schedule.ErrFullDayConflict),
		errors.Is(err, schedule.ErrInvalidTransition):
		Conflict(w, err.Error())
	case errors.Is(err, keylock.ErrLockTimeout):
		Conflict(w, "Another request for this record is in progress")

	// Rule rejections
	case errors.Is(err, schedule.ErrPastDate),
		errors.Is(err, schedule.ErrStaffIDRequired),
		errors.Is(err, schedule.ErrInvalidCreator),
		errors.Is(err, attendance.ErrScheduleMismatch),
		errors.Is(err, attendance.ErrInvalidTimeOrder),
		errors.Is(err, staff.ErrStaffInactive),
		errors.Is(err, report.ErrInvalidMonth),
		errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
