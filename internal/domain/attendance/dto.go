package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/validator"
)

type ClockInRequest struct {
	// Optional. When set it must name one of today's confirmed assignments.
	ScheduleID *string `json:"schedule_id,omitempty"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ScheduleID != nil && validator.IsEmpty(*r.ScheduleID) {
		errs = append(errs, validator.ValidationError{
			Field:   "schedule_id",
			Message: "schedule_id must not be empty when provided",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ClockOutRequest struct {
	Note *string `json:"note,omitempty"`
}

func (r *ClockOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Note != nil && len(*r.Note) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "note",
			Message: "note must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateAttendanceRequest struct {
	ID     string  `json:"-"`
	Status *string `json:"status,omitempty"`
	Note   *string `json:"note,omitempty"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if r.Status == nil && r.Note == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status or note is required",
		})
	}
	if r.Status != nil && !validator.IsInSlice(*r.Status, StatusValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(StatusValues, ", "),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AttendanceResponse struct {
	ID          string  `json:"id"`
	StaffID     string  `json:"staff_id"`
	StaffName   *string `json:"staff_name,omitempty"`
	Date        string  `json:"date"`
	ScheduleID  *string `json:"schedule_id,omitempty"`
	TimeIn      *string `json:"time_in"`
	TimeOut     *string `json:"time_out"`
	HoursWorked float64 `json:"hours_worked"`
	Status      string  `json:"status"`
	Note        *string `json:"note,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// ClockResponse echoes the nominal window of the shift that was worked.
type ClockResponse struct {
	Attendance AttendanceResponse `json:"attendance"`
	Shift      string             `json:"shift"`
	StartTime  string             `json:"start_time"`
	EndTime    string             `json:"end_time"`
}

type TodayResponse struct {
	Date        string                        `json:"date"`
	Attendance  *AttendanceResponse           `json:"attendance"`
	Assignments []schedule.AssignmentResponse `json:"assignments"`
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}

type MyAttendanceFilter struct {
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	Status    *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *MyAttendanceFilter) Validate() error {
	errs := validateListParams(f.StartDate, f.EndDate, f.Status, &f.Page, &f.Limit)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AttendanceFilter struct {
	StaffID   *string `json:"staff_id,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	Status    *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *AttendanceFilter) Validate() error {
	errs := validateListParams(f.StartDate, f.EndDate, f.Status, &f.Page, &f.Limit)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateListParams(startDate, endDate, status *string, page, limit *int) validator.ValidationErrors {
	var errs validator.ValidationErrors

	start, startOK := parseOptionalDate(startDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	end, endOK := parseOptionalDate(endDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if startDate != nil && endDate != nil && startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}
	if status != nil && !validator.IsInSlice(*status, StatusValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(StatusValues, ", "),
		})
	}

	errs = append(errs, validator.Pagination(page, limit)...)
	return errs
}

func parseOptionalDate(s *string) (time.Time, bool) {
	if s == nil {
		return time.Time{}, true
	}
	return validator.IsValidDate(*s)
}
