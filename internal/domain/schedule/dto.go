package schedule

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/validator"
)

const (
	MaxBatchItems   = 1000
	MaxTemplateDays = 62
)

type CreateAssignmentRequest struct {
	// Required for admin requests; ignored for staff self-registration.
	StaffID string  `json:"staff_id"`
	Date    string  `json:"date"`
	Shift   string  `json:"shift"`
	Note    *string `json:"note,omitempty"`

	ParsedDate time.Time `json:"-"`
}

func (r *CreateAssignmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if d, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	} else {
		r.ParsedDate = d
	}

	if !validator.IsInSlice(r.Shift, shift.TypeValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "shift",
			Message: "shift must be one of: " + strings.Join(shift.TypeValues, ", "),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BatchRequest struct {
	StaffIDs []string `json:"staff_ids"`
	Dates    []string `json:"dates"`
	Shift    string   `json:"shift"`
	Note     *string  `json:"note,omitempty"`

	ParsedDates []time.Time `json:"-"`
}

func (r *BatchRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.StaffIDs) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "staff_ids",
			Message: "at least one staff_id is required",
		})
	}
	for _, id := range r.StaffIDs {
		if validator.IsEmpty(id) {
			errs = append(errs, validator.ValidationError{
				Field:   "staff_ids",
				Message: "staff_ids must not contain empty values",
			})
			break
		}
	}

	if len(r.Dates) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "dates",
			Message: "at least one date is required",
		})
	}
	r.ParsedDates = r.ParsedDates[:0]
	for _, s := range r.Dates {
		d, ok := validator.IsValidDate(s)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "dates",
				Message: "invalid date " + s + ", use YYYY-MM-DD",
			})
			break
		}
		r.ParsedDates = append(r.ParsedDates, d)
	}

	if len(r.StaffIDs)*len(r.Dates) > MaxBatchItems {
		errs = append(errs, validator.ValidationError{
			Field:   "staff_ids",
			Message: "batch must not exceed " + validator.Itoa(MaxBatchItems) + " assignments",
		})
	}

	if !validator.IsInSlice(r.Shift, shift.TypeValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "shift",
			Message: "shift must be one of: " + strings.Join(shift.TypeValues, ", "),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TemplateRequest struct {
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
	Shifts    []string       `json:"shifts"`
	Headcount map[string]int `json:"headcount"` // role -> staff per shift

	ParsedStart time.Time `json:"-"`
	ParsedEnd   time.Time `json:"-"`
}

func (r *TemplateRequest) Validate() error {
	var errs validator.ValidationErrors

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if startOK && endOK {
		switch {
		case end.Before(start):
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		case int(end.Sub(start).Hours()/24)+1 > MaxTemplateDays:
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "date range must not exceed " + validator.Itoa(MaxTemplateDays) + " days",
			})
		default:
			r.ParsedStart, r.ParsedEnd = start, end
		}
	}

	if len(r.Shifts) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "shifts",
			Message: "at least one shift is required",
		})
	}
	for _, s := range r.Shifts {
		if !validator.IsInSlice(s, shift.TypeValues) {
			errs = append(errs, validator.ValidationError{
				Field:   "shifts",
				Message: "shifts must be one of: " + strings.Join(shift.TypeValues, ", "),
			})
			break
		}
	}

	if len(r.Headcount) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "headcount",
			Message: "headcount for at least one role is required",
		})
	}
	for role, n := range r.Headcount {
		if !validator.IsInSlice(role, staff.RoleValues) {
			errs = append(errs, validator.ValidationError{
				Field:   "headcount",
				Message: "headcount role must be one of: " + strings.Join(staff.RoleValues, ", "),
			})
			break
		}
		if n < 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "headcount",
				Message: "headcount must be a non-negative number",
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RejectAssignmentRequest struct {
	ID     string  `json:"-"`
	Reason *string `json:"reason,omitempty"`
}

func (r *RejectAssignmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if r.Reason != nil && len(*r.Reason) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AssignmentResponse struct {
	ID           string  `json:"id"`
	StaffID      string  `json:"staff_id"`
	StaffName    *string `json:"staff_name,omitempty"`
	Date         string  `json:"date"`
	Shift        string  `json:"shift"`
	Status       string  `json:"status"`
	CreatedBy    string  `json:"created_by"`
	RejectReason *string `json:"reject_reason,omitempty"`
	Note         *string `json:"note,omitempty"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

// BatchItemError identifies one combination that could not be created.
type BatchItemError struct {
	StaffID string `json:"staff_id"`
	Date    string `json:"date"`
	Shift   string `json:"shift"`
	Message string `json:"message"`
}

type BatchResult struct {
	Success []AssignmentResponse `json:"success"`
	Errors  []BatchItemError     `json:"errors"`
}

type ListAssignmentResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Assignments []AssignmentResponse `json:"assignments"`
}

type MyAssignmentFilter struct {
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	Status    *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *MyAssignmentFilter) Validate() error {
	errs := validateListParams(f.StartDate, f.EndDate, f.Status, &f.Page, &f.Limit)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AssignmentFilter struct {
	StaffID   *string `json:"staff_id,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	Status    *string `json:"status,omitempty"`
	Shift     *string `json:"shift,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *AssignmentFilter) Validate() error {
	errs := validateListParams(f.StartDate, f.EndDate, f.Status, &f.Page, &f.Limit)
	if f.Shift != nil && !validator.IsInSlice(*f.Shift, shift.TypeValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "shift",
			Message: "shift must be one of: " + strings.Join(shift.TypeValues, ", "),
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateListParams(startDate, endDate, status *string, page, limit *int) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if startDate != nil {
		if _, ok := validator.IsValidDate(*startDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if endDate != nil {
		if _, ok := validator.IsValidDate(*endDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
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

// NewAssignmentResponse maps a to its response, resolving the nominal window
// through cal.
func NewAssignmentResponse(a Assignment, cal *shift.Calendar) AssignmentResponse {
	resp := AssignmentResponse{
		ID:           a.ID,
		StaffID:      a.StaffID,
		StaffName:    a.StaffName,
		Date:         shift.FormatDate(a.Date),
		Shift:        string(a.Shift),
		Status:       string(a.Status),
		CreatedBy:    string(a.CreatedBy),
		RejectReason: a.RejectReason,
		Note:         a.Note,
		CreatedAt:    a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    a.UpdatedAt.Format(time.RFC3339),
	}
	if start, end, err := cal.Window(a.Shift, a.Date); err == nil {
		resp.StartTime = start.Format(time.RFC3339)
		resp.EndTime = end.Format(time.RFC3339)
	}
	return resp
}
