package report

import (
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type MonthlyReportRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *MonthlyReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: ErrInvalidMonth.Error(),
		})
	}
	if !validator.IsValidMonth(1, r.Year) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be a valid year",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MonthlyReport struct {
	PeriodMonth int    `json:"period_month"`
	PeriodYear  int    `json:"period_year"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	GeneratedAt string `json:"generated_at"`

	Staff []StaffStats `json:"staff"`
	Roles []RoleStats  `json:"roles"`
}

type StaffStats struct {
	StaffID   string `json:"staff_id"`
	StaffName string `json:"staff_name"`
	Role      string `json:"role"`
	Stats
}

type RoleStats struct {
	Role       string `json:"role"`
	StaffCount int    `json:"staff_count"`
	Stats
}

type Stats struct {
	OnTime         int             `json:"on_time"`
	Late           int             `json:"late"`
	Absent         int             `json:"absent"`
	ScheduledCount int             `json:"scheduled_count"`
	ConfirmedCount int             `json:"confirmed_count"`
	TotalHours     decimal.Decimal `json:"total_hours"`
	AttendanceRate int             `json:"attendance_rate"`
	CompletionRate int             `json:"completion_rate"`
}
