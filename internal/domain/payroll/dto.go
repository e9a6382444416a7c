package payroll

import (
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type PeriodRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *PeriodRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidMonth(r.Month, r.Year) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12 with a valid year",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayPeriodResponse struct {
	StaffID     string          `json:"staff_id"`
	StaffName   *string         `json:"staff_name,omitempty"`
	PeriodMonth int             `json:"period_month"`
	PeriodYear  int             `json:"period_year"`
	TotalHours  decimal.Decimal `json:"total_hours"`
	WorkedDays  int             `json:"worked_days"`
	LateDays    int             `json:"late_days"`
	AbsentDays  int             `json:"absent_days"`
	UpdatedAt   string          `json:"updated_at"`
}
