package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayPeriod is the monthly attendance tally payroll is computed from.
// Rates and amounts live outside this system.
type PayPeriod struct {
	ID          string
	StaffID     string
	PeriodMonth int
	PeriodYear  int
	TotalHours  decimal.Decimal
	WorkedDays  int
	LateDays    int
	AbsentDays  int
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined fields
	StaffName *string
}
