package payroll

import "context"

type PayrollRepository interface {
	// UpsertPeriod replaces the tally for (staff, month, year).
	UpsertPeriod(ctx context.Context, period PayPeriod) (PayPeriod, error)
	GetPeriod(ctx context.Context, staffID string, month, year int) (PayPeriod, error)
	ListPeriods(ctx context.Context, month, year int) ([]PayPeriod, error)
}
