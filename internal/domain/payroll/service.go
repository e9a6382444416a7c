package payroll

import (
	"context"
	"log/slog"
)

// Recomputer is notified after an attendance record changes.
type Recomputer interface {
	RecomputePay(ctx context.Context, attendanceID string) error
}

type PayrollService interface {
	Recomputer

	GetMyPeriod(ctx context.Context, req PeriodRequest) (PayPeriodResponse, error)
	ListPeriods(ctx context.Context, req PeriodRequest) ([]PayPeriodResponse, error)
}

// Trigger asks r to recompute pay for attendanceID. Failures are logged and
// never returned: the attendance change that caused them stands.
func Trigger(ctx context.Context, r Recomputer, attendanceID string) {
	if r == nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			slog.Error("payroll recompute panicked", "attendance_id", attendanceID, "panic", p)
		}
	}()
	if err := r.RecomputePay(ctx, attendanceID); err != nil {
		slog.Error("failed to recompute pay", "attendance_id", attendanceID, "error", err)
	}
}
