package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/identity"
	"github.com/shopspring/decimal"
)

type PayrollServiceImpl struct {
	payrollRepo    payroll.PayrollRepository
	attendanceRepo attendance.AttendanceRepository
	staffRepo      staff.Repository
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	attendanceRepo attendance.AttendanceRepository,
	staffRepo staff.Repository,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		payrollRepo:    payrollRepo,
		attendanceRepo: attendanceRepo,
		staffRepo:      staffRepo,
	}
}

// ========== RECOMPUTE ==========

// RecomputePay rebuilds the monthly tally of the staff member who owns the
// attendance record from every record in that month.
func (s *PayrollServiceImpl) RecomputePay(ctx context.Context, attendanceID string) error {
	record, err := s.attendanceRepo.GetByID(ctx, attendanceID)
	if err != nil {
		return fmt.Errorf("failed to get attendance %s: %w", attendanceID, err)
	}

	monthStart := time.Date(record.Date.Year(), record.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	records, _, err := s.attendanceRepo.List(ctx, attendance.Filter{
		StaffID:   &record.StaffID,
		StartDate: &monthStart,
		EndDate:   &monthEnd,
	})
	if err != nil {
		return fmt.Errorf("failed to list month attendance: %w", err)
	}

	period := payroll.PayPeriod{
		StaffID:     record.StaffID,
		PeriodMonth: int(monthStart.Month()),
		PeriodYear:  monthStart.Year(),
		TotalHours:  decimal.Zero,
	}
	for _, r := range records {
		period.TotalHours = period.TotalHours.Add(decimal.NewFromFloat(r.HoursWorked))
		switch r.Status {
		case attendance.StatusPresent:
			period.WorkedDays++
		case attendance.StatusLate:
			period.WorkedDays++
			period.LateDays++
		case attendance.StatusAbsent:
			period.AbsentDays++
		}
	}
	period.TotalHours = period.TotalHours.Round(2)

	if _, err := s.payrollRepo.UpsertPeriod(ctx, period); err != nil {
		return fmt.Errorf("failed to save pay period: %w", err)
	}
	return nil
}

// ========== QUERIES ==========

func (s *PayrollServiceImpl) GetMyPeriod(ctx context.Context, req payroll.PeriodRequest) (payroll.PayPeriodResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayPeriodResponse{}, err
	}

	caller, err := identity.FromContext(ctx)
	if err != nil {
		return payroll.PayPeriodResponse{}, err
	}

	period, err := s.payrollRepo.GetPeriod(ctx, caller.StaffID, req.Month, req.Year)
	if err != nil {
		if errors.Is(err, payroll.ErrPayPeriodNotFound) {
			return payroll.PayPeriodResponse{}, err
		}
		return payroll.PayPeriodResponse{}, fmt.Errorf("failed to get pay period: %w", err)
	}
	return mapToPeriodResponse(period), nil
}

func (s *PayrollServiceImpl) ListPeriods(ctx context.Context, req payroll.PeriodRequest) ([]payroll.PayPeriodResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	periods, err := s.payrollRepo.ListPeriods(ctx, req.Month, req.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to list pay periods: %w", err)
	}

	names := make(map[string]string)
	if members, err := s.staffRepo.ListActive(ctx); err == nil {
		for _, m := range members {
			names[m.ID] = m.FullName
		}
	}

	responses := make([]payroll.PayPeriodResponse, 0, len(periods))
	for _, p := range periods {
		if p.StaffName == nil {
			if name, ok := names[p.StaffID]; ok {
				p.StaffName = &name
			}
		}
		responses = append(responses, mapToPeriodResponse(p))
	}
	return responses, nil
}

func mapToPeriodResponse(p payroll.PayPeriod) payroll.PayPeriodResponse {
	return payroll.PayPeriodResponse{
		StaffID:     p.StaffID,
		StaffName:   p.StaffName,
		PeriodMonth: p.PeriodMonth,
		PeriodYear:  p.PeriodYear,
		TotalHours:  p.TotalHours,
		WorkedDays:  p.WorkedDays,
		LateDays:    p.LateDays,
		AbsentDays:  p.AbsentDays,
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}
