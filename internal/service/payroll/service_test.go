package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/identity"
	"github.com/cmlabs-hris/shift-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRecord(t *testing.T, repo *memory.AttendanceRepository, staffID, date string, status attendance.Status, hours float64) attendance.Attendance {
	t.Helper()
	d, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	rec, err := repo.Create(context.Background(), attendance.Attendance{
		StaffID:     staffID,
		Date:        d,
		Status:      status,
		HoursWorked: hours,
	})
	require.NoError(t, err)
	return rec
}

func TestRecomputePay(t *testing.T) {
	ctx := context.Background()
	attendances := memory.NewAttendanceRepository()
	periods := memory.NewPayrollRepository()
	svc := NewPayrollService(periods, attendances, memory.NewStaffRepository())

	seedRecord(t, attendances, "s-ana", "2024-03-01", attendance.StatusPresent, 6)
	seedRecord(t, attendances, "s-ana", "2024-03-02", attendance.StatusLate, 5.42)
	seedRecord(t, attendances, "s-ana", "2024-03-03", attendance.StatusAbsent, 0)
	seedRecord(t, attendances, "s-ana", "2024-04-01", attendance.StatusPresent, 8)
	seedRecord(t, attendances, "s-budi", "2024-03-01", attendance.StatusPresent, 6)
	last := seedRecord(t, attendances, "s-ana", "2024-03-31", attendance.StatusPresent, 0.33)

	require.NoError(t, svc.RecomputePay(ctx, last.ID))

	p, err := periods.GetPeriod(ctx, "s-ana", 3, 2024)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("11.75").Equal(p.TotalHours), p.TotalHours.String())
	assert.Equal(t, 3, p.WorkedDays)
	assert.Equal(t, 1, p.LateDays)
	assert.Equal(t, 1, p.AbsentDays)

	// Recomputing replaces the tally instead of adding to it.
	require.NoError(t, svc.RecomputePay(ctx, last.ID))
	again, err := periods.GetPeriod(ctx, "s-ana", 3, 2024)
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)
	assert.True(t, p.TotalHours.Equal(again.TotalHours))
}

func TestRecomputePay_UnknownAttendance(t *testing.T) {
	svc := NewPayrollService(memory.NewPayrollRepository(), memory.NewAttendanceRepository(), memory.NewStaffRepository())

	err := svc.RecomputePay(context.Background(), "missing")
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestGetMyPeriod(t *testing.T) {
	attendances := memory.NewAttendanceRepository()
	svc := NewPayrollService(memory.NewPayrollRepository(), attendances, memory.NewStaffRepository())
	ctx := identity.WithIdentity(context.Background(), identity.Identity{StaffID: "s-ana"})

	_, err := svc.GetMyPeriod(ctx, payroll.PeriodRequest{Month: 3, Year: 2024})
	assert.ErrorIs(t, err, payroll.ErrPayPeriodNotFound)

	rec := seedRecord(t, attendances, "s-ana", "2024-03-05", attendance.StatusPresent, 6)
	require.NoError(t, svc.RecomputePay(ctx, rec.ID))

	resp, err := svc.GetMyPeriod(ctx, payroll.PeriodRequest{Month: 3, Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.WorkedDays)

	_, err = svc.GetMyPeriod(ctx, payroll.PeriodRequest{Month: 13, Year: 2024})
	assert.Error(t, err)
}

func TestListPeriods_FillsStaffNames(t *testing.T) {
	ctx := context.Background()
	attendances := memory.NewAttendanceRepository()
	staffRepo := memory.NewStaffRepository()
	svc := NewPayrollService(memory.NewPayrollRepository(), attendances, staffRepo)

	_, err := staffRepo.Create(ctx, staff.Staff{ID: "s-ana", FullName: "Ana", Role: staff.RoleFloor, IsActive: true})
	require.NoError(t, err)
	rec := seedRecord(t, attendances, "s-ana", "2024-03-05", attendance.StatusLate, 4)
	require.NoError(t, svc.RecomputePay(ctx, rec.ID))

	list, err := svc.ListPeriods(ctx, payroll.PeriodRequest{Month: 3, Year: 2024})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].StaffName)
	assert.Equal(t, "Ana", *list[0].StaffName)
	assert.Equal(t, 1, list[0].LateDays)
}
