package report

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/identity"
	"github.com/cmlabs-hris/shift-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc         report.ReportService
	attendances *memory.AttendanceRepository
	schedules   *memory.ScheduleRepository
	staff       *memory.StaffRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		attendances: memory.NewAttendanceRepository(),
		schedules:   memory.NewScheduleRepository(),
		staff:       memory.NewStaffRepository(),
	}
	f.svc = NewReportService(f.attendances, f.schedules, f.staff, clock.NewFixed(time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)))
	return f
}

func (f *fixture) member(t *testing.T, id, name string, role staff.Role, active bool) {
	t.Helper()
	_, err := f.staff.Create(context.Background(), staff.Staff{ID: id, FullName: name, Role: role, IsActive: active})
	require.NoError(t, err)
}

func (f *fixture) worked(t *testing.T, staffID, date string, st shift.Type, as schedule.Status, rs attendance.Status, hours float64) {
	t.Helper()
	ctx := context.Background()
	d, err := shift.ParseDate(date)
	require.NoError(t, err)

	_, err = f.schedules.Create(ctx, schedule.Assignment{StaffID: staffID, Date: d, Shift: st, Status: as, CreatedBy: schedule.CreatedByAdmin})
	require.NoError(t, err)
	if rs == "" {
		return
	}
	_, err = f.attendances.Create(ctx, attendance.Attendance{StaffID: staffID, Date: d, Status: rs, HoursWorked: hours})
	require.NoError(t, err)
}

func TestGenerateMonthlyReport(t *testing.T) {
	f := newFixture(t)
	f.member(t, "s-budi", "Budi", staff.RoleKitchen, true)
	f.member(t, "s-ana", "Ana", staff.RoleKitchen, true)
	f.member(t, "s-citra", "Citra", staff.RoleCashier, true)
	f.member(t, "s-dewi", "Dewi", staff.RoleFloor, false)

	f.worked(t, "s-ana", "2024-03-01", shift.TypeMorning, schedule.StatusConfirmed, attendance.StatusPresent, 6)
	f.worked(t, "s-ana", "2024-03-02", shift.TypeMorning, schedule.StatusConfirmed, attendance.StatusLate, 5.42)
	f.worked(t, "s-ana", "2024-03-03", shift.TypeMorning, schedule.StatusScheduled, "", 0)
	f.worked(t, "s-ana", "2024-03-04", shift.TypeMorning, schedule.StatusCancelled, "", 0)
	f.worked(t, "s-budi", "2024-03-01", shift.TypeNight, schedule.StatusConfirmed, attendance.StatusAbsent, 0)
	f.worked(t, "s-dewi", "2024-03-01", shift.TypeEvening, schedule.StatusConfirmed, attendance.StatusPresent, 4)
	// Outside the month.
	f.worked(t, "s-ana", "2024-04-01", shift.TypeMorning, schedule.StatusConfirmed, attendance.StatusPresent, 6)

	got, err := f.svc.GenerateMonthlyReport(context.Background(), report.MonthlyReportRequest{Month: 3, Year: 2024})
	require.NoError(t, err)

	assert.Equal(t, "2024-03-01", got.PeriodStart)
	assert.Equal(t, "2024-03-31", got.PeriodEnd)
	assert.Equal(t, "2024-04-01T09:00:00Z", got.GeneratedAt)

	require.Len(t, got.Staff, 4)
	assert.Equal(t, "Ana", got.Staff[0].StaffName)
	assert.Equal(t, "Dewi", got.Staff[3].StaffName)

	ana := got.Staff[0]
	assert.Equal(t, 1, ana.OnTime)
	assert.Equal(t, 1, ana.Late)
	assert.Equal(t, 3, ana.ScheduledCount)
	assert.Equal(t, 2, ana.ConfirmedCount)
	assert.True(t, decimal.RequireFromString("11.42").Equal(ana.TotalHours), ana.TotalHours.String())
	assert.Equal(t, 67, ana.AttendanceRate)
	assert.Equal(t, 67, ana.CompletionRate)

	citra := got.Staff[2]
	assert.Equal(t, 0, citra.ScheduledCount)
	assert.Equal(t, 0, citra.AttendanceRate)

	require.Len(t, got.Roles, 3)
	kitchen := got.Roles[0]
	assert.Equal(t, "kitchen", kitchen.Role)
	assert.Equal(t, 2, kitchen.StaffCount)
	assert.Equal(t, 4, kitchen.ScheduledCount)
	assert.Equal(t, 1, kitchen.Absent)
	assert.Equal(t, 50, kitchen.AttendanceRate)
	assert.Equal(t, 75, kitchen.CompletionRate)

	floor := got.Roles[1]
	assert.Equal(t, 1, floor.StaffCount)
	assert.Equal(t, 100, floor.AttendanceRate)
}

func TestGenerateMonthlyReport_InvalidMonth(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GenerateMonthlyReport(context.Background(), report.MonthlyReportRequest{Month: 0, Year: 2024})
	assert.Error(t, err)
}

func TestGenerateMyMonthlyReport(t *testing.T) {
	f := newFixture(t)
	f.member(t, "s-ana", "Ana", staff.RoleKitchen, true)
	f.worked(t, "s-ana", "2024-03-01", shift.TypeMorning, schedule.StatusConfirmed, attendance.StatusPresent, 6)
	f.worked(t, "s-budi", "2024-03-01", shift.TypeMorning, schedule.StatusConfirmed, attendance.StatusPresent, 6)

	ctx := identity.WithIdentity(context.Background(), identity.Identity{StaffID: "s-ana"})
	got, err := f.svc.GenerateMyMonthlyReport(ctx, report.MonthlyReportRequest{Month: 3, Year: 2024})
	require.NoError(t, err)

	assert.Equal(t, "Ana", got.StaffName)
	assert.Equal(t, "kitchen", got.Role)
	assert.Equal(t, 1, got.ScheduledCount)
	assert.Equal(t, 100, got.AttendanceRate)

	_, err = f.svc.GenerateMyMonthlyReport(context.Background(), report.MonthlyReportRequest{Month: 3, Year: 2024})
	assert.ErrorIs(t, err, identity.ErrMissingIdentity)
}
