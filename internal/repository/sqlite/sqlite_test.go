package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/shift-backend-go/internal/repository/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func mustDate(t *testing.T, s string) time.Time {
	d, err := shift.ParseDate(s)
	require.NoError(t, err)
	return d
}

func createStaff(t *testing.T, repo staff.Repository, name string, role staff.Role, active bool) staff.Staff {
	s, err := repo.Create(context.Background(), staff.Staff{FullName: name, Role: role, IsActive: active})
	require.NoError(t, err)
	return s
}

// ===== STAFF TESTS =====

func TestStaffRepository(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := sqlite.NewStaffRepository(db)

	budi := createStaff(t, repo, "Budi", staff.RoleKitchen, true)
	createStaff(t, repo, "Ana", staff.RoleKitchen, true)
	createStaff(t, repo, "Citra", staff.RoleKitchen, false)
	createStaff(t, repo, "Dewi", staff.RoleFloor, true)

	got, err := repo.GetByID(ctx, budi.ID)
	require.NoError(t, err)
	assert.Equal(t, "Budi", got.FullName)
	assert.Equal(t, staff.RoleKitchen, got.Role)
	assert.True(t, got.IsActive)

	kitchen, err := repo.ListActiveByRole(ctx, staff.RoleKitchen)
	require.NoError(t, err)
	require.Len(t, kitchen, 2)
	assert.Equal(t, "Ana", kitchen[0].FullName)
	assert.Equal(t, "Budi", kitchen[1].FullName)

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 3)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, staff.ErrStaffNotFound)
}

// ===== SCHEDULE TESTS =====

func TestScheduleRepository(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	staffRepo := sqlite.NewStaffRepository(db)
	repo := sqlite.NewScheduleRepository(db)

	ana := createStaff(t, staffRepo, "Ana", staff.RoleKitchen, true)
	budi := createStaff(t, staffRepo, "Budi", staff.RoleFloor, true)
	day := mustDate(t, "2024-03-04")

	create := func(staffID string, date time.Time, st shift.Type, status schedule.Status) schedule.Assignment {
		a, err := repo.Create(ctx, schedule.Assignment{
			StaffID: staffID, Date: date, Shift: st, Status: status, CreatedBy: schedule.CreatedByAdmin,
		})
		require.NoError(t, err)
		return a
	}

	evening := create(ana.ID, day, shift.TypeEvening, schedule.StatusScheduled)
	morning := create(ana.ID, day, shift.TypeMorning, schedule.StatusConfirmed)
	create(budi.ID, day, shift.TypeNight, schedule.StatusScheduled)
	create(budi.ID, day.AddDate(0, 0, 1), shift.TypeMorning, schedule.StatusScheduled)

	t.Run("duplicate", func(t *testing.T) {
		_, err := repo.Create(ctx, schedule.Assignment{
			StaffID: ana.ID, Date: day, Shift: shift.TypeMorning,
			Status: schedule.StatusScheduled, CreatedBy: schedule.CreatedByStaff,
		})
		assert.ErrorIs(t, err, schedule.ErrDuplicateAssignment)
	})

	t.Run("get by id round trips fields", func(t *testing.T) {
		got, err := repo.GetByID(ctx, morning.ID)
		require.NoError(t, err)
		assert.Equal(t, day, got.Date)
		assert.Equal(t, shift.TypeMorning, got.Shift)
		assert.Equal(t, schedule.StatusConfirmed, got.Status)
		assert.Nil(t, got.RejectReason)
		require.NotNil(t, got.StaffName)
		assert.Equal(t, "Ana", *got.StaffName)

		_, err = repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, schedule.ErrAssignmentNotFound)
	})

	t.Run("list by staff and date in shift order", func(t *testing.T) {
		list, err := repo.ListByStaffAndDate(ctx, ana.ID, day)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, morning.ID, list[0].ID)
		assert.Equal(t, evening.ID, list[1].ID)
	})

	t.Run("list by date with statuses", func(t *testing.T) {
		all, err := repo.ListByDate(ctx, day)
		require.NoError(t, err)
		assert.Len(t, all, 3)

		scheduled, err := repo.ListByDate(ctx, day, schedule.StatusScheduled)
		require.NoError(t, err)
		assert.Len(t, scheduled, 2)
	})

	t.Run("list with filter and pagination", func(t *testing.T) {
		list, total, err := repo.List(ctx, schedule.Filter{Statuses: []schedule.Status{schedule.StatusScheduled}, Page: 1, Limit: 2})
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		assert.Len(t, list, 2)

		end := day
		list, total, err = repo.List(ctx, schedule.Filter{StaffID: &budi.ID, EndDate: &end})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, list, 1)
		assert.Equal(t, shift.TypeNight, list[0].Shift)
	})

	t.Run("update status keeps reason when nil", func(t *testing.T) {
		reason := "sick"
		updated, err := repo.UpdateStatus(ctx, evening.ID, []schedule.Status{schedule.StatusScheduled}, schedule.StatusRejected, &reason)
		require.NoError(t, err)
		assert.Equal(t, schedule.StatusRejected, updated.Status)
		require.NotNil(t, updated.RejectReason)
		assert.Equal(t, "sick", *updated.RejectReason)

		_, err = repo.UpdateStatus(ctx, "missing", []schedule.Status{schedule.StatusScheduled}, schedule.StatusConfirmed, nil)
		assert.ErrorIs(t, err, schedule.ErrAssignmentNotFound)
	})

	t.Run("update status refuses a status that already moved", func(t *testing.T) {
		_, err := repo.UpdateStatus(ctx, evening.ID, []schedule.Status{schedule.StatusScheduled}, schedule.StatusConfirmed, nil)
		assert.ErrorIs(t, err, schedule.ErrInvalidTransition)

		got, err := repo.GetByID(ctx, evening.ID)
		require.NoError(t, err)
		assert.Equal(t, schedule.StatusRejected, got.Status)
	})
}

// ===== ATTENDANCE TESTS =====

func TestAttendanceRepository(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	staffRepo := sqlite.NewStaffRepository(db)
	scheduleRepo := sqlite.NewScheduleRepository(db)
	repo := sqlite.NewAttendanceRepository(db)

	ana := createStaff(t, staffRepo, "Ana", staff.RoleKitchen, true)
	budi := createStaff(t, staffRepo, "Budi", staff.RoleFloor, true)
	day := mustDate(t, "2024-03-04")

	a, err := scheduleRepo.Create(ctx, schedule.Assignment{
		StaffID: ana.ID, Date: day, Shift: shift.TypeMorning,
		Status: schedule.StatusConfirmed, CreatedBy: schedule.CreatedByAdmin,
	})
	require.NoError(t, err)

	wib := time.FixedZone("WIB", 7*60*60)
	in := time.Date(2024, 3, 4, 6, 5, 0, 0, wib)
	rec, err := repo.Create(ctx, attendance.Attendance{
		StaffID: ana.ID, Date: day, ScheduleID: &a.ID, TimeIn: &in, Status: attendance.StatusPresent,
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, attendance.Attendance{StaffID: ana.ID, Date: day, Status: attendance.StatusLate})
	assert.ErrorIs(t, err, attendance.ErrDuplicateRecord)

	t.Run("open sessions", func(t *testing.T) {
		open, err := repo.ListOpen(ctx, day.AddDate(0, 0, 1))
		require.NoError(t, err)
		require.Len(t, open, 1)
		assert.Equal(t, rec.ID, open[0].ID)
		require.NotNil(t, open[0].TimeIn)
		assert.True(t, in.Equal(*open[0].TimeIn))

		open, err = repo.ListOpen(ctx, day.AddDate(0, 0, -1))
		require.NoError(t, err)
		assert.Empty(t, open)
	})

	t.Run("update closes the session", func(t *testing.T) {
		out := in.Add(5 * time.Hour)
		note := "left early"
		rec.TimeOut = &out
		rec.HoursWorked = 4.92
		rec.Note = &note
		_, err := repo.Update(ctx, rec)
		require.NoError(t, err)

		got, err := repo.GetByStaffAndDate(ctx, ana.ID, day)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.InDelta(t, 4.92, got.HoursWorked, 0.001)
		assert.False(t, got.IsOpen())
		require.NotNil(t, got.ScheduleID)
		assert.Equal(t, a.ID, *got.ScheduleID)
		require.NotNil(t, got.Note)
		assert.Equal(t, "left early", *got.Note)

		_, err = repo.Update(ctx, attendance.Attendance{ID: "missing", Status: attendance.StatusPresent})
		assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
	})

	t.Run("absences skip existing records", func(t *testing.T) {
		created, err := repo.CreateAbsences(ctx, []attendance.Attendance{
			{StaffID: ana.ID, Date: day, Status: attendance.StatusAbsent},
			{StaffID: budi.ID, Date: day, Status: attendance.StatusAbsent},
		})
		require.NoError(t, err)
		require.Len(t, created, 1)
		assert.Equal(t, budi.ID, created[0].StaffID)

		none, err := repo.GetByStaffAndDate(ctx, budi.ID, day.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.Nil(t, none)
	})

	t.Run("list", func(t *testing.T) {
		absent := attendance.StatusAbsent
		list, total, err := repo.List(ctx, attendance.Filter{Status: &absent})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, list, 1)
		require.NotNil(t, list[0].StaffName)
		assert.Equal(t, "Budi", *list[0].StaffName)

		list, total, err = repo.List(ctx, attendance.Filter{Page: 2, Limit: 1})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, list, 1)
	})
}

// ===== PAYROLL TESTS =====

func TestPayrollRepository(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	staffRepo := sqlite.NewStaffRepository(db)
	repo := sqlite.NewPayrollRepository(db)

	ana := createStaff(t, staffRepo, "Ana", staff.RoleKitchen, true)

	first, err := repo.UpsertPeriod(ctx, payroll.PayPeriod{
		StaffID: ana.ID, PeriodMonth: 3, PeriodYear: 2024,
		TotalHours: decimal.RequireFromString("11.75"), WorkedDays: 2,
	})
	require.NoError(t, err)

	second, err := repo.UpsertPeriod(ctx, payroll.PayPeriod{
		StaffID: ana.ID, PeriodMonth: 3, PeriodYear: 2024,
		TotalHours: decimal.RequireFromString("17.75"), WorkedDays: 3, LateDays: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, decimal.RequireFromString("17.75").Equal(second.TotalHours))
	assert.Equal(t, 1, second.LateDays)

	list, err := repo.ListPeriods(ctx, 3, 2024)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].StaffName)
	assert.Equal(t, "Ana", *list[0].StaffName)

	_, err = repo.GetPeriod(ctx, ana.ID, 4, 2024)
	assert.ErrorIs(t, err, payroll.ErrPayPeriodNotFound)
}

func TestOpen_ForeignKeysEnforced(t *testing.T) {
	db := openTestDB(t)
	repo := sqlite.NewScheduleRepository(db)

	_, err := repo.Create(context.Background(), schedule.Assignment{
		StaffID: "nobody", Date: mustDate(t, "2024-03-04"), Shift: shift.TypeMorning,
		Status: schedule.StatusScheduled, CreatedBy: schedule.CreatedByAdmin,
	})
	assert.Error(t, err)
}

func TestOpen_FileCreatesDirectoryAndReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "shift.db")

	db, err := sqlite.Open(path)
	require.NoError(t, err)
	_, err = sqlite.NewStaffRepository(db).Create(context.Background(), staff.Staff{
		FullName: "Ana", Role: staff.RoleKitchen, IsActive: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = sqlite.Open(path)
	require.NoError(t, err)
	defer db.Close()

	active, err := sqlite.NewStaffRepository(db).ListActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestScan_CorruptColumnsReturnError(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	staffRepo := sqlite.NewStaffRepository(db)
	scheduleRepo := sqlite.NewScheduleRepository(db)

	ana := createStaff(t, staffRepo, "Ana", staff.RoleKitchen, true)
	a, err := scheduleRepo.Create(ctx, schedule.Assignment{
		StaffID: ana.ID, Date: mustDate(t, "2024-03-04"), Shift: shift.TypeMorning,
		Status: schedule.StatusScheduled, CreatedBy: schedule.CreatedByAdmin,
	})
	require.NoError(t, err)

	t.Run("timestamp", func(t *testing.T) {
		_, err := db.ExecContext(ctx, `UPDATE staff SET created_at = 'yesterday' WHERE id = ?`, ana.ID)
		require.NoError(t, err)

		_, err = staffRepo.GetByID(ctx, ana.ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "created_at")

		_, err = staffRepo.ListActive(ctx)
		assert.Error(t, err)
	})

	t.Run("date", func(t *testing.T) {
		_, err := db.ExecContext(ctx, `UPDATE shift_assignments SET date = '04/03/2024' WHERE id = ?`, a.ID)
		require.NoError(t, err)

		_, err = scheduleRepo.GetByID(ctx, a.ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "date")
	})
}
