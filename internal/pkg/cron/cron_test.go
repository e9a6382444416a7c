package cron

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/keylock"
	"github.com/cmlabs-hris/shift-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*60*60)

func wibTime(date, hhmm string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+hhmm, wib)
	if err != nil {
		panic(err)
	}
	return t
}

func day(s string) time.Time {
	d, err := shift.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

type countingRecomputer struct {
	mu    sync.Mutex
	calls []string
}

func (c *countingRecomputer) RecomputePay(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, id)
	return nil
}

type env struct {
	attendances *memory.AttendanceRepository
	schedules   *memory.ScheduleRepository
	clock       *clock.Fixed
	payroll     *countingRecomputer
	shiftJobs   *ScheduleJobs
	attJobs     *AttendanceJobs
}

func newEnv(now time.Time) *env {
	e := &env{
		attendances: memory.NewAttendanceRepository(),
		schedules:   memory.NewScheduleRepository(),
		clock:       clock.NewFixed(now),
		payroll:     &countingRecomputer{},
	}
	cal := shift.NewCalendar(wib)
	e.shiftJobs = NewScheduleJobs(e.schedules, cal, e.clock)
	e.attJobs = NewAttendanceJobs(e.attendances, e.schedules, cal, e.clock, keylock.NewLocal(), e.payroll)
	return e
}

func (e *env) assign(t *testing.T, staffID, date string, st shift.Type, status schedule.Status) schedule.Assignment {
	t.Helper()
	a, err := e.schedules.Create(context.Background(), schedule.Assignment{
		StaffID:   staffID,
		Date:      day(date),
		Shift:     st,
		Status:    status,
		CreatedBy: schedule.CreatedByAdmin,
	})
	require.NoError(t, err)
	return a
}

func (e *env) clockedIn(t *testing.T, a schedule.Assignment, in time.Time) attendance.Attendance {
	t.Helper()
	rec, err := e.attendances.Create(context.Background(), attendance.Attendance{
		StaffID:    a.StaffID,
		Date:       a.Date,
		ScheduleID: &a.ID,
		TimeIn:     &in,
		Status:     attendance.StatusPresent,
	})
	require.NoError(t, err)
	return rec
}

// ===== AUTO-REJECT TESTS =====

func TestAutoReject_Window(t *testing.T) {
	tests := []struct {
		name     string
		now      string
		rejected bool
	}{
		{"exactly one hour before start", "05:00", false},
		{"59 minutes before start", "05:01", true},
		{"at start", "06:00", true},
		{"start already passed", "06:01", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(wibTime("2024-03-04", tt.now))
			a := e.assign(t, "s-ana", "2024-03-04", shift.TypeMorning, schedule.StatusScheduled)

			n, err := e.shiftJobs.AutoReject(context.Background())
			require.NoError(t, err)

			got, err := e.schedules.GetByID(context.Background(), a.ID)
			require.NoError(t, err)
			if tt.rejected {
				assert.Equal(t, 1, n)
				assert.Equal(t, schedule.StatusRejected, got.Status)
				require.NotNil(t, got.RejectReason)
				assert.Contains(t, *got.RejectReason, "Automatically rejected")
			} else {
				assert.Equal(t, 0, n)
				assert.Equal(t, schedule.StatusScheduled, got.Status)
			}
		})
	}
}

// confirmAfterList confirms every assignment it lists, as a staff confirm
// landing between the sweep's read and its write would.
type confirmAfterList struct {
	*memory.ScheduleRepository
}

func (r confirmAfterList) ListByDate(ctx context.Context, date time.Time, statuses ...schedule.Status) ([]schedule.Assignment, error) {
	list, err := r.ScheduleRepository.ListByDate(ctx, date, statuses...)
	for _, a := range list {
		if _, err := r.ScheduleRepository.UpdateStatus(ctx, a.ID, []schedule.Status{schedule.StatusScheduled}, schedule.StatusConfirmed, nil); err != nil {
			return nil, err
		}
	}
	return list, err
}

func TestAutoReject_SkipsAssignmentConfirmedMeanwhile(t *testing.T) {
	e := newEnv(wibTime("2024-03-04", "05:30"))
	a := e.assign(t, "s-ana", "2024-03-04", shift.TypeMorning, schedule.StatusScheduled)

	jobs := NewScheduleJobs(confirmAfterList{e.schedules}, shift.NewCalendar(wib), e.clock)
	n, err := jobs.AutoReject(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	got, err := e.schedules.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusConfirmed, got.Status)
	assert.Nil(t, got.RejectReason)
}

func TestAutoReject_LeavesOtherAssignmentsAlone(t *testing.T) {
	e := newEnv(wibTime("2024-03-04", "05:30"))
	confirmed := e.assign(t, "s-ana", "2024-03-04", shift.TypeMorning, schedule.StatusConfirmed)
	later := e.assign(t, "s-budi", "2024-03-04", shift.TypeAfternoon, schedule.StatusScheduled)
	tomorrow := e.assign(t, "s-budi", "2024-03-05", shift.TypeMorning, schedule.StatusScheduled)

	n, err := e.shiftJobs.AutoReject(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	for _, id := range []string{confirmed.ID, later.ID, tomorrow.ID} {
		a, err := e.schedules.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.True(t, a.Status.IsActive())
	}
}

// ===== AUTO-ABSENCE TESTS =====

func TestAutoAbsence(t *testing.T) {
	ctx := context.Background()
	e := newEnv(wibTime("2024-03-04", "23:00"))

	e.assign(t, "s-ana", "2024-03-04", shift.TypeMorning, schedule.StatusConfirmed)
	worked := e.assign(t, "s-budi", "2024-03-04", shift.TypeMorning, schedule.StatusConfirmed)
	e.clockedIn(t, worked, wibTime("2024-03-04", "06:00"))
	e.assign(t, "s-citra", "2024-03-04", shift.TypeMorning, schedule.StatusScheduled)
	e.assign(t, "s-dewi", "2024-03-04", shift.TypeEvening, schedule.StatusConfirmed)
	morning := e.assign(t, "s-dewi", "2024-03-04", shift.TypeMorning, schedule.StatusConfirmed)

	n, err := e.attJobs.AutoAbsence(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, e.payroll.calls, 2)

	ana, err := e.attendances.GetByStaffAndDate(ctx, "s-ana", day("2024-03-04"))
	require.NoError(t, err)
	require.NotNil(t, ana)
	assert.Equal(t, attendance.StatusAbsent, ana.Status)
	assert.Nil(t, ana.TimeIn)
	require.NotNil(t, ana.Note)

	dewi, err := e.attendances.GetByStaffAndDate(ctx, "s-dewi", day("2024-03-04"))
	require.NoError(t, err)
	require.NotNil(t, dewi)
	assert.Equal(t, morning.ID, *dewi.ScheduleID)

	citra, err := e.attendances.GetByStaffAndDate(ctx, "s-citra", day("2024-03-04"))
	require.NoError(t, err)
	assert.Nil(t, citra)

	// Second pass is a no-op.
	n, err = e.attJobs.AutoAbsence(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	_, total, err := e.attendances.List(ctx, attendance.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestAutoAbsence_ScheduledOnlyAtConfiguredHour(t *testing.T) {
	e := newEnv(wibTime("2024-03-04", "22:30"))
	e.assign(t, "s-ana", "2024-03-04", shift.TypeMorning, schedule.StatusConfirmed)

	scheduler := NewScheduler()
	e.attJobs.RegisterJobs(scheduler, Intervals{Absence: time.Hour, AbsenceHour: 23})

	scheduler.RunOnce(context.Background())
	_, total, _ := e.attendances.List(context.Background(), attendance.Filter{})
	assert.Equal(t, int64(0), total)

	e.clock.Set(wibTime("2024-03-04", "23:05"))
	scheduler.RunOnce(context.Background())
	_, total, _ = e.attendances.List(context.Background(), attendance.Filter{})
	assert.Equal(t, int64(1), total)
}

// ===== AUTO-CLOCK-OUT TESTS =====

func TestAutoClockOut(t *testing.T) {
	ctx := context.Background()
	e := newEnv(wibTime("2024-03-04", "14:01"))

	stale := e.clockedIn(t, e.assign(t, "s-ana", "2024-03-04", shift.TypeMorning, schedule.StatusConfirmed), wibTime("2024-03-04", "06:00"))
	fresh := e.clockedIn(t, e.assign(t, "s-budi", "2024-03-04", shift.TypeAfternoon, schedule.StatusConfirmed), wibTime("2024-03-04", "12:00"))

	n, err := e.attJobs.AutoClockOut(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := e.attendances.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	require.NotNil(t, got.TimeOut)
	assert.True(t, got.TimeOut.Equal(wibTime("2024-03-04", "12:00")))
	assert.InDelta(t, 6.0, got.HoursWorked, 0.0001)
	require.NotNil(t, got.Note)
	assert.Contains(t, *got.Note, "Auto clock-out")
	assert.Equal(t, []string{stale.ID}, e.payroll.calls)

	still, err := e.attendances.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.True(t, still.IsOpen())

	n, err = e.attJobs.AutoClockOut(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestAutoClockOut_OvernightShift(t *testing.T) {
	ctx := context.Background()
	e := newEnv(wibTime("2024-03-04", "08:30"))

	rec := e.clockedIn(t, e.assign(t, "s-ana", "2024-03-03", shift.TypeNight, schedule.StatusConfirmed), wibTime("2024-03-03", "22:00"))

	n, err := e.attJobs.AutoClockOut(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := e.attendances.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, got.HoursWorked, 0.0001)
	assert.True(t, got.TimeOut.Equal(wibTime("2024-03-04", "06:00")))
}

func TestAutoClockOut_GraceBoundary(t *testing.T) {
	e := newEnv(wibTime("2024-03-04", "14:00"))
	e.clockedIn(t, e.assign(t, "s-ana", "2024-03-04", shift.TypeMorning, schedule.StatusConfirmed), wibTime("2024-03-04", "06:00"))

	n, err := e.attJobs.AutoClockOut(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

// ===== SCHEDULER AND REGISTRY TESTS =====

func TestRegistry(t *testing.T) {
	e := newEnv(wibTime("2024-03-04", "05:30"))
	e.assign(t, "s-ana", "2024-03-04", shift.TypeMorning, schedule.StatusScheduled)

	registry := NewRegistry()
	e.shiftJobs.RegisterSweeps(registry)
	e.attJobs.RegisterSweeps(registry)

	assert.Equal(t, []string{SweepAutoReject, SweepAutoAbsence, SweepAutoClockOut}, registry.Names())

	res, err := registry.Run(context.Background(), SweepAutoReject)
	require.NoError(t, err)
	assert.Equal(t, SweepAutoReject, res.Name)
	assert.Equal(t, 1, res.Affected)

	_, err = registry.Run(context.Background(), "auto-promote")
	assert.ErrorIs(t, err, ErrUnknownSweep)
}

func TestScheduler_RunOnceSurvivesPanics(t *testing.T) {
	s := NewScheduler()
	var ran atomic.Int32

	s.AddJob("boom", time.Hour, func(context.Context) error { panic("boom") })
	s.AddJob("fails", time.Hour, func(context.Context) error { return errors.New("nope") })
	s.AddJob("ok", time.Hour, func(context.Context) error { ran.Add(1); return nil })
	s.AddJob("disabled", 0, func(context.Context) error { ran.Add(100); return nil })

	assert.Equal(t, []string{"boom", "fails", "ok"}, s.Jobs())

	s.RunOnce(context.Background())
	assert.Equal(t, int32(1), ran.Load())
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler()
	started := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(context.Context) error {
		select {
		case started <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()
	s.Start()
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}
