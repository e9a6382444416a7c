package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/keylock"
)

const (
	// Open sessions are closed once this long has passed since nominal end.
	AutoClockOutGrace = 2 * time.Hour

	autoAbsenceNote  = "Marked absent: no clock-in for a confirmed shift"
	autoClockOutNote = "Auto clock-out at shift end: no clock-out within 2 hours of scheduled end"
)

type AttendanceJobs struct {
	attendanceRepo attendance.AttendanceRepository
	scheduleRepo   schedule.Repository
	calendar       *shift.Calendar
	clock          clock.Clock
	locker         keylock.Locker
	payroll        payroll.Recomputer
}

func NewAttendanceJobs(
	attendanceRepo attendance.AttendanceRepository,
	scheduleRepo schedule.Repository,
	calendar *shift.Calendar,
	clk clock.Clock,
	locker keylock.Locker,
	recomputer payroll.Recomputer,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		scheduleRepo:   scheduleRepo,
		calendar:       calendar,
		clock:          clk,
		locker:         locker,
		payroll:        recomputer,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, intervals Intervals) {
	scheduler.AddJob("auto_close_stale_attendances", intervals.AutoClockOut, func(ctx context.Context) error {
		_, err := j.AutoClockOut(ctx)
		return err
	})
	scheduler.AddJob("mark_absent_staff", intervals.Absence, func(ctx context.Context) error {
		// Only run during the configured hour of the business day
		if intervals.AbsenceHour >= 0 && j.clock.Now().In(j.calendar.Location()).Hour() != intervals.AbsenceHour {
			return nil
		}
		_, err := j.AutoAbsence(ctx)
		return err
	})
}

func (j *AttendanceJobs) RegisterSweeps(registry *Registry) {
	registry.Register(SweepAutoAbsence, j.AutoAbsence)
	registry.Register(SweepAutoClockOut, j.AutoClockOut)
}

// AutoAbsence writes an absent record for every staff member with a confirmed
// assignment today and no attendance record yet. Running it again creates
// nothing new.
func (j *AttendanceJobs) AutoAbsence(ctx context.Context) (int, error) {
	slog.Info("Cron: Starting mark absent staff job")

	today := j.calendar.Today(j.clock.Now())

	confirmed, err := j.scheduleRepo.ListByDate(ctx, today, schedule.StatusConfirmed)
	if err != nil {
		return 0, fmt.Errorf("failed to get confirmed assignments: %w", err)
	}

	// One record per staff and date, linked to the earliest shift.
	sort.SliceStable(confirmed, func(a, b int) bool {
		sa, _, _ := j.calendar.Window(confirmed[a].Shift, today)
		sb, _, _ := j.calendar.Window(confirmed[b].Shift, today)
		return sa.Before(sb)
	})
	firstByStaff := make(map[string]schedule.Assignment)
	var staffIDs []string
	for _, a := range confirmed {
		if _, seen := firstByStaff[a.StaffID]; seen {
			continue
		}
		firstByStaff[a.StaffID] = a
		staffIDs = append(staffIDs, a.StaffID)
	}

	note := autoAbsenceNote
	var absences []attendance.Attendance
	for _, staffID := range staffIDs {
		existing, err := j.attendanceRepo.GetByStaffAndDate(ctx, staffID, today)
		if err != nil {
			slog.Error("Cron: Failed to check attendance", "staff_id", staffID, "error", err)
			continue
		}
		if existing != nil {
			continue
		}

		a := firstByStaff[staffID]
		absences = append(absences, attendance.Attendance{
			StaffID:    staffID,
			Date:       today,
			ScheduleID: &a.ID,
			Status:     attendance.StatusAbsent,
			Note:       &note,
		})
	}

	if len(absences) == 0 {
		slog.Info("Cron: No absent staff found", "date", shift.FormatDate(today))
		return 0, nil
	}

	// Rows that collide with a concurrent clock-in are skipped by the store.
	created, err := j.attendanceRepo.CreateAbsences(ctx, absences)
	if err != nil {
		return 0, fmt.Errorf("failed to create absences: %w", err)
	}
	for _, rec := range created {
		payroll.Trigger(ctx, j.payroll, rec.ID)
	}

	slog.Info("Cron: Marked absent staff", "date", shift.FormatDate(today), "count", len(created))
	return len(created), nil
}

// AutoClockOut closes sessions still open two hours after their shift's
// nominal end, clocking them out at the nominal end.
func (j *AttendanceJobs) AutoClockOut(ctx context.Context) (int, error) {
	slog.Info("Cron: Starting auto-close stale attendances job")

	now := j.clock.Now()
	open, err := j.attendanceRepo.ListOpen(ctx, j.calendar.Today(now))
	if err != nil {
		return 0, fmt.Errorf("failed to get open sessions: %w", err)
	}

	closed := 0
	for _, session := range open {
		if session.ScheduleID == nil {
			continue
		}
		a, err := j.scheduleRepo.GetByID(ctx, *session.ScheduleID)
		if err != nil {
			slog.Error("Cron: Failed to get assignment for open session",
				"attendance_id", session.ID,
				"schedule_id", *session.ScheduleID,
				"error", err)
			continue
		}
		_, end, err := j.calendar.Window(a.Shift, session.Date)
		if err != nil || now.Sub(end) <= AutoClockOutGrace {
			continue
		}

		ok, err := j.closeSession(ctx, session.ID, a.Shift, end)
		if err != nil {
			slog.Error("Cron: Failed to auto-close attendance",
				"attendance_id", session.ID,
				"staff_id", session.StaffID,
				"error", err)
			continue
		}
		if ok {
			closed++
		}
	}

	slog.Info("Cron: Auto-closed stale attendances", "count", closed)
	return closed, nil
}

// closeSession re-reads the record under its lock so a clock-out that landed
// meanwhile is not overwritten.
func (j *AttendanceJobs) closeSession(ctx context.Context, id string, t shift.Type, end time.Time) (bool, error) {
	record, err := j.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}

	unlock, err := j.locker.Lock(ctx, attendance.LockKey(record.StaffID, record.Date))
	if err != nil {
		return false, err
	}
	defer unlock()

	record, err = j.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if !record.IsOpen() {
		return false, nil
	}

	out := end
	record.TimeOut = &out
	record.HoursWorked = j.calendar.WorkedHours(t, record.TimeIn, &out, record.Date)
	note := autoClockOutNote
	if record.Note != nil && *record.Note != "" {
		note = *record.Note + "; " + note
	}
	record.Note = &note

	saved, err := j.attendanceRepo.Update(ctx, record)
	if err != nil {
		return false, err
	}
	payroll.Trigger(ctx, j.payroll, saved.ID)
	return true, nil
}
