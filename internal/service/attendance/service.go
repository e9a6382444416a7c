package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/identity"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/keylock"
)

const (
	EarliestClockIn = 60 * time.Minute
	LatestClockIn   = 30 * time.Minute // before nominal end
	LateAfter       = 15 * time.Minute

	// Clock-outs before this hour may close yesterday's overnight shift.
	overnightCutoff = 12
	autoClockInNote = "Auto clock-in at shift start: no clock-in recorded"
	timestampLayout = time.RFC3339
)

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	scheduleRepo   schedule.Repository
	calendar       *shift.Calendar
	clock          clock.Clock
	locker         keylock.Locker
	payroll        payroll.Recomputer
}

// ClockIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.ClockResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ClockResponse{}, err
	}

	caller, err := identity.FromContext(ctx)
	if err != nil {
		return attendance.ClockResponse{}, err
	}

	now := s.clock.Now()
	today := s.calendar.Today(now)

	unlock, err := s.locker.Lock(ctx, attendance.LockKey(caller.StaffID, today))
	if err != nil {
		return attendance.ClockResponse{}, fmt.Errorf("failed to lock attendance: %w", err)
	}
	defer unlock()

	record, err := s.attendanceRepo.GetByStaffAndDate(ctx, caller.StaffID, today)
	if err != nil {
		return attendance.ClockResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if record != nil && record.TimeIn != nil {
		return attendance.ClockResponse{}, attendance.ErrAlreadyClockedIn
	}

	assignments, err := s.scheduleRepo.ListByStaffAndDate(ctx, caller.StaffID, today)
	if err != nil {
		return attendance.ClockResponse{}, fmt.Errorf("failed to get today's schedule: %w", err)
	}
	confirmed := filterByStatus(assignments, schedule.StatusConfirmed)
	if len(confirmed) == 0 {
		return attendance.ClockResponse{}, attendance.ErrNoConfirmedSchedule
	}

	var chosen schedule.Assignment
	if req.ScheduleID != nil {
		found := false
		for _, a := range confirmed {
			if a.ID == *req.ScheduleID {
				chosen, found = a, true
				break
			}
		}
		if !found {
			return attendance.ClockResponse{}, attendance.ErrScheduleMismatch
		}
	} else {
		chosen = s.pickAssignment(confirmed, today, now)
	}

	start, end, err := s.calendar.Window(chosen.Shift, today)
	if err != nil {
		return attendance.ClockResponse{}, err
	}

	if early := start.Sub(now); early > EarliestClockIn {
		return attendance.ClockResponse{}, shift.NewTimingError(attendance.ErrTooEarly, "minutes_early", wholeMinutes(early))
	}
	if remaining := end.Sub(now); remaining <= LatestClockIn {
		return attendance.ClockResponse{}, shift.NewTimingError(attendance.ErrTooLate, "minutes_before_end", wholeMinutes(remaining))
	}

	status := attendance.StatusPresent
	if now.Sub(start) > LateAfter {
		status = attendance.StatusLate
	}

	var saved attendance.Attendance
	if record != nil {
		// A record without a clock-in, e.g. one the absence sweep wrote earlier.
		record.ScheduleID = &chosen.ID
		record.TimeIn = &now
		record.TimeOut = nil
		record.HoursWorked = 0
		record.Status = status
		saved, err = s.attendanceRepo.Update(ctx, *record)
	} else {
		saved, err = s.attendanceRepo.Create(ctx, attendance.Attendance{
			StaffID:    caller.StaffID,
			Date:       today,
			ScheduleID: &chosen.ID,
			TimeIn:     &now,
			Status:     status,
		})
	}
	if err != nil {
		if errors.Is(err, attendance.ErrDuplicateRecord) {
			return attendance.ClockResponse{}, attendance.ErrAlreadyClockedIn
		}
		return attendance.ClockResponse{}, fmt.Errorf("failed to save attendance record: %w", err)
	}

	return s.clockResponse(saved, chosen.Shift, start, end), nil
}

// ClockOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockOut(ctx context.Context, req attendance.ClockOutRequest) (attendance.ClockResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ClockResponse{}, err
	}

	caller, err := identity.FromContext(ctx)
	if err != nil {
		return attendance.ClockResponse{}, err
	}

	now := s.clock.Now()
	workDate, err := s.resolveClockOutDate(ctx, caller.StaffID, now)
	if err != nil {
		return attendance.ClockResponse{}, err
	}

	unlock, err := s.locker.Lock(ctx, attendance.LockKey(caller.StaffID, workDate))
	if err != nil {
		return attendance.ClockResponse{}, fmt.Errorf("failed to lock attendance: %w", err)
	}
	defer unlock()

	assignments, err := s.scheduleRepo.ListByStaffAndDate(ctx, caller.StaffID, workDate)
	if err != nil {
		return attendance.ClockResponse{}, fmt.Errorf("failed to get schedule: %w", err)
	}
	eligible := filterByStatus(assignments, schedule.StatusConfirmed, schedule.StatusScheduled)
	if len(eligible) == 0 {
		return attendance.ClockResponse{}, attendance.ErrNoSchedule
	}

	record, err := s.attendanceRepo.GetByStaffAndDate(ctx, caller.StaffID, workDate)
	if err != nil {
		return attendance.ClockResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	chosen := s.pickAssignment(eligible, workDate, now)
	if record != nil && record.ScheduleID != nil {
		for _, a := range eligible {
			if a.ID == *record.ScheduleID {
				chosen = a
				break
			}
		}
	}

	start, end, err := s.calendar.Window(chosen.Shift, workDate)
	if err != nil {
		return attendance.ClockResponse{}, err
	}

	var saved attendance.Attendance
	switch {
	case record == nil || record.TimeIn == nil:
		if !now.After(start) {
			return attendance.ClockResponse{}, attendance.ErrInvalidTimeOrder
		}

		timeIn := start
		hours := s.calendar.WorkedHours(chosen.Shift, &timeIn, &now, workDate)
		note := joinNote(autoClockInNote, req.Note)

		if record == nil {
			saved, err = s.attendanceRepo.Create(ctx, attendance.Attendance{
				StaffID:     caller.StaffID,
				Date:        workDate,
				ScheduleID:  &chosen.ID,
				TimeIn:      &timeIn,
				TimeOut:     &now,
				HoursWorked: hours,
				Status:      attendance.StatusLate,
				Note:        &note,
			})
		} else {
			record.ScheduleID = &chosen.ID
			record.TimeIn = &timeIn
			record.TimeOut = &now
			record.HoursWorked = hours
			record.Status = attendance.StatusLate
			record.Note = &note
			saved, err = s.attendanceRepo.Update(ctx, *record)
		}

	case record.TimeOut != nil:
		return attendance.ClockResponse{}, attendance.ErrAlreadyClockedOut

	default:
		if !now.After(*record.TimeIn) {
			return attendance.ClockResponse{}, attendance.ErrInvalidTimeOrder
		}

		record.TimeOut = &now
		record.HoursWorked = s.calendar.WorkedHours(chosen.Shift, record.TimeIn, &now, workDate)
		if record.ScheduleID == nil {
			record.ScheduleID = &chosen.ID
		}
		if req.Note != nil {
			note := joinNote(derefString(record.Note), req.Note)
			record.Note = &note
		}
		saved, err = s.attendanceRepo.Update(ctx, *record)
	}
	if err != nil {
		if errors.Is(err, attendance.ErrDuplicateRecord) {
			return attendance.ClockResponse{}, attendance.ErrAlreadyClockedOut
		}
		return attendance.ClockResponse{}, fmt.Errorf("failed to save attendance record: %w", err)
	}

	payroll.Trigger(ctx, s.payroll, saved.ID)

	return s.clockResponse(saved, chosen.Shift, start, end), nil
}

// resolveClockOutDate returns yesterday when a clock-out before noon closes an
// open session of a shift that crossed midnight, otherwise today.
func (s *AttendanceServiceImpl) resolveClockOutDate(ctx context.Context, staffID string, now time.Time) (time.Time, error) {
	today := s.calendar.Today(now)
	if now.In(s.calendar.Location()).Hour() >= overnightCutoff {
		return today, nil
	}

	yesterday := today.AddDate(0, 0, -1)
	record, err := s.attendanceRepo.GetByStaffAndDate(ctx, staffID, yesterday)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get yesterday's attendance: %w", err)
	}
	if record == nil || !record.IsOpen() || record.ScheduleID == nil {
		return today, nil
	}

	a, err := s.scheduleRepo.GetByID(ctx, *record.ScheduleID)
	if err != nil {
		if errors.Is(err, schedule.ErrAssignmentNotFound) {
			return today, nil
		}
		return time.Time{}, fmt.Errorf("failed to get yesterday's assignment: %w", err)
	}
	if def, ok := s.calendar.Definition(a.Shift); ok && def.CrossesMidnight {
		return yesterday, nil
	}
	return today, nil
}

// pickAssignment prefers the earliest-starting assignment whose nominal end is
// still ahead of now, falling back to the earliest one.
func (s *AttendanceServiceImpl) pickAssignment(assignments []schedule.Assignment, date, now time.Time) schedule.Assignment {
	sorted := make([]schedule.Assignment, len(assignments))
	copy(sorted, assignments)
	sort.SliceStable(sorted, func(i, j int) bool {
		si, _, _ := s.calendar.Window(sorted[i].Shift, date)
		sj, _, _ := s.calendar.Window(sorted[j].Shift, date)
		return si.Before(sj)
	})

	for _, a := range sorted {
		if _, end, err := s.calendar.Window(a.Shift, date); err == nil && end.After(now) {
			return a
		}
	}
	return sorted[0]
}

// GetToday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetToday(ctx context.Context) (attendance.TodayResponse, error) {
	caller, err := identity.FromContext(ctx)
	if err != nil {
		return attendance.TodayResponse{}, err
	}

	today := s.calendar.Today(s.clock.Now())

	record, err := s.attendanceRepo.GetByStaffAndDate(ctx, caller.StaffID, today)
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	assignments, err := s.scheduleRepo.ListByStaffAndDate(ctx, caller.StaffID, today)
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to get today's schedule: %w", err)
	}

	resp := attendance.TodayResponse{
		Date:        shift.FormatDate(today),
		Assignments: make([]schedule.AssignmentResponse, 0, len(assignments)),
	}
	if record != nil {
		r := s.mapAttendanceToResponse(*record)
		resp.Attendance = &r
	}
	for _, a := range assignments {
		resp.Assignments = append(resp.Assignments, schedule.NewAssignmentResponse(a, s.calendar))
	}
	return resp, nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.MyAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	caller, err := identity.FromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	return s.list(ctx, attendance.AttendanceFilter{
		StaffID:   &caller.StaffID,
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
		Status:    filter.Status,
		Page:      filter.Page,
		Limit:     filter.Limit,
	})
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	return s.list(ctx, filter)
}

func (s *AttendanceServiceImpl) list(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	f := attendance.Filter{
		StaffID: filter.StaffID,
		Page:    filter.Page,
		Limit:   filter.Limit,
	}
	if filter.StartDate != nil {
		d, _ := shift.ParseDate(*filter.StartDate)
		f.StartDate = &d
	}
	if filter.EndDate != nil {
		d, _ := shift.ParseDate(*filter.EndDate)
		f.EndDate = &d
	}
	if filter.Status != nil {
		st := attendance.Status(*filter.Status)
		f.Status = &st
	}

	records, total, err := s.attendanceRepo.List(ctx, f)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, s.mapAttendanceToResponse(r))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Showing:     showing,
		Attendances: responses,
	}, nil
}

// UpdateAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) UpdateAttendance(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	found, err := s.attendanceRepo.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	unlock, err := s.locker.Lock(ctx, attendance.LockKey(found.StaffID, found.Date))
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to lock attendance: %w", err)
	}
	defer unlock()

	// Read again under the lock so a clock-out that landed meanwhile is kept.
	record, err := s.attendanceRepo.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if req.Status != nil {
		record.Status = attendance.Status(*req.Status)
	}
	if req.Note != nil {
		record.Note = req.Note
	}

	saved, err := s.attendanceRepo.Update(ctx, record)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	payroll.Trigger(ctx, s.payroll, saved.ID)

	return s.mapAttendanceToResponse(saved), nil
}

func (s *AttendanceServiceImpl) clockResponse(a attendance.Attendance, t shift.Type, start, end time.Time) attendance.ClockResponse {
	return attendance.ClockResponse{
		Attendance: s.mapAttendanceToResponse(a),
		Shift:      string(t),
		StartTime:  start.Format(timestampLayout),
		EndTime:    end.Format(timestampLayout),
	}
}

func (s *AttendanceServiceImpl) mapAttendanceToResponse(a attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:          a.ID,
		StaffID:     a.StaffID,
		StaffName:   a.StaffName,
		Date:        shift.FormatDate(a.Date),
		ScheduleID:  a.ScheduleID,
		TimeIn:      s.timePtrToString(a.TimeIn),
		TimeOut:     s.timePtrToString(a.TimeOut),
		HoursWorked: a.HoursWorked,
		Status:      string(a.Status),
		Note:        a.Note,
		CreatedAt:   a.CreatedAt.Format(timestampLayout),
		UpdatedAt:   a.UpdatedAt.Format(timestampLayout),
	}
}

// timePtrToString formats t in the business location.
func (s *AttendanceServiceImpl) timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.In(s.calendar.Location()).Format(timestampLayout)
	return &formatted
}

func filterByStatus(assignments []schedule.Assignment, statuses ...schedule.Status) []schedule.Assignment {
	var out []schedule.Assignment
	for _, a := range assignments {
		for _, st := range statuses {
			if a.Status == st {
				out = append(out, a)
				break
			}
		}
	}
	return out
}

func wholeMinutes(d time.Duration) int {
	return int(d / time.Minute)
}

func joinNote(existing string, extra *string) string {
	if extra == nil || *extra == "" {
		return existing
	}
	if existing == "" {
		return *extra
	}
	return existing + "; " + *extra
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	scheduleRepo schedule.Repository,
	calendar *shift.Calendar,
	clk clock.Clock,
	locker keylock.Locker,
	recomputer payroll.Recomputer,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		scheduleRepo:   scheduleRepo,
		calendar:       calendar,
		clock:          clk,
		locker:         locker,
		payroll:        recomputer,
	}
}
