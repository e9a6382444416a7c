package schedule

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/identity"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/keylock"
)

const (
	defaultStaffRejectReason = "Rejected by staff"
	defaultAdminRejectReason = "Rejected by admin"
)

type scheduleServiceImpl struct {
	scheduleRepo schedule.Repository
	staffRepo    staff.Repository
	calendar     *shift.Calendar
	clock        clock.Clock
	locker       keylock.Locker
}

// Create implements schedule.ScheduleService.
func (s *scheduleServiceImpl) Create(ctx context.Context, req schedule.CreateAssignmentRequest) (schedule.AssignmentResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.AssignmentResponse{}, err
	}

	caller, err := identity.FromContext(ctx)
	if err != nil {
		return schedule.AssignmentResponse{}, err
	}

	staffID, creator := caller.StaffID, schedule.CreatedByStaff
	if caller.IsAdmin {
		if req.StaffID == "" {
			return schedule.AssignmentResponse{}, schedule.ErrStaffIDRequired
		}
		staffID, creator = req.StaffID, schedule.CreatedByAdmin
	}

	created, err := s.createOne(ctx, s.clock.Now(), schedule.Candidate{
		StaffID:     staffID,
		Date:        req.ParsedDate,
		Shift:       shift.Type(req.Shift),
		RequestedBy: creator,
	}, req.Note)
	if err != nil {
		return schedule.AssignmentResponse{}, err
	}

	return schedule.NewAssignmentResponse(created, s.calendar), nil
}

// createOne validates c against the staff member's existing assignments on the
// same date and persists it as scheduled. The (staff, date) lock keeps two
// concurrent creations from both passing the daily-limit check.
func (s *scheduleServiceImpl) createOne(ctx context.Context, now time.Time, c schedule.Candidate, note *string) (schedule.Assignment, error) {
	unlock, err := s.locker.Lock(ctx, "schedule:"+c.StaffID+":"+shift.FormatDate(c.Date))
	if err != nil {
		return schedule.Assignment{}, fmt.Errorf("failed to lock schedule: %w", err)
	}
	defer unlock()

	member, err := s.staffRepo.GetByID(ctx, c.StaffID)
	if err != nil {
		return schedule.Assignment{}, err
	}
	if !member.IsActive {
		return schedule.Assignment{}, staff.ErrStaffInactive
	}

	existing, err := s.scheduleRepo.ListByStaffAndDate(ctx, c.StaffID, c.Date)
	if err != nil {
		return schedule.Assignment{}, fmt.Errorf("failed to get existing assignments: %w", err)
	}

	if err := schedule.ValidateNewAssignment(now, s.calendar, c, existing); err != nil {
		return schedule.Assignment{}, err
	}

	created, err := s.scheduleRepo.Create(ctx, schedule.Assignment{
		StaffID:   c.StaffID,
		Date:      c.Date,
		Shift:     c.Shift,
		Status:    schedule.StatusScheduled,
		CreatedBy: c.RequestedBy,
		Note:      note,
	})
	if err != nil {
		if errors.Is(err, schedule.ErrDuplicateAssignment) {
			return schedule.Assignment{}, err
		}
		return schedule.Assignment{}, fmt.Errorf("failed to create assignment: %w", err)
	}
	created.StaffName = &member.FullName
	return created, nil
}

// Confirm implements schedule.ScheduleService.
func (s *scheduleServiceImpl) Confirm(ctx context.Context, id string) (schedule.AssignmentResponse, error) {
	return s.transition(ctx, id, schedule.StatusConfirmed, nil)
}

// Reject implements schedule.ScheduleService.
func (s *scheduleServiceImpl) Reject(ctx context.Context, req schedule.RejectAssignmentRequest) (schedule.AssignmentResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.AssignmentResponse{}, err
	}
	return s.transition(ctx, req.ID, schedule.StatusRejected, req.Reason)
}

// Cancel implements schedule.ScheduleService.
func (s *scheduleServiceImpl) Cancel(ctx context.Context, id string) (schedule.AssignmentResponse, error) {
	return s.transition(ctx, id, schedule.StatusCancelled, nil)
}

func (s *scheduleServiceImpl) transition(ctx context.Context, id string, next schedule.Status, reason *string) (schedule.AssignmentResponse, error) {
	caller, err := identity.FromContext(ctx)
	if err != nil {
		return schedule.AssignmentResponse{}, err
	}

	a, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		return schedule.AssignmentResponse{}, err
	}

	// Staff only ever see their own assignments.
	if !caller.IsAdmin && a.StaffID != caller.StaffID {
		return schedule.AssignmentResponse{}, schedule.ErrAssignmentNotFound
	}

	actor := schedule.CreatedByAdmin
	if a.StaffID == caller.StaffID {
		actor = schedule.CreatedByStaff
	}

	if !a.CanTransitionTo(next, actor) {
		return schedule.AssignmentResponse{}, fmt.Errorf("%w: %s to %s", schedule.ErrInvalidTransition, a.Status, next)
	}

	if next == schedule.StatusRejected && (reason == nil || *reason == "") {
		r := defaultAdminRejectReason
		if actor == schedule.CreatedByStaff {
			r = defaultStaffRejectReason
		}
		reason = &r
	}

	// Fails if another request moved the status since it was read.
	updated, err := s.scheduleRepo.UpdateStatus(ctx, id, []schedule.Status{a.Status}, next, reason)
	if err != nil {
		return schedule.AssignmentResponse{}, err
	}
	return schedule.NewAssignmentResponse(updated, s.calendar), nil
}

// ListMine implements schedule.ScheduleService.
func (s *scheduleServiceImpl) ListMine(ctx context.Context, filter schedule.MyAssignmentFilter) (schedule.ListAssignmentResponse, error) {
	if err := filter.Validate(); err != nil {
		return schedule.ListAssignmentResponse{}, err
	}

	caller, err := identity.FromContext(ctx)
	if err != nil {
		return schedule.ListAssignmentResponse{}, err
	}

	return s.list(ctx, schedule.AssignmentFilter{
		StaffID:   &caller.StaffID,
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
		Status:    filter.Status,
		Page:      filter.Page,
		Limit:     filter.Limit,
	})
}

// List implements schedule.ScheduleService.
func (s *scheduleServiceImpl) List(ctx context.Context, filter schedule.AssignmentFilter) (schedule.ListAssignmentResponse, error) {
	if err := filter.Validate(); err != nil {
		return schedule.ListAssignmentResponse{}, err
	}
	return s.list(ctx, filter)
}

func (s *scheduleServiceImpl) list(ctx context.Context, filter schedule.AssignmentFilter) (schedule.ListAssignmentResponse, error) {
	f := schedule.Filter{
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
		f.Statuses = []schedule.Status{schedule.Status(*filter.Status)}
	}
	if filter.Shift != nil {
		t := shift.Type(*filter.Shift)
		f.Shift = &t
	}

	assignments, total, err := s.scheduleRepo.List(ctx, f)
	if err != nil {
		return schedule.ListAssignmentResponse{}, fmt.Errorf("failed to list assignments: %w", err)
	}

	responses := make([]schedule.AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		responses = append(responses, schedule.NewAssignmentResponse(a, s.calendar))
	}

	return schedule.ListAssignmentResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  int(math.Ceil(float64(total) / float64(filter.Limit))),
		Showing:     s.calculateShowingText(filter.Page, filter.Limit, total),
		Assignments: responses,
	}, nil
}

func (s *scheduleServiceImpl) calculateShowingText(page, limit int, total int64) string {
	if total == 0 {
		return "0 of 0"
	}

	start := (page-1)*limit + 1
	end := min(start+limit-1, int(total))

	return fmt.Sprintf("%d-%d of %d", start, end, total)
}

func NewScheduleService(
	scheduleRepo schedule.Repository,
	staffRepo staff.Repository,
	calendar *shift.Calendar,
	clk clock.Clock,
	locker keylock.Locker,
) schedule.ScheduleService {
	return &scheduleServiceImpl{
		scheduleRepo: scheduleRepo,
		staffRepo:    staffRepo,
		calendar:     calendar,
		clock:        clk,
		locker:       locker,
	}
}
