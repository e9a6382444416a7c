package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/identity"
)

// CreateBatch implements schedule.ScheduleService. Every staff/date pair is
// validated on its own; failures are collected and never abort the batch.
func (s *scheduleServiceImpl) CreateBatch(ctx context.Context, req schedule.BatchRequest) (schedule.BatchResult, error) {
	if err := req.Validate(); err != nil {
		return schedule.BatchResult{}, err
	}
	if _, err := identity.FromContext(ctx); err != nil {
		return schedule.BatchResult{}, err
	}

	now := s.clock.Now()
	t := shift.Type(req.Shift)
	result := newBatchResult()

	for _, staffID := range req.StaffIDs {
		for _, date := range req.ParsedDates {
			s.createItem(ctx, &result, schedule.Candidate{
				StaffID:     staffID,
				Date:        date,
				Shift:       t,
				RequestedBy: schedule.CreatedByAdmin,
			}, req.Note, now)
		}
	}

	slog.Info("batch schedule created",
		"shift", req.Shift,
		"success", len(result.Success),
		"errors", len(result.Errors),
	)
	return result, nil
}

// CreateFromTemplate implements schedule.ScheduleService. For each date and
// shift it takes headcount[role] members from each role's pool, starting at an
// offset that advances by one after every shift so duties rotate.
func (s *scheduleServiceImpl) CreateFromTemplate(ctx context.Context, req schedule.TemplateRequest) (schedule.BatchResult, error) {
	if err := req.Validate(); err != nil {
		return schedule.BatchResult{}, err
	}
	if _, err := identity.FromContext(ctx); err != nil {
		return schedule.BatchResult{}, err
	}

	roles := make([]string, 0, len(req.Headcount))
	for role := range req.Headcount {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	pools := make(map[string][]staff.Staff, len(roles))
	for _, role := range roles {
		pool, err := s.staffRepo.ListActiveByRole(ctx, staff.Role(role))
		if err != nil {
			return schedule.BatchResult{}, fmt.Errorf("failed to list %s staff: %w", role, err)
		}
		pools[role] = pool
	}

	now := s.clock.Now()
	result := newBatchResult()
	offset := 0

	for date := req.ParsedStart; !date.After(req.ParsedEnd); date = date.AddDate(0, 0, 1) {
		for _, sh := range req.Shifts {
			for _, role := range roles {
				want, pool := req.Headcount[role], pools[role]

				n := min(want, len(pool))
				for i := 0; i < n; i++ {
					member := pool[(offset+i)%len(pool)]
					s.createItem(ctx, &result, schedule.Candidate{
						StaffID:     member.ID,
						Date:        date,
						Shift:       shift.Type(sh),
						RequestedBy: schedule.CreatedByAdmin,
					}, nil, now)
				}

				if want > len(pool) {
					result.Errors = append(result.Errors, schedule.BatchItemError{
						Date:    shift.FormatDate(date),
						Shift:   sh,
						Message: fmt.Sprintf("not enough active %s staff: need %d, have %d", role, want, len(pool)),
					})
				}
			}
			offset++
		}
	}

	slog.Info("template schedule created",
		"start_date", req.StartDate,
		"end_date", req.EndDate,
		"success", len(result.Success),
		"errors", len(result.Errors),
	)
	return result, nil
}

func (s *scheduleServiceImpl) createItem(ctx context.Context, result *schedule.BatchResult, c schedule.Candidate, note *string, now time.Time) {
	created, err := s.createOne(ctx, now, c, note)
	if err != nil {
		result.Errors = append(result.Errors, schedule.BatchItemError{
			StaffID: c.StaffID,
			Date:    shift.FormatDate(c.Date),
			Shift:   string(c.Shift),
			Message: err.Error(),
		})
		return
	}
	result.Success = append(result.Success, schedule.NewAssignmentResponse(created, s.calendar))
}

func newBatchResult() schedule.BatchResult {
	return schedule.BatchResult{
		Success: []schedule.AssignmentResponse{},
		Errors:  []schedule.BatchItemError{},
	}
}
