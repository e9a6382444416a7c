package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/shift"
)

type ScheduleRepository struct {
	mu          sync.RWMutex
	assignments map[string]schedule.Assignment
}

func NewScheduleRepository() *ScheduleRepository {
	return &ScheduleRepository{assignments: make(map[string]schedule.Assignment)}
}

func (r *ScheduleRepository) Create(_ context.Context, a schedule.Assignment) (schedule.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.assignments {
		if e.StaffID == a.StaffID && e.Date.Equal(a.Date) && e.Shift == a.Shift {
			return schedule.Assignment{}, schedule.ErrDuplicateAssignment
		}
	}

	if a.ID == "" {
		a.ID = newID()
	}
	now := time.Now()
	a.CreatedAt, a.UpdatedAt = now, now
	r.assignments[a.ID] = a
	return a, nil
}

func (r *ScheduleRepository) GetByID(_ context.Context, id string) (schedule.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.assignments[id]
	if !ok {
		return schedule.Assignment{}, schedule.ErrAssignmentNotFound
	}
	return a, nil
}

func (r *ScheduleRepository) ListByStaffAndDate(_ context.Context, staffID string, date time.Time) ([]schedule.Assignment, error) {
	return r.collect(func(a schedule.Assignment) bool {
		return a.StaffID == staffID && a.Date.Equal(date)
	}), nil
}

func (r *ScheduleRepository) ListByDate(_ context.Context, date time.Time, statuses ...schedule.Status) ([]schedule.Assignment, error) {
	return r.collect(func(a schedule.Assignment) bool {
		return a.Date.Equal(date) && hasStatus(a.Status, statuses)
	}), nil
}

func (r *ScheduleRepository) List(_ context.Context, f schedule.Filter) ([]schedule.Assignment, int64, error) {
	all := r.collect(func(a schedule.Assignment) bool {
		if f.StaffID != nil && a.StaffID != *f.StaffID {
			return false
		}
		if f.Shift != nil && a.Shift != *f.Shift {
			return false
		}
		return inRange(a.Date, f.StartDate, f.EndDate) && hasStatus(a.Status, f.Statuses)
	})
	return paginate(all, f.Page, f.Limit), int64(len(all)), nil
}

func (r *ScheduleRepository) UpdateStatus(_ context.Context, id string, from []schedule.Status, status schedule.Status, rejectReason *string) (schedule.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.assignments[id]
	if !ok {
		return schedule.Assignment{}, schedule.ErrAssignmentNotFound
	}
	if !slices.Contains(from, a.Status) {
		return schedule.Assignment{}, fmt.Errorf("%w: %s to %s", schedule.ErrInvalidTransition, a.Status, status)
	}
	a.Status = status
	if rejectReason != nil {
		a.RejectReason = rejectReason
	}
	a.UpdatedAt = time.Now()
	r.assignments[id] = a
	return a, nil
}

// collect returns matches ordered by date, shift and staff.
func (r *ScheduleRepository) collect(match func(schedule.Assignment) bool) []schedule.Assignment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]schedule.Assignment, 0)
	for _, a := range r.assignments {
		if match(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if out[i].Shift != out[j].Shift {
			return shiftOrder(out[i].Shift) < shiftOrder(out[j].Shift)
		}
		return out[i].StaffID < out[j].StaffID
	})
	return out
}

func hasStatus(s schedule.Status, statuses []schedule.Status) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, st := range statuses {
		if s == st {
			return true
		}
	}
	return false
}

func shiftOrder(t shift.Type) int {
	for i, v := range shift.TypeValues {
		if v == string(t) {
			return i
		}
	}
	return len(shift.TypeValues)
}
