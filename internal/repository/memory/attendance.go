package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/attendance"
)

type AttendanceRepository struct {
	mu      sync.RWMutex
	records map[string]attendance.Attendance
}

func NewAttendanceRepository() *AttendanceRepository {
	return &AttendanceRepository{records: make(map[string]attendance.Attendance)}
}

func (r *AttendanceRepository) Create(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createLocked(a)
}

func (r *AttendanceRepository) createLocked(a attendance.Attendance) (attendance.Attendance, error) {
	for _, e := range r.records {
		if e.StaffID == a.StaffID && e.Date.Equal(a.Date) {
			return attendance.Attendance{}, attendance.ErrDuplicateRecord
		}
	}
	if a.ID == "" {
		a.ID = newID()
	}
	now := time.Now()
	a.CreatedAt, a.UpdatedAt = now, now
	r.records[a.ID] = a
	return a, nil
}

func (r *AttendanceRepository) CreateAbsences(_ context.Context, records []attendance.Attendance) ([]attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := make([]attendance.Attendance, 0, len(records))
	for _, a := range records {
		saved, err := r.createLocked(a)
		if err != nil {
			continue
		}
		created = append(created, saved)
	}
	return created, nil
}

func (r *AttendanceRepository) GetByID(_ context.Context, id string) (attendance.Attendance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (r *AttendanceRepository) GetByStaffAndDate(_ context.Context, staffID string, date time.Time) (*attendance.Attendance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.records {
		if a.StaffID == staffID && a.Date.Equal(date) {
			return &a, nil
		}
	}
	return nil, nil
}

func (r *AttendanceRepository) Update(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.records[a.ID]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	a.CreatedAt = existing.CreatedAt
	a.UpdatedAt = time.Now()
	r.records[a.ID] = a
	return a, nil
}

func (r *AttendanceRepository) List(_ context.Context, f attendance.Filter) ([]attendance.Attendance, int64, error) {
	all := r.collect(func(a attendance.Attendance) bool {
		if f.StaffID != nil && a.StaffID != *f.StaffID {
			return false
		}
		if f.Status != nil && a.Status != *f.Status {
			return false
		}
		return inRange(a.Date, f.StartDate, f.EndDate)
	})
	return paginate(all, f.Page, f.Limit), int64(len(all)), nil
}

func (r *AttendanceRepository) ListOpen(_ context.Context, date time.Time) ([]attendance.Attendance, error) {
	return r.collect(func(a attendance.Attendance) bool {
		return a.IsOpen() && !a.Date.After(date)
	}), nil
}

// collect returns matches newest date first.
func (r *AttendanceRepository) collect(match func(attendance.Attendance) bool) []attendance.Attendance {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]attendance.Attendance, 0)
	for _, a := range r.records {
		if match(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].StaffID < out[j].StaffID
	})
	return out
}
