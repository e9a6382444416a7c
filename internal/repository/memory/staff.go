package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/staff"
)

type StaffRepository struct {
	mu    sync.RWMutex
	staff map[string]staff.Staff
}

func NewStaffRepository() *StaffRepository {
	return &StaffRepository{staff: make(map[string]staff.Staff)}
}

func (r *StaffRepository) Create(_ context.Context, s staff.Staff) (staff.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.ID == "" {
		s.ID = newID()
	}
	now := time.Now()
	s.CreatedAt, s.UpdatedAt = now, now
	r.staff[s.ID] = s
	return s, nil
}

func (r *StaffRepository) GetByID(_ context.Context, id string) (staff.Staff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.staff[id]
	if !ok {
		return staff.Staff{}, staff.ErrStaffNotFound
	}
	return s, nil
}

func (r *StaffRepository) ListActiveByRole(ctx context.Context, role staff.Role) ([]staff.Staff, error) {
	all, _ := r.ListActive(ctx)
	out := make([]staff.Staff, 0, len(all))
	for _, s := range all {
		if s.Role == role {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *StaffRepository) ListActive(_ context.Context) ([]staff.Staff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]staff.Staff, 0, len(r.staff))
	for _, s := range r.staff {
		if s.IsActive {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FullName != out[j].FullName {
			return out[i].FullName < out[j].FullName
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
