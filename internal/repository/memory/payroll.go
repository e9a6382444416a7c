package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/payroll"
)

type PayrollRepository struct {
	mu      sync.RWMutex
	periods map[string]payroll.PayPeriod
}

func NewPayrollRepository() *PayrollRepository {
	return &PayrollRepository{periods: make(map[string]payroll.PayPeriod)}
}

func periodKey(staffID string, month, year int) string {
	return fmt.Sprintf("%s:%04d-%02d", staffID, year, month)
}

func (r *PayrollRepository) UpsertPeriod(_ context.Context, p payroll.PayPeriod) (payroll.PayPeriod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := periodKey(p.StaffID, p.PeriodMonth, p.PeriodYear)
	now := time.Now()
	if existing, ok := r.periods[key]; ok {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	} else {
		p.ID = newID()
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	r.periods[key] = p
	return p, nil
}

func (r *PayrollRepository) GetPeriod(_ context.Context, staffID string, month, year int) (payroll.PayPeriod, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.periods[periodKey(staffID, month, year)]
	if !ok {
		return payroll.PayPeriod{}, payroll.ErrPayPeriodNotFound
	}
	return p, nil
}

func (r *PayrollRepository) ListPeriods(_ context.Context, month, year int) ([]payroll.PayPeriod, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]payroll.PayPeriod, 0)
	for _, p := range r.periods {
		if p.PeriodMonth == month && p.PeriodYear == year {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StaffID < out[j].StaffID })
	return out, nil
}
