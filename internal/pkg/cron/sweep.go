package cron

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrUnknownSweep = errors.New("unknown sweep")

// Sweep names accepted by Registry.Run.
const (
	SweepAutoReject   = "auto-reject"
	SweepAutoAbsence  = "auto-absence"
	SweepAutoClockOut = "auto-clock-out"
)

// SweepFunc runs one pass and reports how many records it changed.
type SweepFunc func(ctx context.Context) (int, error)

type Result struct {
	Name     string `json:"name"`
	Affected int    `json:"affected"`
	Duration string `json:"duration"`
}

// Registry holds the sweeps that can be triggered on demand.
type Registry struct {
	mu     sync.RWMutex
	sweeps map[string]SweepFunc
	order  []string
}

func NewRegistry() *Registry {
	return &Registry{sweeps: make(map[string]SweepFunc)}
}

func (r *Registry) Register(name string, fn SweepFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sweeps[name]; !exists {
		r.order = append(r.order, name)
	}
	r.sweeps[name] = fn
}

// Names returns sweep names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

func (r *Registry) Run(ctx context.Context, name string) (Result, error) {
	r.mu.RLock()
	fn, ok := r.sweeps[name]
	r.mu.RUnlock()
	if !ok {
		return Result{}, ErrUnknownSweep
	}

	start := time.Now()
	n, err := fn(ctx)
	if err != nil {
		return Result{}, err
	}
	return Result{Name: name, Affected: n, Duration: time.Since(start).String()}, nil
}

// Intervals configures how often each sweep is scheduled.
type Intervals struct {
	AutoReject   time.Duration
	AutoClockOut time.Duration
	Absence      time.Duration
	// AbsenceHour restricts scheduled absence runs to this hour of the
	// business day. Negative disables the restriction.
	AbsenceHour int
}
