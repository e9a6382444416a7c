package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/clock"
)

const (
	// Unconfirmed assignments starting within this window are auto-rejected.
	AutoRejectWindow = 60 * time.Minute

	autoRejectReason = "Automatically rejected: not confirmed within 1 hour of shift start"
)

type ScheduleJobs struct {
	scheduleRepo schedule.Repository
	calendar     *shift.Calendar
	clock        clock.Clock
}

func NewScheduleJobs(scheduleRepo schedule.Repository, calendar *shift.Calendar, clk clock.Clock) *ScheduleJobs {
	return &ScheduleJobs{
		scheduleRepo: scheduleRepo,
		calendar:     calendar,
		clock:        clk,
	}
}

func (j *ScheduleJobs) RegisterJobs(scheduler *Scheduler, intervals Intervals) {
	scheduler.AddJob("auto_reject_unconfirmed", intervals.AutoReject, func(ctx context.Context) error {
		_, err := j.AutoReject(ctx)
		return err
	})
}

func (j *ScheduleJobs) RegisterSweeps(registry *Registry) {
	registry.Register(SweepAutoReject, j.AutoReject)
}

// AutoReject rejects today's still-scheduled assignments whose nominal start
// is less than an hour away. An assignment whose start has already passed
// without a sweep catching it stays scheduled.
func (j *ScheduleJobs) AutoReject(ctx context.Context) (int, error) {
	now := j.clock.Now()
	today := j.calendar.Today(now)

	pending, err := j.scheduleRepo.ListByDate(ctx, today, schedule.StatusScheduled)
	if err != nil {
		return 0, fmt.Errorf("failed to get scheduled assignments: %w", err)
	}

	reason := autoRejectReason
	rejected := 0
	for _, a := range pending {
		start, _, err := j.calendar.Window(a.Shift, a.Date)
		if err != nil {
			slog.Warn("Cron: Skipping assignment with unknown shift", "assignment_id", a.ID, "shift", a.Shift)
			continue
		}
		if until := start.Sub(now); until < 0 || until >= AutoRejectWindow {
			continue
		}

		if _, err := j.scheduleRepo.UpdateStatus(ctx, a.ID, []schedule.Status{schedule.StatusScheduled}, schedule.StatusRejected, &reason); err != nil {
			if errors.Is(err, schedule.ErrInvalidTransition) {
				// Confirmed or cancelled after the listing.
				continue
			}
			slog.Error("Cron: Failed to auto-reject assignment",
				"assignment_id", a.ID,
				"staff_id", a.StaffID,
				"error", err)
			continue
		}
		rejected++
	}

	slog.Info("Cron: Auto-rejected unconfirmed assignments", "date", shift.FormatDate(today), "count", rejected)
	return rejected, nil
}
