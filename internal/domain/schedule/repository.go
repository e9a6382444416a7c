package schedule

import (
	"context"
	"time"
)

type Repository interface {
	// Create returns ErrDuplicateAssignment when (staff, date, shift) already exists.
	Create(ctx context.Context, a Assignment) (Assignment, error)
	GetByID(ctx context.Context, id string) (Assignment, error)
	ListByStaffAndDate(ctx context.Context, staffID string, date time.Time) ([]Assignment, error)
	// ListByDate returns assignments on date, optionally restricted to statuses.
	ListByDate(ctx context.Context, date time.Time, statuses ...Status) ([]Assignment, error)
	List(ctx context.Context, filter Filter) ([]Assignment, int64, error)
	// UpdateStatus moves id to status only while its current status is one of
	// from. It returns ErrInvalidTransition when the status has already moved.
	UpdateStatus(ctx context.Context, id string, from []Status, status Status, rejectReason *string) (Assignment, error)
}
