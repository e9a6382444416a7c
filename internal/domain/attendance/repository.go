package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// Create returns ErrDuplicateRecord when (staff, date) already has a record.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// CreateAbsences inserts the records that do not collide with an existing
	// (staff, date) and returns the ones written.
	CreateAbsences(ctx context.Context, records []Attendance) ([]Attendance, error)

	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByStaffAndDate returns nil when the staff member has no record on date.
	GetByStaffAndDate(ctx context.Context, staffID string, date time.Time) (*Attendance, error)

	Update(ctx context.Context, attendance Attendance) (Attendance, error)

	List(ctx context.Context, filter Filter) ([]Attendance, int64, error)

	// ListOpen returns sessions dated on or before date with a clock-in and no clock-out.
	ListOpen(ctx context.Context, date time.Time) ([]Attendance, error)
}
