package attendance

import (
	"context"
)

type AttendanceService interface {
	ClockIn(ctx context.Context, req ClockInRequest) (ClockResponse, error)
	ClockOut(ctx context.Context, req ClockOutRequest) (ClockResponse, error)

	// GetToday returns the caller's record and assignments for the current work date.
	GetToday(ctx context.Context) (TodayResponse, error)

	GetMyAttendance(ctx context.Context, filter MyAttendanceFilter) (ListAttendanceResponse, error)

	// ListAttendance lists every staff member's records (admin).
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// UpdateAttendance lets an admin override status or note, e.g. on an auto clock-in.
	UpdateAttendance(ctx context.Context, req UpdateAttendanceRequest) (AttendanceResponse, error)
}
