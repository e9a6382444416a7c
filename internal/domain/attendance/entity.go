package attendance

import (
	"time"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/shift"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusAbsent  Status = "absent"
)

var StatusValues = []string{
	string(StatusPresent),
	string(StatusLate),
	string(StatusAbsent),
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusLate, StatusAbsent:
		return true
	}
	return false
}

// Attendance is one staff member's record for one work date.
type Attendance struct {
	ID          string
	StaffID     string
	Date        time.Time
	ScheduleID  *string
	TimeIn      *time.Time
	TimeOut     *time.Time
	HoursWorked float64
	Status      Status
	Note        *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// DTO
	StaffName *string
}

// IsOpen reports a clocked-in session that has not been closed.
func (a Attendance) IsOpen() bool {
	return a.TimeIn != nil && a.TimeOut == nil
}

type Filter struct {
	StaffID   *string
	StartDate *time.Time
	EndDate   *time.Time
	Status    *Status

	// Limit 0 returns every match.
	Page  int
	Limit int
}

// LockKey names the (staff, date) critical section for clock-in and clock-out.
func LockKey(staffID string, date time.Time) string {
	return "attendance:" + staffID + ":" + shift.FormatDate(date)
}
