package schedule

import (
	"time"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/shift"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

var StatusValues = []string{
	string(StatusScheduled),
	string(StatusConfirmed),
	string(StatusRejected),
	string(StatusCancelled),
}

func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// IsActive reports whether the assignment still occupies a slot on its day.
func (s Status) IsActive() bool {
	switch s {
	case StatusScheduled, StatusConfirmed:
		return true
	case StatusRejected, StatusCancelled:
		return false
	}
	return false
}

type Creator string

const (
	CreatedByAdmin Creator = "admin"
	CreatedByStaff Creator = "staff"
)

func (c Creator) IsValid() bool {
	switch c {
	case CreatedByAdmin, CreatedByStaff:
		return true
	}
	return false
}

// Assignment is one staff member's planned shift on a date.
type Assignment struct {
	ID           string
	StaffID      string
	Date         time.Time
	Shift        shift.Type
	Status       Status
	CreatedBy    Creator
	RejectReason *string
	Note         *string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Populated by list queries only.
	StaffName *string
}

// CanTransitionTo reports whether next may follow the current status when the
// change is requested by actor.
func (a Assignment) CanTransitionTo(next Status, actor Creator) bool {
	switch next {
	case StatusConfirmed:
		return a.Status == StatusScheduled
	case StatusRejected:
		return a.Status == StatusScheduled || a.Status == StatusConfirmed
	case StatusCancelled:
		return a.Status == StatusScheduled && actor == CreatedByStaff
	case StatusScheduled:
		return false
	}
	return false
}

type Filter struct {
	StaffID   *string
	StartDate *time.Time
	EndDate   *time.Time
	Statuses  []Status
	Shift     *shift.Type

	Page  int
	Limit int
}
