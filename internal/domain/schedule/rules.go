package schedule

import (
	"time"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/shift"
)

const (
	MaxActivePerDay = 2

	AdminLeadTime = 30 * time.Minute
	StaffLeadTime = 24 * time.Hour
)

// Candidate is an assignment that has not been persisted yet.
type Candidate struct {
	StaffID     string
	Date        time.Time
	Shift       shift.Type
	RequestedBy Creator
}

// ValidateNewAssignment decides whether c may be created given the staff
// member's existing assignments on the same date. Rules are checked in order
// and the first failure is returned.
func ValidateNewAssignment(now time.Time, cal *shift.Calendar, c Candidate, existing []Assignment) error {
	start, _, err := cal.Window(c.Shift, c.Date)
	if err != nil {
		return err
	}

	today := cal.Today(now)
	if c.Date.Before(today) {
		return ErrPastDate
	}
	if c.Date.Equal(today) && now.After(start) {
		return shift.NewTimingError(ErrShiftAlreadyStarted, "minutes_since_start", int(now.Sub(start).Minutes()))
	}

	switch c.RequestedBy {
	case CreatedByAdmin:
		if lead := start.Sub(now); lead < AdminLeadTime {
			return shift.NewTimingError(ErrInsufficientLeadTime, "minutes_until_start", int(lead.Minutes()))
		}
	case CreatedByStaff:
		midnight := shift.WallClock{}.On(c.Date, cal.Location())
		if lead := midnight.Sub(now); lead < StaffLeadTime {
			return shift.NewTimingError(ErrInsufficientLeadTime, "minutes_until_date", int(lead.Minutes()))
		}
	default:
		return ErrInvalidCreator
	}

	sameDay := make([]Assignment, 0, len(existing))
	for _, e := range existing {
		if e.StaffID == c.StaffID && e.Date.Equal(c.Date) {
			sameDay = append(sameDay, e)
		}
	}

	for _, e := range sameDay {
		if e.Shift == c.Shift {
			return ErrDuplicateAssignment
		}
	}

	active := 0
	hasFullDay := false
	for _, e := range sameDay {
		if !e.Status.IsActive() {
			continue
		}
		active++
		if e.Shift == shift.TypeFullDay {
			hasFullDay = true
		}
	}
	if active >= MaxActivePerDay {
		return ErrDailyLimitExceeded
	}
	if active > 0 && (c.Shift == shift.TypeFullDay || hasFullDay) {
		return ErrFullDayConflict
	}

	return nil
}
