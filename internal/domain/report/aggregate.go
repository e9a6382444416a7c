package report

import (
	"math"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/schedule"
	"github.com/shopspring/decimal"
)

// Aggregate tallies attendance and assignment records into Stats. Cancelled
// assignments are not counted as scheduled.
func Aggregate(records []attendance.Attendance, assignments []schedule.Assignment) Stats {
	s := Stats{TotalHours: decimal.Zero}

	for _, r := range records {
		switch r.Status {
		case attendance.StatusPresent:
			s.OnTime++
		case attendance.StatusLate:
			s.Late++
		case attendance.StatusAbsent:
			s.Absent++
		}
		s.TotalHours = s.TotalHours.Add(decimal.NewFromFloat(r.HoursWorked))
	}
	s.TotalHours = s.TotalHours.Round(2)

	for _, a := range assignments {
		switch a.Status {
		case schedule.StatusCancelled:
			continue
		case schedule.StatusConfirmed:
			s.ConfirmedCount++
		case schedule.StatusScheduled, schedule.StatusRejected:
		}
		s.ScheduledCount++
	}

	s.finish()
	return s
}

// Merge adds o into s and recomputes the rates.
func (s Stats) Merge(o Stats) Stats {
	s.OnTime += o.OnTime
	s.Late += o.Late
	s.Absent += o.Absent
	s.ScheduledCount += o.ScheduledCount
	s.ConfirmedCount += o.ConfirmedCount
	s.TotalHours = s.TotalHours.Add(o.TotalHours)
	s.finish()
	return s
}

func (s *Stats) finish() {
	s.AttendanceRate = percent(s.OnTime+s.Late, s.ScheduledCount)
	s.CompletionRate = percent(s.ConfirmedCount, s.ScheduledCount)
}

func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(n) / float64(total)))
}
