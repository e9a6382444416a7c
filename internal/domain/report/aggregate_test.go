package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/schedule"
)

func TestAggregate(t *testing.T) {
	records := []attendance.Attendance{
		{Status: attendance.StatusPresent, HoursWorked: 6},
		{Status: attendance.StatusPresent, HoursWorked: 5.42},
		{Status: attendance.StatusLate, HoursWorked: 3.33},
		{Status: attendance.StatusAbsent},
	}
	assignments := []schedule.Assignment{
		{Status: schedule.StatusConfirmed},
		{Status: schedule.StatusConfirmed},
		{Status: schedule.StatusConfirmed},
		{Status: schedule.StatusConfirmed},
		{Status: schedule.StatusScheduled},
		{Status: schedule.StatusRejected},
		{Status: schedule.StatusCancelled},
	}

	s := Aggregate(records, assignments)

	assert.Equal(t, 2, s.OnTime)
	assert.Equal(t, 1, s.Late)
	assert.Equal(t, 1, s.Absent)
	assert.Equal(t, 6, s.ScheduledCount)
	assert.Equal(t, 4, s.ConfirmedCount)
	assert.Equal(t, "14.75", s.TotalHours.StringFixed(2))
	assert.Equal(t, 50, s.AttendanceRate) // 3 of 6
	assert.Equal(t, 67, s.CompletionRate) // 4 of 6
}

func TestAggregate_NothingScheduled(t *testing.T) {
	s := Aggregate([]attendance.Attendance{{Status: attendance.StatusPresent, HoursWorked: 2}}, nil)

	assert.Equal(t, 0, s.ScheduledCount)
	assert.Equal(t, 0, s.AttendanceRate)
	assert.Equal(t, 0, s.CompletionRate)
	assert.Equal(t, "2.00", s.TotalHours.StringFixed(2))

	empty := Aggregate(nil, []schedule.Assignment{{Status: schedule.StatusCancelled}})
	assert.Equal(t, 0, empty.AttendanceRate)
	assert.Equal(t, 0, empty.CompletionRate)
	assert.True(t, empty.TotalHours.IsZero())
}

func TestStats_Merge(t *testing.T) {
	a := Aggregate(
		[]attendance.Attendance{{Status: attendance.StatusPresent, HoursWorked: 6}},
		[]schedule.Assignment{{Status: schedule.StatusConfirmed}},
	)
	b := Aggregate(
		[]attendance.Attendance{{Status: attendance.StatusAbsent}},
		[]schedule.Assignment{{Status: schedule.StatusConfirmed}},
	)

	var total Stats
	total = total.Merge(a).Merge(b)

	assert.Equal(t, 2, total.ScheduledCount)
	assert.Equal(t, 50, total.AttendanceRate)
	assert.Equal(t, 100, total.CompletionRate)
	assert.Equal(t, "6.00", total.TotalHours.StringFixed(2))
}

func TestMonthlyReportRequest_Validate(t *testing.T) {
	ok := MonthlyReportRequest{Month: 2, Year: 2024}
	assert.NoError(t, ok.Validate())

	bad := MonthlyReportRequest{Month: 13, Year: 1990}
	err := bad.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "month")
	assert.Contains(t, err.Error(), "year")
}
