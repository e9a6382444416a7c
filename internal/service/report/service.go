package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/identity"
	"github.com/shopspring/decimal"
)

type ReportServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	scheduleRepo   schedule.Repository
	staffRepo      staff.Repository
	clock          clock.Clock
}

func NewReportService(
	attendanceRepo attendance.AttendanceRepository,
	scheduleRepo schedule.Repository,
	staffRepo staff.Repository,
	clk clock.Clock,
) report.ReportService {
	return &ReportServiceImpl{
		attendanceRepo: attendanceRepo,
		scheduleRepo:   scheduleRepo,
		staffRepo:      staffRepo,
		clock:          clk,
	}
}

// GenerateMonthlyReport aggregates every active staff member, plus anyone with
// records in the month, and rolls them up per role.
func (s *ReportServiceImpl) GenerateMonthlyReport(ctx context.Context, req report.MonthlyReportRequest) (report.MonthlyReport, error) {
	// Validate request
	if err := req.Validate(); err != nil {
		return report.MonthlyReport{}, err
	}

	periodStart, periodEnd := monthBounds(req.Month, req.Year)

	records, assignments, err := s.loadMonth(ctx, nil, periodStart, periodEnd)
	if err != nil {
		return report.MonthlyReport{}, err
	}

	members, err := s.staffRepo.ListActive(ctx)
	if err != nil {
		return report.MonthlyReport{}, fmt.Errorf("failed to list staff: %w", err)
	}

	known := make(map[string]staff.Staff, len(members))
	for _, m := range members {
		known[m.ID] = m
	}

	recordsByStaff := make(map[string][]attendance.Attendance)
	for _, r := range records {
		recordsByStaff[r.StaffID] = append(recordsByStaff[r.StaffID], r)
	}
	assignmentsByStaff := make(map[string][]schedule.Assignment)
	for _, a := range assignments {
		assignmentsByStaff[a.StaffID] = append(assignmentsByStaff[a.StaffID], a)
	}

	// Staff who left during the month still show up with their records.
	for id := range recordsByStaff {
		s.resolveStaff(ctx, known, id)
	}
	for id := range assignmentsByStaff {
		s.resolveStaff(ctx, known, id)
	}

	staffStats := make([]report.StaffStats, 0, len(known))
	for id, m := range known {
		staffStats = append(staffStats, report.StaffStats{
			StaffID:   id,
			StaffName: m.FullName,
			Role:      string(m.Role),
			Stats:     report.Aggregate(recordsByStaff[id], assignmentsByStaff[id]),
		})
	}
	sort.Slice(staffStats, func(i, j int) bool {
		if staffStats[i].StaffName != staffStats[j].StaffName {
			return staffStats[i].StaffName < staffStats[j].StaffName
		}
		return staffStats[i].StaffID < staffStats[j].StaffID
	})

	roles := make([]report.RoleStats, 0, len(staff.RoleValues))
	for _, role := range staff.RoleValues {
		rs := report.RoleStats{Role: role, Stats: report.Stats{TotalHours: decimal.Zero}}
		for _, st := range staffStats {
			if st.Role != role {
				continue
			}
			rs.StaffCount++
			rs.Stats = rs.Stats.Merge(st.Stats)
		}
		roles = append(roles, rs)
	}

	return report.MonthlyReport{
		PeriodMonth: req.Month,
		PeriodYear:  req.Year,
		PeriodStart: periodStart.Format("2006-01-02"),
		PeriodEnd:   periodEnd.Format("2006-01-02"),
		GeneratedAt: s.clock.Now().Format(time.RFC3339),
		Staff:       staffStats,
		Roles:       roles,
	}, nil
}

// GenerateMyMonthlyReport aggregates the caller's own month.
func (s *ReportServiceImpl) GenerateMyMonthlyReport(ctx context.Context, req report.MonthlyReportRequest) (report.StaffStats, error) {
	if err := req.Validate(); err != nil {
		return report.StaffStats{}, err
	}

	caller, err := identity.FromContext(ctx)
	if err != nil {
		return report.StaffStats{}, err
	}

	periodStart, periodEnd := monthBounds(req.Month, req.Year)
	records, assignments, err := s.loadMonth(ctx, &caller.StaffID, periodStart, periodEnd)
	if err != nil {
		return report.StaffStats{}, err
	}

	result := report.StaffStats{
		StaffID: caller.StaffID,
		Role:    caller.Role,
		Stats:   report.Aggregate(records, assignments),
	}
	member, err := s.staffRepo.GetByID(ctx, caller.StaffID)
	switch {
	case err == nil:
		result.StaffName = member.FullName
		result.Role = string(member.Role)
	case !errors.Is(err, staff.ErrStaffNotFound):
		return report.StaffStats{}, fmt.Errorf("failed to get staff: %w", err)
	}
	return result, nil
}

func (s *ReportServiceImpl) loadMonth(ctx context.Context, staffID *string, start, end time.Time) ([]attendance.Attendance, []schedule.Assignment, error) {
	records, _, err := s.attendanceRepo.List(ctx, attendance.Filter{
		StaffID:   staffID,
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get attendance data: %w", err)
	}

	assignments, _, err := s.scheduleRepo.List(ctx, schedule.Filter{
		StaffID:   staffID,
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get schedule data: %w", err)
	}
	return records, assignments, nil
}

// resolveStaff adds id to known, looking the member up when it is not active.
func (s *ReportServiceImpl) resolveStaff(ctx context.Context, known map[string]staff.Staff, id string) {
	if _, ok := known[id]; ok {
		return
	}
	m, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		m = staff.Staff{ID: id, FullName: id}
	}
	known[id] = m
}

func monthBounds(month, year int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}
