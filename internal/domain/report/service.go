package report

import "context"

type ReportService interface {
	// GenerateMonthlyReport aggregates every staff member and role (admin).
	GenerateMonthlyReport(ctx context.Context, req MonthlyReportRequest) (MonthlyReport, error)

	// GenerateMyMonthlyReport aggregates the caller only.
	GenerateMyMonthlyReport(ctx context.Context, req MonthlyReportRequest) (StaffStats, error)
}
