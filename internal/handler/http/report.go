package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/shift-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	// Monthly attendance for every staff member and role
	GetMonthlyReport(w http.ResponseWriter, r *http.Request)

	// Monthly attendance for the caller
	GetMyMonthlyReport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// GetMonthlyReport handles GET /reports/monthly
func (h *reportHandlerImpl) GetMonthlyReport(w http.ResponseWriter, r *http.Request) {
	req, ok := parseMonthlyReportRequest(w, r)
	if !ok {
		return
	}

	result, err := h.reportService.GenerateMonthlyReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetMyMonthlyReport handles GET /reports/monthly/me
func (h *reportHandlerImpl) GetMyMonthlyReport(w http.ResponseWriter, r *http.Request) {
	req, ok := parseMonthlyReportRequest(w, r)
	if !ok {
		return
	}

	result, err := h.reportService.GenerateMyMonthlyReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func parseMonthlyReportRequest(w http.ResponseWriter, r *http.Request) (report.MonthlyReportRequest, bool) {
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		response.BadRequest(w, "invalid month parameter", nil)
		return report.MonthlyReportRequest{}, false
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		response.BadRequest(w, "invalid year parameter", nil)
		return report.MonthlyReportRequest{}, false
	}

	return report.MonthlyReportRequest{Month: month, Year: year}, true
}
