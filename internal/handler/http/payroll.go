package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shift-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	GetMyPeriod(w http.ResponseWriter, r *http.Request)
	ListPeriods(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// GetMyPeriod handles GET /payroll/periods/me
func (h *payrollHandlerImpl) GetMyPeriod(w http.ResponseWriter, r *http.Request) {
	req, ok := parsePeriodRequest(w, r)
	if !ok {
		return
	}

	result, err := h.payrollService.GetMyPeriod(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListPeriods handles GET /payroll/periods
func (h *payrollHandlerImpl) ListPeriods(w http.ResponseWriter, r *http.Request) {
	req, ok := parsePeriodRequest(w, r)
	if !ok {
		return
	}

	result, err := h.payrollService.ListPeriods(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func parsePeriodRequest(w http.ResponseWriter, r *http.Request) (payroll.PeriodRequest, bool) {
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		response.BadRequest(w, "invalid month parameter", nil)
		return payroll.PeriodRequest{}, false
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		response.BadRequest(w, "invalid year parameter", nil)
		return payroll.PeriodRequest{}, false
	}
	return payroll.PeriodRequest{Month: month, Year: year}, true
}
