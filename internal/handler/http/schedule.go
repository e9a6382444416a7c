package http

import (
	"net/http"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/shift-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type ScheduleHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	CreateBatch(w http.ResponseWriter, r *http.Request)
	CreateFromTemplate(w http.ResponseWriter, r *http.Request)

	Confirm(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)

	ListMine(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type scheduleHandlerImpl struct {
	scheduleService schedule.ScheduleService
}

func NewScheduleHandler(scheduleService schedule.ScheduleService) ScheduleHandler {
	return &scheduleHandlerImpl{
		scheduleService: scheduleService,
	}
}

// Create handles POST /schedules
func (h *scheduleHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req schedule.CreateAssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.scheduleService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift assignment created", result)
}

// CreateBatch handles POST /schedules/batch. Partial failures are reported
// per item in the body, not as an error status.
func (h *scheduleHandlerImpl) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var req schedule.BatchRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.scheduleService.CreateBatch(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CreateFromTemplate handles POST /schedules/template
func (h *scheduleHandlerImpl) CreateFromTemplate(w http.ResponseWriter, r *http.Request) {
	var req schedule.TemplateRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.scheduleService.CreateFromTemplate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Confirm handles POST /schedules/{id}/confirm
func (h *scheduleHandlerImpl) Confirm(w http.ResponseWriter, r *http.Request) {
	id, ok := assignmentID(w, r)
	if !ok {
		return
	}

	result, err := h.scheduleService.Confirm(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift assignment confirmed", result)
}

// Reject handles POST /schedules/{id}/reject
func (h *scheduleHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := assignmentID(w, r)
	if !ok {
		return
	}

	var req schedule.RejectAssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	result, err := h.scheduleService.Reject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift assignment rejected", result)
}

// Cancel handles POST /schedules/{id}/cancel
func (h *scheduleHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := assignmentID(w, r)
	if !ok {
		return
	}

	result, err := h.scheduleService.Cancel(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift assignment cancelled", result)
}

// ListMine handles GET /schedules/my
func (h *scheduleHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	filter := schedule.MyAssignmentFilter{
		StartDate: queryString(r, "start_date"),
		EndDate:   queryString(r, "end_date"),
		Status:    queryString(r, "status"),
	}
	filter.Page, filter.Limit = queryPage(r)

	result, err := h.scheduleService.ListMine(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List handles GET /schedules
func (h *scheduleHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := schedule.AssignmentFilter{
		StaffID:   queryString(r, "staff_id"),
		StartDate: queryString(r, "start_date"),
		EndDate:   queryString(r, "end_date"),
		Status:    queryString(r, "status"),
		Shift:     queryString(r, "shift"),
	}
	// date is shorthand for a single-day range
	if date := queryString(r, "date"); date != nil {
		filter.StartDate, filter.EndDate = date, date
	}
	filter.Page, filter.Limit = queryPage(r)

	result, err := h.scheduleService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func assignmentID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.BadRequest(w, "Invalid assignment ID", nil)
		return "", false
	}
	return id, true
}
