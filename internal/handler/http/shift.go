package http

import (
	"net/http"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-backend-go/internal/handler/http/response"
)

type ShiftHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type shiftHandlerImpl struct {
	calendar *shift.Calendar
}

func NewShiftHandler(calendar *shift.Calendar) ShiftHandler {
	return &shiftHandlerImpl{calendar: calendar}
}

type shiftResponse struct {
	Shift           string  `json:"shift"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	CrossesMidnight bool    `json:"crosses_midnight"`
	NominalHours    float64 `json:"nominal_hours"`
}

// List handles GET /shifts
func (h *shiftHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	defs := h.calendar.Definitions()
	shifts := make([]shiftResponse, 0, len(defs))
	for _, d := range defs {
		shifts = append(shifts, shiftResponse{
			Shift:           string(d.Type),
			StartTime:       d.Start.String(),
			EndTime:         d.End.String(),
			CrossesMidnight: d.CrossesMidnight,
			NominalHours:    h.calendar.NominalHours(d.Type),
		})
	}

	response.Success(w, map[string]interface{}{
		"timezone": h.calendar.Location().String(),
		"shifts":   shifts,
	})
}
