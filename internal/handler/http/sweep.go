package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/shift-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/cron"
	"github.com/go-chi/chi/v5"
)

type SweepHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Run(w http.ResponseWriter, r *http.Request)
}

type sweepHandlerImpl struct {
	registry *cron.Registry
}

func NewSweepHandler(registry *cron.Registry) SweepHandler {
	return &sweepHandlerImpl{registry: registry}
}

// List handles GET /sweeps
func (h *sweepHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string][]string{"sweeps": h.registry.Names()})
}

// Run handles POST /sweeps/{name}
func (h *sweepHandlerImpl) Run(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	result, err := h.registry.Run(r.Context(), name)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("sweep triggered manually", "sweep", name, "affected", result.Affected)
	response.Success(w, result)
}
