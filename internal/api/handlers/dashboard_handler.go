package handlers

import (
	"context"
	"net/http"

	"pos-service/internal/service"
)

type DashboardProvider interface {
	Summary(ctx context.Context) (*service.DashboardData, error)
}

type DashboardHandler struct {
	dashboard DashboardProvider
}

func NewDashboardHandler(dashboard DashboardProvider) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	data, err := h.dashboard.Summary(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load dashboard", nil)
		return
	}

	writeJSON(w, http.StatusOK, data)
}
