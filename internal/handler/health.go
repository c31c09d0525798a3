package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health_checker", h.healthCheck).Methods("GET")
}

// healthCheck godoc
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse{data=HealthStatus}
// @Router /health_checker [get]
func (h *HealthHandler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, HealthStatus{Status: "ok"})
}
