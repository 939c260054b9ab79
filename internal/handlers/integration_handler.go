package handlers

import (
	"net/http"

	"dashboard-backend/internal/models"
	"dashboard-backend/internal/services"
	"dashboard-backend/pkg/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type IntegrationHandler struct {
	Service *services.IntegrationService
	logger  *zap.Logger
}

func NewIntegrationHandler(service *services.IntegrationService, logger *zap.Logger) *IntegrationHandler {
	return &IntegrationHandler{Service: service, logger: logger}
}

func (h *IntegrationHandler) SaveToken(w http.ResponseWriter, r *http.Request) {
	var req models.SaveTokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.Service.SaveToken(r.Context(), mux.Vars(r)["provider"], &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Token saved"})
}

func (h *IntegrationHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.Service.Status(r.Context(), mux.Vars(r)["provider"])
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, status)
}

func (h *IntegrationHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Disconnect(r.Context(), mux.Vars(r)["provider"]); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
