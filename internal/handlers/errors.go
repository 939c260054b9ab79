package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"dashboard-backend/internal/bonus"
	"dashboard-backend/internal/payments"
	"dashboard-backend/internal/repositories"
	"dashboard-backend/internal/services"
	"dashboard-backend/pkg/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// writeError maps service and store errors to HTTP statuses. Anything
// unrecognised is logged and returned as 500.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.JSON(w, http.StatusBadRequest, utils.ErrorBody{Error: "validation failed", Fields: verr.Fields})
	case errors.Is(err, services.ErrValidation):
		utils.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repositories.ErrNotFound):
		utils.Error(w, http.StatusNotFound, "not found")
	case errors.Is(err, services.ErrUnknownIntegration):
		utils.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, bonus.ErrNegativeCount):
		utils.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrNotConnected), errors.Is(err, payments.ErrNotConfigured):
		utils.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrStorageDisabled):
		utils.Error(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, services.ErrUpstream):
		logger.Warn("upstream call failed", zap.Error(err))
		utils.Error(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		utils.Error(w, http.StatusGatewayTimeout, "request timed out")
	default:
		logger.Error("request failed", zap.Error(err))
		utils.Error(w, http.StatusInternalServerError, "internal server error")
	}
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
