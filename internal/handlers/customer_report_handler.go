package handlers

import (
	"context"
	"net/http"

	"dashboard-backend/internal/models"
	"dashboard-backend/pkg/utils"

	"go.uber.org/zap"
)

// CustomerReportService is implemented by services.CustomerReportService.
type CustomerReportService interface {
	List(ctx context.Context, date string) ([]*models.CustomerReport, error)
	Get(ctx context.Context, id int64) (*models.CustomerReport, error)
	Create(ctx context.Context, req *models.CreateCustomerReportRequest) (*models.CustomerReport, error)
	Update(ctx context.Context, id int64, req *models.UpdateCustomerReportRequest) (*models.CustomerReport, error)
	Delete(ctx context.Context, id int64) error
}

type CustomerReportHandler struct {
	Service CustomerReportService
	logger  *zap.Logger
}

func NewCustomerReportHandler(service CustomerReportService, logger *zap.Logger) *CustomerReportHandler {
	return &CustomerReportHandler{Service: service, logger: logger}
}

// List returns all reports, or one day's with ?date=YYYY-MM-DD.
func (h *CustomerReportHandler) List(w http.ResponseWriter, r *http.Request) {
	reports, err := h.Service.List(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, reports)
}

func (h *CustomerReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, c)
}

func (h *CustomerReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCustomerReportRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.Service.Create(r.Context(), &req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusCreated, c)
}

func (h *CustomerReportHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	var req models.UpdateCustomerReportRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.Service.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, c)
}

func (h *CustomerReportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
