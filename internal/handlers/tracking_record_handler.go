package handlers

import (
	"context"
	"net/http"

	"dashboard-backend/internal/bonus"
	"dashboard-backend/internal/models"
	"dashboard-backend/pkg/utils"

	"go.uber.org/zap"
)

// TrackingRecordService is implemented by services.TrackingRecordService.
type TrackingRecordService interface {
	List(ctx context.Context) ([]*models.TrackingRecord, error)
	Get(ctx context.Context, id int64) (*models.TrackingRecord, error)
	Create(ctx context.Context, req *models.CreateTrackingRecordRequest) (*models.TrackingRecord, error)
	Update(ctx context.Context, id int64, req *models.UpdateTrackingRecordRequest) (*models.TrackingRecord, error)
	Delete(ctx context.Context, id int64) error
	Bonus(ctx context.Context, id int64) (*bonus.Result, error)
}

type TrackingRecordHandler struct {
	Service TrackingRecordService
	logger  *zap.Logger
}

func NewTrackingRecordHandler(service TrackingRecordService, logger *zap.Logger) *TrackingRecordHandler {
	return &TrackingRecordHandler{Service: service, logger: logger}
}

func (h *TrackingRecordHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.Service.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, records)
}

func (h *TrackingRecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	rec, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, rec)
}

func (h *TrackingRecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTrackingRecordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rec, err := h.Service.Create(r.Context(), &req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusCreated, rec)
}

func (h *TrackingRecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	var req models.UpdateTrackingRecordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rec, err := h.Service.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, rec)
}

// Delete removes the record together with its customer reports.
func (h *TrackingRecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

func (h *TrackingRecordHandler) Bonus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.Service.Bonus(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, res)
}
