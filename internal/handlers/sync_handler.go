package handlers

import (
	"net/http"
	"time"

	"dashboard-backend/internal/models"
	"dashboard-backend/internal/services"
	"dashboard-backend/internal/timeutil"
	"dashboard-backend/pkg/utils"

	"go.uber.org/zap"
)

type SyncHandler struct {
	reconcile *services.ReconcileService
	daily     *services.DailySyncService
	logger    *zap.Logger
}

func NewSyncHandler(reconcile *services.ReconcileService, daily *services.DailySyncService, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{reconcile: reconcile, daily: daily, logger: logger}
}

// Reconcile recomputes every record's counters from its customer reports.
func (h *SyncHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	updated, err := h.reconcile.Reconcile(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, models.ReconcileResult{Updated: updated})
}

// Daily runs the daily sync job for ?date= or today.
func (h *SyncHandler) Daily(w http.ResponseWriter, r *http.Request) {
	day, ok := queryDay(w, r)
	if !ok {
		return
	}
	res, err := h.daily.Run(r.Context(), day)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	status := http.StatusCreated
	if res.Skipped {
		status = http.StatusOK
	}
	utils.JSON(w, status, res)
}

// CheckPayments runs only the first-time payment check for ?date= or today.
func (h *SyncHandler) CheckPayments(w http.ResponseWriter, r *http.Request) {
	day, ok := queryDay(w, r)
	if !ok {
		return
	}
	res, err := h.daily.CheckPayments(r.Context(), day)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, res)
}

func queryDay(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	v := r.URL.Query().Get("date")
	if v == "" {
		return timeutil.Today(), true
	}
	day, err := timeutil.ParseDate(v)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return day, true
}
