package handlers

import (
	"net/http"

	"dashboard-backend/internal/services"
	"dashboard-backend/pkg/utils"

	"go.uber.org/zap"
)

type ReportHandler struct {
	Service *services.ReportService
	logger  *zap.Logger
}

func NewReportHandler(service *services.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{Service: service, logger: logger}
}

func (h *ReportHandler) period(w http.ResponseWriter, r *http.Request) (services.Period, bool) {
	q := r.URL.Query()
	p, err := services.ParsePeriod(q.Get("from"), q.Get("to"))
	if err != nil {
		writeError(w, h.logger, err)
		return services.Period{}, false
	}
	return p, true
}

func (h *ReportHandler) Bonus(w http.ResponseWriter, r *http.Request) {
	p, ok := h.period(w, r)
	if !ok {
		return
	}
	rep, err := h.Service.Bonus(r.Context(), p)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, rep)
}

func (h *ReportHandler) BonusPDF(w http.ResponseWriter, r *http.Request) {
	p, ok := h.period(w, r)
	if !ok {
		return
	}
	body, err := h.Service.BonusPDF(r.Context(), p)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	utils.File(w, "application/pdf", "bonus_"+p.String()+".pdf", body)
}

func (h *ReportHandler) CustomersXLSX(w http.ResponseWriter, r *http.Request) {
	p, ok := h.period(w, r)
	if !ok {
		return
	}
	body, err := h.Service.CustomersXLSX(r.Context(), p)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	utils.File(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "customers_"+p.String()+".xlsx", body)
}

// Archive uploads the period's bonus PDF to the report bucket.
func (h *ReportHandler) Archive(w http.ResponseWriter, r *http.Request) {
	p, ok := h.period(w, r)
	if !ok {
		return
	}
	key, err := h.Service.ArchiveBonusPDF(r.Context(), p)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusCreated, map[string]string{"key": key})
}
