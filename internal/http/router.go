package http

import (
	"net/http"

	"dashboard-backend/internal/handlers"
	"dashboard-backend/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	trackingRecordHandler *handlers.TrackingRecordHandler,
	customerReportHandler *handlers.CustomerReportHandler,
	syncHandler *handlers.SyncHandler,
	integrationHandler *handlers.IntegrationHandler,
	reportHandler *handlers.ReportHandler,
	healthHandler *handlers.HealthHandler,
	liveUpdates http.HandlerFunc,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)

	// Public API routes - Authentication
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware.Authenticate)

	// Login audit
	api.HandleFunc("/login-logs", authHandler.LoginLogs).Methods("GET")

	// Tracking records
	api.HandleFunc("/tracking-records", trackingRecordHandler.List).Methods("GET")
	api.HandleFunc("/tracking-records", trackingRecordHandler.Create).Methods("POST")
	api.HandleFunc("/tracking-records/{id:[0-9]+}", trackingRecordHandler.Get).Methods("GET")
	api.HandleFunc("/tracking-records/{id:[0-9]+}", trackingRecordHandler.Update).Methods("PUT")
	api.HandleFunc("/tracking-records/{id:[0-9]+}", trackingRecordHandler.Delete).Methods("DELETE")
	api.HandleFunc("/tracking-records/{id:[0-9]+}/bonus", trackingRecordHandler.Bonus).Methods("GET")

	// Customer reports
	api.HandleFunc("/customer-reports", customerReportHandler.List).Methods("GET")
	api.HandleFunc("/customer-reports", customerReportHandler.Create).Methods("POST")
	api.HandleFunc("/customer-reports/{id:[0-9]+}", customerReportHandler.Get).Methods("GET")
	api.HandleFunc("/customer-reports/{id:[0-9]+}", customerReportHandler.Update).Methods("PUT")
	api.HandleFunc("/customer-reports/{id:[0-9]+}", customerReportHandler.Delete).Methods("DELETE")

	// Sync jobs
	api.HandleFunc("/sync", syncHandler.Reconcile).Methods("POST")
	api.HandleFunc("/sync/daily", syncHandler.Daily).Methods("POST")
	api.HandleFunc("/payments/check", syncHandler.CheckPayments).Methods("POST")

	// Integrations (calendly, google, stripe, razorpay)
	api.HandleFunc("/integrations/{provider}/token", integrationHandler.SaveToken).Methods("PUT")
	api.HandleFunc("/integrations/{provider}/token", integrationHandler.Disconnect).Methods("DELETE")
	api.HandleFunc("/integrations/{provider}/status", integrationHandler.Status).Methods("GET")

	// Reports
	api.HandleFunc("/reports/bonus", reportHandler.Bonus).Methods("GET")
	api.HandleFunc("/reports/bonus.pdf", reportHandler.BonusPDF).Methods("GET")
	api.HandleFunc("/reports/customers.xlsx", reportHandler.CustomersXLSX).Methods("GET")
	api.HandleFunc("/reports/bonus/archive", reportHandler.Archive).Methods("POST")

	// Live updates; browsers pass the token as ?token=
	r.Handle("/ws", authMiddleware.Authenticate(liveUpdates)).Methods("GET")

	// Health endpoints (no auth required - for Kubernetes probes)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
