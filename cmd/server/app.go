package main

import (
	"context"
	"fmt"
	"time"

	"dashboard-backend/internal/auth"
	"dashboard-backend/internal/calendly"
	"dashboard-backend/internal/config"
	"dashboard-backend/internal/database"
	"dashboard-backend/internal/db"
	"dashboard-backend/internal/gcal"
	"dashboard-backend/internal/live"
	"dashboard-backend/internal/logger"
	"dashboard-backend/internal/models"
	"dashboard-backend/internal/payments"
	"dashboard-backend/internal/repositories"
	"dashboard-backend/internal/services"
	"dashboard-backend/internal/storage"
	"dashboard-backend/internal/timeutil"
	"dashboard-backend/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// app holds everything the commands share.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	pool   *pgxpool.Pool
	hub    *live.Hub

	records   *repositories.TrackingRecordRepository
	reports   *repositories.CustomerReportRepository
	settings  *repositories.SystemSettingRepository
	loginLogs *repositories.LoginLogRepository

	trackingRecords *services.TrackingRecordService
	customerReports *services.CustomerReportService
	reconcile       *services.ReconcileService
	dailySync       *services.DailySyncService
	integrations    *services.IntegrationService
	reporting       *services.ReportService
}

// bootstrap loads config, sets up logging and the zone, and connects to
// PostgreSQL. Services are built by wire.
func bootstrap(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "dashboard-backend")
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	if err := timeutil.SetZone(cfg.Business.Timezone); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Info("connected to database",
		zap.String("host", cfg.Database.Host),
		zap.String("name", cfg.Database.Name),
	)

	return &app{cfg: cfg, logger: log, pool: pool}, nil
}

func (a *app) migrate(ctx context.Context) error {
	return database.NewMigrator(a.pool, migrations.FS, ".", a.logger).RunMigrations(ctx)
}

func (a *app) wire(ctx context.Context) error {
	cfg, log := a.cfg, a.logger

	a.records = repositories.NewTrackingRecordRepository(a.pool)
	a.reports = repositories.NewCustomerReportRepository(a.pool)
	a.settings = repositories.NewSystemSettingRepository(a.pool)
	a.loginLogs = repositories.NewLoginLogRepository(a.pool)
	a.hub = live.NewHub(log.Named("live"))

	calendlyClient := calendly.NewClient(
		cfg.Calendly.BaseURL,
		time.Duration(cfg.Calendly.TimeoutSeconds)*time.Second,
		log.Named("calendly"),
	)
	googleSource := gcal.NewSource(cfg.Google.CalendarID, "", log.Named("gcal"))
	stripe := payments.NewStripe("")

	provider, err := payments.NewProvider(cfg.Payments.Provider)
	if err != nil {
		return err
	}

	var archiver services.Archiver
	if cfg.StorageEnabled() {
		a3, err := storage.NewArchiver(ctx, storage.Options{
			Endpoint:  cfg.Storage.Endpoint,
			Region:    cfg.Storage.Region,
			Bucket:    cfg.Storage.Bucket,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Prefix:    cfg.Storage.Prefix,
		})
		if err != nil {
			return err
		}
		archiver = a3
		log.Info("report archiving enabled", zap.String("bucket", cfg.Storage.Bucket))
	}

	creds := &services.Credentials{
		Settings: a.settings,
		Stripe:   payments.Credentials{SecretKey: cfg.Payments.Stripe.SecretKey},
		Razorpay: payments.Credentials{
			KeyID:     cfg.Payments.Razorpay.KeyID,
			SecretKey: cfg.Payments.Razorpay.KeySecret,
		},
	}

	a.trackingRecords = services.NewTrackingRecordService(a.records, a.hub, log.Named("tracking_records"))
	a.customerReports = services.NewCustomerReportService(a.reports, a.hub, log.Named("customer_reports"))
	a.reconcile = services.NewReconcileService(a.records, a.reports, a.hub, log.Named("reconcile"))
	a.dailySync = services.NewDailySyncService(
		a.records,
		a.reports,
		[]services.SourceBinding{
			{Source: calendlyClient, SettingKey: models.SettingCalendlyToken, Origin: models.SourceCalendly},
			{Source: googleSource, SettingKey: models.SettingGoogleToken, Origin: models.SourceGoogle},
		},
		provider,
		creds,
		a.hub,
		log.Named("daily_sync"),
	)
	a.integrations = services.NewIntegrationService(a.settings, []services.Integration{
		{
			Name:        calendly.SourceName,
			SettingKey:  models.SettingCalendlyToken,
			Description: "Calendly personal access token",
			Verify: func(ctx context.Context, token string) (string, error) {
				user, err := calendlyClient.CurrentUser(ctx, token)
				if err != nil {
					return "", err
				}
				return user.Email, nil
			},
		},
		{
			Name:        gcal.SourceName,
			SettingKey:  models.SettingGoogleToken,
			Description: "Google Calendar OAuth access token",
			Verify: func(ctx context.Context, token string) (string, error) {
				start, end := timeutil.DayWindow(timeutil.Now())
				if _, err := googleSource.ListEvents(ctx, token, start, end); err != nil {
					return "", err
				}
				return cfg.Google.CalendarID, nil
			},
		},
		{
			Name:        payments.StripeName,
			SettingKey:  models.SettingStripeSecretKey,
			Description: "Stripe secret API key",
			Verify:      stripe.Verify,
		},
		{
			Name:        "razorpay_key_id",
			SettingKey:  models.SettingRazorpayKeyID,
			Description: "Razorpay key id",
		},
		{
			Name:        "razorpay_key_secret",
			SettingKey:  models.SettingRazorpayKeySecret,
			Description: "Razorpay key secret",
		},
	}, log.Named("integrations"))
	a.reporting = services.NewReportService(a.records, a.reports, archiver, log.Named("reports"))

	return nil
}

func (a *app) adminAccount() auth.Admin {
	return auth.Admin{Email: a.cfg.Admin.Email, PasswordHash: a.cfg.Admin.PasswordHash}
}

func (a *app) close() {
	if a.pool != nil {
		a.pool.Close()
	}
	_ = a.logger.Sync()
}
