package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dashboard-backend/internal/auth"
	"dashboard-backend/internal/handlers"
	"dashboard-backend/internal/health"
	h "dashboard-backend/internal/http"
	"dashboard-backend/internal/middleware"
	"dashboard-backend/internal/scheduler"
	"dashboard-backend/internal/timeutil"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "dashboard-backend",
		Short:         "Appointment tracking and bonus reporting backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (default configs/config.yaml)")

	root.AddCommand(
		newServeCmd(&configPath),
		newMigrateCmd(&configPath),
		newSyncCmd(&configPath),
		newPaymentsCmd(&configPath),
		newHashPasswordCmd(),
	)
	return root
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations, the scheduler and the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := bootstrap(ctx, *configPath)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.migrate(ctx); err != nil {
				return err
			}
			if err := a.wire(ctx); err != nil {
				return err
			}
			return serve(ctx, a)
		},
	}
}

func serve(ctx context.Context, a *app) error {
	cfg, log := a.cfg, a.logger

	go a.hub.Run(ctx)

	if cfg.Schedule.Enabled {
		sched, err := scheduler.New(a.dailySync, scheduler.Schedule{
			DailySync:    cfg.Schedule.DailySync,
			PaymentCheck: cfg.Schedule.PaymentCheck,
		}, log.Named("scheduler"))
		if err != nil {
			return err
		}
		sched.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			sched.Stop(stopCtx)
		}()
	}

	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.ExpirationHours)*time.Hour)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager)

	router := h.NewRouter(
		handlers.NewAuthHandler(a.adminAccount(), jwtManager, a.loginLogs, log.Named("auth")),
		handlers.NewTrackingRecordHandler(a.trackingRecords, log),
		handlers.NewCustomerReportHandler(a.customerReports, log),
		handlers.NewSyncHandler(a.reconcile, a.dailySync, log),
		handlers.NewIntegrationHandler(a.integrations, log),
		handlers.NewReportHandler(a.reporting, log),
		handlers.NewHealthHandler(health.NewHealthChecker(a.pool)),
		a.hub.ServeWS,
		authMiddleware,
	)

	// Wrap with panic recovery, request logging and CORS
	handler := middleware.PanicRecovery(log)(
		middleware.RequestLogger(log.Named("http"))(
			middleware.NewCORS(cfg)(router),
		),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("zone", timeutil.Location().String()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer a.close()
			return a.migrate(cmd.Context())
		},
	}
}

func newSyncCmd(configPath *string) *cobra.Command {
	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Run sync jobs once",
	}

	var date string
	daily := &cobra.Command{
		Use:   "daily",
		Short: "Create the day's tracking record and import appointments",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOnce(cmd.Context(), *configPath, func(ctx context.Context, a *app) (any, error) {
				day, err := dayFlag(date)
				if err != nil {
					return nil, err
				}
				return a.dailySync.Run(ctx, day)
			})
		},
	}
	daily.Flags().StringVar(&date, "date", "", "business day as YYYY-MM-DD (default today)")

	reconcile := &cobra.Command{
		Use:   "reconcile",
		Short: "Recompute reported customer counts from customer reports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOnce(cmd.Context(), *configPath, func(ctx context.Context, a *app) (any, error) {
				n, err := a.reconcile.Reconcile(ctx)
				if err != nil {
					return nil, err
				}
				return map[string]int{"updated": n}, nil
			})
		},
	}

	syncCmd.AddCommand(daily, reconcile)
	return syncCmd
}

func newPaymentsCmd(configPath *string) *cobra.Command {
	paymentsCmd := &cobra.Command{
		Use:   "payments",
		Short: "Payment provider jobs",
	}

	var date string
	check := &cobra.Command{
		Use:   "check",
		Short: "Count first-time payments for a day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOnce(cmd.Context(), *configPath, func(ctx context.Context, a *app) (any, error) {
				day, err := dayFlag(date)
				if err != nil {
					return nil, err
				}
				return a.dailySync.CheckPayments(ctx, day)
			})
		},
	}
	check.Flags().StringVar(&date, "date", "", "business day as YYYY-MM-DD (default today)")

	paymentsCmd.AddCommand(check)
	return paymentsCmd
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for admin.password_hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

// runOnce bootstraps without migrating, runs fn and prints its result as JSON.
func runOnce(ctx context.Context, configPath string, fn func(context.Context, *app) (any, error)) error {
	a, err := bootstrap(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.wire(ctx); err != nil {
		return err
	}
	out, err := fn(ctx, a)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func dayFlag(value string) (time.Time, error) {
	if value == "" {
		return timeutil.Now(), nil
	}
	day, err := timeutil.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: %w", value, err)
	}
	return day, nil
}
