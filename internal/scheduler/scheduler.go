// Package scheduler runs the daily sync and payment check on cron schedules
// evaluated in the business time zone.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dashboard-backend/internal/metrics"
	"dashboard-backend/internal/models"
	"dashboard-backend/internal/repositories"
	"dashboard-backend/internal/services"
	"dashboard-backend/internal/timeutil"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	JobDailySync    = "daily_sync"
	JobPaymentCheck = "payment_check"

	defaultJobTimeout = 10 * time.Minute
)

// DailyJobs is the part of the daily sync service the scheduler triggers.
type DailyJobs interface {
	Run(ctx context.Context, day time.Time) (*models.DailySyncResult, error)
	CheckPayments(ctx context.Context, day time.Time) (*models.PaymentCheckResult, error)
}

// Schedule holds cron expressions; an empty expression disables the entry.
type Schedule struct {
	DailySync    string
	PaymentCheck string
}

type Scheduler struct {
	cron    *cron.Cron
	jobs    DailyJobs
	logger  *zap.Logger
	timeout time.Duration
	now     func() time.Time
}

func New(jobs DailyJobs, schedule Schedule, logger *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(timeutil.Location())),
		jobs:    jobs,
		logger:  logger,
		timeout: defaultJobTimeout,
		now:     timeutil.Now,
	}

	entries := []struct {
		name string
		spec string
		fn   func(context.Context) error
	}{
		{JobDailySync, schedule.DailySync, s.dailySync},
		{JobPaymentCheck, schedule.PaymentCheck, s.paymentCheck},
	}
	for _, e := range entries {
		if e.spec == "" {
			continue
		}
		name, fn := e.name, e.fn
		if _, err := s.cron.AddFunc(e.spec, func() { s.runJob(name, fn) }); err != nil {
			return nil, fmt.Errorf("schedule %s %q: %w", name, e.spec, err)
		}
		logger.Info("job scheduled", zap.String("job", name), zap.String("cron", e.spec))
	}
	return s, nil
}

// Start runs the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", zap.String("zone", timeutil.Location().String()))
}

// Stop waits for running jobs to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
	}
}

func (s *Scheduler) runJob(name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	metrics.JobDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.JobRunsTotal.WithLabelValues(name, "error").Inc()
		s.logger.Error("scheduled job failed", zap.String("job", name), zap.Error(err))
		return
	}
	metrics.JobRunsTotal.WithLabelValues(name, "success").Inc()
}

func (s *Scheduler) dailySync(ctx context.Context) error {
	res, err := s.jobs.Run(ctx, s.now())
	if err != nil {
		return err
	}
	s.logger.Info("daily sync finished",
		zap.String("date", res.Date),
		zap.Bool("skipped", res.Skipped),
		zap.Int("imported", res.Imported),
		zap.Int("import_errors", len(res.ImportErrors)),
	)
	return nil
}

func (s *Scheduler) paymentCheck(ctx context.Context) error {
	res, err := s.jobs.CheckPayments(ctx, s.now())
	switch {
	case errors.Is(err, services.ErrNotConnected):
		s.logger.Info("payment check skipped, provider not connected")
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		s.logger.Info("payment check skipped, no tracking record for today")
		return nil
	case err != nil:
		return err
	}
	s.logger.Info("payment check finished",
		zap.String("date", res.Date),
		zap.Int("first_time", res.FirstTime),
		zap.Bool("updated", res.Updated),
	)
	return nil
}
