package services

import (
	"context"
	"fmt"

	"dashboard-backend/internal/models"
	"dashboard-backend/internal/timeutil"

	"go.uber.org/zap"
)

// ReconcileService recomputes record counters from the customer reports.
type ReconcileService struct {
	Records  TrackingRecordStore
	Reports  CustomerReportStore
	notifier Notifier
	logger   *zap.Logger
}

func NewReconcileService(records TrackingRecordStore, reports CustomerReportStore, notifier Notifier, logger *zap.Logger) *ReconcileService {
	return &ReconcileService{Records: records, Reports: reports, notifier: notifierOrNop(notifier), logger: logger}
}

type dayCounts struct {
	scheduled int
	reported  int
}

// Reconcile sets scheduled_customers to the number of reports for each
// record's date and reported_customers to those with a received date.
// Only records whose counters differ are written. closed_customers is
// left as stored rather than reset to zero, so payment-check results survive.
func (s *ReconcileService) Reconcile(ctx context.Context) (int, error) {
	reports, err := s.Reports.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list customer reports: %w", err)
	}
	records, err := s.Records.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list tracking records: %w", err)
	}

	counts := make(map[string]dayCounts)
	for _, c := range reports {
		key := timeutil.DateKey(c.CustomerDate)
		dc := counts[key]
		dc.scheduled++
		if c.Reported() {
			dc.reported++
		}
		counts[key] = dc
	}

	updated := 0
	for _, rec := range records {
		dc := counts[rec.DateKey()]
		if rec.ScheduledCustomers == dc.scheduled && rec.ReportedCustomers == dc.reported {
			continue
		}

		scheduled, reported := dc.scheduled, dc.reported
		saved, err := s.Records.Update(ctx, rec.ID, models.TrackingRecordPatch{
			ScheduledCustomers: &scheduled,
			ReportedCustomers:  &reported,
		})
		if err != nil {
			return updated, fmt.Errorf("update tracking record %d: %w", rec.ID, err)
		}
		updated++
		s.notifier.Publish(EventRecordUpdated, saved)
	}

	s.logger.Info("reconcile finished",
		zap.Int("records", len(records)),
		zap.Int("reports", len(reports)),
		zap.Int("updated", updated),
	)
	return updated, nil
}
