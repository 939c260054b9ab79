package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dashboard-backend/internal/metrics"
	"dashboard-backend/internal/models"
	"dashboard-backend/internal/payments"
	"dashboard-backend/internal/repositories"
	"dashboard-backend/internal/scheduling"
	"dashboard-backend/internal/textutil"
	"dashboard-backend/internal/timeutil"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const inviteeLookupLimit = 4

// SourceBinding ties an appointment source to the setting holding its token.
type SourceBinding struct {
	Source     scheduling.Source
	SettingKey string
	Origin     models.ReportSource
}

// DailySyncService creates the day's tracking record, imports the day's
// appointments and counts first-time payments.
type DailySyncService struct {
	Records  TrackingRecordStore
	Reports  CustomerReportStore
	Sources  []SourceBinding
	Payments payments.Provider
	Creds    *Credentials
	notifier Notifier
	logger   *zap.Logger
}

func NewDailySyncService(
	records TrackingRecordStore,
	reports CustomerReportStore,
	sources []SourceBinding,
	provider payments.Provider,
	creds *Credentials,
	notifier Notifier,
	logger *zap.Logger,
) *DailySyncService {
	return &DailySyncService{
		Records:  records,
		Reports:  reports,
		Sources:  sources,
		Payments: provider,
		Creds:    creds,
		notifier: notifierOrNop(notifier),
		logger:   logger,
	}
}

// Run executes the job for the business day containing day. A record that
// already exists for the date makes the run a no-op. Only failing to look
// up or create the record is returned as an error; import and payment
// failures are logged and reported in the result.
func (s *DailySyncService) Run(ctx context.Context, day time.Time) (*models.DailySyncResult, error) {
	start, end := timeutil.DayWindow(day)
	date := timeutil.AsDate(start)
	res := &models.DailySyncResult{Date: timeutil.DateKey(date)}
	log := s.logger.With(zap.String("date", res.Date))

	existing, err := s.Records.GetByDate(ctx, date)
	if err == nil {
		log.Info("daily sync skipped, record already exists", zap.Int64("record_id", existing.ID))
		res.Skipped = true
		res.RecordID = existing.ID
		return res, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("look up record for %s: %w", res.Date, err)
	}

	rec := &models.TrackingRecord{Date: date, PaymentStatus: models.PaymentUnpaid}
	if err := s.Records.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create record for %s: %w", res.Date, err)
	}
	res.RecordID = rec.ID
	s.notifier.Publish(EventRecordCreated, rec)

	imported, importErrs := s.importAppointments(ctx, rec, start, end)
	res.Imported = imported
	for _, e := range importErrs {
		res.ImportErrors = append(res.ImportErrors, e.Error())
	}
	if imported > 0 {
		n := imported
		if saved, err := s.Records.Update(ctx, rec.ID, models.TrackingRecordPatch{ScheduledCustomers: &n}); err != nil {
			log.Error("failed to set scheduled customers", zap.Error(err))
			res.ImportErrors = append(res.ImportErrors, err.Error())
		} else {
			rec = saved
			s.notifier.Publish(EventRecordUpdated, rec)
		}
		s.notifier.Publish(EventReportsChanged, map[string]string{"date": res.Date})
	}

	check, err := s.checkPayments(ctx, rec, start, end)
	switch {
	case errors.Is(err, ErrNotConnected):
		log.Debug("payment check skipped, provider not connected")
	case err != nil:
		log.Error("payment check failed", zap.Error(err))
		res.PaymentError = err.Error()
	default:
		res.Payments = check
	}

	log.Info("daily sync finished",
		zap.Int64("record_id", rec.ID),
		zap.Int("imported", res.Imported),
		zap.Int("import_errors", len(res.ImportErrors)),
	)
	return res, nil
}

// CheckPayments runs the first-time payment check alone against the
// existing record for day.
func (s *DailySyncService) CheckPayments(ctx context.Context, day time.Time) (*models.PaymentCheckResult, error) {
	start, end := timeutil.DayWindow(day)
	rec, err := s.Records.GetByDate(ctx, timeutil.AsDate(start))
	if err != nil {
		return nil, err
	}
	return s.checkPayments(ctx, rec, start, end)
}

func (s *DailySyncService) importAppointments(ctx context.Context, rec *models.TrackingRecord, start, end time.Time) (int, []error) {
	var errs []error

	present, err := s.Reports.ListByDate(ctx, rec.Date)
	if err != nil {
		return 0, []error{fmt.Errorf("list existing reports: %w", err)}
	}
	seen := make(map[string]bool, len(present))
	for _, c := range present {
		seen[textutil.NameKey(c.CustomerName)] = true
	}

	imported := 0
	for _, b := range s.Sources {
		log := s.logger.With(zap.String("source", b.Source.Name()))

		token, err := s.Creds.Token(ctx, b.SettingKey)
		if err != nil {
			log.Error("failed to read token", zap.Error(err))
			errs = append(errs, err)
			continue
		}
		if token == "" {
			continue
		}

		events, err := b.Source.ListEvents(ctx, token, start, end)
		if err != nil {
			log.Error("failed to list events", zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", b.Source.Name(), err))
			continue
		}

		invitees := make([][]scheduling.Invitee, len(events))
		lookupErrs := make([]error, len(events))
		var g errgroup.Group
		g.SetLimit(inviteeLookupLimit)
		for i, ev := range events {
			i, ev := i, ev
			g.Go(func() error {
				invitees[i], lookupErrs[i] = b.Source.ListInvitees(ctx, token, ev)
				return nil
			})
		}
		_ = g.Wait()

		fromSource := 0
		for i, ev := range events {
			if lookupErrs[i] != nil {
				log.Warn("failed to list invitees", zap.String("event", ev.ID), zap.Error(lookupErrs[i]))
				errs = append(errs, fmt.Errorf("%s event %s: %w", b.Source.Name(), ev.ID, lookupErrs[i]))
				continue
			}
			for _, inv := range invitees[i] {
				name := textutil.NormalizeName(inv.Name)
				if textutil.IsPlaceholderName(name) {
					continue
				}
				key := textutil.NameKey(name)
				if seen[key] {
					continue
				}

				phone := textutil.ExtractPhone(ev.Location)
				if phone == "" {
					phone = inv.Phone
				}
				recordID := rec.ID
				c := &models.CustomerReport{
					CustomerName:     name,
					CustomerEmail:    optional(inv.Email),
					CustomerPhone:    optional(phone),
					CustomerDate:     rec.Date,
					TrackingRecordID: &recordID,
					Source:           b.Origin,
				}
				if err := s.Reports.Create(ctx, c); err != nil {
					log.Error("failed to import invitee", zap.String("name", name), zap.Error(err))
					errs = append(errs, err)
					continue
				}
				seen[key] = true
				fromSource++
			}
		}
		imported += fromSource
		metrics.CustomersImported.WithLabelValues(b.Source.Name()).Add(float64(fromSource))
		log.Info("appointments imported", zap.Int("events", len(events)), zap.Int("imported", fromSource))
	}
	return imported, errs
}

// checkPayments counts succeeded charges in [start, end) whose email has no
// succeeded charge before start. Each such charge counts once.
func (s *DailySyncService) checkPayments(ctx context.Context, rec *models.TrackingRecord, start, end time.Time) (*models.PaymentCheckResult, error) {
	if s.Payments == nil {
		return nil, ErrNotConnected
	}
	creds, err := s.Creds.Payment(ctx, s.Payments.Name())
	if err != nil {
		return nil, err
	}

	res := &models.PaymentCheckResult{Date: rec.DateKey(), Provider: s.Payments.Name()}

	window, err := s.Payments.SucceededCharges(ctx, creds, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUpstream, s.Payments.Name(), err)
	}
	res.ChargesInWindow = len(window)
	if len(window) == 0 {
		return res, nil
	}

	prior, err := s.Payments.SucceededCharges(ctx, creds, time.Time{}, start)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUpstream, s.Payments.Name(), err)
	}
	paidBefore := make(map[string]bool, len(prior))
	for _, ch := range prior {
		if ch.Email != "" {
			paidBefore[ch.Email] = true
		}
	}

	for _, ch := range window {
		if ch.Email == "" || paidBefore[ch.Email] {
			continue
		}
		res.FirstTime++
	}
	if res.FirstTime == 0 {
		return res, nil
	}

	closed := res.FirstTime
	paid := models.PaymentPaid
	saved, err := s.Records.Update(ctx, rec.ID, models.TrackingRecordPatch{
		ClosedCustomers: &closed,
		PaymentStatus:   &paid,
	})
	if err != nil {
		return nil, fmt.Errorf("mark record %d paid: %w", rec.ID, err)
	}
	res.Updated = true
	metrics.FirstTimePayments.Add(float64(res.FirstTime))
	s.notifier.Publish(EventRecordUpdated, saved)
	s.logger.Info("first-time payments recorded", zap.String("date", res.Date), zap.Int("count", res.FirstTime))
	return res, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
