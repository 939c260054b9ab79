package services

import (
	"context"
	"fmt"

	"dashboard-backend/internal/bonus"
	"dashboard-backend/internal/models"
	"dashboard-backend/internal/timeutil"

	"go.uber.org/zap"
)

type TrackingRecordService struct {
	Records  TrackingRecordStore
	notifier Notifier
	logger   *zap.Logger
}

func NewTrackingRecordService(records TrackingRecordStore, notifier Notifier, logger *zap.Logger) *TrackingRecordService {
	return &TrackingRecordService{Records: records, notifier: notifierOrNop(notifier), logger: logger}
}

func (s *TrackingRecordService) List(ctx context.Context) ([]*models.TrackingRecord, error) {
	return s.Records.List(ctx)
}

func (s *TrackingRecordService) Get(ctx context.Context, id int64) (*models.TrackingRecord, error) {
	return s.Records.Get(ctx, id)
}

func (s *TrackingRecordService) Create(ctx context.Context, req *models.CreateTrackingRecordRequest) (*models.TrackingRecord, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	day, err := timeutil.ParseDate(req.Date)
	if err != nil {
		return nil, fieldError("date", "datetime")
	}

	status := models.PaymentUnpaid
	if req.PaymentStatus != "" {
		status, err = models.ParsePaymentStatus(req.PaymentStatus)
		if err != nil {
			return nil, fieldError("payment_status", "oneof")
		}
	}

	rec := &models.TrackingRecord{
		Date:               timeutil.AsDate(day),
		ScheduledCustomers: req.ScheduledCustomers,
		ReportedCustomers:  req.ReportedCustomers,
		ClosedCustomers:    req.ClosedCustomers,
		PaymentStatus:      status,
	}
	if err := s.Records.Create(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.Info("tracking record created", zap.Int64("id", rec.ID), zap.String("date", rec.DateKey()))
	s.notifier.Publish(EventRecordCreated, rec)
	return rec, nil
}

func (s *TrackingRecordService) Update(ctx context.Context, id int64, req *models.UpdateTrackingRecordRequest) (*models.TrackingRecord, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	patch := models.TrackingRecordPatch{
		ScheduledCustomers: req.ScheduledCustomers,
		ReportedCustomers:  req.ReportedCustomers,
		ClosedCustomers:    req.ClosedCustomers,
	}
	if req.Date != nil {
		day, err := timeutil.ParseDate(*req.Date)
		if err != nil {
			return nil, fieldError("date", "datetime")
		}
		d := timeutil.AsDate(day)
		patch.Date = &d
	}
	if req.PaymentStatus != nil {
		status, err := models.ParsePaymentStatus(*req.PaymentStatus)
		if err != nil {
			return nil, fieldError("payment_status", "oneof")
		}
		patch.PaymentStatus = &status
	}

	rec, err := s.Records.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.notifier.Publish(EventRecordUpdated, rec)
	return rec, nil
}

// Delete removes the record and its customer reports.
func (s *TrackingRecordService) Delete(ctx context.Context, id int64) error {
	removed, err := s.Records.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.logger.Info("tracking record deleted", zap.Int64("id", id), zap.Int64("customer_reports_removed", removed))
	s.notifier.Publish(EventRecordDeleted, map[string]int64{"id": id})
	return nil
}

// Bonus computes the bonus for a stored record.
func (s *TrackingRecordService) Bonus(ctx context.Context, id int64) (*bonus.Result, error) {
	rec, err := s.Records.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	res, err := bonus.Compute(rec.ScheduledCustomers, rec.ReportedCustomers)
	if err != nil {
		return nil, fmt.Errorf("record %d: %w", id, err)
	}
	return &res, nil
}
