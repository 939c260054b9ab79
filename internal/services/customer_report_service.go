package services

import (
	"context"
	"strings"
	"time"

	"dashboard-backend/internal/models"
	"dashboard-backend/internal/timeutil"

	"go.uber.org/zap"
)

type CustomerReportService struct {
	Reports  CustomerReportStore
	notifier Notifier
	logger   *zap.Logger
}

func NewCustomerReportService(reports CustomerReportStore, notifier Notifier, logger *zap.Logger) *CustomerReportService {
	return &CustomerReportService{Reports: reports, notifier: notifierOrNop(notifier), logger: logger}
}

// List returns all reports, or only those for date when it is non-empty.
func (s *CustomerReportService) List(ctx context.Context, date string) ([]*models.CustomerReport, error) {
	if date == "" {
		return s.Reports.List(ctx)
	}
	day, err := timeutil.ParseDate(date)
	if err != nil {
		return nil, fieldError("date", "datetime")
	}
	return s.Reports.ListByDate(ctx, timeutil.AsDate(day))
}

func (s *CustomerReportService) Get(ctx context.Context, id int64) (*models.CustomerReport, error) {
	return s.Reports.Get(ctx, id)
}

func (s *CustomerReportService) Create(ctx context.Context, req *models.CreateCustomerReportRequest) (*models.CustomerReport, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return nil, fieldError("customer_name", "required")
	}

	day, err := timeutil.ParseDate(req.CustomerDate)
	if err != nil {
		return nil, fieldError("customer_date", "datetime")
	}
	received, err := parseOptionalDate("report_received_date", req.ReportReceivedDate)
	if err != nil {
		return nil, err
	}

	c := &models.CustomerReport{
		CustomerName:       name,
		CustomerEmail:      trimmedOrNil(req.CustomerEmail),
		CustomerPhone:      trimmedOrNil(req.CustomerPhone),
		ReportSent:         req.ReportSent,
		ReportReceivedDate: received,
		CustomerDate:       timeutil.AsDate(day),
		TrackingRecordID:   req.TrackingRecordID,
		Source:             models.SourceManual,
	}
	if err := s.Reports.Create(ctx, c); err != nil {
		return nil, err
	}
	s.notifier.Publish(EventReportsChanged, c)
	return c, nil
}

func (s *CustomerReportService) Update(ctx context.Context, id int64, req *models.UpdateCustomerReportRequest) (*models.CustomerReport, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if req.CustomerName != nil && strings.TrimSpace(*req.CustomerName) == "" {
		return nil, fieldError("customer_name", "required")
	}
	received, err := parseOptionalDate("report_received_date", req.ReportReceivedDate)
	if err != nil {
		return nil, err
	}

	patch := models.CustomerReportPatch{
		CustomerName:        trimmedOrNil(req.CustomerName),
		CustomerEmail:       req.CustomerEmail,
		CustomerPhone:       req.CustomerPhone,
		ReportSent:          req.ReportSent,
		ReportReceivedDate:  received,
		ClearReportReceived: req.ClearReportReceived && received == nil,
	}

	c, err := s.Reports.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.notifier.Publish(EventReportsChanged, c)
	return c, nil
}

func (s *CustomerReportService) Delete(ctx context.Context, id int64) error {
	if err := s.Reports.Delete(ctx, id); err != nil {
		return err
	}
	s.notifier.Publish(EventReportsChanged, map[string]int64{"id": id})
	return nil
}

func parseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	day, err := timeutil.ParseDate(*value)
	if err != nil {
		return nil, fieldError(field, "datetime")
	}
	d := timeutil.AsDate(day)
	return &d, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
