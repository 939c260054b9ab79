package services

import (
	"context"
	"time"

	"dashboard-backend/internal/models"
)

// TrackingRecordStore is satisfied by repositories.TrackingRecordRepository.
type TrackingRecordStore interface {
	Create(ctx context.Context, rec *models.TrackingRecord) error
	Get(ctx context.Context, id int64) (*models.TrackingRecord, error)
	GetByDate(ctx context.Context, date time.Time) (*models.TrackingRecord, error)
	List(ctx context.Context) ([]*models.TrackingRecord, error)
	ListRange(ctx context.Context, from, to time.Time) ([]*models.TrackingRecord, error)
	Update(ctx context.Context, id int64, patch models.TrackingRecordPatch) (*models.TrackingRecord, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// CustomerReportStore is satisfied by repositories.CustomerReportRepository.
type CustomerReportStore interface {
	Create(ctx context.Context, c *models.CustomerReport) error
	Get(ctx context.Context, id int64) (*models.CustomerReport, error)
	List(ctx context.Context) ([]*models.CustomerReport, error)
	ListByDate(ctx context.Context, date time.Time) ([]*models.CustomerReport, error)
	ListRange(ctx context.Context, from, to time.Time) ([]*models.CustomerReport, error)
	Update(ctx context.Context, id int64, patch models.CustomerReportPatch) (*models.CustomerReport, error)
	Delete(ctx context.Context, id int64) error
}

// SettingStore is satisfied by repositories.SystemSettingRepository.
type SettingStore interface {
	Get(ctx context.Context, key string) (*models.SystemSetting, error)
	Upsert(ctx context.Context, key, value, description string) error
	Delete(ctx context.Context, key string) error
}

// Notifier receives change events after successful writes.
type Notifier interface {
	Publish(eventType string, data any)
}

type nopNotifier struct{}

func (nopNotifier) Publish(string, any) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}

// Change event types pushed to dashboards.
const (
	EventRecordCreated  = "tracking_record.created"
	EventRecordUpdated  = "tracking_record.updated"
	EventRecordDeleted  = "tracking_record.deleted"
	EventReportsChanged = "customer_report.changed"
)
