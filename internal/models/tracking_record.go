package models

import (
	"fmt"
	"strings"
	"time"
)

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// ParsePaymentStatus accepts the canonical values and the legacy
// Vietnamese labels still sent by older dashboard builds.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unpaid", "chưa pay":
		return PaymentUnpaid, nil
	case "paid", "đã pay":
		return PaymentPaid, nil
	}
	return "", fmt.Errorf("invalid payment status %q", s)
}

// TrackingRecord summarizes one calendar day.
type TrackingRecord struct {
	ID                 int64         `json:"id"`
	Date               time.Time     `json:"date"`
	ScheduledCustomers int           `json:"scheduled_customers"`
	ReportedCustomers  int           `json:"reported_customers"`
	ClosedCustomers    int           `json:"closed_customers"`
	PaymentStatus      PaymentStatus `json:"payment_status"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// DateKey is the record's calendar date as YYYY-MM-DD.
func (r *TrackingRecord) DateKey() string {
	return r.Date.Format("2006-01-02")
}

// CreateTrackingRecordRequest represents the request body for creating a tracking record
type CreateTrackingRecordRequest struct {
	Date               string `json:"date" validate:"required,datetime=2006-01-02"`
	ScheduledCustomers int    `json:"scheduled_customers" validate:"gte=0"`
	ReportedCustomers  int    `json:"reported_customers" validate:"gte=0"`
	ClosedCustomers    int    `json:"closed_customers" validate:"gte=0"`
	PaymentStatus      string `json:"payment_status" validate:"omitempty"`
}

// UpdateTrackingRecordRequest carries only the fields being changed.
type UpdateTrackingRecordRequest struct {
	Date               *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	ScheduledCustomers *int    `json:"scheduled_customers" validate:"omitempty,gte=0"`
	ReportedCustomers  *int    `json:"reported_customers" validate:"omitempty,gte=0"`
	ClosedCustomers    *int    `json:"closed_customers" validate:"omitempty,gte=0"`
	PaymentStatus      *string `json:"payment_status"`
}

// TrackingRecordPatch is the store-level partial update.
type TrackingRecordPatch struct {
	Date               *time.Time
	ScheduledCustomers *int
	ReportedCustomers  *int
	ClosedCustomers    *int
	PaymentStatus      *PaymentStatus
}

func (p TrackingRecordPatch) IsEmpty() bool {
	return p.Date == nil && p.ScheduledCustomers == nil && p.ReportedCustomers == nil &&
		p.ClosedCustomers == nil && p.PaymentStatus == nil
}
