package models

import "time"

type ReportSource string

const (
	SourceManual   ReportSource = "manual"
	SourceCalendly ReportSource = "calendly"
	SourceGoogle   ReportSource = "google"
)

// CustomerReport is one customer's appointment entry for a day.
type CustomerReport struct {
	ID                 int64        `json:"id"`
	CustomerName       string       `json:"customer_name"`
	CustomerEmail      *string      `json:"customer_email"`
	CustomerPhone      *string      `json:"customer_phone"`
	ReportSent         bool         `json:"report_sent"`
	ReportReceivedDate *time.Time   `json:"report_received_date"`
	CustomerDate       time.Time    `json:"customer_date"`
	TrackingRecordID   *int64       `json:"tracking_record_id"`
	Source             ReportSource `json:"source"`
	CreatedAt          time.Time    `json:"created_at"`
}

// Reported reports whether a report has been received from the customer.
func (c *CustomerReport) Reported() bool {
	return c.ReportReceivedDate != nil
}

// CreateCustomerReportRequest represents the request body for creating a customer report
type CreateCustomerReportRequest struct {
	CustomerName       string  `json:"customer_name" validate:"required,max=200"`
	CustomerEmail      *string `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone      *string `json:"customer_phone" validate:"omitempty,max=40"`
	ReportSent         bool    `json:"report_sent"`
	ReportReceivedDate *string `json:"report_received_date" validate:"omitempty,datetime=2006-01-02"`
	CustomerDate       string  `json:"customer_date" validate:"required,datetime=2006-01-02"`
	TrackingRecordID   *int64  `json:"tracking_record_id" validate:"omitempty,gt=0"`
}

// UpdateCustomerReportRequest carries only the fields being changed.
// ClearReportReceived unsets report_received_date.
type UpdateCustomerReportRequest struct {
	CustomerName        *string `json:"customer_name" validate:"omitempty,max=200"`
	CustomerEmail       *string `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone       *string `json:"customer_phone" validate:"omitempty,max=40"`
	ReportSent          *bool   `json:"report_sent"`
	ReportReceivedDate  *string `json:"report_received_date" validate:"omitempty,datetime=2006-01-02"`
	ClearReportReceived bool    `json:"clear_report_received"`
}

// CustomerReportPatch is the store-level partial update.
type CustomerReportPatch struct {
	CustomerName        *string
	CustomerEmail       *string
	CustomerPhone       *string
	ReportSent          *bool
	ReportReceivedDate  *time.Time
	ClearReportReceived bool
}

func (p CustomerReportPatch) IsEmpty() bool {
	return p.CustomerName == nil && p.CustomerEmail == nil && p.CustomerPhone == nil &&
		p.ReportSent == nil && p.ReportReceivedDate == nil && !p.ClearReportReceived
}
