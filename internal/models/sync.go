package models

// DailySyncResult describes one Daily Sync Job run.
type DailySyncResult struct {
	Date         string              `json:"date"`
	Skipped      bool                `json:"skipped"`
	RecordID     int64               `json:"record_id,omitempty"`
	Imported     int                 `json:"imported"`
	ImportErrors []string            `json:"import_errors,omitempty"`
	Payments     *PaymentCheckResult `json:"payments,omitempty"`
	PaymentError string              `json:"payment_error,omitempty"`
}

// PaymentCheckResult is the outcome of the first-time payment check.
type PaymentCheckResult struct {
	Date            string `json:"date"`
	Provider        string `json:"provider"`
	ChargesInWindow int    `json:"charges_in_window"`
	FirstTime       int    `json:"first_time"`
	Updated         bool   `json:"updated"`
}

// ReconcileResult is returned by the manual sync endpoint.
type ReconcileResult struct {
	Updated int `json:"updated"`
}
