package models

import "time"

// Setting keys for integration credentials.
const (
	SettingCalendlyToken     = "calendly_access_token"
	SettingGoogleToken       = "google_calendar_token"
	SettingStripeSecretKey   = "stripe_secret_key"
	SettingRazorpayKeyID     = "razorpay_key_id"
	SettingRazorpayKeySecret = "razorpay_key_secret"
)

type SystemSetting struct {
	ID           int64     `json:"id"`
	SettingKey   string    `json:"setting_key"`
	SettingValue string    `json:"setting_value"`
	Description  string    `json:"description"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type SaveTokenRequest struct {
	Token string `json:"token" validate:"required,min=8"`
}

// IntegrationStatus is returned by the integration status endpoints.
type IntegrationStatus struct {
	Provider  string     `json:"provider"`
	Connected bool       `json:"connected"`
	Account   string     `json:"account,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	Error     string     `json:"error,omitempty"`
}
