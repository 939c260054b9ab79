// Package payments lists succeeded charges from the configured payment provider.
package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrNotConfigured = errors.New("payment provider credentials not configured")

// Charge is a succeeded payment as reported by the provider.
type Charge struct {
	ID       string    `json:"id"`
	Email    string    `json:"email"`
	Created  time.Time `json:"created"`
	Amount   int64     `json:"amount"`
	Currency string    `json:"currency"`
}

// Credentials carries whatever the provider needs. Stripe uses SecretKey only.
type Credentials struct {
	KeyID     string
	SecretKey string
}

// Provider lists succeeded charges created in [from, to). A zero from means
// no lower bound.
type Provider interface {
	Name() string
	SucceededCharges(ctx context.Context, creds Credentials, from, to time.Time) ([]Charge, error)
}

// NewProvider returns the provider registered under name.
func NewProvider(name string) (Provider, error) {
	switch strings.ToLower(name) {
	case "", StripeName:
		return NewStripe(""), nil
	case RazorpayName:
		return NewRazorpay(), nil
	default:
		return nil, fmt.Errorf("unknown payment provider %q", name)
	}
}

// NormalizeEmail lowercases and trims an email for comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
