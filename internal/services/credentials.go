package services

import (
	"context"
	"errors"
	"fmt"

	"dashboard-backend/internal/models"
	"dashboard-backend/internal/payments"
	"dashboard-backend/internal/repositories"
)

var (
	ErrNotConnected = errors.New("integration not connected")
	ErrUpstream     = errors.New("upstream provider error")
)

// Credentials resolves integration secrets, stored settings first and
// configured values second.
type Credentials struct {
	Settings SettingStore
	Stripe   payments.Credentials
	Razorpay payments.Credentials
}

// Token returns the stored setting value, or "" when it is absent.
func (c *Credentials) Token(ctx context.Context, key string) (string, error) {
	setting, err := c.Settings.Get(ctx, key)
	if errors.Is(err, repositories.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read setting %s: %w", key, err)
	}
	return setting.SettingValue, nil
}

func (c *Credentials) tokenOr(ctx context.Context, key, fallback string) (string, error) {
	v, err := c.Token(ctx, key)
	if err != nil {
		return "", err
	}
	if v == "" {
		return fallback, nil
	}
	return v, nil
}

// Payment returns the credentials for the named provider or ErrNotConnected.
func (c *Credentials) Payment(ctx context.Context, provider string) (payments.Credentials, error) {
	var out payments.Credentials
	var err error

	switch provider {
	case payments.StripeName:
		out.SecretKey, err = c.tokenOr(ctx, models.SettingStripeSecretKey, c.Stripe.SecretKey)
		if err == nil && out.SecretKey == "" {
			err = ErrNotConnected
		}
	case payments.RazorpayName:
		out.KeyID, err = c.tokenOr(ctx, models.SettingRazorpayKeyID, c.Razorpay.KeyID)
		if err == nil {
			out.SecretKey, err = c.tokenOr(ctx, models.SettingRazorpayKeySecret, c.Razorpay.SecretKey)
		}
		if err == nil && (out.KeyID == "" || out.SecretKey == "") {
			err = ErrNotConnected
		}
	default:
		err = fmt.Errorf("unknown payment provider %q", provider)
	}
	return out, err
}
