package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

const StripeName = "stripe"

type Stripe struct {
	// baseURL overrides the API endpoint; empty means api.stripe.com.
	baseURL string
}

func NewStripe(baseURL string) *Stripe {
	return &Stripe{baseURL: baseURL}
}

func (s *Stripe) Name() string { return StripeName }

func (s *Stripe) api(key string) *client.API {
	if s.baseURL == "" {
		return client.New(key, nil)
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(s.baseURL),
		MaxNetworkRetries: stripe.Int64(0),
	})
	return client.New(key, &stripe.Backends{API: backend, Connect: backend, Uploads: backend})
}

func (s *Stripe) SucceededCharges(ctx context.Context, creds Credentials, from, to time.Time) ([]Charge, error) {
	if creds.SecretKey == "" {
		return nil, ErrNotConfigured
	}

	params := &stripe.ChargeListParams{
		CreatedRange: &stripe.RangeQueryParams{LesserThan: to.Unix()},
	}
	if !from.IsZero() {
		params.CreatedRange.GreaterThanOrEqual = from.Unix()
	}
	params.Context = ctx
	params.Limit = stripe.Int64(100)

	var out []Charge
	it := s.api(creds.SecretKey).Charges.List(params)
	for it.Next() {
		ch := it.Charge()
		if ch.Status != stripe.ChargeStatusSucceeded {
			continue
		}
		email := ch.ReceiptEmail
		if email == "" && ch.BillingDetails != nil {
			email = ch.BillingDetails.Email
		}
		out = append(out, Charge{
			ID:       ch.ID,
			Email:    NormalizeEmail(email),
			Created:  time.Unix(ch.Created, 0),
			Amount:   ch.Amount,
			Currency: string(ch.Currency),
		})
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("list stripe charges: %w", err)
	}
	return out, nil
}

// Verify checks the key against the balance endpoint and returns "live" or "test".
func (s *Stripe) Verify(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrNotConfigured
	}
	params := &stripe.BalanceParams{}
	params.Context = ctx
	bal, err := s.api(key).Balance.Get(params)
	if err != nil {
		return "", fmt.Errorf("verify stripe key: %w", err)
	}
	if bal.Livemode {
		return "live", nil
	}
	return "test", nil
}
