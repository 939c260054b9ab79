package payments

import (
	"context"
	"fmt"
	"time"

	razorpay "github.com/razorpay/razorpay-go"
)

const RazorpayName = "razorpay"

const razorpayPageSize = 100

type paymentLister interface {
	All(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

type Razorpay struct {
	newLister func(keyID, keySecret string) paymentLister
}

func NewRazorpay() *Razorpay {
	return &Razorpay{newLister: func(keyID, keySecret string) paymentLister {
		return razorpay.NewClient(keyID, keySecret).Payment
	}}
}

func (r *Razorpay) Name() string { return RazorpayName }

// SucceededCharges pages through captured payments. The razorpay client has
// no context support, so ctx is only checked between pages.
func (r *Razorpay) SucceededCharges(ctx context.Context, creds Credentials, from, to time.Time) ([]Charge, error) {
	if creds.KeyID == "" || creds.SecretKey == "" {
		return nil, ErrNotConfigured
	}
	lister := r.newLister(creds.KeyID, creds.SecretKey)

	var out []Charge
	for skip := 0; ; skip += razorpayPageSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		query := map[string]interface{}{
			// razorpay's "to" bound is inclusive
			"to":    to.Unix() - 1,
			"count": razorpayPageSize,
			"skip":  skip,
		}
		if !from.IsZero() {
			query["from"] = from.Unix()
		}

		body, err := lister.All(query, nil)
		if err != nil {
			return nil, fmt.Errorf("list razorpay payments: %w", err)
		}

		items, _ := body["items"].([]interface{})
		for _, raw := range items {
			p, ok := raw.(map[string]interface{})
			if !ok || p["status"] != "captured" {
				continue
			}
			out = append(out, Charge{
				ID:       stringField(p, "id"),
				Email:    NormalizeEmail(stringField(p, "email")),
				Created:  time.Unix(int64(numberField(p, "created_at")), 0),
				Amount:   int64(numberField(p, "amount")),
				Currency: stringField(p, "currency"),
			})
		}
		if len(items) < razorpayPageSize {
			break
		}
	}
	return out, nil
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func numberField(m map[string]interface{}, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}
