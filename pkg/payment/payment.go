package payment

import (
	"context"
	"time"
)

// CheckoutRequest describes a coin-package purchase to hand off to the
// external checkout.
type CheckoutRequest struct {
	OrderID     string // our reference, echoed back in the webhook
	AmountCents int64
	Currency    string
	Description string
	CustomerID  uint
	WebhookURL  string
	ExpiresIn   time.Duration
}

type CheckoutResponse struct {
	Reference   string // provider-side reference
	Status      string
	CheckoutURL string
	ExpiresAt   time.Time
}

// PayoutRequest converts earned coins to a cash transfer.
type PayoutRequest struct {
	OrderID     string
	AmountCents int64
	Currency    string
	PhoneNumber string
	WebhookURL  string
}

// Provider is the external money-movement API. Purchases are confirmed only
// by webhook, never by the initiate response.
type Provider interface {
	InitiateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error)
	InitiatePayout(ctx context.Context, req PayoutRequest) (string, error)
	VerifyWebhookSignature(payload []byte, signature string) bool
}
