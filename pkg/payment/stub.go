package payment

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// StubProvider fakes the checkout API for development and tests.
type StubProvider struct{}

func (s *StubProvider) InitiateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error) {
	return &CheckoutResponse{
		Reference:   fmt.Sprintf("stub_%s", req.OrderID),
		Status:      "PENDING",
		CheckoutURL: "https://checkout.invalid/" + req.OrderID,
		ExpiresAt:   time.Now().Add(req.ExpiresIn),
	}, nil
}

func (s *StubProvider) InitiatePayout(ctx context.Context, req PayoutRequest) (string, error) {
	return fmt.Sprintf("stub_payout_%s", req.OrderID), nil
}

func (s *StubProvider) VerifyWebhookSignature(payload []byte, signature string) bool {
	return strings.HasPrefix(signature, "stub_")
}
