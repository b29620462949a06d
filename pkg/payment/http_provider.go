package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPProvider talks to the hosted checkout API over JSON. Webhook payloads
// are authenticated with an HMAC-SHA256 signature over the raw body.
type HTTPProvider struct {
	baseURL       string
	apiKey        string
	webhookSecret string
	client        *http.Client
}

func NewHTTPProvider(baseURL, apiKey, webhookSecret string) *HTTPProvider {
	return &HTTPProvider{
		baseURL:       baseURL,
		apiKey:        apiKey,
		webhookSecret: webhookSecret,
		client:        &http.Client{Timeout: 30 * time.Second},
	}
}

type checkoutReq struct {
	OrderID     string `json:"order_id"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	WebhookURL  string `json:"webhook_url"`
	ExpiresIn   int64  `json:"expires_in_seconds"`
}

type checkoutResp struct {
	Reference   string    `json:"reference"`
	Status      string    `json:"status"`
	CheckoutURL string    `json:"checkout_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (p *HTTPProvider) InitiateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error) {
	payload := checkoutReq{
		OrderID:     req.OrderID,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		Description: req.Description,
		WebhookURL:  req.WebhookURL,
		ExpiresIn:   int64(req.ExpiresIn.Seconds()),
	}
	var out checkoutResp
	if err := p.post(ctx, "/v1/checkouts", payload, &out); err != nil {
		return nil, err
	}
	return &CheckoutResponse{
		Reference:   out.Reference,
		Status:      out.Status,
		CheckoutURL: out.CheckoutURL,
		ExpiresAt:   out.ExpiresAt,
	}, nil
}

type payoutReq struct {
	OrderID     string `json:"order_id"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	PhoneNumber string `json:"phone_number"`
	WebhookURL  string `json:"webhook_url"`
}

type payoutResp struct {
	Reference string `json:"reference"`
}

func (p *HTTPProvider) InitiatePayout(ctx context.Context, req PayoutRequest) (string, error) {
	payload := payoutReq{
		OrderID:     req.OrderID,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		PhoneNumber: req.PhoneNumber,
		WebhookURL:  req.WebhookURL,
	}
	var out payoutResp
	if err := p.post(ctx, "/v1/payouts", payload, &out); err != nil {
		return "", err
	}
	return out.Reference, nil
}

func (p *HTTPProvider) VerifyWebhookSignature(payload []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(p.webhookSecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (p *HTTPProvider) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("checkout api %s: %d %s", path, resp.StatusCode, string(respBody))
	}
	return json.Unmarshal(respBody, out)
}
