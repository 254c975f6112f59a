package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RazorpayGateway implements PaymentGateway against the Razorpay REST
// API. Orders are created server-side; the client completes payment in
// checkout and returns order id, payment id and signature, which we
// verify with the key secret.
type RazorpayGateway struct {
	keyID     string
	keySecret string
	baseURL   string
	client    *http.Client
}

var _ PaymentGateway = (*RazorpayGateway)(nil)

// RazorpayConfig holds Razorpay credentials and client settings
type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Timeout   time.Duration
}

// NewRazorpayGateway creates a Razorpay-backed gateway
func NewRazorpayGateway(cfg *RazorpayConfig) (*RazorpayGateway, error) {
	if cfg.KeyID == "" || cfg.KeySecret == "" {
		return nil, fmt.Errorf("razorpay key id and secret are required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.razorpay.com/v1"
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &RazorpayGateway{
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		baseURL:   baseURL,
		client:    &http.Client{Timeout: timeout},
	}, nil
}

type razorpayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type razorpayPayment struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	Method   string `json:"method"`
}

// CreateOrder opens a Razorpay order
func (g *RazorpayGateway) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("create order request is required")
	}

	payload := map[string]interface{}{
		"amount":   req.Amount,
		"currency": req.Currency,
	}
	if req.Receipt != "" {
		payload["receipt"] = req.Receipt
	}
	if len(req.Notes) > 0 {
		payload["notes"] = req.Notes
	}

	var order razorpayOrder
	if err := g.do(ctx, http.MethodPost, "/orders", payload, &order); err != nil {
		return nil, err
	}

	return &CreateOrderResponse{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Status:   order.Status,
	}, nil
}

// VerifySignature checks the checkout signature with the key secret
func (g *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifyPaymentSignature(orderID, paymentID, signature, g.keySecret)
}

// FetchPayment retrieves payment details
func (g *RazorpayGateway) FetchPayment(ctx context.Context, paymentID string) (*PaymentInfo, error) {
	if paymentID == "" {
		return nil, fmt.Errorf("payment id is required")
	}

	var payment razorpayPayment
	if err := g.do(ctx, http.MethodGet, "/payments/"+paymentID, nil, &payment); err != nil {
		return nil, err
	}

	return &PaymentInfo{
		PaymentID: payment.ID,
		OrderID:   payment.OrderID,
		Amount:    payment.Amount,
		Currency:  payment.Currency,
		Status:    payment.Status,
		Method:    payment.Method,
	}, nil
}

// Name returns the gateway name
func (g *RazorpayGateway) Name() string {
	return "razorpay"
}

func (g *RazorpayGateway) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode razorpay request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build razorpay request: %w", err)
	}
	req.SetBasicAuth(g.keyID, g.keySecret)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("razorpay request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read razorpay response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("razorpay returned %d: %s", resp.StatusCode, raw)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode razorpay response: %w", err)
	}

	return nil
}
