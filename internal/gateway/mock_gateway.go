package gateway

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

const alphanumericChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomAlphanumeric(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = alphanumericChars[rand.Intn(len(alphanumericChars))]
	}
	return string(b)
}

// MockGateway implements PaymentGateway for development and load
// testing. It signs with the same HMAC scheme as the real gateway, so
// the full verify path is exercised end to end.
type MockGateway struct {
	config *MockGatewayConfig
	orders sync.Map // order id -> *CreateOrderResponse
	mu     sync.RWMutex
}

var _ PaymentGateway = (*MockGateway)(nil)

// MockGatewayConfig holds configuration for the mock gateway
type MockGatewayConfig struct {
	// SuccessRate is the probability CreateOrder succeeds (0.0 to 1.0)
	SuccessRate float64

	// DelayMs is the simulated processing delay in milliseconds
	DelayMs int

	// KeySecret signs mock payment signatures
	KeySecret string
}

// DefaultMockGatewayConfig returns default configuration
func DefaultMockGatewayConfig() *MockGatewayConfig {
	return &MockGatewayConfig{
		SuccessRate: 1.0,
		DelayMs:     0,
		KeySecret:   "mock-secret",
	}
}

// NewMockGateway creates a new mock gateway
func NewMockGateway(config *MockGatewayConfig) *MockGateway {
	if config == nil {
		config = DefaultMockGatewayConfig()
	}

	if config.SuccessRate < 0 {
		config.SuccessRate = 0
	}
	if config.SuccessRate > 1 {
		config.SuccessRate = 1
	}
	if config.KeySecret == "" {
		config.KeySecret = "mock-secret"
	}

	return &MockGateway{config: config}
}

func (g *MockGateway) delay(ctx context.Context) error {
	if g.config.DelayMs <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Duration(g.config.DelayMs) * time.Millisecond):
		return nil
	}
}

// CreateOrder creates a mock order
func (g *MockGateway) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("create order request is required")
	}

	if err := g.delay(ctx); err != nil {
		return nil, err
	}

	g.mu.RLock()
	successRate := g.config.SuccessRate
	g.mu.RUnlock()

	if rand.Float64() >= successRate {
		return nil, fmt.Errorf("mock gateway: order creation declined")
	}

	resp := &CreateOrderResponse{
		OrderID:  fmt.Sprintf("order_mock_%s", randomAlphanumeric(14)),
		Amount:   req.Amount,
		Currency: req.Currency,
		Status:   "created",
	}
	g.orders.Store(resp.OrderID, resp)

	return resp, nil
}

// VerifySignature checks a signature against the mock secret
func (g *MockGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifyPaymentSignature(orderID, paymentID, signature, g.config.KeySecret)
}

// FetchPayment returns details for a mock payment id
func (g *MockGateway) FetchPayment(ctx context.Context, paymentID string) (*PaymentInfo, error) {
	if paymentID == "" {
		return nil, fmt.Errorf("payment id is required")
	}

	if err := g.delay(ctx); err != nil {
		return nil, err
	}

	return &PaymentInfo{
		PaymentID: paymentID,
		Status:    "captured",
		Method:    "card",
	}, nil
}

// Name returns the gateway name
func (g *MockGateway) Name() string {
	return "mock"
}

// Sign produces a valid signature for an order and payment, the way
// checkout would. Used by simulators and tests.
func (g *MockGateway) Sign(orderID, paymentID string) string {
	return SignPayment(orderID, paymentID, g.config.KeySecret)
}

// SetSuccessRate updates the success rate (for tests)
func (g *MockGateway) SetSuccessRate(rate float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}
	g.config.SuccessRate = rate
}
