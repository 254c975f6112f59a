package gateway

import (
	"fmt"

	"github.com/shankar0203/QuickQueue/pkg/config"
)

// NewFromConfig builds the configured payment gateway
func NewFromConfig(cfg *config.GatewayConfig) (PaymentGateway, error) {
	switch cfg.Provider {
	case "razorpay":
		return NewRazorpayGateway(&RazorpayConfig{
			KeyID:     cfg.KeyID,
			KeySecret: cfg.KeySecret,
			BaseURL:   cfg.BaseURL,
			Timeout:   cfg.Timeout,
		})
	case "mock", "":
		return NewMockGateway(&MockGatewayConfig{
			SuccessRate: cfg.MockSuccessRate,
			DelayMs:     cfg.MockDelayMs,
			KeySecret:   cfg.KeySecret,
		}), nil
	default:
		return nil, fmt.Errorf("unknown payment gateway provider: %s", cfg.Provider)
	}
}
