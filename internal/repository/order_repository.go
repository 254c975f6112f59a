package repository

import (
	"context"

	"github.com/shankar0203/QuickQueue/internal/domain"
)

// OrderRepository persists gateway payment orders
type OrderRepository interface {
	Insert(ctx context.Context, order *domain.PaymentOrder) error

	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domain.PaymentOrder, error)

	// GetByBookingID returns the order created for a booking, if any
	GetByBookingID(ctx context.Context, bookingID string) (*domain.PaymentOrder, error)

	// Update persists status and payment id changes
	Update(ctx context.Context, order *domain.PaymentOrder) error
}
