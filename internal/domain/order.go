package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the state of a gateway payment order
type OrderStatus string

const (
	OrderStatusCreated OrderStatus = "created"
	OrderStatusPaid    OrderStatus = "paid"
	OrderStatusFailed  OrderStatus = "failed"
)

// PaymentOrder links a booking to a gateway order. Amounts are stored
// both as rupees (domain) and paise (gateway wire unit).
type PaymentOrder struct {
	ID             string      `json:"id"`
	BookingID      string      `json:"booking_id"`
	GatewayOrderID string      `json:"gateway_order_id"`
	Amount         float64     `json:"amount"`
	AmountPaise    int64       `json:"amount_paise"`
	Currency       string      `json:"currency"`
	Status         OrderStatus `json:"status"`
	PaymentID      string      `json:"payment_id,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// NewPaymentOrder creates a payment order in created state
func NewPaymentOrder(bookingID, gatewayOrderID string, amount float64, currency string) (*PaymentOrder, error) {
	if bookingID == "" {
		return nil, fmt.Errorf("%w: booking_id is required", ErrValidation)
	}
	if gatewayOrderID == "" {
		return nil, fmt.Errorf("%w: gateway order id is required", ErrValidation)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	now := time.Now()
	return &PaymentOrder{
		ID:             uuid.New().String(),
		BookingID:      bookingID,
		GatewayOrderID: gatewayOrderID,
		Amount:         amount,
		AmountPaise:    RupeesToPaise(amount),
		Currency:       currency,
		Status:         OrderStatusCreated,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// MarkPaid records the gateway payment id on a successful verification
func (o *PaymentOrder) MarkPaid(paymentID string) {
	o.Status = OrderStatusPaid
	o.PaymentID = paymentID
	o.UpdatedAt = time.Now()
}

// MarkFailed records a failed verification
func (o *PaymentOrder) MarkFailed() {
	o.Status = OrderStatusFailed
	o.UpdatedAt = time.Now()
}

// RupeesToPaise converts a rupee amount to the gateway's integer unit
func RupeesToPaise(amount float64) int64 {
	return int64(amount*100 + 0.5)
}
