package dto

import "github.com/shankar0203/QuickQueue/internal/domain"

// CreateOrderRequest represents a request to open a gateway order for
// a booking. Amount is in rupees and must match the booking total.
type CreateOrderRequest struct {
	BookingID string  `json:"booking_id" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
}

// CreateOrderResponse carries the gateway order handed to checkout.
// Amount is in paise, as the gateway expects.
type CreateOrderResponse struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// FromOrder converts a domain PaymentOrder to a CreateOrderResponse
func FromOrder(o *domain.PaymentOrder) *CreateOrderResponse {
	return &CreateOrderResponse{
		OrderID:  o.GatewayOrderID,
		Amount:   o.AmountPaise,
		Currency: o.Currency,
	}
}

// VerifyPaymentRequest carries the checkout callback fields
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

// VerifyPaymentResponse reports the verification outcome. Verification
// failure is a well-formed response, not an HTTP error.
type VerifyPaymentResponse struct {
	Status       string `json:"status"`
	TicketNumber string `json:"ticket_number,omitempty"`
}
