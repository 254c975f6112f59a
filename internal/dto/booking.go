package dto

import (
	"time"

	"github.com/shankar0203/QuickQueue/internal/domain"
)

// CreateBookingRequest represents a request to book tickets
type CreateBookingRequest struct {
	EventID    string `json:"event_id" binding:"required"`
	TicketType string `json:"ticket_type" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,min=1"`
	BuyerName  string `json:"buyer_name" binding:"required"`
	BuyerEmail string `json:"buyer_email" binding:"required,email"`
	BuyerPhone string `json:"buyer_phone,omitempty"`
}

// CreateBookingResponse is returned after a successful reservation.
// TicketNumber is set only for free ticket types, which settle in the
// same request.
type CreateBookingResponse struct {
	BookingID    string    `json:"booking_id"`
	Status       string    `json:"status"`
	Quantity     int       `json:"quantity"`
	TotalAmount  float64   `json:"total_amount"`
	Remaining    int       `json:"remaining"`
	ExpiresAt    time.Time `json:"expires_at"`
	TicketNumber string    `json:"ticket_number,omitempty"`
}

// BookingResponse represents a booking in API responses
type BookingResponse struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	TicketType  string    `json:"ticket_type"`
	Quantity    int       `json:"quantity"`
	Status      string    `json:"status"`
	UnitPrice   float64   `json:"unit_price"`
	TotalAmount float64   `json:"total_amount"`
	BuyerName   string    `json:"buyer_name"`
	BuyerEmail  string    `json:"buyer_email"`
	OrderID     string    `json:"order_id,omitempty"`
	PaymentID   string    `json:"payment_id,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// FromBooking converts a domain Booking to a BookingResponse
func FromBooking(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:          b.ID,
		EventID:     b.EventID,
		TicketType:  b.TicketType,
		Quantity:    b.Quantity,
		Status:      string(b.Status),
		UnitPrice:   b.UnitPrice,
		TotalAmount: b.TotalAmount,
		BuyerName:   b.BuyerName,
		BuyerEmail:  b.BuyerEmail,
		OrderID:     b.OrderID,
		PaymentID:   b.PaymentID,
		ExpiresAt:   b.ExpiresAt,
		CreatedAt:   b.CreatedAt,
	}
}
