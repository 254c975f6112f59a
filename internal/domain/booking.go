package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	// BookingStatusPending is the initial state after inventory was reserved
	BookingStatusPending BookingStatus = "pending"
	// BookingStatusAwaitingPayment means a gateway order exists and payment
	// must complete within the payment window
	BookingStatusAwaitingPayment BookingStatus = "awaiting_payment"
	// BookingStatusPaid is the terminal success state; a ticket exists
	BookingStatusPaid BookingStatus = "paid"
	// BookingStatusFailed is terminal; reserved inventory was released
	BookingStatusFailed BookingStatus = "failed"
	// BookingStatusExpired is terminal; the payment window elapsed
	BookingStatusExpired BookingStatus = "expired"
)

// IsValid checks if the status is a known value
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusAwaitingPayment,
		BookingStatusPaid, BookingStatusFailed, BookingStatusExpired:
		return true
	}
	return false
}

// IsFinal returns true for terminal states
func (s BookingStatus) IsFinal() bool {
	switch s {
	case BookingStatusPaid, BookingStatusFailed, BookingStatusExpired:
		return true
	}
	return false
}

// allowedTransitions is the booking state machine. Every status change
// must pass through here; there is no other way to move a booking.
var allowedTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending: {
		BookingStatusAwaitingPayment,
		BookingStatusPaid, // free tickets skip payment
		BookingStatusFailed,
		BookingStatusExpired, // abandoned before an order was created
	},
	BookingStatusAwaitingPayment: {
		BookingStatusPaid,
		BookingStatusFailed,
		BookingStatusExpired,
	},
}

// CanTransition reports whether from -> to is allowed by the lifecycle
func CanTransition(from, to BookingStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Booking represents a purchase attempt for one ticket type
type Booking struct {
	ID          string        `json:"id"`
	EventID     string        `json:"event_id"`
	TicketType  string        `json:"ticket_type"`
	Quantity    int           `json:"quantity"`
	UnitPrice   float64       `json:"unit_price"`
	TotalAmount float64       `json:"total_amount"`
	BuyerName   string        `json:"buyer_name"`
	BuyerEmail  string        `json:"buyer_email"`
	BuyerPhone  string        `json:"buyer_phone"`
	UserID      string        `json:"user_id,omitempty"`
	Status      BookingStatus `json:"status"`
	OrderID     string        `json:"order_id,omitempty"`   // gateway order id, set at awaiting_payment
	PaymentID   string        `json:"payment_id,omitempty"` // gateway payment id, set at paid
	ExpiresAt   time.Time     `json:"expires_at"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// NewBooking creates a validated booking in pending state
func NewBooking(eventID, ticketType string, quantity int, unitPrice float64, buyerName, buyerEmail, buyerPhone, userID string, paymentWindow time.Duration) (*Booking, error) {
	now := time.Now()
	b := &Booking{
		ID:          uuid.New().String(),
		EventID:     eventID,
		TicketType:  ticketType,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TotalAmount: unitPrice * float64(quantity),
		BuyerName:   buyerName,
		BuyerEmail:  buyerEmail,
		BuyerPhone:  buyerPhone,
		UserID:      userID,
		Status:      BookingStatusPending,
		ExpiresAt:   now.Add(paymentWindow),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}

	return b, nil
}

// Validate checks booking invariants
func (b *Booking) Validate() error {
	if b.EventID == "" {
		return fmt.Errorf("%w: event_id is required", ErrValidation)
	}
	if b.TicketType == "" {
		return fmt.Errorf("%w: ticket_type is required", ErrValidation)
	}
	if b.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	if strings.TrimSpace(b.BuyerName) == "" {
		return fmt.Errorf("%w: buyer_name is required", ErrValidation)
	}
	if !strings.Contains(b.BuyerEmail, "@") {
		return fmt.Errorf("%w: buyer_email is invalid", ErrValidation)
	}
	return nil
}

// IsFree returns true when no payment is needed
func (b *Booking) IsFree() bool {
	return b.TotalAmount == 0
}

// IsExpired returns true when the payment window has elapsed for a
// booking still holding inventory. Pending counts too: a buyer who
// never opens an order abandons the booking just the same.
func (b *Booking) IsExpired(now time.Time) bool {
	switch b.Status {
	case BookingStatusPending, BookingStatusAwaitingPayment:
		return now.After(b.ExpiresAt)
	}
	return false
}
