package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Ticket is the proof of purchase issued when a booking reaches paid.
// TicketNumber is the public identifier; QRPayload carries the number
// plus a verification token so gate scanners can check authenticity
// offline.
type Ticket struct {
	ID           string     `json:"id"`
	TicketNumber string     `json:"ticket_number"`
	BookingID    string     `json:"booking_id"`
	EventID      string     `json:"event_id"`
	TicketType   string     `json:"ticket_type"`
	Quantity     int        `json:"quantity"`
	BuyerName    string     `json:"buyer_name"`
	BuyerEmail   string     `json:"buyer_email"`
	QRPayload    string     `json:"qr_payload"`
	IssuedAt     time.Time  `json:"issued_at"`
	CheckedIn    bool       `json:"checked_in"`
	CheckedInAt  *time.Time `json:"checked_in_at,omitempty"`
}

// NewTicket creates a ticket for a paid booking
func NewTicket(ticketNumber, qrPayload string, booking *Booking) (*Ticket, error) {
	if ticketNumber == "" {
		return nil, fmt.Errorf("%w: ticket number is required", ErrValidation)
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: booking is required", ErrValidation)
	}

	return &Ticket{
		ID:           uuid.New().String(),
		TicketNumber: ticketNumber,
		BookingID:    booking.ID,
		EventID:      booking.EventID,
		TicketType:   booking.TicketType,
		Quantity:     booking.Quantity,
		BuyerName:    booking.BuyerName,
		BuyerEmail:   booking.BuyerEmail,
		QRPayload:    qrPayload,
		IssuedAt:     time.Now(),
	}, nil
}

// CheckIn marks the ticket as used. A ticket admits once.
func (t *Ticket) CheckIn() error {
	if t.CheckedIn {
		return ErrAlreadyCheckedIn
	}

	now := time.Now()
	t.CheckedIn = true
	t.CheckedInAt = &now
	return nil
}
