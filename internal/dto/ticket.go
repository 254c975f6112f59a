package dto

import (
	"time"

	"github.com/shankar0203/QuickQueue/internal/domain"
)

// TicketResponse represents an issued ticket in API responses
type TicketResponse struct {
	TicketNumber string     `json:"ticket_number"`
	BookingID    string     `json:"booking_id"`
	EventID      string     `json:"event_id"`
	TicketType   string     `json:"ticket_type"`
	Quantity     int        `json:"quantity"`
	BuyerName    string     `json:"buyer_name"`
	QRPayload    string     `json:"qr_payload"`
	IssuedAt     time.Time  `json:"issued_at"`
	CheckedIn    bool       `json:"checked_in"`
	CheckedInAt  *time.Time `json:"checked_in_at,omitempty"`
}

// FromTicket converts a domain Ticket to a TicketResponse
func FromTicket(t *domain.Ticket) *TicketResponse {
	return &TicketResponse{
		TicketNumber: t.TicketNumber,
		BookingID:    t.BookingID,
		EventID:      t.EventID,
		TicketType:   t.TicketType,
		Quantity:     t.Quantity,
		BuyerName:    t.BuyerName,
		QRPayload:    t.QRPayload,
		IssuedAt:     t.IssuedAt,
		CheckedIn:    t.CheckedIn,
		CheckedInAt:  t.CheckedInAt,
	}
}
