package repository

import (
	"context"

	"github.com/shankar0203/QuickQueue/internal/domain"
)

// TicketRepository persists issued tickets. A booking can hold at most
// one ticket; Insert returns domain.ErrConflict when one already
// exists, which is how issuance stays exactly-once under retries.
type TicketRepository interface {
	Insert(ctx context.Context, ticket *domain.Ticket) error

	GetByNumber(ctx context.Context, ticketNumber string) (*domain.Ticket, error)

	GetByBookingID(ctx context.Context, bookingID string) (*domain.Ticket, error)

	// Update persists check-in state changes
	Update(ctx context.Context, ticket *domain.Ticket) error
}
