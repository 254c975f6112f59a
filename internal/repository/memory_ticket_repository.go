package repository

import (
	"context"
	"sync"

	"github.com/shankar0203/QuickQueue/internal/domain"
)

// MemoryTicketRepository implements TicketRepository in process memory
// with the same one-ticket-per-booking guarantee as Postgres
type MemoryTicketRepository struct {
	mu        sync.RWMutex
	tickets   map[string]*domain.Ticket
	byNumber  map[string]string // ticket number -> ticket id
	byBooking map[string]string // booking id -> ticket id
}

var _ TicketRepository = (*MemoryTicketRepository)(nil)

// NewMemoryTicketRepository creates an empty in-memory repository
func NewMemoryTicketRepository() *MemoryTicketRepository {
	return &MemoryTicketRepository{
		tickets:   make(map[string]*domain.Ticket),
		byNumber:  make(map[string]string),
		byBooking: make(map[string]string),
	}
}

func cloneTicket(t *domain.Ticket) *domain.Ticket {
	clone := *t
	if t.CheckedInAt != nil {
		at := *t.CheckedInAt
		clone.CheckedInAt = &at
	}
	return &clone
}

// Insert stores a new ticket; a second ticket for the same booking is
// rejected with domain.ErrConflict
func (r *MemoryTicketRepository) Insert(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byBooking[ticket.BookingID]; exists {
		return domain.ErrConflict
	}
	if _, exists := r.byNumber[ticket.TicketNumber]; exists {
		return domain.ErrConflict
	}

	r.tickets[ticket.ID] = cloneTicket(ticket)
	r.byNumber[ticket.TicketNumber] = ticket.ID
	r.byBooking[ticket.BookingID] = ticket.ID
	return nil
}

// GetByNumber retrieves a ticket by its public number
func (r *MemoryTicketRepository) GetByNumber(_ context.Context, ticketNumber string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byNumber[ticketNumber]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	return cloneTicket(r.tickets[id]), nil
}

// GetByBookingID retrieves the ticket issued for a booking
func (r *MemoryTicketRepository) GetByBookingID(_ context.Context, bookingID string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byBooking[bookingID]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	return cloneTicket(r.tickets[id]), nil
}

// Update persists check-in state changes
func (r *MemoryTicketRepository) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.tickets[ticket.ID]
	if !ok {
		return domain.ErrTicketNotFound
	}

	if current.CheckedIn && ticket.CheckedIn {
		return domain.ErrAlreadyCheckedIn
	}

	r.tickets[ticket.ID] = cloneTicket(ticket)
	return nil
}

// Count returns the number of stored tickets (for tests)
func (r *MemoryTicketRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tickets)
}

// Clear removes all tickets (for tests)
func (r *MemoryTicketRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tickets = make(map[string]*domain.Ticket)
	r.byNumber = make(map[string]string)
	r.byBooking = make(map[string]string)
}
