package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shankar0203/QuickQueue/internal/domain"
)

// MemoryBookingRepository implements BookingRepository in process
// memory with the same CAS semantics as the Postgres implementation
type MemoryBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking
	byOrder  map[string]string // gateway order id -> booking id
}

var _ BookingRepository = (*MemoryBookingRepository)(nil)

// NewMemoryBookingRepository creates an empty in-memory repository
func NewMemoryBookingRepository() *MemoryBookingRepository {
	return &MemoryBookingRepository{
		bookings: make(map[string]*domain.Booking),
		byOrder:  make(map[string]string),
	}
}

func cloneBooking(b *domain.Booking) *domain.Booking {
	clone := *b
	return &clone
}

// Insert stores a new booking
func (r *MemoryBookingRepository) Insert(_ context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bookings[booking.ID]; exists {
		return domain.ErrConflict
	}

	r.bookings[booking.ID] = cloneBooking(booking)
	if booking.OrderID != "" {
		r.byOrder[booking.OrderID] = booking.ID
	}
	return nil
}

// GetByID retrieves a booking by its ID
func (r *MemoryBookingRepository) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	booking, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return cloneBooking(booking), nil
}

// GetByOrderID retrieves the booking linked to a gateway order
func (r *MemoryBookingRepository) GetByOrderID(_ context.Context, gatewayOrderID string) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byOrder[gatewayOrderID]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return cloneBooking(r.bookings[id]), nil
}

// TransitionStatus performs the compare-and-swap status update
func (r *MemoryBookingRepository) TransitionStatus(_ context.Context, id string, from, to domain.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.transitionLocked(id, from, to, "", "")
}

// MarkAwaitingPayment transitions pending -> awaiting_payment with the
// gateway order id
func (r *MemoryBookingRepository) MarkAwaitingPayment(_ context.Context, id, gatewayOrderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.transitionLocked(id, domain.BookingStatusPending, domain.BookingStatusAwaitingPayment, gatewayOrderID, ""); err != nil {
		return err
	}
	r.byOrder[gatewayOrderID] = id
	return nil
}

// MarkPaid transitions from -> paid with the gateway payment id
func (r *MemoryBookingRepository) MarkPaid(_ context.Context, id string, from domain.BookingStatus, paymentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.transitionLocked(id, from, domain.BookingStatusPaid, "", paymentID)
}

func (r *MemoryBookingRepository) transitionLocked(id string, from, to domain.BookingStatus, orderID, paymentID string) error {
	booking, ok := r.bookings[id]
	if !ok {
		return domain.ErrBookingNotFound
	}

	if booking.Status != from {
		return domain.ErrConflict
	}

	booking.Status = to
	booking.UpdatedAt = time.Now()
	if orderID != "" {
		booking.OrderID = orderID
	}
	if paymentID != "" {
		booking.PaymentID = paymentID
	}
	return nil
}

// ListExpired returns pending and awaiting-payment bookings whose
// window elapsed
func (r *MemoryBookingRepository) ListExpired(_ context.Context, now time.Time, limit int) ([]*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var expired []*domain.Booking
	for _, booking := range r.bookings {
		holding := booking.Status == domain.BookingStatusPending ||
			booking.Status == domain.BookingStatusAwaitingPayment
		if holding && now.After(booking.ExpiresAt) {
			expired = append(expired, cloneBooking(booking))
		}
	}

	sort.Slice(expired, func(i, j int) bool {
		return expired[i].ExpiresAt.Before(expired[j].ExpiresAt)
	})

	if limit > 0 && len(expired) > limit {
		expired = expired[:limit]
	}
	return expired, nil
}

// Count returns the number of stored bookings (for tests)
func (r *MemoryBookingRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bookings)
}

// Clear removes all bookings (for tests)
func (r *MemoryBookingRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings = make(map[string]*domain.Booking)
	r.byOrder = make(map[string]string)
}
