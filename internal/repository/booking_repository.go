package repository

import (
	"context"
	"time"

	"github.com/shankar0203/QuickQueue/internal/domain"
)

// BookingRepository persists booking records. Status changes go through
// compare-and-swap operations: the update applies only when the current
// status equals the expected one, and exactly one of any set of
// concurrent transitions succeeds. Losers get domain.ErrConflict and
// must re-read.
type BookingRepository interface {
	Insert(ctx context.Context, booking *domain.Booking) error

	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// GetByOrderID looks up the booking linked to a gateway order
	GetByOrderID(ctx context.Context, gatewayOrderID string) (*domain.Booking, error)

	// TransitionStatus moves a booking from one status to another.
	// Returns domain.ErrBookingNotFound for unknown ids and
	// domain.ErrConflict when the booking is no longer in the expected
	// status.
	TransitionStatus(ctx context.Context, id string, from, to domain.BookingStatus) error

	// MarkAwaitingPayment transitions pending -> awaiting_payment and
	// records the gateway order id, under the same CAS rules.
	MarkAwaitingPayment(ctx context.Context, id, gatewayOrderID string) error

	// MarkPaid transitions from -> paid and records the gateway payment
	// id, under the same CAS rules.
	MarkPaid(ctx context.Context, id string, from domain.BookingStatus, paymentID string) error

	// ListExpired returns bookings still awaiting payment whose window
	// elapsed before now, for the expiry sweep.
	ListExpired(ctx context.Context, now time.Time, limit int) ([]*domain.Booking, error)
}
