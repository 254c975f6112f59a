package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBooking(t *testing.T) {
	b, err := NewBooking("evt-1", "general", 2, 250.0, "Asha", "asha@example.com", "", "", 15*time.Minute)
	require.NoError(t, err)

	assert.NotEmpty(t, b.ID)
	assert.Equal(t, BookingStatusPending, b.Status)
	assert.Equal(t, 500.0, b.TotalAmount)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), b.ExpiresAt, time.Second)
}

func TestNewBookingValidation(t *testing.T) {
	tests := []struct {
		name       string
		eventID    string
		quantity   int
		buyerName  string
		buyerEmail string
	}{
		{"missing event", "", 1, "Asha", "asha@example.com"},
		{"zero quantity", "evt-1", 0, "Asha", "asha@example.com"},
		{"negative quantity", "evt-1", -3, "Asha", "asha@example.com"},
		{"missing buyer name", "evt-1", 1, "  ", "asha@example.com"},
		{"invalid email", "evt-1", 1, "Asha", "not-an-email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBooking(tt.eventID, "general", tt.quantity, 100.0, tt.buyerName, tt.buyerEmail, "", "", time.Minute)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
		})
	}
}

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to BookingStatus }{
		{BookingStatusPending, BookingStatusAwaitingPayment},
		{BookingStatusPending, BookingStatusPaid},
		{BookingStatusPending, BookingStatusFailed},
		{BookingStatusPending, BookingStatusExpired},
		{BookingStatusAwaitingPayment, BookingStatusPaid},
		{BookingStatusAwaitingPayment, BookingStatusFailed},
		{BookingStatusAwaitingPayment, BookingStatusExpired},
	}
	for _, tr := range allowed {
		assert.True(t, CanTransition(tr.from, tr.to), "%s -> %s should be allowed", tr.from, tr.to)
	}

	denied := []struct{ from, to BookingStatus }{
		{BookingStatusPaid, BookingStatusFailed},
		{BookingStatusPaid, BookingStatusExpired},
		{BookingStatusFailed, BookingStatusPaid},
		{BookingStatusExpired, BookingStatusAwaitingPayment},
		{BookingStatusExpired, BookingStatusPaid},
	}
	for _, tr := range denied {
		assert.False(t, CanTransition(tr.from, tr.to), "%s -> %s should be denied", tr.from, tr.to)
	}
}

func TestBookingIsExpired(t *testing.T) {
	b, err := NewBooking("evt-1", "general", 1, 100.0, "Asha", "asha@example.com", "", "", time.Minute)
	require.NoError(t, err)

	// both inventory-holding states expire once the window elapses
	assert.False(t, b.IsExpired(time.Now()))
	assert.True(t, b.IsExpired(time.Now().Add(2*time.Minute)))

	b.Status = BookingStatusAwaitingPayment
	assert.False(t, b.IsExpired(time.Now()))
	assert.True(t, b.IsExpired(time.Now().Add(2*time.Minute)))

	b.Status = BookingStatusPaid
	assert.False(t, b.IsExpired(time.Now().Add(time.Hour)))

	b.Status = BookingStatusFailed
	assert.False(t, b.IsExpired(time.Now().Add(time.Hour)))
}

func TestBookingIsFree(t *testing.T) {
	free, err := NewBooking("evt-1", "community", 3, 0, "Asha", "asha@example.com", "", "", time.Minute)
	require.NoError(t, err)
	assert.True(t, free.IsFree())

	paid, err := NewBooking("evt-1", "general", 1, 50.0, "Asha", "asha@example.com", "", "", time.Minute)
	require.NoError(t, err)
	assert.False(t, paid.IsFree())
}

func TestStatusIsFinal(t *testing.T) {
	assert.False(t, BookingStatusPending.IsFinal())
	assert.False(t, BookingStatusAwaitingPayment.IsFinal())
	assert.True(t, BookingStatusPaid.IsFinal())
	assert.True(t, BookingStatusFailed.IsFinal())
	assert.True(t, BookingStatusExpired.IsFinal())
}
