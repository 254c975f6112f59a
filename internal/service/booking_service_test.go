package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shankar0203/QuickQueue/internal/domain"
	"github.com/shankar0203/QuickQueue/internal/events"
	"github.com/shankar0203/QuickQueue/internal/gateway"
	"github.com/shankar0203/QuickQueue/internal/repository"
)

type bookingFixture struct {
	inventory *repository.MemoryInventoryLedger
	bookings  *repository.MemoryBookingRepository
	orders    *repository.MemoryOrderRepository
	tickets   *repository.MemoryTicketRepository
	catalog   *repository.MemoryEventRepository
	gw        *gateway.MockGateway
	svc       *BookingService
	event     *domain.Event
}

func newBookingFixture(t *testing.T, paymentWindow time.Duration) *bookingFixture {
	t.Helper()
	ctx := context.Background()

	f := &bookingFixture{
		inventory: repository.NewMemoryInventoryLedger(),
		bookings:  repository.NewMemoryBookingRepository(),
		orders:    repository.NewMemoryOrderRepository(),
		tickets:   repository.NewMemoryTicketRepository(),
		catalog:   repository.NewMemoryEventRepository(),
		gw:        gateway.NewMockGateway(&gateway.MockGatewayConfig{SuccessRate: 1, KeySecret: "test-secret"}),
	}

	event, err := domain.NewEvent(
		"Indie Night", "", "music", "Phoenix Hall", "Pune", "", "org-1",
		time.Now().Add(48*time.Hour),
		[]domain.TicketType{
			{Name: "general", Price: 250, Capacity: 10},
			{Name: "community", Price: 0, Capacity: 5},
		},
	)
	require.NoError(t, err)
	require.NoError(t, f.catalog.Insert(ctx, event))
	for _, tt := range event.TicketTypes {
		require.NoError(t, f.inventory.Seed(ctx, event.ID, tt.Name, tt.Capacity))
	}
	f.event = event

	publisher := events.NewPublisher(nil)
	tickets := NewTicketService(f.tickets, "test-qr-secret", publisher)
	f.svc = NewBookingService(&BookingServiceConfig{
		Inventory:     f.inventory,
		Bookings:      f.bookings,
		Orders:        f.orders,
		Catalog:       f.catalog,
		Gateway:       f.gw,
		Tickets:       tickets,
		Publisher:     publisher,
		PaymentWindow: paymentWindow,
	})

	return f
}

func (f *bookingFixture) createBooking(t *testing.T, ticketType string, quantity int) *CreateBookingResult {
	t.Helper()
	result, err := f.svc.CreateBooking(context.Background(), CreateBookingInput{
		EventID:    f.event.ID,
		TicketType: ticketType,
		Quantity:   quantity,
		BuyerName:  "Asha",
		BuyerEmail: "asha@example.com",
	})
	require.NoError(t, err)
	return result
}

func (f *bookingFixture) remaining(t *testing.T, ticketType string) int {
	t.Helper()
	remaining, err := f.inventory.Remaining(context.Background(), f.event.ID, ticketType)
	require.NoError(t, err)
	return remaining
}

func (f *bookingFixture) sold(t *testing.T, ticketType string) int {
	t.Helper()
	sold, err := f.inventory.Sold(context.Background(), f.event.ID, ticketType)
	require.NoError(t, err)
	return sold
}

func TestCreateBookingReservesInventory(t *testing.T) {
	f := newBookingFixture(t, 15*time.Minute)

	result := f.createBooking(t, "general", 2)

	assert.Equal(t, domain.BookingStatusPending, result.Booking.Status)
	assert.Equal(t, 500.0, result.Booking.TotalAmount)
	assert.Equal(t, 8, result.Remaining)
	assert.Nil(t, result.Ticket)
}

func TestCreateBookingSoldOut(t *testing.T) {
	f := newBookingFixture(t, 15*time.Minute)

	f.createBooking(t, "general", 10)

	_, err := f.svc.CreateBooking(context.Background(), CreateBookingInput{
		EventID:    f.event.ID,
		TicketType: "general",
		Quantity:   1,
		BuyerName:  "Ravi",
		BuyerEmail: "ravi@example.com",
	})
	assert.True(t, errors.Is(err, domain.ErrSoldOut))
}

func TestCreateBookingUnknownEventAndType(t *testing.T) {
	f := newBookingFixture(t, 15*time.Minute)
	ctx := context.Background()

	_, err := f.svc.CreateBooking(ctx, CreateBookingInput{
		EventID:    "missing",
		TicketType: "general",
		Quantity:   1,
		BuyerName:  "Asha",
		BuyerEmail: "asha@example.com",
	})
	assert.True(t, errors.Is(err, domain.ErrEventNotFound))

	_, err = f.svc.CreateBooking(ctx, CreateBookingInput{
		EventID:    f.event.ID,
		TicketType: "platinum",
		Quantity:   1,
		BuyerName:  "Asha",
		BuyerEmail: "asha@example.com",
	})
	assert.True(t, errors.Is(err, domain.ErrTicketTypeNotFound))
}

func TestCreateBookingQuantityLimit(t *testing.T) {
	f := newBookingFixture(t, 15*time.Minute)

	_, err := f.svc.CreateBooking(context.Background(), CreateBookingInput{
		EventID:    f.event.ID,
		TicketType: "general",
		Quantity:   11,
		BuyerName:  "Asha",
		BuyerEmail: "asha@example.com",
	})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	// the rejected request must not touch inventory
	assert.Equal(t, 10, f.remaining(t, "general"))
}

func TestFreeBookingSettlesImmediately(t *testing.T) {
	f := newBookingFixture(t, 15*time.Minute)

	result := f.createBooking(t, "community", 2)

	assert.Equal(t, domain.BookingStatusPaid, result.Booking.Status)
	require.NotNil(t, result.Ticket)
	assert.Equal(t, result.Booking.ID, result.Ticket.BookingID)
	assert.Equal(t, 3, f.remaining(t, "community"))
	assert.Equal(t, 2, f.sold(t, "community"))

	stored, err := f.bookings.GetByID(context.Background(), result.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusPaid, stored.Status)
}

func TestCreateOrder(t *testing.T) {
	f := newBookingFixture(t, 15*time.Minute)
	ctx := context.Background()

	result := f.createBooking(t, "general", 2)

	order, err := f.svc.CreateOrder(ctx, result.Booking.ID, 500)
	require.NoError(t, err)

	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, int64(50000), order.AmountPaise)
	assert.NotEmpty(t, order.GatewayOrderID)

	booking, err := f.bookings.GetByID(ctx, result.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusAwaitingPayment, booking.Status)
	assert.Equal(t, order.GatewayOrderID, booking.OrderID)
}

func TestCreateOrderIsIdempotent(t *testing.T) {
	f := newBookingFixture(t, 15*time.Minute)
	ctx := context.Background()

	result := f.createBooking(t, "general", 2)

	first, err := f.svc.CreateOrder(ctx, result.Booking.ID, 500)
	require.NoError(t, err)

	second, err := f.svc.CreateOrder(ctx, result.Booking.ID, 500)
	require.NoError(t, err)

	assert.Equal(t, first.GatewayOrderID, second.GatewayOrderID)
}

func TestCreateOrderAmountMismatch(t *testing.T) {
	f := newBookingFixture(t, 15*time.Minute)
	ctx := context.Background()

	result := f.createBooking(t, "general", 2)

	_, err := f.svc.CreateOrder(ctx, result.Booking.ID, 499)
	assert.True(t, errors.Is(err, domain.ErrAmountMismatch))

	// re-posting with the wrong amount after the order exists is also rejected
	_, err = f.svc.CreateOrder(ctx, result.Booking.ID, 500)
	require.NoError(t, err)
	_, err = f.svc.CreateOrder(ctx, result.Booking.ID, 400)
	assert.True(t, errors.Is(err, domain.ErrAmountMismatch))
}

func TestCreateOrderGatewayFailureFailsBooking(t *testing.T) {
	f := newBookingFixture(t, 15*time.Minute)
	ctx := context.Background()

	result := f.createBooking(t, "general", 2)
	assert.Equal(t, 8, f.remaining(t, "general"))

	f.gw.SetSuccessRate(0)
	_, err := f.svc.CreateOrder(ctx, result.Booking.ID, 500)
	assert.True(t, errors.Is(err, domain.ErrGateway))

	booking, err := f.bookings.GetByID(ctx, result.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusFailed, booking.Status)
	assert.Equal(t, 10, f.remaining(t, "general"))
}

func TestVerifyPaymentSettles(t *testing.T) {
	f := newBookingFixture(t, 15*time.Minute)
	ctx := context.Background()

	result := f.createBooking(t, "general", 2)
	order, err := f.svc.CreateOrder(ctx, result.Booking.ID, 500)
	require.NoError(t, err)

	ticket, err := f.svc.VerifyPayment(ctx, VerifyPaymentInput{
		GatewayOrderID: order.GatewayOrderID,
		PaymentID:      "pay_1",
		Signature:      f.gw.Sign(order.GatewayOrderID, "pay_1"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, ticket.TicketNumber)

	booking, err := f.bookings.GetByID(ctx, result.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusPaid, booking.Status)
	assert.Equal(t, "pay_1", booking.PaymentID)

	stored, err := f.orders.GetByGatewayOrderID(ctx, order.GatewayOrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, stored.Status)

	// inventory stays consumed after settlement and is marked sold
	assert.Equal(t, 8, f.remaining(t, "general"))
	assert.Equal(t, 2, f.sold(t, "general"))
}

func TestVerifyPaymentRetryReturnsSameTicket(t *testing.T) {
	f := newBookingFixture(t, 15*time.Minute)
	ctx := context.Background()

	result := f.createBooking(t, "general", 1)
	order, err := f.svc.CreateOrder(ctx, result.Booking.ID, 250)
	require.NoError(t, err)

	in := VerifyPaymentInput{
		GatewayOrderID: order.GatewayOrderID,
		PaymentID:      "pay_1",
		Signature:      f.gw.Sign(order.GatewayOrderID, "pay_1"),
	}

	first, err := f.svc.VerifyPayment(ctx, in)
	require.NoError(t, err)

	second, err := f.svc.VerifyPayment(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, first.TicketNumber, second.TicketNumber)
	assert.Equal(t, 1, f.tickets.Count())
}

func TestVerifyPaymentBadSignature(t *testing.T) {
	f := newBookingFixture(t, 15*time.Minute)
	ctx := context.Background()

	result := f.createBooking(t, "general", 2)
	order, err := f.svc.CreateOrder(ctx, result.Booking.ID, 500)
	require.NoError(t, err)

	_, err = f.svc.VerifyPayment(ctx, VerifyPaymentInput{
		GatewayOrderID: order.GatewayOrderID,
		PaymentID:      "pay_1",
		Signature:      "forged-signature",
	})
	assert.True(t, errors.Is(err, domain.ErrSignatureMismatch))

	booking, err := f.bookings.GetByID(ctx, result.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusFailed, booking.Status)
	assert.Equal(t, 10, f.remaining(t, "general"))

	stored, err := f.orders.GetByGatewayOrderID(ctx, order.GatewayOrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusFailed, stored.Status)

	// no ticket for a failed verification
	assert.Equal(t, 0, f.tickets.Count())
}

func TestVerifyPaymentUnknownOrder(t *testing.T) {
	f := newBookingFixture(t, 15*time.Minute)

	_, err := f.svc.VerifyPayment(context.Background(), VerifyPaymentInput{
		GatewayOrderID: "order_unknown",
		PaymentID:      "pay_1",
		Signature:      "sig",
	})
	assert.True(t, errors.Is(err, domain.ErrOrderNotFound))
}

func TestVerifyPaymentExpiredWindow(t *testing.T) {
	f := newBookingFixture(t, 50*time.Millisecond)
	ctx := context.Background()

	result := f.createBooking(t, "general", 2)
	order, err := f.svc.CreateOrder(ctx, result.Booking.ID, 500)
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)

	_, err = f.svc.VerifyPayment(ctx, VerifyPaymentInput{
		GatewayOrderID: order.GatewayOrderID,
		PaymentID:      "pay_1",
		Signature:      f.gw.Sign(order.GatewayOrderID, "pay_1"),
	})
	assert.True(t, errors.Is(err, domain.ErrBookingExpired))

	booking, err := f.bookings.GetByID(ctx, result.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusExpired, booking.Status)
	assert.Equal(t, 10, f.remaining(t, "general"))
}

func TestExpireStale(t *testing.T) {
	f := newBookingFixture(t, 50*time.Millisecond)
	ctx := context.Background()

	result := f.createBooking(t, "general", 2)
	_, err := f.svc.CreateOrder(ctx, result.Booking.ID, 500)
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)

	expired, err := f.svc.ExpireStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)
	assert.Equal(t, 10, f.remaining(t, "general"))

	booking, err := f.bookings.GetByID(ctx, result.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusExpired, booking.Status)

	// a second sweep finds nothing and must not release again
	expired, err = f.svc.ExpireStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, expired)
	assert.Equal(t, 10, f.remaining(t, "general"))
}

func TestExpireStaleAbandonedPending(t *testing.T) {
	f := newBookingFixture(t, -time.Minute)
	ctx := context.Background()

	// the buyer walks away without ever creating an order
	result := f.createBooking(t, "general", 10)
	assert.Equal(t, 0, f.remaining(t, "general"))

	expired, err := f.svc.ExpireStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)
	assert.Equal(t, 10, f.remaining(t, "general"))

	booking, err := f.bookings.GetByID(ctx, result.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusExpired, booking.Status)
}

func TestCreateOrderExpiredPendingBooking(t *testing.T) {
	f := newBookingFixture(t, -time.Minute)
	ctx := context.Background()

	result := f.createBooking(t, "general", 2)

	_, err := f.svc.CreateOrder(ctx, result.Booking.ID, 500)
	assert.True(t, errors.Is(err, domain.ErrBookingExpired))

	// the stale booking must not reach awaiting_payment
	booking, err := f.bookings.GetByID(ctx, result.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusExpired, booking.Status)
	assert.Equal(t, 10, f.remaining(t, "general"))
}

func TestGetBookingExpiresLazily(t *testing.T) {
	f := newBookingFixture(t, 50*time.Millisecond)
	ctx := context.Background()

	withOrder := f.createBooking(t, "general", 2)
	_, err := f.svc.CreateOrder(ctx, withOrder.Booking.ID, 500)
	require.NoError(t, err)

	// this buyer never reaches create-order
	abandoned := f.createBooking(t, "general", 3)

	time.Sleep(100 * time.Millisecond)

	booking, err := f.svc.GetBooking(ctx, withOrder.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusExpired, booking.Status)

	booking, err = f.svc.GetBooking(ctx, abandoned.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusExpired, booking.Status)
	assert.Equal(t, 10, f.remaining(t, "general"))
}
