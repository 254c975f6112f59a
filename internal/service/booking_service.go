package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shankar0203/QuickQueue/internal/domain"
	"github.com/shankar0203/QuickQueue/internal/events"
	"github.com/shankar0203/QuickQueue/internal/gateway"
	"github.com/shankar0203/QuickQueue/internal/metrics"
	"github.com/shankar0203/QuickQueue/internal/repository"
	"github.com/shankar0203/QuickQueue/pkg/logger"
)

// BookingService coordinates inventory, booking records, the payment
// gateway and ticket issuance. All status changes go through the
// repository's compare-and-swap, so each transition happens exactly
// once no matter how many callers race.
type BookingService struct {
	inventory repository.InventoryLedger
	bookings  repository.BookingRepository
	orders    repository.OrderRepository
	catalog   repository.EventRepository
	gw        gateway.PaymentGateway
	tickets   *TicketService
	publisher *events.Publisher

	paymentWindow time.Duration
	maxPerBooking int
}

// BookingServiceConfig wires BookingService dependencies
type BookingServiceConfig struct {
	Inventory     repository.InventoryLedger
	Bookings      repository.BookingRepository
	Orders        repository.OrderRepository
	Catalog       repository.EventRepository
	Gateway       gateway.PaymentGateway
	Tickets       *TicketService
	Publisher     *events.Publisher
	PaymentWindow time.Duration
	MaxPerBooking int
}

// NewBookingService creates a new BookingService
func NewBookingService(cfg *BookingServiceConfig) *BookingService {
	paymentWindow := cfg.PaymentWindow
	if paymentWindow == 0 {
		paymentWindow = 15 * time.Minute
	}
	maxPerBooking := cfg.MaxPerBooking
	if maxPerBooking == 0 {
		maxPerBooking = 10
	}

	return &BookingService{
		inventory:     cfg.Inventory,
		bookings:      cfg.Bookings,
		orders:        cfg.Orders,
		catalog:       cfg.Catalog,
		gw:            cfg.Gateway,
		tickets:       cfg.Tickets,
		publisher:     cfg.Publisher,
		paymentWindow: paymentWindow,
		maxPerBooking: maxPerBooking,
	}
}

// CreateBookingInput carries a booking request
type CreateBookingInput struct {
	EventID    string
	TicketType string
	Quantity   int
	BuyerName  string
	BuyerEmail string
	BuyerPhone string
	UserID     string
}

// CreateBookingResult is the outcome of a booking request. Ticket is
// set only for free ticket types, which settle immediately.
type CreateBookingResult struct {
	Booking   *domain.Booking
	Remaining int
	Ticket    *domain.Ticket
}

// CreateBooking reserves inventory and records the booking. Free
// ticket types settle to paid and get a ticket in the same call; paid
// types stay pending until an order is created and verified.
func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*CreateBookingResult, error) {
	if in.Quantity > s.maxPerBooking {
		return nil, fmt.Errorf("%w: quantity exceeds limit of %d", domain.ErrValidation, s.maxPerBooking)
	}

	event, err := s.catalog.GetByID(ctx, in.EventID)
	if err != nil {
		return nil, err
	}

	ticketType, ok := event.TicketType(in.TicketType)
	if !ok {
		return nil, domain.ErrTicketTypeNotFound
	}

	booking, err := domain.NewBooking(
		in.EventID, in.TicketType, in.Quantity, ticketType.Price,
		in.BuyerName, in.BuyerEmail, in.BuyerPhone, in.UserID,
		s.paymentWindow,
	)
	if err != nil {
		return nil, err
	}

	remaining, err := s.inventory.Reserve(ctx, in.EventID, in.TicketType, in.Quantity)
	if err != nil {
		if errors.Is(err, domain.ErrSoldOut) {
			metrics.RecordSoldOut(ctx, in.EventID, in.TicketType)
		}
		return nil, err
	}
	metrics.RecordReservation(ctx, in.EventID, in.TicketType, in.Quantity)

	if err := s.bookings.Insert(ctx, booking); err != nil {
		s.releaseInventory(ctx, booking)
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}

	result := &CreateBookingResult{Booking: booking, Remaining: remaining}

	if booking.IsFree() {
		ticket, err := s.settleFree(ctx, booking)
		if err != nil {
			return nil, err
		}
		result.Booking.Status = domain.BookingStatusPaid
		result.Ticket = ticket
	}

	return result, nil
}

// settleFree moves a free booking straight to paid and issues its ticket
func (s *BookingService) settleFree(ctx context.Context, booking *domain.Booking) (*domain.Ticket, error) {
	err := s.bookings.MarkPaid(ctx, booking.ID, domain.BookingStatusPending, "")
	if err != nil && !errors.Is(err, domain.ErrConflict) {
		return nil, fmt.Errorf("failed to settle free booking: %w", err)
	}

	ticket, err := s.tickets.Issue(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("failed to issue ticket: %w", err)
	}

	s.confirmInventory(ctx, booking)
	metrics.RecordSettlement(ctx, booking.EventID, time.Since(booking.CreatedAt).Seconds())
	s.publisher.BookingSettled(ctx, booking)

	return ticket, nil
}

// GetBooking retrieves a booking, expiring it lazily if its payment
// window has elapsed
func (s *BookingService) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.IsExpired(time.Now()) {
		s.expire(ctx, booking)
		return s.bookings.GetByID(ctx, id)
	}

	return booking, nil
}

// CreateOrder opens a gateway order for a pending booking and moves it
// to awaiting payment. Re-posting for a booking that already has a
// live order returns the existing order. A gateway failure fails the
// booking and releases its inventory.
func (s *BookingService) CreateOrder(ctx context.Context, bookingID string, amount float64) (*domain.PaymentOrder, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.IsExpired(time.Now()) {
		s.expire(ctx, booking)
		return nil, domain.ErrBookingExpired
	}

	switch booking.Status {
	case domain.BookingStatusPending:
		// proceed
	case domain.BookingStatusAwaitingPayment:
		existing, err := s.orders.GetByBookingID(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		if existing.Amount != amount {
			return nil, domain.ErrAmountMismatch
		}
		return existing, nil
	case domain.BookingStatusExpired:
		return nil, domain.ErrBookingExpired
	default:
		return nil, fmt.Errorf("%w: booking is %s", domain.ErrInvalidTransition, booking.Status)
	}

	if amount != booking.TotalAmount {
		return nil, domain.ErrAmountMismatch
	}

	gwOrder, err := s.gw.CreateOrder(ctx, &gateway.CreateOrderRequest{
		Amount:   domain.RupeesToPaise(amount),
		Currency: "INR",
		Receipt:  booking.ID,
		Notes:    map[string]string{"booking_id": booking.ID},
	})
	if err != nil {
		s.failBooking(ctx, booking, domain.BookingStatusPending, "gateway_error")
		return nil, fmt.Errorf("%w: %v", domain.ErrGateway, err)
	}

	if err := s.bookings.MarkAwaitingPayment(ctx, booking.ID, gwOrder.OrderID); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// Lost a concurrent create-order race; serve the winner's order
			if existing, gerr := s.orders.GetByBookingID(ctx, bookingID); gerr == nil {
				return existing, nil
			}
		}
		return nil, err
	}

	order, err := domain.NewPaymentOrder(booking.ID, gwOrder.OrderID, amount, gwOrder.Currency)
	if err != nil {
		return nil, err
	}
	if err := s.orders.Insert(ctx, order); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			if existing, gerr := s.orders.GetByBookingID(ctx, bookingID); gerr == nil {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("failed to persist payment order: %w", err)
	}

	metrics.RecordOrderCreated(ctx, s.gw.Name())
	return order, nil
}

// VerifyPaymentInput carries the checkout callback fields
type VerifyPaymentInput struct {
	GatewayOrderID string
	PaymentID      string
	Signature      string
}

// VerifyPayment checks the payment signature and settles the booking.
// Retries with a valid signature are idempotent and return the already
// issued ticket. A bad signature fails the booking and releases its
// inventory.
func (s *BookingService) VerifyPayment(ctx context.Context, in VerifyPaymentInput) (*domain.Ticket, error) {
	order, err := s.orders.GetByGatewayOrderID(ctx, in.GatewayOrderID)
	if err != nil {
		return nil, err
	}

	booking, err := s.bookings.GetByID(ctx, order.BookingID)
	if err != nil {
		return nil, err
	}

	if booking.IsExpired(time.Now()) {
		s.expire(ctx, booking)
		metrics.RecordVerification(ctx, "expired")
		return nil, domain.ErrBookingExpired
	}

	if !s.gw.VerifySignature(in.GatewayOrderID, in.PaymentID, in.Signature) {
		s.failBooking(ctx, booking, domain.BookingStatusAwaitingPayment, "signature_mismatch")
		order.MarkFailed()
		if uerr := s.orders.Update(ctx, order); uerr != nil {
			logger.Get().Warn("failed to record order failure",
				zap.String("order_id", order.ID), zap.Error(uerr))
		}
		metrics.RecordVerification(ctx, "signature_mismatch")
		return nil, domain.ErrSignatureMismatch
	}

	err = s.bookings.MarkPaid(ctx, booking.ID, domain.BookingStatusAwaitingPayment, in.PaymentID)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return s.resolveVerifyConflict(ctx, booking.ID)
		}
		return nil, err
	}

	order.MarkPaid(in.PaymentID)
	if uerr := s.orders.Update(ctx, order); uerr != nil {
		logger.Get().Warn("failed to record order settlement",
			zap.String("order_id", order.ID), zap.Error(uerr))
	}

	booking.Status = domain.BookingStatusPaid
	booking.PaymentID = in.PaymentID

	ticket, err := s.tickets.Issue(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("failed to issue ticket: %w", err)
	}

	s.confirmInventory(ctx, booking)
	metrics.RecordSettlement(ctx, booking.EventID, time.Since(booking.CreatedAt).Seconds())
	metrics.RecordVerification(ctx, "success")
	s.publisher.BookingSettled(ctx, booking)

	return ticket, nil
}

// resolveVerifyConflict handles a verify retry that lost the CAS: if
// an earlier call already settled the booking, return its ticket.
func (s *BookingService) resolveVerifyConflict(ctx context.Context, bookingID string) (*domain.Ticket, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	switch booking.Status {
	case domain.BookingStatusPaid:
		metrics.RecordVerification(ctx, "duplicate")
		return s.tickets.GetByBookingID(ctx, bookingID)
	case domain.BookingStatusExpired:
		return nil, domain.ErrBookingExpired
	default:
		return nil, domain.ErrConflict
	}
}

// ExpireStale expires all bookings still holding inventory past their
// payment window, whether the buyer stalled before or after creating
// an order. Called periodically by the sweeper; lazy expiry on reads
// catches anything between sweeps.
func (s *BookingService) ExpireStale(ctx context.Context) (int, error) {
	stale, err := s.bookings.ListExpired(ctx, time.Now(), 100)
	if err != nil {
		return 0, fmt.Errorf("failed to list expired bookings: %w", err)
	}

	expired := 0
	for _, booking := range stale {
		if s.expire(ctx, booking) {
			expired++
		}
	}

	return expired, nil
}

// expire transitions a booking to expired and releases its inventory.
// The CAS runs from the status the caller observed, so it covers both
// pending and awaiting-payment bookings, and guarantees only one
// caller releases even when a lazy expiry and the sweeper race.
func (s *BookingService) expire(ctx context.Context, booking *domain.Booking) bool {
	err := s.bookings.TransitionStatus(ctx, booking.ID,
		booking.Status, domain.BookingStatusExpired)
	if err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			logger.Get().Error("failed to expire booking",
				zap.String("booking_id", booking.ID), zap.Error(err))
		}
		return false
	}

	s.releaseInventory(ctx, booking)
	metrics.RecordExpiration(ctx, booking.EventID, 1)

	booking.Status = domain.BookingStatusExpired
	s.publisher.BookingExpired(ctx, booking)
	return true
}

// failBooking transitions a booking to failed and releases its
// inventory. Only the CAS winner releases.
func (s *BookingService) failBooking(ctx context.Context, booking *domain.Booking, from domain.BookingStatus, reason string) {
	err := s.bookings.TransitionStatus(ctx, booking.ID, from, domain.BookingStatusFailed)
	if err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			logger.Get().Error("failed to fail booking",
				zap.String("booking_id", booking.ID), zap.Error(err))
		}
		return
	}

	s.releaseInventory(ctx, booking)
	metrics.RecordFailure(ctx, booking.EventID, reason)
}

// confirmInventory marks the settled booking's units as consumed in
// the ledger. The marker is advisory, so a failure is logged rather
// than unwinding an already-paid booking.
func (s *BookingService) confirmInventory(ctx context.Context, booking *domain.Booking) {
	if err := s.inventory.Confirm(ctx, booking.EventID, booking.TicketType, booking.Quantity); err != nil {
		logger.Get().Warn("failed to confirm inventory",
			zap.String("booking_id", booking.ID),
			zap.String("event_id", booking.EventID),
			zap.String("ticket_type", booking.TicketType),
			zap.Error(err),
		)
	}
}

func (s *BookingService) releaseInventory(ctx context.Context, booking *domain.Booking) {
	if _, err := s.inventory.Release(ctx, booking.EventID, booking.TicketType, booking.Quantity); err != nil {
		logger.Get().Error("failed to release inventory",
			zap.String("booking_id", booking.ID),
			zap.String("event_id", booking.EventID),
			zap.String("ticket_type", booking.TicketType),
			zap.Error(err),
		)
	}
}
