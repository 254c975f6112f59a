package service

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/shankar0203/QuickQueue/internal/domain"
	"github.com/shankar0203/QuickQueue/internal/events"
	"github.com/shankar0203/QuickQueue/internal/metrics"
	"github.com/shankar0203/QuickQueue/internal/repository"
)

// ticketNumberChars excludes nothing; numbers are uppercase alphanumeric
const ticketNumberChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const ticketNumberLength = 8

// TicketService issues and serves tickets. Issue is exactly-once per
// booking: the repository's one-ticket-per-booking constraint decides
// races, and losers return the winner's ticket.
type TicketService struct {
	tickets   repository.TicketRepository
	qrSecret  string
	publisher *events.Publisher
}

// NewTicketService creates a new TicketService
func NewTicketService(tickets repository.TicketRepository, qrSecret string, publisher *events.Publisher) *TicketService {
	return &TicketService{
		tickets:   tickets,
		qrSecret:  qrSecret,
		publisher: publisher,
	}
}

// Issue creates the ticket for a paid booking. Calling it again for
// the same booking returns the already-issued ticket.
func (s *TicketService) Issue(ctx context.Context, booking *domain.Booking) (*domain.Ticket, error) {
	existing, err := s.tickets.GetByBookingID(ctx, booking.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrTicketNotFound) {
		return nil, fmt.Errorf("failed to check existing ticket: %w", err)
	}

	// Retry covers the rare ticket number collision; a booking_id
	// conflict instead means another caller issued first.
	for attempt := 0; attempt < 3; attempt++ {
		number, err := generateTicketNumber()
		if err != nil {
			return nil, fmt.Errorf("failed to generate ticket number: %w", err)
		}

		ticket, err := domain.NewTicket(number, s.qrPayload(number, booking.EventID), booking)
		if err != nil {
			return nil, err
		}

		err = s.tickets.Insert(ctx, ticket)
		if err == nil {
			metrics.RecordTicketIssued(ctx, booking.EventID)
			s.publisher.TicketIssued(ctx, ticket)
			return ticket, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("failed to insert ticket: %w", err)
		}

		if winner, err := s.tickets.GetByBookingID(ctx, booking.ID); err == nil {
			return winner, nil
		}
		// Number collision: loop with a fresh number
	}

	return nil, fmt.Errorf("failed to issue ticket for booking %s: %w", booking.ID, domain.ErrConflict)
}

// GetByNumber retrieves a ticket by its public number
func (s *TicketService) GetByNumber(ctx context.Context, ticketNumber string) (*domain.Ticket, error) {
	return s.tickets.GetByNumber(ctx, ticketNumber)
}

// GetByBookingID retrieves the ticket issued for a booking
func (s *TicketService) GetByBookingID(ctx context.Context, bookingID string) (*domain.Ticket, error) {
	return s.tickets.GetByBookingID(ctx, bookingID)
}

// CheckIn marks a ticket as used. A ticket admits exactly once.
func (s *TicketService) CheckIn(ctx context.Context, ticketNumber string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByNumber(ctx, ticketNumber)
	if err != nil {
		return nil, err
	}

	if err := ticket.CheckIn(); err != nil {
		return nil, err
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	metrics.RecordCheckin(ctx, ticket.EventID)
	return ticket, nil
}

// qrPayload binds the ticket number to its event and an HMAC token so
// gate scanners can verify authenticity without a lookup
func (s *TicketService) qrPayload(ticketNumber, eventID string) string {
	return fmt.Sprintf("TICKET:%s:EVENT:%s:SIG:%s", ticketNumber, eventID, s.verificationToken(ticketNumber, eventID))
}

func (s *TicketService) verificationToken(ticketNumber, eventID string) string {
	mac := hmac.New(sha256.New, []byte(s.qrSecret))
	mac.Write([]byte(ticketNumber + ":" + eventID))
	return hex.EncodeToString(mac.Sum(nil))[:16]
}

// VerifyQRPayload checks that a scanned payload was produced by this
// service for the given ticket
func (s *TicketService) VerifyQRPayload(ticketNumber, eventID, token string) bool {
	expected := s.verificationToken(ticketNumber, eventID)
	return hmac.Equal([]byte(expected), []byte(token))
}

// generateTicketNumber produces a non-guessable TKT-XXXXXXXX number
// from crypto/rand
func generateTicketNumber() (string, error) {
	number := make([]byte, 0, ticketNumberLength)
	buf := make([]byte, ticketNumberLength)

	for len(number) < ticketNumberLength {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		number = appendTicketChars(number, buf)
	}

	return "TKT-" + string(number[:ticketNumberLength]), nil
}

// appendTicketChars maps random bytes onto the ticket alphabet. Bytes
// past the largest multiple of the alphabet size are discarded; a
// plain modulo would make the low characters slightly more likely.
func appendTicketChars(number, raw []byte) []byte {
	const limit = byte(256 - 256%len(ticketNumberChars))
	for _, b := range raw {
		if b >= limit {
			continue
		}
		number = append(number, ticketNumberChars[int(b)%len(ticketNumberChars)])
	}
	return number
}
