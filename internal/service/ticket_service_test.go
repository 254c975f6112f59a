package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shankar0203/QuickQueue/internal/domain"
	"github.com/shankar0203/QuickQueue/internal/events"
	"github.com/shankar0203/QuickQueue/internal/repository"
)

func newTicketFixture(t *testing.T) (*TicketService, *repository.MemoryTicketRepository, *domain.Booking) {
	t.Helper()

	repo := repository.NewMemoryTicketRepository()
	svc := NewTicketService(repo, "test-qr-secret", events.NewPublisher(nil))

	booking, err := domain.NewBooking("evt-1", "general", 2, 100.0, "Asha", "asha@example.com", "", "", 15*time.Minute)
	require.NoError(t, err)
	booking.Status = domain.BookingStatusPaid

	return svc, repo, booking
}

func TestIssueTicket(t *testing.T) {
	ctx := context.Background()
	svc, repo, booking := newTicketFixture(t)

	ticket, err := svc.Issue(ctx, booking)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^TKT-[A-Z0-9]{8}$`), ticket.TicketNumber)
	assert.Equal(t, booking.ID, ticket.BookingID)
	assert.Equal(t, booking.EventID, ticket.EventID)
	assert.Equal(t, 1, repo.Count())
}

func TestIssueIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, repo, booking := newTicketFixture(t)

	first, err := svc.Issue(ctx, booking)
	require.NoError(t, err)

	second, err := svc.Issue(ctx, booking)
	require.NoError(t, err)

	assert.Equal(t, first.TicketNumber, second.TicketNumber)
	assert.Equal(t, 1, repo.Count())
}

func TestIssueConcurrent(t *testing.T) {
	ctx := context.Background()
	svc, repo, booking := newTicketFixture(t)

	const callers = 20
	numbers := make([]string, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ticket, err := svc.Issue(ctx, booking)
			if err == nil {
				numbers[i] = ticket.TicketNumber
			}
			errs[i] = err
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, numbers[0], numbers[i])
	}
	assert.Equal(t, 1, repo.Count())
}

func TestQRPayload(t *testing.T) {
	ctx := context.Background()
	svc, _, booking := newTicketFixture(t)

	ticket, err := svc.Issue(ctx, booking)
	require.NoError(t, err)

	// TICKET:{number}:EVENT:{event_id}:SIG:{token}
	parts := strings.Split(ticket.QRPayload, ":")
	require.Len(t, parts, 6)
	assert.Equal(t, "TICKET", parts[0])
	assert.Equal(t, ticket.TicketNumber, parts[1])
	assert.Equal(t, "EVENT", parts[2])
	assert.Equal(t, booking.EventID, parts[3])
	assert.Equal(t, "SIG", parts[4])

	assert.True(t, svc.VerifyQRPayload(ticket.TicketNumber, booking.EventID, parts[5]))
	assert.False(t, svc.VerifyQRPayload(ticket.TicketNumber, booking.EventID, "forged"))
	assert.False(t, svc.VerifyQRPayload(ticket.TicketNumber, "other-event", parts[5]))
}

func TestCheckInAdmitsOnce(t *testing.T) {
	ctx := context.Background()
	svc, _, booking := newTicketFixture(t)

	ticket, err := svc.Issue(ctx, booking)
	require.NoError(t, err)

	checked, err := svc.CheckIn(ctx, ticket.TicketNumber)
	require.NoError(t, err)
	assert.True(t, checked.CheckedIn)
	require.NotNil(t, checked.CheckedInAt)

	_, err = svc.CheckIn(ctx, ticket.TicketNumber)
	assert.True(t, errors.Is(err, domain.ErrAlreadyCheckedIn))
}

func TestGetByNumberMissing(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTicketFixture(t)

	_, err := svc.GetByNumber(ctx, "TKT-MISSING1")
	assert.True(t, errors.Is(err, domain.ErrTicketNotFound))
}

func TestAppendTicketCharsIsUniform(t *testing.T) {
	// every byte below the rejection limit maps to the alphabet; feeding
	// the full usable range must hit each character the same number of times
	raw := make([]byte, 0, 256)
	for b := 0; b < 256; b++ {
		raw = append(raw, byte(b))
	}

	counts := make(map[byte]int)
	for _, ch := range appendTicketChars(nil, raw) {
		counts[ch]++
	}

	require.Len(t, counts, len(ticketNumberChars))
	for i := 0; i < len(ticketNumberChars); i++ {
		assert.Equal(t, 256/len(ticketNumberChars), counts[ticketNumberChars[i]],
			"character %c is skewed", ticketNumberChars[i])
	}

	// bytes at or past the limit are discarded outright
	assert.Empty(t, appendTicketChars(nil, []byte{252, 253, 254, 255}))
}

func TestTicketNumbersAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		number, err := generateTicketNumber()
		require.NoError(t, err)
		assert.False(t, seen[number], "duplicate ticket number %s", number)
		seen[number] = true
	}
}
