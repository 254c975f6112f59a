package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/shankar0203/QuickQueue/internal/domain"
	"github.com/shankar0203/QuickQueue/pkg/database"
)

// PostgresTicketRepository implements TicketRepository using PostgreSQL.
// The unique index on booking_id is what makes issuance exactly-once:
// a concurrent duplicate insert surfaces as domain.ErrConflict.
type PostgresTicketRepository struct {
	db *database.PostgresDB
}

var _ TicketRepository = (*PostgresTicketRepository)(nil)

// NewPostgresTicketRepository creates a new PostgresTicketRepository
func NewPostgresTicketRepository(db *database.PostgresDB) *PostgresTicketRepository {
	return &PostgresTicketRepository{db: db}
}

// Insert stores a new ticket
func (r *PostgresTicketRepository) Insert(ctx context.Context, ticket *domain.Ticket) error {
	query := `
		INSERT INTO tickets (
			id, ticket_number, booking_id, event_id, ticket_type,
			quantity, buyer_name, buyer_email, qr_payload,
			issued_at, checked_in, checked_in_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	err := r.db.Exec(ctx, query,
		ticket.ID,
		ticket.TicketNumber,
		ticket.BookingID,
		ticket.EventID,
		ticket.TicketType,
		ticket.Quantity,
		ticket.BuyerName,
		ticket.BuyerEmail,
		ticket.QRPayload,
		ticket.IssuedAt,
		ticket.CheckedIn,
		ticket.CheckedInAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("failed to insert ticket: %w", err)
	}

	return nil
}

const ticketColumns = `
	id, ticket_number, booking_id, event_id, ticket_type,
	quantity, buyer_name, buyer_email, qr_payload,
	issued_at, checked_in, checked_in_at
`

func (r *PostgresTicketRepository) scanTicket(row pgx.Row) (*domain.Ticket, error) {
	ticket := &domain.Ticket{}
	var checkedInAt sql.NullTime

	err := row.Scan(
		&ticket.ID,
		&ticket.TicketNumber,
		&ticket.BookingID,
		&ticket.EventID,
		&ticket.TicketType,
		&ticket.Quantity,
		&ticket.BuyerName,
		&ticket.BuyerEmail,
		&ticket.QRPayload,
		&ticket.IssuedAt,
		&ticket.CheckedIn,
		&checkedInAt,
	)
	if err != nil {
		return nil, err
	}

	if checkedInAt.Valid {
		t := checkedInAt.Time
		ticket.CheckedInAt = &t
	}

	return ticket, nil
}

// GetByNumber retrieves a ticket by its public number
func (r *PostgresTicketRepository) GetByNumber(ctx context.Context, ticketNumber string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE ticket_number = $1`

	ticket, err := r.scanTicket(r.db.QueryRow(ctx, query, ticketNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	return ticket, nil
}

// GetByBookingID retrieves the ticket issued for a booking
func (r *PostgresTicketRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE booking_id = $1`

	ticket, err := r.scanTicket(r.db.QueryRow(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket by booking: %w", err)
	}

	return ticket, nil
}

// Update persists check-in state changes. The checked_in guard keeps
// a ticket from admitting twice when two scanners race.
func (r *PostgresTicketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	query := `
		UPDATE tickets
		SET checked_in = $1, checked_in_at = $2
		WHERE id = $3 AND checked_in = false
	`

	tag, err := r.db.Pool().Exec(ctx, query, ticket.CheckedIn, ticket.CheckedInAt, ticket.ID)
	if err != nil {
		return fmt.Errorf("failed to update ticket: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyCheckedIn
	}

	return nil
}

// isUniqueViolation checks for Postgres error 23505
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
