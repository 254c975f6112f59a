package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/shankar0203/QuickQueue/internal/domain"
	"github.com/shankar0203/QuickQueue/pkg/database"
)

// PostgresBookingRepository implements BookingRepository using PostgreSQL
type PostgresBookingRepository struct {
	db *database.PostgresDB
}

var _ BookingRepository = (*PostgresBookingRepository)(nil)

// NewPostgresBookingRepository creates a new PostgresBookingRepository
func NewPostgresBookingRepository(db *database.PostgresDB) *PostgresBookingRepository {
	return &PostgresBookingRepository{db: db}
}

// Insert creates a new booking record
func (r *PostgresBookingRepository) Insert(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (
			id, event_id, ticket_type, quantity, unit_price, total_amount,
			buyer_name, buyer_email, buyer_phone, user_id, status,
			order_id, payment_id, expires_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16
		)
	`

	err := r.db.Exec(ctx, query,
		booking.ID,
		booking.EventID,
		booking.TicketType,
		booking.Quantity,
		booking.UnitPrice,
		booking.TotalAmount,
		booking.BuyerName,
		booking.BuyerEmail,
		booking.BuyerPhone,
		nullString(booking.UserID),
		string(booking.Status),
		nullString(booking.OrderID),
		nullString(booking.PaymentID),
		booking.ExpiresAt,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	return nil
}

const bookingColumns = `
	id, event_id, ticket_type, quantity, unit_price, total_amount,
	buyer_name, buyer_email, buyer_phone, user_id, status,
	order_id, payment_id, expires_at, created_at, updated_at
`

func (r *PostgresBookingRepository) scanBooking(row pgx.Row) (*domain.Booking, error) {
	booking := &domain.Booking{}
	var (
		status    string
		userID    sql.NullString
		orderID   sql.NullString
		paymentID sql.NullString
	)

	err := row.Scan(
		&booking.ID,
		&booking.EventID,
		&booking.TicketType,
		&booking.Quantity,
		&booking.UnitPrice,
		&booking.TotalAmount,
		&booking.BuyerName,
		&booking.BuyerEmail,
		&booking.BuyerPhone,
		&userID,
		&status,
		&orderID,
		&paymentID,
		&booking.ExpiresAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.Status = domain.BookingStatus(status)
	if userID.Valid {
		booking.UserID = userID.String
	}
	if orderID.Valid {
		booking.OrderID = orderID.String
	}
	if paymentID.Valid {
		booking.PaymentID = paymentID.String
	}

	return booking, nil
}

// GetByID retrieves a booking by its ID
func (r *PostgresBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := r.scanBooking(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return booking, nil
}

// GetByOrderID retrieves the booking linked to a gateway order
func (r *PostgresBookingRepository) GetByOrderID(ctx context.Context, gatewayOrderID string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE order_id = $1`

	booking, err := r.scanBooking(r.db.QueryRow(ctx, query, gatewayOrderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking by order: %w", err)
	}

	return booking, nil
}

// TransitionStatus performs the compare-and-swap status update. The
// WHERE clause carries the expected status, so under concurrency only
// one caller observes a row change.
func (r *PostgresBookingRepository) TransitionStatus(ctx context.Context, id string, from, to domain.BookingStatus) error {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	tag, err := r.db.Pool().Exec(ctx, query, string(to), id, string(from))
	if err != nil {
		return fmt.Errorf("failed to transition booking status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return r.disambiguate(ctx, id)
	}

	return nil
}

// MarkAwaitingPayment transitions pending -> awaiting_payment with the
// gateway order id
func (r *PostgresBookingRepository) MarkAwaitingPayment(ctx context.Context, id, gatewayOrderID string) error {
	query := `
		UPDATE bookings
		SET status = $1, order_id = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`

	tag, err := r.db.Pool().Exec(ctx, query,
		string(domain.BookingStatusAwaitingPayment), gatewayOrderID,
		id, string(domain.BookingStatusPending))
	if err != nil {
		return fmt.Errorf("failed to mark booking awaiting payment: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return r.disambiguate(ctx, id)
	}

	return nil
}

// MarkPaid transitions from -> paid with the gateway payment id
func (r *PostgresBookingRepository) MarkPaid(ctx context.Context, id string, from domain.BookingStatus, paymentID string) error {
	query := `
		UPDATE bookings
		SET status = $1, payment_id = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`

	tag, err := r.db.Pool().Exec(ctx, query,
		string(domain.BookingStatusPaid), paymentID, id, string(from))
	if err != nil {
		return fmt.Errorf("failed to mark booking paid: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return r.disambiguate(ctx, id)
	}

	return nil
}

// disambiguate distinguishes a missing booking from a lost CAS race
func (r *PostgresBookingRepository) disambiguate(ctx context.Context, id string) error {
	var status string
	err := r.db.QueryRow(ctx, `SELECT status FROM bookings WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrBookingNotFound
		}
		return fmt.Errorf("failed to read booking status: %w", err)
	}

	return domain.ErrConflict
}

// ListExpired returns pending and awaiting-payment bookings whose
// window elapsed
func (r *PostgresBookingRepository) ListExpired(ctx context.Context, now time.Time, limit int) ([]*domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = ANY($1) AND expires_at < $2
		ORDER BY expires_at
		LIMIT $3
	`

	holding := []string{
		string(domain.BookingStatusPending),
		string(domain.BookingStatusAwaitingPayment),
	}
	rows, err := r.db.Pool().Query(ctx, query, holding, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		booking, err := r.scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expired booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expired bookings: %w", err)
	}

	return bookings, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
