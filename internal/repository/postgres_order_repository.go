package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/shankar0203/QuickQueue/internal/domain"
	"github.com/shankar0203/QuickQueue/pkg/database"
)

// PostgresOrderRepository implements OrderRepository using PostgreSQL
type PostgresOrderRepository struct {
	db *database.PostgresDB
}

var _ OrderRepository = (*PostgresOrderRepository)(nil)

// NewPostgresOrderRepository creates a new PostgresOrderRepository
func NewPostgresOrderRepository(db *database.PostgresDB) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

// Insert stores a new payment order
func (r *PostgresOrderRepository) Insert(ctx context.Context, order *domain.PaymentOrder) error {
	query := `
		INSERT INTO payment_orders (
			id, booking_id, gateway_order_id, amount, amount_paise,
			currency, status, payment_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	err := r.db.Exec(ctx, query,
		order.ID,
		order.BookingID,
		order.GatewayOrderID,
		order.Amount,
		order.AmountPaise,
		order.Currency,
		string(order.Status),
		nullString(order.PaymentID),
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment order: %w", err)
	}

	return nil
}

const orderColumns = `
	id, booking_id, gateway_order_id, amount, amount_paise,
	currency, status, payment_id, created_at, updated_at
`

func (r *PostgresOrderRepository) scanOrder(row pgx.Row) (*domain.PaymentOrder, error) {
	order := &domain.PaymentOrder{}
	var (
		status    string
		paymentID sql.NullString
	)

	err := row.Scan(
		&order.ID,
		&order.BookingID,
		&order.GatewayOrderID,
		&order.Amount,
		&order.AmountPaise,
		&order.Currency,
		&status,
		&paymentID,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.Status = domain.OrderStatus(status)
	if paymentID.Valid {
		order.PaymentID = paymentID.String
	}

	return order, nil
}

// GetByGatewayOrderID retrieves an order by the gateway's order id
func (r *PostgresOrderRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domain.PaymentOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM payment_orders WHERE gateway_order_id = $1`

	order, err := r.scanOrder(r.db.QueryRow(ctx, query, gatewayOrderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get payment order: %w", err)
	}

	return order, nil
}

// GetByBookingID retrieves the order created for a booking
func (r *PostgresOrderRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.PaymentOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM payment_orders WHERE booking_id = $1`

	order, err := r.scanOrder(r.db.QueryRow(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get payment order by booking: %w", err)
	}

	return order, nil
}

// Update persists status and payment id changes
func (r *PostgresOrderRepository) Update(ctx context.Context, order *domain.PaymentOrder) error {
	query := `
		UPDATE payment_orders
		SET status = $1, payment_id = $2, updated_at = $3
		WHERE id = $4
	`

	tag, err := r.db.Pool().Exec(ctx, query,
		string(order.Status), nullString(order.PaymentID), order.UpdatedAt, order.ID)
	if err != nil {
		return fmt.Errorf("failed to update payment order: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}
