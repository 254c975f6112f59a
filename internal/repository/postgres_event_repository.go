package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/shankar0203/QuickQueue/internal/domain"
	"github.com/shankar0203/QuickQueue/pkg/database"
)

// PostgresEventRepository implements EventRepository using PostgreSQL.
// Ticket types are stored as a JSONB column; they are read-mostly and
// always loaded together with the event.
type PostgresEventRepository struct {
	db *database.PostgresDB
}

var _ EventRepository = (*PostgresEventRepository)(nil)

// NewPostgresEventRepository creates a new PostgresEventRepository
func NewPostgresEventRepository(db *database.PostgresDB) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

// Insert stores a new event
func (r *PostgresEventRepository) Insert(ctx context.Context, event *domain.Event) error {
	ticketTypes, err := json.Marshal(event.TicketTypes)
	if err != nil {
		return fmt.Errorf("failed to marshal ticket types: %w", err)
	}

	query := `
		INSERT INTO events (
			id, name, description, category, venue, city, image_url,
			starts_at, ticket_types, published, created_by,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	err = r.db.Exec(ctx, query,
		event.ID,
		event.Name,
		event.Description,
		event.Category,
		event.Venue,
		event.City,
		event.ImageURL,
		event.StartsAt,
		ticketTypes,
		event.Published,
		event.CreatedBy,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	return nil
}

const eventColumns = `
	id, name, description, category, venue, city, image_url,
	starts_at, ticket_types, published, created_by, created_at, updated_at
`

func (r *PostgresEventRepository) scanEvent(row pgx.Row) (*domain.Event, error) {
	event := &domain.Event{}
	var ticketTypes []byte

	err := row.Scan(
		&event.ID,
		&event.Name,
		&event.Description,
		&event.Category,
		&event.Venue,
		&event.City,
		&event.ImageURL,
		&event.StartsAt,
		&ticketTypes,
		&event.Published,
		&event.CreatedBy,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(ticketTypes, &event.TicketTypes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ticket types: %w", err)
	}

	return event, nil
}

// GetByID retrieves an event by its ID
func (r *PostgresEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := r.scanEvent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return event, nil
}

// List returns published events matching the filter. Date windows are
// applied in SQL; free/paid filters need the ticket type JSON and are
// applied after scanning.
func (r *PostgresEventRepository) List(ctx context.Context, filter EventFilter) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE published = true`
	args := []interface{}{}
	arg := 1

	if filter.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", arg)
		args = append(args, filter.Category)
		arg++
	}

	if filter.Search != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d OR city ILIKE $%d)", arg, arg, arg)
		args = append(args, "%"+filter.Search+"%")
		arg++
	}

	now := time.Now()
	switch filter.FilterType {
	case "today":
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		query += fmt.Sprintf(" AND starts_at >= $%d AND starts_at < $%d", arg, arg+1)
		args = append(args, start, start.AddDate(0, 0, 1))
		arg += 2
	case "week":
		query += fmt.Sprintf(" AND starts_at >= $%d AND starts_at < $%d", arg, arg+1)
		args = append(args, now, now.AddDate(0, 0, 7))
		arg += 2
	case "month":
		query += fmt.Sprintf(" AND starts_at >= $%d AND starts_at < $%d", arg, arg+1)
		args = append(args, now, now.AddDate(0, 1, 0))
		arg += 2
	}

	query += " ORDER BY starts_at"

	rows, err := r.db.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		event, err := r.scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return filterByPrice(events, filter.FilterType), nil
}

// filterByPrice applies the free/paid listing filters
func filterByPrice(events []*domain.Event, filterType string) []*domain.Event {
	if filterType != "free" && filterType != "paid" {
		return events
	}

	wantFree := filterType == "free"
	filtered := events[:0]
	for _, event := range events {
		for _, tt := range event.TicketTypes {
			if tt.IsFree() == wantFree {
				filtered = append(filtered, event)
				break
			}
		}
	}
	return filtered
}
