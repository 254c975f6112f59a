package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shankar0203/QuickQueue/internal/domain"
	"github.com/shankar0203/QuickQueue/internal/repository"
)

// EventService manages the event catalog and seeds the inventory
// ledger when events are created
type EventService struct {
	catalog   repository.EventRepository
	inventory repository.InventoryLedger
}

// NewEventService creates a new EventService
func NewEventService(catalog repository.EventRepository, inventory repository.InventoryLedger) *EventService {
	return &EventService{
		catalog:   catalog,
		inventory: inventory,
	}
}

// CreateEventInput carries an event creation request
type CreateEventInput struct {
	Name        string
	Description string
	Category    string
	Venue       string
	City        string
	ImageURL    string
	StartsAt    time.Time
	TicketTypes []domain.TicketType
	CreatedBy   string
}

// CreateEvent stores a new event and seeds one inventory counter per
// ticket type
func (s *EventService) CreateEvent(ctx context.Context, in CreateEventInput) (*domain.Event, error) {
	event, err := domain.NewEvent(
		in.Name, in.Description, in.Category, in.Venue, in.City,
		in.ImageURL, in.CreatedBy, in.StartsAt, in.TicketTypes,
	)
	if err != nil {
		return nil, err
	}

	if err := s.catalog.Insert(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to persist event: %w", err)
	}

	for _, tt := range event.TicketTypes {
		if err := s.inventory.Seed(ctx, event.ID, tt.Name, tt.Capacity); err != nil {
			return nil, fmt.Errorf("failed to seed inventory for %s/%s: %w", event.ID, tt.Name, err)
		}
	}

	return event, nil
}

// GetEvent retrieves an event by id
func (s *EventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	return s.catalog.GetByID(ctx, id)
}

// ListEvents returns published events matching the filter
func (s *EventService) ListEvents(ctx context.Context, filter repository.EventFilter) ([]*domain.Event, error) {
	return s.catalog.List(ctx, filter)
}

// SeedExistingEvents registers inventory counters for events already
// in the catalog. Seeding is a no-op for counters that exist, so this
// is safe to run at every startup; it only fills in types created
// while the ledger was unavailable.
func (s *EventService) SeedExistingEvents(ctx context.Context) error {
	existing, err := s.catalog.List(ctx, repository.EventFilter{})
	if err != nil {
		return fmt.Errorf("failed to list events for seeding: %w", err)
	}

	for _, event := range existing {
		for _, tt := range event.TicketTypes {
			if err := s.inventory.Seed(ctx, event.ID, tt.Name, tt.Capacity); err != nil {
				return fmt.Errorf("failed to seed inventory for %s/%s: %w", event.ID, tt.Name, err)
			}
		}
	}

	return nil
}
