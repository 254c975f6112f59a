package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TicketType describes a sellable ticket category within an event.
// Capacity is the total number of units that may ever be sold; the
// inventory ledger tracks how many are reserved or sold.
type TicketType struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Capacity int     `json:"capacity"`
}

// IsFree returns true when the ticket type costs nothing
func (t *TicketType) IsFree() bool {
	return t.Price == 0
}

// Event represents a bookable event in the catalog
type Event struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Venue       string       `json:"venue"`
	City        string       `json:"city"`
	ImageURL    string       `json:"image_url"`
	StartsAt    time.Time    `json:"starts_at"`
	TicketTypes []TicketType `json:"ticket_types"`
	Published   bool         `json:"published"`
	CreatedBy   string       `json:"created_by"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewEvent creates a validated event with a generated ID
func NewEvent(name, description, category, venue, city, imageURL, createdBy string, startsAt time.Time, ticketTypes []TicketType) (*Event, error) {
	now := time.Now()
	e := &Event{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		Category:    category,
		Venue:       venue,
		City:        city,
		ImageURL:    imageURL,
		StartsAt:    startsAt,
		TicketTypes: ticketTypes,
		Published:   true,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := e.Validate(); err != nil {
		return nil, err
	}

	return e, nil
}

// Validate checks event invariants
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: event name is required", ErrValidation)
	}

	if len(e.TicketTypes) == 0 {
		return fmt.Errorf("%w: at least one ticket type is required", ErrValidation)
	}

	seen := make(map[string]bool, len(e.TicketTypes))
	for _, tt := range e.TicketTypes {
		if strings.TrimSpace(tt.Name) == "" {
			return fmt.Errorf("%w: ticket type name is required", ErrValidation)
		}
		if seen[tt.Name] {
			return fmt.Errorf("%w: duplicate ticket type %q", ErrValidation, tt.Name)
		}
		seen[tt.Name] = true

		if tt.Price < 0 {
			return fmt.Errorf("%w: ticket type %q has negative price", ErrValidation, tt.Name)
		}
		if tt.Capacity <= 0 {
			return fmt.Errorf("%w: ticket type %q must have positive capacity", ErrValidation, tt.Name)
		}
	}

	return nil
}

// TicketType returns the named ticket type, if present
func (e *Event) TicketType(name string) (*TicketType, bool) {
	for i := range e.TicketTypes {
		if e.TicketTypes[i].Name == name {
			return &e.TicketTypes[i], true
		}
	}
	return nil, false
}
