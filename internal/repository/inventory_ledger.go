package repository

import (
	"context"
)

// InventoryLedger tracks remaining capacity per (event, ticket type).
// Reserve and Release must be atomic with respect to concurrent calls
// for the same ticket type; the capacity invariant is that the sum of
// reserved and sold units never exceeds the seeded capacity.
type InventoryLedger interface {
	// Seed registers a ticket type with its total capacity. Seeding an
	// already-seeded type is a no-op so restarts are safe.
	Seed(ctx context.Context, eventID, ticketType string, capacity int) error

	// Reserve atomically takes quantity units. Returns the remaining
	// count on success, domain.ErrSoldOut when fewer than quantity
	// units remain, domain.ErrTicketTypeNotFound when unseeded.
	Reserve(ctx context.Context, eventID, ticketType string, quantity int) (int, error)

	// Release returns quantity units to the pool. The remaining count
	// is clamped at capacity, so releasing more than was reserved
	// cannot inflate inventory.
	Release(ctx context.Context, eventID, ticketType string, quantity int) (int, error)

	// Confirm marks reserved units as permanently consumed once their
	// booking settles. It never changes the remaining count; the sold
	// counter it advances distinguishes held units from consumed ones.
	Confirm(ctx context.Context, eventID, ticketType string, quantity int) error

	// Remaining reports the current remaining count
	Remaining(ctx context.Context, eventID, ticketType string) (int, error)
}
