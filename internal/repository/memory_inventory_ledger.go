package repository

import (
	"context"
	"sync"

	"github.com/shankar0203/QuickQueue/internal/domain"
)

type inventoryCounter struct {
	mu        sync.Mutex
	capacity  int
	remaining int
	sold      int
}

// MemoryInventoryLedger implements InventoryLedger in process memory.
// Each ticket type has its own mutex, so contention on one type never
// blocks another. Used in development and tests.
type MemoryInventoryLedger struct {
	mu       sync.RWMutex
	counters map[string]*inventoryCounter
}

var _ InventoryLedger = (*MemoryInventoryLedger)(nil)

// NewMemoryInventoryLedger creates an empty in-memory ledger
func NewMemoryInventoryLedger() *MemoryInventoryLedger {
	return &MemoryInventoryLedger{
		counters: make(map[string]*inventoryCounter),
	}
}

func (l *MemoryInventoryLedger) counter(eventID, ticketType string) (*inventoryCounter, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.counters[inventoryKey(eventID, ticketType)]
	return c, ok
}

// Seed registers a ticket type; re-seeding is a no-op
func (l *MemoryInventoryLedger) Seed(_ context.Context, eventID, ticketType string, capacity int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := inventoryKey(eventID, ticketType)
	if _, ok := l.counters[key]; ok {
		return nil
	}

	l.counters[key] = &inventoryCounter{
		capacity:  capacity,
		remaining: capacity,
	}
	return nil
}

// Reserve atomically takes quantity units
func (l *MemoryInventoryLedger) Reserve(_ context.Context, eventID, ticketType string, quantity int) (int, error) {
	c, ok := l.counter(eventID, ticketType)
	if !ok {
		return 0, domain.ErrTicketTypeNotFound
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.remaining < quantity {
		return c.remaining, domain.ErrSoldOut
	}

	c.remaining -= quantity
	return c.remaining, nil
}

// Release returns quantity units, clamped at capacity
func (l *MemoryInventoryLedger) Release(_ context.Context, eventID, ticketType string, quantity int) (int, error) {
	c, ok := l.counter(eventID, ticketType)
	if !ok {
		return 0, domain.ErrTicketTypeNotFound
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.remaining += quantity
	if c.remaining > c.capacity {
		c.remaining = c.capacity
	}
	return c.remaining, nil
}

// Confirm marks reserved units as consumed
func (l *MemoryInventoryLedger) Confirm(_ context.Context, eventID, ticketType string, quantity int) error {
	c, ok := l.counter(eventID, ticketType)
	if !ok {
		return domain.ErrTicketTypeNotFound
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.sold += quantity
	return nil
}

// Sold reports how many units were confirmed as consumed (for tests)
func (l *MemoryInventoryLedger) Sold(_ context.Context, eventID, ticketType string) (int, error) {
	c, ok := l.counter(eventID, ticketType)
	if !ok {
		return 0, domain.ErrTicketTypeNotFound
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sold, nil
}

// Remaining reports the current remaining count
func (l *MemoryInventoryLedger) Remaining(_ context.Context, eventID, ticketType string) (int, error) {
	c, ok := l.counter(eventID, ticketType)
	if !ok {
		return 0, domain.ErrTicketTypeNotFound
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining, nil
}

// Clear removes all counters (for tests)
func (l *MemoryInventoryLedger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counters = make(map[string]*inventoryCounter)
}
