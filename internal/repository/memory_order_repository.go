package repository

import (
	"context"
	"sync"

	"github.com/shankar0203/QuickQueue/internal/domain"
)

// MemoryOrderRepository implements OrderRepository in process memory
type MemoryOrderRepository struct {
	mu        sync.RWMutex
	orders    map[string]*domain.PaymentOrder
	byGateway map[string]string // gateway order id -> order id
	byBooking map[string]string // booking id -> order id
}

var _ OrderRepository = (*MemoryOrderRepository)(nil)

// NewMemoryOrderRepository creates an empty in-memory repository
func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{
		orders:    make(map[string]*domain.PaymentOrder),
		byGateway: make(map[string]string),
		byBooking: make(map[string]string),
	}
}

func cloneOrder(o *domain.PaymentOrder) *domain.PaymentOrder {
	clone := *o
	return &clone
}

// Insert stores a new payment order
func (r *MemoryOrderRepository) Insert(_ context.Context, order *domain.PaymentOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.ID]; exists {
		return domain.ErrConflict
	}
	if _, exists := r.byBooking[order.BookingID]; exists {
		return domain.ErrConflict
	}

	r.orders[order.ID] = cloneOrder(order)
	r.byGateway[order.GatewayOrderID] = order.ID
	r.byBooking[order.BookingID] = order.ID
	return nil
}

// GetByGatewayOrderID retrieves an order by the gateway's order id
func (r *MemoryOrderRepository) GetByGatewayOrderID(_ context.Context, gatewayOrderID string) (*domain.PaymentOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byGateway[gatewayOrderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(r.orders[id]), nil
}

// GetByBookingID retrieves the order created for a booking
func (r *MemoryOrderRepository) GetByBookingID(_ context.Context, bookingID string) (*domain.PaymentOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byBooking[bookingID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(r.orders[id]), nil
}

// Update persists status and payment id changes
func (r *MemoryOrderRepository) Update(_ context.Context, order *domain.PaymentOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.ID]; !ok {
		return domain.ErrOrderNotFound
	}

	r.orders[order.ID] = cloneOrder(order)
	return nil
}

// Clear removes all orders (for tests)
func (r *MemoryOrderRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = make(map[string]*domain.PaymentOrder)
	r.byGateway = make(map[string]string)
	r.byBooking = make(map[string]string)
}
