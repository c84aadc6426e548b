package cartstore

import (
	"context"
	"sync"

	"ciba-checkout/internal/domain/cart"
	"ciba-checkout/internal/pkg/clock"

	"github.com/google/uuid"
)

type MemoryStore struct {
	mu     sync.Mutex
	carts  map[uuid.UUID]*cart.Cart
	orders map[uuid.UUID]*cart.Order // keyed by authorization request id
	clock  clock.Clock
}

func NewMemoryStore(clk clock.Clock) *MemoryStore {
	return &MemoryStore{
		carts:  make(map[uuid.UUID]*cart.Cart),
		orders: make(map[uuid.UUID]*cart.Order),
		clock:  clk,
	}
}

func (s *MemoryStore) Get(_ context.Context, userID uuid.UUID) (*cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.carts[userID]; ok {
		return c, nil
	}
	return cart.NewCart(userID, nil, s.clock.Now()), nil
}

func (s *MemoryStore) Put(_ context.Context, c *cart.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[c.UserID()] = c
	return nil
}

func (s *MemoryStore) PlaceOrder(_ context.Context, order *cart.Order) (*cart.Order, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.orders[order.AuthorizationRequestID]; ok {
		return existing, true, nil
	}
	s.orders[order.AuthorizationRequestID] = order
	delete(s.carts, order.UserID)
	return order, false, nil
}

// OrderCount is used by tests asserting the side effect ran once.
func (s *MemoryStore) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}
