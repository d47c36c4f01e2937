// Package store owns the in-progress order and keeps it in durable storage.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	catalog "github.com/light-bringer/storefront/internal/app/catalog/domain"
	"github.com/light-bringer/storefront/internal/app/cart/domain"
	"github.com/light-bringer/storefront/internal/pkg/metrics"
	"github.com/light-bringer/storefront/internal/pkg/storage"
)

// StorageKey is where the cart is persisted.
const StorageKey = "cart"

// Store wraps a domain cart. Every mutation is written through to storage
// before returning. A failed write is logged and returned, but the in-memory
// mutation stands.
type Store struct {
	mu      sync.RWMutex
	cart    *domain.Cart
	storage storage.Store
	logger  *zap.Logger
}

// New hydrates the cart from storage. A missing or malformed value yields an
// empty cart; a malformed one is also deleted.
func New(ctx context.Context, st storage.Store, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{cart: &domain.Cart{}, storage: st, logger: logger}
	s.hydrate(ctx)
	metrics.SetCartLines(s.cart.Len())
	return s
}

func (s *Store) hydrate(ctx context.Context) {
	data, err := s.storage.Get(ctx, StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		s.logger.Warn("cart hydration failed, starting empty", zap.String("key", StorageKey), zap.Error(err))
		return
	}

	c, err := domain.Decode(data)
	if err != nil {
		s.logger.Warn("discarding persisted cart", zap.String("key", StorageKey), zap.Error(err))
		if derr := s.storage.Delete(ctx, StorageKey); derr != nil {
			s.logger.Warn("could not delete persisted cart", zap.String("key", StorageKey), zap.Error(derr))
		}
		return
	}
	s.cart = c
}

// mutate runs fn under the write lock and persists on success.
func (s *Store) mutate(ctx context.Context, fn func(c *domain.Cart) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.cart); err != nil {
		return err
	}
	metrics.SetCartLines(s.cart.Len())
	return s.persist(ctx)
}

func (s *Store) persist(ctx context.Context) error {
	data, err := s.cart.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.storage.Set(ctx, StorageKey, data); err != nil {
		s.logger.Warn("cart write failed", zap.String("key", StorageKey), zap.Error(err))
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}

// Add puts one unit of itemID in the cart. A new line captures unitPrice; an
// existing line keeps its price and gains one unit.
func (s *Store) Add(ctx context.Context, itemID string, unitPrice catalog.Money) error {
	return s.mutate(ctx, func(c *domain.Cart) error {
		return c.Add(itemID, unitPrice)
	})
}

// SetQuantity overwrites a line's quantity; qty <= 0 removes it.
func (s *Store) SetQuantity(ctx context.Context, itemID string, qty int) error {
	return s.mutate(ctx, func(c *domain.Cart) error {
		return c.SetQuantity(itemID, qty)
	})
}

// Remove drops itemID's line. Removing an absent item is a no-op that still
// succeeds.
func (s *Store) Remove(ctx context.Context, itemID string) error {
	return s.mutate(ctx, func(c *domain.Cart) error {
		c.Remove(itemID)
		return nil
	})
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	return s.mutate(ctx, func(c *domain.Cart) error {
		c.Clear()
		return nil
	})
}

func (s *Store) Lines() []domain.Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Lines()
}

func (s *Store) Subtotal() catalog.Money {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Subtotal()
}

// Count is the total number of units.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Count()
}

// Line returns the line for itemID.
func (s *Store) Line(itemID string) (domain.Line, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Line(itemID)
}

// Quantity returns the units of itemID in the cart, zero if absent.
func (s *Store) Quantity(itemID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, _ := s.cart.Line(itemID)
	return l.Quantity
}
