package repository

import (
	"context"
	"fmt"

	"urban-thread/internal/domain"
	"urban-thread/internal/store"
)

// CartRepository defines the interface for cart document access. The cart is
// a single document: line items plus the applied promo flag.
type CartRepository interface {
	Get(ctx context.Context) (domain.Cart, error)
	Save(ctx context.Context, cart domain.Cart) error
	Clear(ctx context.Context) error
}

type cartRepository struct {
	store store.Store
}

// NewCartRepository creates a new instance of CartRepository.
func NewCartRepository(s store.Store) CartRepository {
	return &cartRepository{store: s}
}

// Get returns the current cart; absent or unreadable documents are the empty
// cart.
func (r *cartRepository) Get(ctx context.Context) (domain.Cart, error) {
	var cart domain.Cart
	if err := r.store.Load(ctx, store.KeyCart, &cart); err != nil {
		return domain.Cart{}, fmt.Errorf("failed to load cart: %w", err)
	}
	return cart, nil
}

// Save overwrites the cart document.
func (r *cartRepository) Save(ctx context.Context, cart domain.Cart) error {
	if err := r.store.Save(ctx, store.KeyCart, cart); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Clear removes the cart document entirely, resetting the badge to zero.
func (r *cartRepository) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, store.KeyCart); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
