package repository

import (
	"context"
	"fmt"

	"urban-thread/internal/domain"
	"urban-thread/internal/store"
)

// OrderRepository defines the interface for order history access. Orders are
// append-only; records never change after placement.
type OrderRepository interface {
	Append(ctx context.Context, order domain.Order) error
	List(ctx context.Context) ([]domain.Order, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Order, error)
}

type orderRepository struct {
	store store.Store
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(s store.Store) OrderRepository {
	return &orderRepository{store: s}
}

// Append adds a placed order to the history document.
func (r *orderRepository) Append(ctx context.Context, order domain.Order) error {
	orders, err := r.List(ctx)
	if err != nil {
		return err
	}
	if err := r.store.Save(ctx, store.KeyOrders, append(orders, order)); err != nil {
		return fmt.Errorf("failed to save orders: %w", err)
	}
	return nil
}

// List returns every placed order.
func (r *orderRepository) List(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := r.store.Load(ctx, store.KeyOrders, &orders); err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	return orders, nil
}

// ListByEmail returns the orders whose shipping email matches, for the
// account history page.
func (r *orderRepository) ListByEmail(ctx context.Context, email string) ([]domain.Order, error) {
	orders, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	matched := []domain.Order{}
	for _, o := range orders {
		if o.Shipping.Email == email {
			matched = append(matched, o)
		}
	}
	return matched, nil
}
