package repository

import (
	"context"
	"errors"
	"fmt"

	"urban-thread/internal/domain"
	"urban-thread/internal/store"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for catalog data access. The whole
// catalog is one persisted document; mutations rewrite it in full.
type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	ReplaceAll(ctx context.Context, products []domain.Product) error
	Create(ctx context.Context, product domain.Product) error
	Update(ctx context.Context, product domain.Product) error
	Delete(ctx context.Context, id int64) error
}

type productRepository struct {
	store store.Store
}

// NewProductRepository creates a new instance of ProductRepository.
func NewProductRepository(s store.Store) ProductRepository {
	return &productRepository{store: s}
}

// List returns the full catalog. An absent or unreadable document is the
// empty catalog.
func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := r.store.Load(ctx, store.KeyProducts, &products); err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return products, nil
}

// FindByID retrieves a single product from the catalog document.
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	products, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, ErrProductNotFound
}

// ReplaceAll overwrites the catalog document. Used by seeding.
func (r *productRepository) ReplaceAll(ctx context.Context, products []domain.Product) error {
	if err := r.store.Save(ctx, store.KeyProducts, products); err != nil {
		return fmt.Errorf("failed to save products: %w", err)
	}
	return nil
}

// Create appends a product to the catalog document.
func (r *productRepository) Create(ctx context.Context, product domain.Product) error {
	products, err := r.List(ctx)
	if err != nil {
		return err
	}
	return r.ReplaceAll(ctx, append(products, product))
}

// Update replaces the product with the same ID.
func (r *productRepository) Update(ctx context.Context, product domain.Product) error {
	products, err := r.List(ctx)
	if err != nil {
		return err
	}
	for i := range products {
		if products[i].ID == product.ID {
			products[i] = product
			return r.ReplaceAll(ctx, products)
		}
	}
	return ErrProductNotFound
}

// Delete removes the product with the given ID.
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	products, err := r.List(ctx)
	if err != nil {
		return err
	}
	kept := products[:0]
	found := false
	for _, p := range products {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return ErrProductNotFound
	}
	return r.ReplaceAll(ctx, kept)
}
