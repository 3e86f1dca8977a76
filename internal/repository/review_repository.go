package repository

import (
	"context"
	"fmt"

	"urban-thread/internal/domain"
	"urban-thread/internal/store"
)

// ReviewRepository defines access to the per-product review collections.
// Each product has its own document; reviews are prepended so the newest
// comes first.
type ReviewRepository interface {
	ListByProduct(ctx context.Context, productID int64) ([]domain.Review, error)
	Prepend(ctx context.Context, productID int64, review domain.Review) error
}

type reviewRepository struct {
	store store.Store
}

// NewReviewRepository creates a new instance of ReviewRepository.
func NewReviewRepository(s store.Store) ReviewRepository {
	return &reviewRepository{store: s}
}

// ListByProduct returns a product's reviews, newest first.
func (r *reviewRepository) ListByProduct(ctx context.Context, productID int64) ([]domain.Review, error) {
	var reviews []domain.Review
	if err := r.store.Load(ctx, store.ReviewsKey(productID), &reviews); err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}
	return reviews, nil
}

// Prepend inserts a review at the head of the product's collection.
func (r *reviewRepository) Prepend(ctx context.Context, productID int64, review domain.Review) error {
	reviews, err := r.ListByProduct(ctx, productID)
	if err != nil {
		return err
	}
	updated := append([]domain.Review{review}, reviews...)
	if err := r.store.Save(ctx, store.ReviewsKey(productID), updated); err != nil {
		return fmt.Errorf("failed to save reviews: %w", err)
	}
	return nil
}
