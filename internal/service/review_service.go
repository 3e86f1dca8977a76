package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"urban-thread/internal/domain"
	"urban-thread/internal/repository"
)

var (
	ErrEmptyReview   = errors.New("review text is required")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// ReviewService manages per-product reviews: append-only, newest first.
type ReviewService interface {
	Add(ctx context.Context, productID int64, text string, rating int) (*domain.Review, error)
	List(ctx context.Context, productID int64) ([]domain.Review, error)
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
}

// NewReviewService creates a new instance of ReviewService.
func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

// Add prepends a review to the product's collection.
func (s *reviewService) Add(ctx context.Context, productID int64, text string, rating int) (*domain.Review, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyReview
	}
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	review := domain.Review{
		Text:      text,
		Rating:    rating,
		CreatedAt: time.Now(),
	}
	if err := s.reviewRepo.Prepend(ctx, productID, review); err != nil {
		return nil, err
	}
	return &review, nil
}

// List returns a product's reviews, newest first.
func (s *reviewService) List(ctx context.Context, productID int64) ([]domain.Review, error) {
	return s.reviewRepo.ListByProduct(ctx, productID)
}
