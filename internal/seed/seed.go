// Package seed writes the default catalog and bootstrap admin account on
// first run, simulating the backend the demo storefront never had.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"urban-thread/internal/domain"
	"urban-thread/internal/repository"

	"go.uber.org/zap"
)

// EnsureProducts seeds the default catalog if the products collection is
// empty. A catalog that already has entries (including admin-edited ones) is
// left alone.
func EnsureProducts(ctx context.Context, repo repository.ProductRepository, logger *zap.Logger) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to check catalog: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	catalog := DefaultCatalog()
	if err := repo.ReplaceAll(ctx, catalog); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}
	logger.Info("Seeded default catalog", zap.Int("products", len(catalog)))
	return nil
}

// EnsureAdmin creates the bootstrap admin account if it does not exist yet.
// The original demo gated its admin panel behind a hardcoded password
// prompt; here admin access hangs off a real account with the admin role.
func EnsureAdmin(ctx context.Context, repo repository.UserRepository, email, password string, logger *zap.Logger) error {
	if email == "" {
		return nil
	}
	err := repo.Create(ctx, domain.User{
		Name:      "Store Admin",
		Email:     email,
		Password:  password,
		Role:      domain.RoleAdmin,
		CreatedAt: time.Now(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			return nil
		}
		return fmt.Errorf("failed to seed admin account: %w", err)
	}
	logger.Info("Seeded admin account", zap.String("email", email))
	return nil
}

// DefaultCatalog returns the sample catalog: three authored products plus a
// generated run of seventeen, matching the storefront's original seed data.
func DefaultCatalog() []domain.Product {
	products := []domain.Product{
		{
			ID: 1, SKU: "UT-001", Name: "Classic Logo Tee", Price: 28.00,
			Image: "assets/images/placeholder1.jpg", Category: "men",
			Colors: []string{"black", "white", "gray"}, Sizes: []string{"S", "M", "L", "XL"},
			Description: "A clean, classic tee with the UrbanThread logo. Premium cotton, regular fit.",
			Stock:       50, Bestseller: true, CreatedAt: date(2025, 1, 1),
		},
		{
			ID: 2, SKU: "UT-002", Name: "Graffiti Skull", Price: 35.00,
			Image: "assets/images/placeholder2.jpg", Category: "graphic",
			Colors: []string{"black", "teal"}, Sizes: []string{"S", "M", "L", "XL"},
			Description: "Bold graffiti skull print for those who like to stand out. High-contrast screen print.",
			Stock:       18, Bestseller: true, CreatedAt: date(2025, 2, 2),
		},
		{
			ID: 3, SKU: "UT-003", Name: "Minimal Wave", Price: 30.00,
			Image: "assets/images/placeholder3.jpg", Category: "plain",
			Colors: []string{"white", "gray"}, Sizes: []string{"S", "M", "L", "XL"},
			Description: "Minimal wave motif with a subtle print and soft hand-feel. Lightweight cotton.",
			Stock:       34, Bestseller: false, CreatedAt: date(2025, 3, 5),
		},
	}

	names := []string{
		"Street Tag Tee", "Mono Block", "Rivet Logo", "Split City", "Neon Pulse",
		"Urban Camo", "Patchwork Tee", "Core Tee", "Script Logo", "Midnight Rider",
		"Retro Grid", "Vapor Print", "Echo Tee", "Outline Logo", "Shadow Tee",
		"Sunset Logo", "Linework Tee",
	}
	allColors := []string{"black", "white", "gray", "teal"}

	base := int64(len(products) + 1)
	for i, name := range names {
		category := "graphic"
		if i%2 != 0 {
			category = "men"
		}
		products = append(products, domain.Product{
			ID:          base + int64(i),
			SKU:         fmt.Sprintf("UT-%d", 100+i),
			Name:        name,
			Price:       22 + float64(i%5)*4,
			Image:       fmt.Sprintf("assets/images/placeholder%d.jpg", (i%3)+1),
			Category:    category,
			Colors:      allColors[:2+(i%3)],
			Sizes:       []string{"S", "M", "L", "XL"},
			Description: fmt.Sprintf("%s is a premium streetwear tee. Perfect balance of comfort and style.", name),
			Stock:       10 + (i*3)%40,
			Bestseller:  i%4 == 0,
			CreatedAt:   date(2025, (i%9)+1, (i%27)+1),
		})
	}
	return products
}

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
