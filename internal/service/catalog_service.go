package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"urban-thread/internal/domain"
	"urban-thread/internal/repository"

	"github.com/bwmarrin/snowflake"
)

// PageSize is the fixed number of products per shop page.
const PageSize = 10

// Default price range shown when filters are cleared.
const (
	DefaultPriceMin = 20
	DefaultPriceMax = 60
)

// Sort modes accepted by Query.Sort. Unknown values fall back to newest.
const (
	SortNewest     = "new"
	SortPriceAsc   = "price-asc"
	SortPriceDesc  = "price-desc"
	SortBestseller = "bestseller"
)

// Query is the combined filter/sort/page state of the shop listing.
type Query struct {
	Text     string
	PriceMin float64
	PriceMax float64
	Size     string
	Colors   []string
	Category string
	Sort     string
	Page     int
}

// SearchResult is one visible page of the catalog plus pagination metadata.
// Page is the requested page after clamping into [1, TotalPages].
type SearchResult struct {
	Items      []domain.Product `json:"items"`
	Total      int              `json:"total"`
	TotalPages int              `json:"totalPages"`
	Page       int              `json:"page"`
}

// DefaultQuery is the cleared-filters state: first page, default price range,
// newest first.
func DefaultQuery() Query {
	return Query{
		PriceMin: DefaultPriceMin,
		PriceMax: DefaultPriceMax,
		Sort:     SortNewest,
		Page:     1,
	}
}

// CatalogService defines the catalog business logic: the shop listing
// pipeline plus the featured/related selections and admin mutations.
type CatalogService interface {
	Search(ctx context.Context, q Query) (SearchResult, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	Featured(ctx context.Context) ([]domain.Product, error)
	Related(ctx context.Context, id int64) ([]domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

type catalogService struct {
	productRepo repository.ProductRepository
	idNode      *snowflake.Node
}

// NewCatalogService creates a new instance of CatalogService. The snowflake
// node issues ids for admin-created products.
func NewCatalogService(productRepo repository.ProductRepository, idNode *snowflake.Node) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		idNode:      idNode,
	}
}

// Search applies the query's filters as independent predicates, sorts the
// survivors stably, clamps the page number, and slices out the visible page.
func (s *catalogService) Search(ctx context.Context, q Query) (SearchResult, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return SearchResult{}, fmt.Errorf("failed to search catalog: %w", err)
	}

	filtered := filterProducts(products, q)
	sortProducts(filtered, q.Sort)

	total := len(filtered)
	totalPages := int(math.Ceil(float64(total) / float64(PageSize)))
	if totalPages < 1 {
		totalPages = 1
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return SearchResult{
		Items:      filtered[start:end],
		Total:      total,
		TotalPages: totalPages,
		Page:       page,
	}, nil
}

func filterProducts(products []domain.Product, q Query) []domain.Product {
	text := strings.ToLower(q.Text)
	priceMax := q.PriceMax
	if priceMax <= 0 {
		priceMax = math.Inf(1)
	}

	filtered := []domain.Product{}
	for _, p := range products {
		if text != "" &&
			!strings.Contains(strings.ToLower(p.Name), text) &&
			!strings.Contains(strings.ToLower(p.Description), text) {
			continue
		}
		if p.Price < q.PriceMin || p.Price > priceMax {
			continue
		}
		if q.Size != "" && !p.HasSize(q.Size) {
			continue
		}
		if len(q.Colors) > 0 && !hasAnyColor(p, q.Colors) {
			continue
		}
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

func hasAnyColor(p domain.Product, colors []string) bool {
	for _, c := range colors {
		if p.HasColor(c) {
			return true
		}
	}
	return false
}

func sortProducts(products []domain.Product, mode string) {
	switch mode {
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price > products[j].Price
		})
	case SortBestseller:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Bestseller && !products[j].Bestseller
		})
	default:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].CreatedAt.After(products[j].CreatedAt)
		})
	}
}

// FindByID retrieves a single product.
func (s *catalogService) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// Featured returns up to six bestsellers in stored order, for the home page
// grid.
func (s *catalogService) Featured(ctx context.Context) ([]domain.Product, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	featured := []domain.Product{}
	for _, p := range products {
		if p.Bestseller {
			featured = append(featured, p)
			if len(featured) == 6 {
				break
			}
		}
	}
	return featured, nil
}

// Related returns up to four other products from the same category.
func (s *catalogService) Related(ctx context.Context, id int64) ([]domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	related := []domain.Product{}
	for _, p := range products {
		if p.Category == product.Category && p.ID != product.ID {
			related = append(related, p)
			if len(related) == 4 {
				break
			}
		}
	}
	return related, nil
}

// CreateProduct assigns a fresh id and creation time, then appends the
// product to the catalog.
func (s *catalogService) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	product.ID = s.idNode.Generate().Int64()
	product.CreatedAt = time.Now()
	if product.SKU == "" {
		product.SKU = fmt.Sprintf("UT-%d", product.ID)
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &product, nil
}

// UpdateProduct replaces an existing catalog entry.
func (s *catalogService) UpdateProduct(ctx context.Context, product domain.Product) error {
	return s.productRepo.Update(ctx, product)
}

// DeleteProduct removes a catalog entry.
func (s *catalogService) DeleteProduct(ctx context.Context, id int64) error {
	return s.productRepo.Delete(ctx, id)
}
