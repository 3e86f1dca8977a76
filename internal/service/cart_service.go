package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"urban-thread/internal/domain"
	"urban-thread/internal/repository"
)

// Pricing constants: flat tax rate, flat shipping fee, and the discount
// applied by the one supported promo code.
const (
	TaxRate       = 0.085
	ShippingFee   = 5.00
	PromoCode     = "WELCOME"
	PromoDiscount = 0.10
)

var (
	ErrLineNotFound = errors.New("cart line not found")
	ErrInvalidPromo = errors.New("invalid promo code")
)

// CartView is the cart resolved against the catalog: each line annotated
// with its product's display fields, plus the computed totals.
type CartView struct {
	Lines     []CartLineView `json:"lines"`
	Promo     string         `json:"promo,omitempty"`
	ItemCount int            `json:"itemCount"`
	Totals    domain.Totals  `json:"totals"`
}

// CartLineView is one cart line with its resolved product. A line whose
// product has been deleted resolves to a zero price and empty display fields
// rather than failing.
type CartLineView struct {
	domain.CartLine
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	UnitPrice float64 `json:"unitPrice"`
	LineTotal float64 `json:"lineTotal"`
}

// CartService defines the cart state machine. Every mutation returns the new
// total item count so callers can refresh the badge without a second read.
type CartService interface {
	Add(ctx context.Context, productID int64, qty int, size, color string) (int, error)
	Remove(ctx context.Context, index int) (int, error)
	UpdateQty(ctx context.Context, index, qty int) (int, error)
	View(ctx context.Context) (CartView, error)
	ItemCount(ctx context.Context) (int, error)
	ApplyPromo(ctx context.Context, code string) error
	Clear(ctx context.Context) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService creates a new instance of CartService.
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// Add puts qty units of a product variant in the cart. A line with the same
// (product, size, color) is merged by summing quantities; otherwise a new
// line is appended. Stock is not checked here; that is the caller's job
// before invoking Add.
func (s *cartService) Add(ctx context.Context, productID int64, qty int, size, color string) (int, error) {
	if qty < 1 {
		qty = 1
	}

	cart, err := s.cartRepo.Get(ctx)
	if err != nil {
		return 0, err
	}

	merged := false
	for i := range cart.Lines {
		if cart.Lines[i].SameVariant(productID, size, color) {
			cart.Lines[i].Qty += qty
			merged = true
			break
		}
	}
	if !merged {
		cart.Lines = append(cart.Lines, domain.CartLine{
			ProductID: productID,
			Qty:       qty,
			Size:      size,
			Color:     color,
			AddedAt:   time.Now(),
		})
	}

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return 0, err
	}
	return cart.ItemCount(), nil
}

// Remove deletes the line at index. Out-of-range indexes are rejected with
// ErrLineNotFound and leave the cart unchanged.
func (s *cartService) Remove(ctx context.Context, index int) (int, error) {
	cart, err := s.cartRepo.Get(ctx)
	if err != nil {
		return 0, err
	}
	if index < 0 || index >= len(cart.Lines) {
		return cart.ItemCount(), ErrLineNotFound
	}

	cart.Lines = append(cart.Lines[:index], cart.Lines[index+1:]...)
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return 0, err
	}
	return cart.ItemCount(), nil
}

// UpdateQty sets the line's quantity to max(1, qty). Dropping to zero is not
// possible; removal must go through Remove.
func (s *cartService) UpdateQty(ctx context.Context, index, qty int) (int, error) {
	cart, err := s.cartRepo.Get(ctx)
	if err != nil {
		return 0, err
	}
	if index < 0 || index >= len(cart.Lines) {
		return cart.ItemCount(), ErrLineNotFound
	}

	if qty < 1 {
		qty = 1
	}
	cart.Lines[index].Qty = qty

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return 0, err
	}
	return cart.ItemCount(), nil
}

// View resolves the cart against the catalog and computes totals. Lines
// referencing deleted products contribute a zero price and empty display
// fields.
func (s *cartService) View(ctx context.Context) (CartView, error) {
	cart, err := s.cartRepo.Get(ctx)
	if err != nil {
		return CartView{}, err
	}
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return CartView{}, err
	}

	byID := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	view := CartView{
		Lines: make([]CartLineView, 0, len(cart.Lines)),
		Promo: cart.Promo,
	}
	for _, line := range cart.Lines {
		product := byID[line.ProductID] // zero value when dangling
		lineTotal := product.Price * float64(line.Qty)
		view.Lines = append(view.Lines, CartLineView{
			CartLine:  line,
			Name:      product.Name,
			Image:     product.Image,
			UnitPrice: product.Price,
			LineTotal: lineTotal,
		})
		view.Totals.Subtotal += lineTotal
	}

	view.ItemCount = cart.ItemCount()
	view.Totals = computeTotals(view.Totals.Subtotal, cart.Promo != "")
	return view, nil
}

// computeTotals prices a subtotal. The promo discount comes off the subtotal
// before tax; shipping is a flat fee on every order.
func computeTotals(subtotal float64, promo bool) domain.Totals {
	totals := domain.Totals{
		Subtotal: subtotal,
		Shipping: ShippingFee,
	}
	if promo {
		totals.Discount = subtotal * PromoDiscount
	}
	taxable := subtotal - totals.Discount
	totals.Tax = taxable * TaxRate
	totals.Total = taxable + totals.Tax + totals.Shipping
	return totals
}

// ItemCount returns the badge value: the sum of quantities across all lines.
func (s *cartService) ItemCount(ctx context.Context) (int, error) {
	cart, err := s.cartRepo.Get(ctx)
	if err != nil {
		return 0, err
	}
	return cart.ItemCount(), nil
}

// ApplyPromo records the promo flag on the cart. Only the WELCOME code is
// recognized; input case is ignored.
func (s *cartService) ApplyPromo(ctx context.Context, code string) error {
	if strings.ToUpper(strings.TrimSpace(code)) != PromoCode {
		return ErrInvalidPromo
	}
	cart, err := s.cartRepo.Get(ctx)
	if err != nil {
		return err
	}
	cart.Promo = PromoCode
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return fmt.Errorf("failed to apply promo: %w", err)
	}
	return nil
}

// Clear empties the cart entirely. Used after order placement.
func (s *cartService) Clear(ctx context.Context) error {
	return s.cartRepo.Clear(ctx)
}
