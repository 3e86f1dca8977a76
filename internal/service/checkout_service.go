package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"urban-thread/internal/domain"
	"urban-thread/internal/repository"

	"github.com/google/uuid"
)

// Checkout wizard steps. The flow is strictly linear: shipping, payment,
// review, place. Steps can move backwards but never skip forwards.
type CheckoutStep string

const (
	StepShipping CheckoutStep = "shipping"
	StepPayment  CheckoutStep = "payment"
	StepReview   CheckoutStep = "review"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrNoCheckout      = errors.New("no checkout in progress")
	ErrInvalidStep     = errors.New("operation not valid for current checkout step")
	ErrMissingShipping = errors.New("name, email and address are required")
	ErrMissingPayment  = errors.New("card name and card number are required")
)

// CheckoutService drives the three-step wizard and the terminal order
// placement. Checkout requires an active session; one wizard exists per
// logged-in email. No step before PlaceOrder has side effects on the store.
type CheckoutService interface {
	Start(ctx context.Context) (CheckoutStep, error)
	SubmitShipping(ctx context.Context, info domain.ShippingInfo) (CheckoutStep, error)
	SubmitPayment(ctx context.Context, cardName, cardNumber string) (CheckoutStep, error)
	Back(ctx context.Context) (CheckoutStep, error)
	ReviewSummary(ctx context.Context) (CartView, error)
	PlaceOrder(ctx context.Context) (*domain.Order, error)
	OrdersForCurrentUser(ctx context.Context) ([]domain.Order, error)
}

type wizard struct {
	step     CheckoutStep
	shipping domain.ShippingInfo
}

type checkoutService struct {
	authService AuthService
	cartService CartService
	orderRepo   repository.OrderRepository

	mu      sync.Mutex
	wizards map[string]*wizard
}

// NewCheckoutService creates a new instance of CheckoutService.
func NewCheckoutService(authService AuthService, cartService CartService, orderRepo repository.OrderRepository) CheckoutService {
	return &checkoutService{
		authService: authService,
		cartService: cartService,
		orderRepo:   orderRepo,
		wizards:     make(map[string]*wizard),
	}
}

// Start opens a fresh wizard at the shipping step. It requires an active
// session and a non-empty cart; an abandoned wizard for the same user is
// discarded.
func (s *checkoutService) Start(ctx context.Context) (CheckoutStep, error) {
	user, err := s.authService.CurrentUser(ctx)
	if err != nil {
		return "", err
	}

	count, err := s.cartService.ItemCount(ctx)
	if err != nil {
		return "", err
	}
	if count == 0 {
		return "", ErrEmptyCart
	}

	s.mu.Lock()
	s.wizards[user.Email] = &wizard{step: StepShipping}
	s.mu.Unlock()
	return StepShipping, nil
}

// SubmitShipping validates the address fields and advances to payment.
func (s *checkoutService) SubmitShipping(ctx context.Context, info domain.ShippingInfo) (CheckoutStep, error) {
	w, err := s.currentWizard(ctx)
	if err != nil {
		return "", err
	}
	if w.step != StepShipping {
		return w.step, ErrInvalidStep
	}

	info.Name = strings.TrimSpace(info.Name)
	info.Email = strings.TrimSpace(info.Email)
	info.Address = strings.TrimSpace(info.Address)
	if info.Name == "" || info.Email == "" || info.Address == "" {
		return w.step, ErrMissingShipping
	}

	w.shipping = info
	w.step = StepPayment
	return w.step, nil
}

// SubmitPayment checks the card fields are present (format is deliberately
// unvalidated; nothing is charged) and advances to review.
func (s *checkoutService) SubmitPayment(ctx context.Context, cardName, cardNumber string) (CheckoutStep, error) {
	w, err := s.currentWizard(ctx)
	if err != nil {
		return "", err
	}
	if w.step != StepPayment {
		return w.step, ErrInvalidStep
	}

	if strings.TrimSpace(cardName) == "" || strings.TrimSpace(cardNumber) == "" {
		return w.step, ErrMissingPayment
	}

	w.step = StepReview
	return w.step, nil
}

// Back steps the wizard one step towards shipping.
func (s *checkoutService) Back(ctx context.Context) (CheckoutStep, error) {
	w, err := s.currentWizard(ctx)
	if err != nil {
		return "", err
	}
	switch w.step {
	case StepPayment:
		w.step = StepShipping
	case StepReview:
		w.step = StepPayment
	}
	return w.step, nil
}

// ReviewSummary recomputes the cart view and totals for the review step.
func (s *checkoutService) ReviewSummary(ctx context.Context) (CartView, error) {
	w, err := s.currentWizard(ctx)
	if err != nil {
		return CartView{}, err
	}
	if w.step != StepReview {
		return CartView{}, ErrInvalidStep
	}
	return s.cartService.View(ctx)
}

// PlaceOrder is the one-shot terminal transition: it snapshots the cart and
// shipping info into a new order, appends it to the order history, and
// clears the cart. The wizard is discarded; re-entering checkout starts
// fresh with the now-empty cart.
func (s *checkoutService) PlaceOrder(ctx context.Context) (*domain.Order, error) {
	user, err := s.authService.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	w, ok := s.wizards[user.Email]
	s.mu.Unlock()
	if !ok {
		return nil, ErrNoCheckout
	}
	if w.step != StepReview {
		return nil, ErrInvalidStep
	}

	view, err := s.cartService.View(ctx)
	if err != nil {
		return nil, err
	}
	if len(view.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]domain.CartLine, len(view.Lines))
	for i, l := range view.Lines {
		items[i] = l.CartLine
	}

	order := domain.Order{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Items:     items,
		Totals:    view.Totals,
		Shipping:  w.shipping,
	}

	if err := s.orderRepo.Append(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}
	if err := s.cartService.Clear(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear cart after placement: %w", err)
	}

	s.mu.Lock()
	delete(s.wizards, user.Email)
	s.mu.Unlock()
	return &order, nil
}

// OrdersForCurrentUser returns the session user's order history.
func (s *checkoutService) OrdersForCurrentUser(ctx context.Context) ([]domain.Order, error) {
	user, err := s.authService.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.orderRepo.ListByEmail(ctx, user.Email)
}

func (s *checkoutService) currentWizard(ctx context.Context) (*wizard, error) {
	user, err := s.authService.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wizards[user.Email]
	if !ok {
		return nil, ErrNoCheckout
	}
	return w, nil
}
