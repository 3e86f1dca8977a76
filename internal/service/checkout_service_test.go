package service

import (
	"context"
	"errors"
	"testing"

	"urban-thread/internal/domain"
	"urban-thread/internal/repository"
	"urban-thread/internal/store"
)

type checkoutFixture struct {
	checkout CheckoutService
	cart     CartService
	auth     AuthService
	orders   repository.OrderRepository
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	st := store.NewMemoryStore()
	productRepo := repository.NewProductRepository(st)
	productRepo.ReplaceAll(context.Background(), []domain.Product{
		{ID: 1, Name: "Tee", Price: 30},
	})

	cart := NewCartService(repository.NewCartRepository(st), productRepo)
	auth := NewAuthService(repository.NewUserRepository(st), repository.NewSessionRepository(st))
	orders := repository.NewOrderRepository(st)

	ctx := context.Background()
	if _, err := auth.Register(ctx, "Ana", "ana@example.com", "pw"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := auth.Login(ctx, "ana@example.com", "pw"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	return &checkoutFixture{
		checkout: NewCheckoutService(auth, cart, orders),
		cart:     cart,
		auth:     auth,
		orders:   orders,
	}
}

func validShipping() domain.ShippingInfo {
	return domain.ShippingInfo{Name: "Ana", Email: "ana@example.com", Address: "1 Main St"}
}

func TestStartRequiresSessionAndItems(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	if _, err := f.checkout.Start(ctx); !errors.Is(err, ErrEmptyCart) {
		t.Errorf("expected ErrEmptyCart, got %v", err)
	}

	f.cart.Add(ctx, 1, 1, "M", "black")
	f.auth.Logout(ctx)
	if _, err := f.checkout.Start(ctx); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestWizardAdvancesThroughSteps(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	f.cart.Add(ctx, 1, 2, "M", "black")

	step, err := f.checkout.Start(ctx)
	if err != nil || step != StepShipping {
		t.Fatalf("expected shipping step, got %v (%v)", step, err)
	}

	step, err = f.checkout.SubmitShipping(ctx, validShipping())
	if err != nil || step != StepPayment {
		t.Fatalf("expected payment step, got %v (%v)", step, err)
	}

	step, err = f.checkout.SubmitPayment(ctx, "Ana", "4111111111111111")
	if err != nil || step != StepReview {
		t.Fatalf("expected review step, got %v (%v)", step, err)
	}

	summary, err := f.checkout.ReviewSummary(ctx)
	if err != nil {
		t.Fatalf("review summary failed: %v", err)
	}
	if summary.Totals.Subtotal != 60 {
		t.Errorf("expected subtotal 60, got %.4f", summary.Totals.Subtotal)
	}
}

func TestWizardRejectsSkippedSteps(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	f.cart.Add(ctx, 1, 1, "M", "black")

	if _, err := f.checkout.SubmitShipping(ctx, validShipping()); !errors.Is(err, ErrNoCheckout) {
		t.Errorf("expected ErrNoCheckout before start, got %v", err)
	}

	f.checkout.Start(ctx)

	if _, err := f.checkout.SubmitPayment(ctx, "Ana", "4111"); !errors.Is(err, ErrInvalidStep) {
		t.Errorf("expected ErrInvalidStep for payment before shipping, got %v", err)
	}
	if _, err := f.checkout.PlaceOrder(ctx); !errors.Is(err, ErrInvalidStep) {
		t.Errorf("expected ErrInvalidStep for placement before review, got %v", err)
	}
}

func TestWizardValidatesInputs(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	f.cart.Add(ctx, 1, 1, "M", "black")
	f.checkout.Start(ctx)

	if _, err := f.checkout.SubmitShipping(ctx, domain.ShippingInfo{Name: "  ", Email: "a@b.c", Address: "x"}); !errors.Is(err, ErrMissingShipping) {
		t.Errorf("expected ErrMissingShipping for blank name, got %v", err)
	}

	f.checkout.SubmitShipping(ctx, validShipping())
	if _, err := f.checkout.SubmitPayment(ctx, "Ana", "   "); !errors.Is(err, ErrMissingPayment) {
		t.Errorf("expected ErrMissingPayment for blank card number, got %v", err)
	}
}

func TestBackStepsTowardsShipping(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	f.cart.Add(ctx, 1, 1, "M", "black")
	f.checkout.Start(ctx)
	f.checkout.SubmitShipping(ctx, validShipping())

	step, err := f.checkout.Back(ctx)
	if err != nil || step != StepShipping {
		t.Fatalf("expected shipping after back, got %v (%v)", step, err)
	}

	// Back at the first step stays put.
	step, err = f.checkout.Back(ctx)
	if err != nil || step != StepShipping {
		t.Fatalf("expected shipping to be the floor, got %v (%v)", step, err)
	}
}

func TestPlaceOrderSnapshotsAndClearsCart(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	f.cart.Add(ctx, 1, 2, "M", "black")
	f.checkout.Start(ctx)
	f.checkout.SubmitShipping(ctx, validShipping())
	f.checkout.SubmitPayment(ctx, "Ana", "4111111111111111")

	order, err := f.checkout.PlaceOrder(ctx)
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if order.ID == "" {
		t.Error("expected a generated order ID")
	}
	if len(order.Items) != 1 || order.Items[0].Qty != 2 {
		t.Errorf("order items do not match the cart snapshot: %+v", order.Items)
	}
	if order.Shipping != validShipping() {
		t.Errorf("unexpected shipping info: %+v", order.Shipping)
	}

	count, _ := f.cart.ItemCount(ctx)
	if count != 0 {
		t.Errorf("expected empty cart after placement, got count %d", count)
	}

	// The wizard is gone; placement is one-shot.
	if _, err := f.checkout.PlaceOrder(ctx); !errors.Is(err, ErrNoCheckout) {
		t.Errorf("expected ErrNoCheckout on second placement, got %v", err)
	}

	history, err := f.checkout.OrdersForCurrentUser(ctx)
	if err != nil {
		t.Fatalf("order history failed: %v", err)
	}
	if len(history) != 1 || history[0].ID != order.ID {
		t.Errorf("expected the placed order in the history, got %+v", history)
	}
}

func TestOrderHistoryIsScopedToShippingEmail(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	// An order shipped to someone else.
	f.orders.Append(ctx, domain.Order{
		ID:       "other",
		Shipping: domain.ShippingInfo{Email: "other@example.com"},
	})

	history, err := f.checkout.OrdersForCurrentUser(ctx)
	if err != nil {
		t.Fatalf("order history failed: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("expected no orders for the session user, got %d", len(history))
	}
}
