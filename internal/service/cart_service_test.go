package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"urban-thread/internal/domain"
	"urban-thread/internal/repository"
	"urban-thread/internal/store"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func newTestCartService(products []domain.Product) CartService {
	st := store.NewMemoryStore()
	cartRepo := repository.NewCartRepository(st)
	productRepo := repository.NewProductRepository(st)
	if products != nil {
		productRepo.ReplaceAll(context.Background(), products)
	}
	return NewCartService(cartRepo, productRepo)
}

func TestAddMergesSameVariant(t *testing.T) {
	svc := newTestCartService([]domain.Product{{ID: 1, Name: "Tee", Price: 30}})
	ctx := context.Background()

	if _, err := svc.Add(ctx, 1, 2, "M", "black"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	count, err := svc.Add(ctx, 1, 3, "M", "black")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if count != 5 {
		t.Errorf("expected item count 5, got %d", count)
	}

	view, err := svc.View(ctx)
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}
	if len(view.Lines) != 1 {
		t.Fatalf("expected a single merged line, got %d", len(view.Lines))
	}
	if view.Lines[0].Qty != 5 {
		t.Errorf("expected merged qty 5, got %d", view.Lines[0].Qty)
	}
}

func TestAddDifferentVariantAppendsLine(t *testing.T) {
	svc := newTestCartService([]domain.Product{{ID: 1, Name: "Tee", Price: 30}})
	ctx := context.Background()

	svc.Add(ctx, 1, 1, "M", "black")
	svc.Add(ctx, 1, 1, "L", "black")
	svc.Add(ctx, 1, 1, "M", "white")

	view, err := svc.View(ctx)
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}
	if len(view.Lines) != 3 {
		t.Errorf("expected 3 distinct lines, got %d", len(view.Lines))
	}
}

func TestUpdateQtyClampsToOne(t *testing.T) {
	svc := newTestCartService([]domain.Product{{ID: 1, Price: 30}})
	ctx := context.Background()

	svc.Add(ctx, 1, 4, "M", "black")

	count, err := svc.UpdateQty(ctx, 0, 0)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected qty clamped to 1, got count %d", count)
	}
}

func TestRemoveRejectsOutOfRangeIndex(t *testing.T) {
	svc := newTestCartService([]domain.Product{{ID: 1, Price: 30}})
	ctx := context.Background()

	svc.Add(ctx, 1, 2, "M", "black")

	if _, err := svc.Remove(ctx, 5); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("expected ErrLineNotFound, got %v", err)
	}
	count, err := svc.ItemCount(ctx)
	if err != nil {
		t.Fatalf("item count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("cart changed after rejected remove: count %d", count)
	}
}

func TestViewComputesTotals(t *testing.T) {
	svc := newTestCartService([]domain.Product{
		{ID: 1, Name: "Tee", Price: 20},
		{ID: 2, Name: "Hoodie", Price: 50},
	})
	ctx := context.Background()

	svc.Add(ctx, 1, 2, "M", "black")
	svc.Add(ctx, 2, 1, "L", "gray")

	view, err := svc.View(ctx)
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}
	if view.Totals.Subtotal != 90 {
		t.Errorf("expected subtotal 90, got %.4f", view.Totals.Subtotal)
	}
	if math.Abs(view.Totals.Tax-7.65) > 1e-9 {
		t.Errorf("expected tax 7.65, got %.4f", view.Totals.Tax)
	}
	if view.Totals.Shipping != 5 {
		t.Errorf("expected shipping 5, got %.4f", view.Totals.Shipping)
	}
	if math.Abs(view.Totals.Total-102.65) > 1e-9 {
		t.Errorf("expected total 102.65, got %.4f", view.Totals.Total)
	}
}

func TestPromoDiscountsBeforeTax(t *testing.T) {
	svc := newTestCartService([]domain.Product{{ID: 1, Price: 100}})
	ctx := context.Background()

	svc.Add(ctx, 1, 1, "M", "black")

	if err := svc.ApplyPromo(ctx, "welcome"); err != nil {
		t.Fatalf("promo should be case-insensitive: %v", err)
	}

	view, err := svc.View(ctx)
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}
	if view.Totals.Discount != 10 {
		t.Errorf("expected discount 10, got %.4f", view.Totals.Discount)
	}
	if math.Abs(view.Totals.Tax-7.65) > 1e-9 {
		t.Errorf("expected tax on the discounted subtotal (7.65), got %.4f", view.Totals.Tax)
	}
	if math.Abs(view.Totals.Total-102.65) > 1e-9 {
		t.Errorf("expected total 102.65, got %.4f", view.Totals.Total)
	}
}

func TestApplyPromoRejectsUnknownCodes(t *testing.T) {
	svc := newTestCartService(nil)

	if err := svc.ApplyPromo(context.Background(), "SAVE50"); !errors.Is(err, ErrInvalidPromo) {
		t.Errorf("expected ErrInvalidPromo, got %v", err)
	}
}

func TestViewToleratesDeletedProduct(t *testing.T) {
	svc := newTestCartService([]domain.Product{{ID: 1, Name: "Tee", Price: 30}})
	ctx := context.Background()

	// The line references a product that no longer exists in the catalog.
	svc.Add(ctx, 99, 2, "M", "black")

	view, err := svc.View(ctx)
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}
	if len(view.Lines) != 1 {
		t.Fatalf("expected the dangling line to survive, got %d lines", len(view.Lines))
	}
	if view.Lines[0].UnitPrice != 0 || view.Lines[0].Name != "" {
		t.Errorf("expected zero price and empty name for dangling line, got %.2f %q",
			view.Lines[0].UnitPrice, view.Lines[0].Name)
	}
	if view.Totals.Subtotal != 0 {
		t.Errorf("expected zero subtotal, got %.4f", view.Totals.Subtotal)
	}
}

func TestProperty_ItemCountEqualsSumOfQuantities(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("badge count equals the sum of added quantities", prop.ForAll(
		func(qtys []int) bool {
			svc := newTestCartService([]domain.Product{{ID: 1, Price: 30}})
			ctx := context.Background()

			expected := 0
			for i, q := range qtys {
				// Distinct sizes keep each add on its own line.
				if _, err := svc.Add(ctx, 1, q, sizeFor(i), "black"); err != nil {
					t.Logf("FAIL: add failed: %v", err)
					return false
				}
				if q < 1 {
					q = 1
				}
				expected += q
			}

			count, err := svc.ItemCount(ctx)
			if err != nil {
				t.Logf("FAIL: item count failed: %v", err)
				return false
			}
			return count == expected
		},
		gen.SliceOfN(5, gen.IntRange(-2, 10)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func sizeFor(i int) string {
	sizes := []string{"XS", "S", "M", "L", "XL"}
	return sizes[i%len(sizes)]
}
