package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"urban-thread/internal/repository"
	"urban-thread/internal/seed"
	"urban-thread/internal/service"
	"urban-thread/internal/store"

	"github.com/bwmarrin/snowflake"
	"github.com/go-chi/chi/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
)

// newCatalogRouter wires real services over an in-memory store seeded with
// the default catalog.
func newCatalogRouter(t *testing.T) chi.Router {
	t.Helper()
	st := store.NewMemoryStore()
	productRepo := repository.NewProductRepository(st)
	if err := seed.EnsureProducts(context.Background(), productRepo, zap.NewNop()); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	catalogService := service.NewCatalogService(productRepo, node)
	reviewService := service.NewReviewService(repository.NewReviewRepository(st), productRepo)

	router := chi.NewRouter()
	NewCatalogHandler(catalogService, reviewService, zap.NewNop()).RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router chi.Router, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListReturnsFirstPageByDefault(t *testing.T) {
	router := newCatalogRouter(t)

	w := doJSON(t, router, "GET", "/api/products?price_min=0&price_max=0", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", w.Code, w.Body.String())
	}

	var result service.SearchResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Total != 20 {
		t.Errorf("expected 20 products, got %d", result.Total)
	}
	if result.Page != 1 || result.TotalPages != 2 {
		t.Errorf("expected page 1 of 2, got %d of %d", result.Page, result.TotalPages)
	}
	if len(result.Items) != service.PageSize {
		t.Errorf("expected a full page of %d, got %d", service.PageSize, len(result.Items))
	}
}

func TestProperty_ListPageIsAlwaysInRange(t *testing.T) {
	router := newCatalogRouter(t)
	properties := gopter.NewProperties(nil)

	properties.Property("the returned page lies within [1, totalPages]", prop.ForAll(
		func(page int) bool {
			w := doJSON(t, router, "GET", fmt.Sprintf("/api/products?price_min=0&price_max=0&page=%d", page), nil)
			if w.Code != http.StatusOK {
				t.Logf("FAIL: status %d", w.Code)
				return false
			}

			var result service.SearchResult
			if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
				t.Logf("FAIL: decode: %v", err)
				return false
			}
			return result.Page >= 1 && result.Page <= result.TotalPages
		},
		gen.IntRange(-10, 50),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestGetUnknownProductReturns404(t *testing.T) {
	router := newCatalogRouter(t)

	w := doJSON(t, router, "GET", "/api/products/9999", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}

	w = doJSON(t, router, "GET", "/api/products/not-a-number", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed id, got %d", w.Code)
	}
}

func TestFeaturedReturnsBestsellers(t *testing.T) {
	router := newCatalogRouter(t)

	w := doJSON(t, router, "GET", "/api/products/featured", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}

	var products []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &products); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(products) != 6 {
		t.Errorf("expected 6 featured products, got %d", len(products))
	}
}

func TestAddReviewValidatesPayload(t *testing.T) {
	router := newCatalogRouter(t)

	w := doJSON(t, router, "POST", "/api/products/1/reviews", ReviewRequest{Text: "solid tee", Rating: 9})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for out-of-range rating, got %d", w.Code)
	}

	w = doJSON(t, router, "POST", "/api/products/1/reviews", ReviewRequest{Text: "solid tee", Rating: 5})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, "GET", "/api/products/1/reviews", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}
	var reviews []map[string]any
	json.Unmarshal(w.Body.Bytes(), &reviews)
	if len(reviews) != 1 {
		t.Errorf("expected 1 review, got %d", len(reviews))
	}
}
