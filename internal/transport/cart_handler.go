package transport

import (
	"errors"
	"net/http"
	"strconv"

	"urban-thread/internal/middleware"
	"urban-thread/internal/repository"
	"urban-thread/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AddToCartRequest represents an add-to-cart payload. Qty defaults to 1.
type AddToCartRequest struct {
	ProductID int64  `json:"product_id" validate:"required"`
	Qty       int    `json:"qty"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// UpdateQtyRequest represents a quantity change for one cart line. Values
// below 1 clamp to 1 downstream.
type UpdateQtyRequest struct {
	Qty int `json:"qty"`
}

// PromoRequest represents a promo code submission
type PromoRequest struct {
	Code string `json:"code" validate:"required"`
}

// BadgeResponse reports the new cart badge count after a mutation
type BadgeResponse struct {
	ItemCount int `json:"itemCount"`
}

// CartHandler handles HTTP requests for the shopping cart.
type CartHandler struct {
	cartService    service.CartService
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService service.CartService, catalogService service.CatalogService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService:    cartService,
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers the cart routes
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", h.View)
		r.Post("/items", h.Add)
		r.Put("/items/{index}", h.UpdateQty)
		r.Delete("/items/{index}", h.Remove)
		r.Post("/promo", h.ApplyPromo)
	})
}

// View returns the cart resolved against the catalog, with totals
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	view, err := h.cartService.View(r.Context())
	if err != nil {
		h.logger.Error("Failed to load cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, view)
}

// Add puts a product variant in the cart. The stock guard lives here, not in
// the cart itself: the cart merges whatever it is told to merge.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Qty < 1 {
		req.Qty = 1
	}

	product, err := h.catalogService.FindByID(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to load product for cart add", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add to cart")
		return
	}
	if product.Stock < req.Qty {
		middleware.RespondWithError(w, http.StatusConflict, "not enough stock")
		return
	}
	if req.Size != "" && !product.HasSize(req.Size) {
		middleware.RespondWithError(w, http.StatusBadRequest, "size not available for this product")
		return
	}
	if req.Color != "" && !product.HasColor(req.Color) {
		middleware.RespondWithError(w, http.StatusBadRequest, "color not available for this product")
		return
	}

	count, err := h.cartService.Add(r.Context(), req.ProductID, req.Qty, req.Size, req.Color)
	if err != nil {
		h.logger.Error("Failed to add to cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add to cart")
		return
	}

	h.logger.Info("Added to cart",
		zap.Int64("product_id", req.ProductID),
		zap.Int("qty", req.Qty),
		zap.Int("item_count", count),
	)
	middleware.RespondWithJSON(w, http.StatusOK, BadgeResponse{ItemCount: count})
}

// UpdateQty sets a line's quantity; values below 1 clamp to 1
func (h *CartHandler) UpdateQty(w http.ResponseWriter, r *http.Request) {
	index, ok := h.lineIndex(w, r)
	if !ok {
		return
	}

	var req UpdateQtyRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	count, err := h.cartService.UpdateQty(r.Context(), index, req.Qty)
	if err != nil {
		if errors.Is(err, service.ErrLineNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "cart line not found")
			return
		}
		h.logger.Error("Failed to update cart line", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, BadgeResponse{ItemCount: count})
}

// Remove deletes a cart line by position
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	index, ok := h.lineIndex(w, r)
	if !ok {
		return
	}

	count, err := h.cartService.Remove(r.Context(), index)
	if err != nil {
		if errors.Is(err, service.ErrLineNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "cart line not found")
			return
		}
		h.logger.Error("Failed to remove cart line", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, BadgeResponse{ItemCount: count})
}

// ApplyPromo records the promo flag on the cart
func (h *CartHandler) ApplyPromo(w http.ResponseWriter, r *http.Request) {
	var req PromoRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.cartService.ApplyPromo(r.Context(), req.Code); err != nil {
		if errors.Is(err, service.ErrInvalidPromo) {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid promo")
			return
		}
		h.logger.Error("Failed to apply promo", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to apply promo")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "promo applied"})
}

func (h *CartHandler) lineIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid cart line index")
		return 0, false
	}
	return index, true
}
