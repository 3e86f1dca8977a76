package transport

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"urban-thread/internal/middleware"
	"urban-thread/internal/repository"
	"urban-thread/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CatalogHandler handles HTTP requests for browsing the catalog.
type CatalogHandler struct {
	catalogService service.CatalogService
	reviewService  service.ReviewService
	logger         *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService service.CatalogService, reviewService service.ReviewService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		reviewService:  reviewService,
		logger:         logger,
	}
}

// ReviewRequest represents a submitted product review
type ReviewRequest struct {
	Text   string `json:"text" validate:"required"`
	Rating int    `json:"rating" validate:"required,gte=1,lte=5"`
}

// RegisterRoutes registers the public catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/featured", h.Featured)
		r.Get("/{id}", h.Get)
		r.Get("/{id}/related", h.Related)
		r.Get("/{id}/reviews", h.ListReviews)
		r.Post("/{id}/reviews", h.AddReview)
	})
}

// List handles the shop listing: filters, sort and page come in as query
// parameters; omitted parameters keep their cleared-filter defaults.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	query := bindQuery(r)

	result, err := h.catalogService.Search(r.Context(), query)
	if err != nil {
		h.logger.Error("Catalog search failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to search catalog")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// bindQuery builds the filter state from URL parameters, starting from the
// cleared defaults. Omitting the page parameter lands on page 1.
func bindQuery(r *http.Request) service.Query {
	query := service.DefaultQuery()
	params := r.URL.Query()

	if q := params.Get("q"); q != "" {
		query.Text = q
	}
	if v := params.Get("price_min"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			query.PriceMin = f
		}
	}
	if v := params.Get("price_max"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			query.PriceMax = f
		}
	}
	if size := params.Get("size"); size != "" {
		query.Size = size
	}
	if colors := params.Get("colors"); colors != "" {
		query.Colors = strings.Split(colors, ",")
	}
	if cat := params.Get("category"); cat != "" {
		query.Category = cat
	}
	if sortMode := params.Get("sort"); sortMode != "" {
		query.Sort = sortMode
	}
	if v := params.Get("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil {
			query.Page = page
		}
	}
	return query
}

// Featured handles the home page bestseller grid
func (h *CatalogHandler) Featured(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogService.Featured(r.Context())
	if err != nil {
		h.logger.Error("Failed to load featured products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load featured products")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// Get handles the product detail page
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	product, err := h.catalogService.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to load product", zap.Error(err), zap.Int64("id", id))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Related handles the related-products strip on the detail page
func (h *CatalogHandler) Related(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	related, err := h.catalogService.Related(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to load related products", zap.Error(err), zap.Int64("id", id))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load related products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, related)
}

// ListReviews returns a product's reviews, newest first
func (h *CatalogHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	reviews, err := h.reviewService.List(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load reviews", zap.Error(err), zap.Int64("id", id))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load reviews")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, reviews)
}

// AddReview appends a review to a product
func (h *CatalogHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	var req ReviewRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	review, err := h.reviewService.Add(r.Context(), id, req.Text, req.Rating)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		case errors.Is(err, service.ErrEmptyReview), errors.Is(err, service.ErrInvalidRating):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to add review", zap.Error(err), zap.Int64("id", id))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add review")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, review)
}

func (h *CatalogHandler) productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return 0, false
	}
	return id, true
}
