package transport

import (
	"errors"
	"net/http"
	"strconv"

	"urban-thread/internal/domain"
	"urban-thread/internal/middleware"
	"urban-thread/internal/repository"
	"urban-thread/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductRequest represents an admin product create/update payload
type ProductRequest struct {
	SKU         string   `json:"sku"`
	Name        string   `json:"name" validate:"required"`
	Price       float64  `json:"price" validate:"gte=0"`
	Image       string   `json:"image"`
	Category    string   `json:"category" validate:"required"`
	Colors      []string `json:"colors"`
	Sizes       []string `json:"sizes"`
	Description string   `json:"description"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Bestseller  bool     `json:"bestseller"`
}

// AdminOverview mirrors the original admin panel: full catalog, accounts and
// order history in one response.
type AdminOverview struct {
	Products []domain.Product `json:"products"`
	Users    []UserProfile    `json:"users"`
	Orders   []domain.Order   `json:"orders"`
}

// AdminHandler handles the admin panel endpoints. Access requires a session
// user with the admin role.
type AdminHandler struct {
	catalogService service.CatalogService
	productRepo    repository.ProductRepository
	userRepo       repository.UserRepository
	orderRepo      repository.OrderRepository
	logger         *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(catalogService service.CatalogService, productRepo repository.ProductRepository, userRepo repository.UserRepository, orderRepo repository.OrderRepository, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		catalogService: catalogService,
		productRepo:    productRepo,
		userRepo:       userRepo,
		orderRepo:      orderRepo,
		logger:         logger,
	}
}

// RegisterRoutes registers the admin routes behind session and role guards.
func (h *AdminHandler) RegisterRoutes(r chi.Router, requireSession, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(requireSession)
		r.Use(requireAdmin)
		r.Get("/overview", h.Overview)
		r.Post("/products", h.CreateProduct)
		r.Put("/products/{id}", h.UpdateProduct)
		r.Delete("/products/{id}", h.DeleteProduct)
	})
}

// Overview returns the admin dashboard data: the unfiltered catalog plus
// all accounts and orders.
func (h *AdminHandler) Overview(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.productRepo.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to load admin overview", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load overview")
		return
	}

	users, err := h.userRepo.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to load users for overview", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load overview")
		return
	}
	profiles := make([]UserProfile, len(users))
	for i := range users {
		profiles[i] = profileOf(&users[i])
	}

	orders, err := h.orderRepo.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to load orders for overview", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load overview")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, AdminOverview{
		Products: catalog,
		Users:    profiles,
		Orders:   orders,
	})
}

// CreateProduct adds a product to the catalog
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.catalogService.CreateProduct(r.Context(), req.toDomain(0))
	if err != nil {
		h.logger.Error("Failed to create product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	h.logger.Info("Product created", zap.Int64("id", product.ID), zap.String("name", product.Name))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// UpdateProduct replaces an existing catalog entry
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	existing, err := h.catalogService.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to load product for update", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		return
	}

	updated := req.toDomain(id)
	updated.CreatedAt = existing.CreatedAt
	if err := h.catalogService.UpdateProduct(r.Context(), updated); err != nil {
		h.logger.Error("Failed to update product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, updated)
}

// DeleteProduct removes a catalog entry
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.catalogService.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to delete product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	h.logger.Info("Product deleted", zap.Int64("id", id))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

func (req ProductRequest) toDomain(id int64) domain.Product {
	return domain.Product{
		ID:          id,
		SKU:         req.SKU,
		Name:        req.Name,
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
		Colors:      req.Colors,
		Sizes:       req.Sizes,
		Description: req.Description,
		Stock:       req.Stock,
		Bestseller:  req.Bestseller,
	}
}
