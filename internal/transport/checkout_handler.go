package transport

import (
	"errors"
	"net/http"

	"urban-thread/internal/domain"
	"urban-thread/internal/middleware"
	"urban-thread/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ShippingRequest represents the shipping step payload
type ShippingRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Address string `json:"address" validate:"required"`
}

// PaymentRequest represents the payment step payload. Card format is
// deliberately unvalidated; nothing is ever charged.
type PaymentRequest struct {
	CardName   string `json:"card_name" validate:"required"`
	CardNumber string `json:"card_number" validate:"required"`
}

// StepResponse reports the wizard's current step after a transition
type StepResponse struct {
	Step service.CheckoutStep `json:"step"`
}

// CheckoutHandler handles HTTP requests for the checkout wizard and the
// account order history. All routes are session-gated by the server.
type CheckoutHandler struct {
	checkoutService service.CheckoutService
	logger          *zap.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService service.CheckoutService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		logger:          logger,
	}
}

// RegisterRoutes registers the checkout and account routes inside a
// session-gated group.
func (h *CheckoutHandler) RegisterRoutes(r chi.Router, requireSession func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(requireSession)
		r.Route("/api/checkout", func(r chi.Router) {
			r.Post("/start", h.Start)
			r.Post("/shipping", h.SubmitShipping)
			r.Post("/payment", h.SubmitPayment)
			r.Post("/back", h.Back)
			r.Get("/review", h.Review)
			r.Post("/place", h.PlaceOrder)
		})
		r.Get("/api/account/orders", h.Orders)
	})
}

// Start opens a fresh wizard at the shipping step
func (h *CheckoutHandler) Start(w http.ResponseWriter, r *http.Request) {
	step, err := h.checkoutService.Start(r.Context())
	if err != nil {
		h.respondCheckoutError(w, err, "failed to start checkout")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, StepResponse{Step: step})
}

// SubmitShipping validates the address and advances to payment
func (h *CheckoutHandler) SubmitShipping(w http.ResponseWriter, r *http.Request) {
	var req ShippingRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	step, err := h.checkoutService.SubmitShipping(r.Context(), domain.ShippingInfo{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		h.respondCheckoutError(w, err, "failed to submit shipping")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, StepResponse{Step: step})
}

// SubmitPayment checks card fields are present and advances to review
func (h *CheckoutHandler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	step, err := h.checkoutService.SubmitPayment(r.Context(), req.CardName, req.CardNumber)
	if err != nil {
		h.respondCheckoutError(w, err, "failed to submit payment")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, StepResponse{Step: step})
}

// Back steps the wizard towards shipping
func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	step, err := h.checkoutService.Back(r.Context())
	if err != nil {
		h.respondCheckoutError(w, err, "failed to step back")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, StepResponse{Step: step})
}

// Review returns the recomputed order summary for the review step
func (h *CheckoutHandler) Review(w http.ResponseWriter, r *http.Request) {
	summary, err := h.checkoutService.ReviewSummary(r.Context())
	if err != nil {
		h.respondCheckoutError(w, err, "failed to load order summary")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, summary)
}

// PlaceOrder runs the terminal transition: snapshot, append, clear cart
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.checkoutService.PlaceOrder(r.Context())
	if err != nil {
		h.respondCheckoutError(w, err, "failed to place order")
		return
	}

	h.logger.Info("Order placed",
		zap.String("order_id", order.ID),
		zap.Int("items", len(order.Items)),
		zap.Float64("total", order.Totals.Total),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, order)
}

// Orders returns the session user's order history
func (h *CheckoutHandler) Orders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.checkoutService.OrdersForCurrentUser(r.Context())
	if err != nil {
		h.respondCheckoutError(w, err, "failed to load orders")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

func (h *CheckoutHandler) respondCheckoutError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		middleware.RespondWithError(w, http.StatusUnauthorized, "please log in first")
	case errors.Is(err, service.ErrEmptyCart):
		middleware.RespondWithError(w, http.StatusConflict, "cart is empty")
	case errors.Is(err, service.ErrNoCheckout):
		middleware.RespondWithError(w, http.StatusConflict, "no checkout in progress")
	case errors.Is(err, service.ErrInvalidStep):
		middleware.RespondWithError(w, http.StatusConflict, "operation not valid for current step")
	case errors.Is(err, service.ErrMissingShipping), errors.Is(err, service.ErrMissingPayment):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(fallback, zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}
