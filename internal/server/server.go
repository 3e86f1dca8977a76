package server

import (
	"fmt"
	"net/http"
	"time"

	"urban-thread/internal/config"
	custommiddleware "urban-thread/internal/middleware"
	"urban-thread/internal/repository"
	"urban-thread/internal/service"
	"urban-thread/internal/store"
	"urban-thread/internal/transport"

	"github.com/bwmarrin/snowflake"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	store  store.Store
}

// NewServer wires the document store through repositories, services and
// handlers into a configured HTTP server. redisClient may be nil; the auth
// endpoints then run without rate limiting.
func NewServer(cfg *config.Config, logger *zap.Logger, st store.Store, redisClient *redis.Client, idNode *snowflake.Node) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env == "development"))
	router.Use(custommiddleware.LoggingMiddleware(logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Initialize repositories
	productRepo := repository.NewProductRepository(st)
	userRepo := repository.NewUserRepository(st)
	cartRepo := repository.NewCartRepository(st)
	orderRepo := repository.NewOrderRepository(st)
	sessionRepo := repository.NewSessionRepository(st)
	reviewRepo := repository.NewReviewRepository(st)
	prefRepo := repository.NewPreferenceRepository(st)

	// Initialize services
	catalogService := service.NewCatalogService(productRepo, idNode)
	cartService := service.NewCartService(cartRepo, productRepo)
	authService := service.NewAuthService(userRepo, sessionRepo)
	checkoutService := service.NewCheckoutService(authService, cartService, orderRepo)
	reviewService := service.NewReviewService(reviewRepo, productRepo)

	// Initialize handlers
	catalogHandler := transport.NewCatalogHandler(catalogService, reviewService, logger)
	cartHandler := transport.NewCartHandler(cartService, catalogService, logger)
	authHandler := transport.NewAuthHandler(authService, logger)
	checkoutHandler := transport.NewCheckoutHandler(checkoutService, logger)
	adminHandler := transport.NewAdminHandler(catalogService, productRepo, userRepo, orderRepo, logger)
	preferenceHandler := transport.NewPreferenceHandler(prefRepo, logger)

	// Create auth middleware
	requireSession := custommiddleware.RequireSession(authService, logger)
	requireAdmin := custommiddleware.RequireAdmin(logger)

	var rateLimiter func(http.Handler) http.Handler
	if redisClient != nil {
		rateLimiter = custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: 20,
			Window:            time.Minute,
			KeyPrefix:         "ratelimit:auth",
		}, logger)
	}

	// Register routes
	catalogHandler.RegisterRoutes(router)
	cartHandler.RegisterRoutes(router)
	authHandler.RegisterRoutes(router, rateLimiter)
	checkoutHandler.RegisterRoutes(router, requireSession)
	adminHandler.RegisterRoutes(router, requireSession, requireAdmin)
	preferenceHandler.RegisterRoutes(router)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		store:  st,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// Close document store
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error("Failed to close document store", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
