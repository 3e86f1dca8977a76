package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"urban-thread/internal/config"
	"urban-thread/internal/database"
	"urban-thread/internal/logger"
	"urban-thread/internal/repository"
	"urban-thread/internal/seed"
	"urban-thread/internal/server"
	"urban-thread/internal/store"

	"github.com/bwmarrin/snowflake"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *server.Server, logger *zap.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The context is used to inform the server it has 30 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Close server resources
	if err := apiServer.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

// openStore constructs the document store named by STORE_BACKEND. The
// postgres backend also runs pending migrations.
func openStore(cfg *config.Config, log *zap.Logger) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return store.NewMemoryStore(), nil
	case config.BackendBolt:
		return store.NewBoltStore(cfg.Store.BoltPath)
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return store.NewRedisStore(client), nil
	case config.BackendPostgres:
		db, err := sql.Open("pgx", cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := db.Ping(); err != nil {
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		if err := database.RunMigrations(db, "migrations", log); err != nil {
			return nil, err
		}
		return store.NewPostgresStore(db), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func main() {
	// Load .env before viper reads the environment
	godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting storefront API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("store", cfg.Store.Backend),
	)

	// Open the document store
	st, err := openStore(cfg, log)
	if err != nil {
		log.Fatal("Failed to open document store", zap.Error(err))
	}

	// Snowflake node for admin-created product IDs
	idNode, err := snowflake.NewNode(1)
	if err != nil {
		log.Fatal("Failed to create snowflake node", zap.Error(err))
	}

	// Seed the catalog and the bootstrap admin account
	ctx := context.Background()
	if err := seed.EnsureProducts(ctx, repository.NewProductRepository(st), log); err != nil {
		log.Fatal("Failed to seed products", zap.Error(err))
	}
	if err := seed.EnsureAdmin(ctx, repository.NewUserRepository(st), cfg.Admin.Email, cfg.Admin.Password, log); err != nil {
		log.Fatal("Failed to seed admin account", zap.Error(err))
	}

	// Optional Redis client for auth rate limiting
	var redisClient *redis.Client
	if cfg.Store.Backend == config.BackendRedis || cfg.Redis.Host != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Warn("Redis unavailable, auth rate limiting disabled", zap.Error(err))
		} else {
			redisClient = client
		}
	}

	// Create server
	srv := server.NewServer(cfg, log, st, redisClient, idNode)

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(srv, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Info("Graceful shutdown complete")
}
