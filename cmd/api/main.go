// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/your-org/shopease-cart/internal/config"
	"github.com/your-org/shopease-cart/internal/domain/cart"
	"github.com/your-org/shopease-cart/internal/domain/catalog"
	"github.com/your-org/shopease-cart/internal/infrastructure/database/postgres"
	"github.com/your-org/shopease-cart/internal/infrastructure/database/redis"
	httpserver "github.com/your-org/shopease-cart/internal/interfaces/http"
	"github.com/your-org/shopease-cart/internal/interfaces/http/handlers"
	"github.com/your-org/shopease-cart/internal/pkg/auth"
	"github.com/your-org/shopease-cart/internal/pkg/logger"
	"github.com/your-org/shopease-cart/internal/pkg/notify"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog := logger.New(cfg)
	appLog.Infof("Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	// Connect to database
	db, err := postgres.NewConnection(cfg)
	if err != nil {
		appLog.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis
	redisClient, err := redis.NewConnection(cfg)
	if err != nil {
		appLog.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Health checks
	if err := db.Health(); err != nil {
		appLog.Fatalf("Database health check failed: %v", err)
	}
	if err := redisClient.Health(); err != nil {
		appLog.Fatalf("Redis health check failed: %v", err)
	}

	// Run database migrations
	migration := postgres.NewMigration(db.GetDB(), appLog)
	if err := migration.RunAutoMigrations(); err != nil {
		appLog.Fatalf("Database migration failed: %v", err)
	}
	if err := migration.CreateIndexes(); err != nil {
		appLog.Warnf("Index creation failed: %v", err)
	}

	// Seed initial data in development
	if cfg.IsDevelopment() {
		if err := migration.SeedInitialData(); err != nil {
			appLog.Warnf("Data seeding failed: %v", err)
		}
	}

	// Composition root: pick the cart persistence substrate, wire the store
	var cartRepo cart.Repository
	switch cfg.Cart.Backend {
	case "postgres":
		cartRepo = cart.NewGormRepository(db.GetDB(), appLog)
	default:
		cartRepo = cart.NewRedisRepository(redisClient.GetClient(), cfg.Cart.KeyPrefix, cfg.Cart.TTL, appLog)
	}
	appLog.Infof("Cart persistence backend: %s", cfg.Cart.Backend)

	sink := notify.Fanout{notify.NewLogSink(appLog)}
	store := cart.NewStore(cartRepo, sink, cfg, appLog)
	catalogService := catalog.NewService(db.GetDB())
	sessions := auth.NewSessionManager(cfg)

	cartHandler := handlers.NewCartHandler(store, catalogService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)

	// Create and start HTTP server
	server := httpserver.NewServer(cfg, appLog, db.GetDB(), redisClient.GetClient(), cartHandler, catalogHandler, sessions)

	go func() {
		if err := server.Start(); err != nil {
			appLog.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLog.Info("Shutting down gracefully")

	// Give server 30 seconds to shutdown gracefully
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		appLog.Errorf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	appLog.Info("Server shutdown completed")
}
