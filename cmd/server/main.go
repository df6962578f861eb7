package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/pubgarena/backend/internal/api"
	"github.com/pubgarena/backend/internal/auth"
	"github.com/pubgarena/backend/internal/config"
	"github.com/pubgarena/backend/internal/database"
	"github.com/pubgarena/backend/internal/migrations"
	"github.com/pubgarena/backend/internal/payment"
	"github.com/pubgarena/backend/internal/redis"
	"github.com/pubgarena/backend/internal/tournament"
	"github.com/pubgarena/backend/internal/users"
	"github.com/pubgarena/backend/internal/ws"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations on start if requested
	if os.Getenv("MIGRATE_ON_START") == "true" {
		log.Println("↗ Running DB migrations on startup...")
		if err := migrations.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Initialize Redis
	rdb, err := redis.Connect(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()

	// Initialize NOWPayments client (if configured)
	if cfg.NowPaymentsAPIKey != "" {
		paymentClient := payment.NewClient(cfg)
		if paymentClient != nil {
			payment.SetDefault(paymentClient)
			log.Printf("[PAYMENT] NOWPayments client initialized (base=%s)", cfg.NowPaymentsBaseURL)
		}
	} else {
		log.Printf("[PAYMENT] NOWPayments not configured - invoice creation disabled")
	}

	// Construct core components against the shared stores
	verifier := auth.NewVerifier(cfg.CredentialScheme)
	userStore := users.NewStore(db, verifier)
	allocator := tournament.NewAllocator(db, rdb, cfg)
	ingestor := payment.NewIngestor(db, cfg)

	// Start the live participant feed subscriber
	ws.StartEventSubscriber(context.Background(), rdb)

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Initialize API handlers
	api.SetupRoutes(router, db, rdb, cfg, userStore, allocator, ingestor)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting PUBG Arena server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
