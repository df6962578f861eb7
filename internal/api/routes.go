package api

import (
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/pubgarena/backend/internal/api/handlers"
	"github.com/pubgarena/backend/internal/config"
	"github.com/pubgarena/backend/internal/middleware"
	"github.com/pubgarena/backend/internal/payment"
	"github.com/pubgarena/backend/internal/tournament"
	"github.com/pubgarena/backend/internal/users"
	"github.com/redis/go-redis/v9"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *sqlx.DB, rdb *redis.Client, cfg *config.Config,
	userStore *users.Store, allocator *tournament.Allocator, ingestor *payment.Ingestor) {

	router.Use(middleware.CORS(cfg))

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)

		// Player-facing endpoints
		v1.POST("/register", handlers.Register(userStore))
		v1.POST("/login", handlers.Login(userStore))
		v1.GET("/players", handlers.GetPlayers(db))
		v1.GET("/user", handlers.GetUser(userStore))
		v1.POST("/current", handlers.GetCurrentTournament(db))

		// Tournaments
		v1.GET("/tournaments", handlers.GetTournaments(db, rdb, cfg))
		v1.POST("/join", handlers.JoinTournament(allocator))
		v1.GET("/tournaments/:id/ws", handlers.TournamentFeed())

		// Payments
		v1.POST("/payment/create", handlers.CreatePayment(userStore, rdb, cfg))
		v1.POST("/payment/callback", handlers.PaymentWebhook(ingestor))

		// Admin
		v1.POST("/admin/login", handlers.AdminLogin(db, cfg))

		adminGroup := v1.Group("/admin")
		adminGroup.Use(handlers.AdminAuthMiddleware(cfg))
		{
			adminGroup.POST("/create", handlers.CreateTournament(db, rdb))
			adminGroup.DELETE("/delete/:id", handlers.DeleteTournament(db, rdb))
			adminGroup.POST("/send_lobby", handlers.SendLobby(db))
			adminGroup.POST("/topup", handlers.TopUp(db))
			adminGroup.POST("/block", handlers.BlockUser(db, userStore, cfg))
			adminGroup.POST("/archive", handlers.ArchiveParticipants(db, rdb, cfg))
			adminGroup.GET("/find_seat/:pubg_id", handlers.FindSeat(db))
		}
	}
}
