package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/jmoiron/sqlx"
	"github.com/pubgarena/backend/internal/admin"
	"github.com/pubgarena/backend/internal/config"
	"github.com/pubgarena/backend/internal/database"
	"github.com/pubgarena/backend/internal/ledger"
	"github.com/pubgarena/backend/internal/tournament"
	"github.com/pubgarena/backend/internal/users"
	"github.com/redis/go-redis/v9"
)

// AdminLogin validates admin credentials and issues a session JWT
func AdminLogin(db *sqlx.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Username string `json:"username"`
			Token    string `json:"token"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and token required"})
			return
		}

		account, err := admin.ValidateAdminCredentials(db, strings.TrimSpace(req.Username), req.Token)
		if err != nil {
			admin.LogAdminAction(db, req.Username, c.ClientIP(), "/api/v1/admin/login", "login", nil, false)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		exp := time.Now().Add(time.Duration(cfg.SessionTimeoutMin) * time.Minute)
		claims := jwt.MapClaims{"admin_username": account.Username, "exp": exp.Unix()}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString([]byte(cfg.JWTSecret))
		if err != nil {
			log.Printf("[ADMIN] Failed to sign token: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		admin.LogAdminAction(db, account.Username, c.ClientIP(), "/api/v1/admin/login", "login", nil, true)
		c.JSON(http.StatusOK, gin.H{"token": signed, "admin": gin.H{"username": account.Username, "display_name": account.DisplayName}})
	}
}

// AdminAuthMiddleware validates bearer JWT and sets admin_username in context
func AdminAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		token := strings.TrimPrefix(auth, "Bearer ")

		parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !parsed.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, ok := parsed.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		username, ok := claims["admin_username"].(string)
		if !ok || username == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("admin_username", username)
		c.Next()
	}
}

// CreateTournament creates a new tournament
func CreateTournament(db *sqlx.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminUsername := c.GetString("admin_username")

		var req struct {
			Mode      string    `json:"mode"`
			EntryFee  float64   `json:"entry_fee"`
			PrizePool float64   `json:"prize_pool"`
			StartTime time.Time `json:"start_time"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		if req.EntryFee < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "entry_fee must be non-negative"})
			return
		}

		id, err := tournament.Create(db, req.Mode, req.EntryFee, req.PrizePool, req.StartTime)
		if err != nil {
			log.Printf("[ADMIN] Failed to create tournament: %v", err)
			admin.LogAdminAction(db, adminUsername, c.ClientIP(), "/api/v1/admin/create", "create_tournament", nil, false)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		tournament.InvalidateListCache(c.Request.Context(), rdb)
		admin.LogAdminAction(db, adminUsername, c.ClientIP(), "/api/v1/admin/create", "create_tournament", map[string]interface{}{"tournament_id": id, "mode": req.Mode}, true)
		c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
	}
}

// DeleteTournament removes a tournament and its participants
func DeleteTournament(db *sqlx.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminUsername := c.GetString("admin_username")

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tournament id"})
			return
		}

		if err := tournament.Delete(db, id); err != nil {
			respondError(c, err)
			return
		}

		tournament.InvalidateListCache(c.Request.Context(), rdb)
		admin.LogAdminAction(db, adminUsername, c.ClientIP(), "/api/v1/admin/delete", "delete_tournament", map[string]interface{}{"tournament_id": id}, true)
		c.JSON(http.StatusOK, gin.H{"message": "Tournament deleted"})
	}
}

// SendLobby distributes room credentials to all participants of a tournament
func SendLobby(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminUsername := c.GetString("admin_username")

		var req struct {
			TournamentID int    `json:"tournament_id"`
			RoomID       string `json:"room_id"`
			RoomPassword string `json:"room_password"`
		}
		if err := c.BindJSON(&req); err != nil || req.TournamentID <= 0 || req.RoomID == "" || req.RoomPassword == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "tournament_id, room_id and room_password required"})
			return
		}

		updated, err := tournament.SendLobby(db, req.TournamentID, req.RoomID, req.RoomPassword)
		if err != nil {
			log.Printf("[ADMIN] Failed to send lobby: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		admin.LogAdminAction(db, adminUsername, c.ClientIP(), "/api/v1/admin/send_lobby", "send_lobby", map[string]interface{}{"tournament_id": req.TournamentID, "updated": updated}, true)
		c.JSON(http.StatusOK, gin.H{"message": "Lobby credentials distributed", "updated": updated})
	}
}

// TopUp credits a user's balance. Trusted admin operation: no idempotency
// reference is attached.
func TopUp(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminUsername := c.GetString("admin_username")

		var req struct {
			PubgID string  `json:"pubg_id"`
			Amount float64 `json:"amount"`
		}
		if err := c.BindJSON(&req); err != nil || strings.TrimSpace(req.PubgID) == "" || req.Amount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "pubg_id and amount required"})
			return
		}

		balance, err := ledger.Credit(db, strings.TrimSpace(req.PubgID), req.Amount)
		if err != nil {
			respondError(c, err)
			return
		}

		admin.LogAdminAction(db, adminUsername, c.ClientIP(), "/api/v1/admin/topup", "topup", map[string]interface{}{"pubg_id": req.PubgID, "amount": req.Amount}, true)
		c.JSON(http.StatusOK, gin.H{"message": "Balance topped up", "balance": balance})
	}
}

// BlockUser terminally blocks an account
func BlockUser(db *sqlx.DB, store *users.Store, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminUsername := c.GetString("admin_username")

		var req struct {
			PubgID string `json:"pubg_id"`
		}
		if err := c.BindJSON(&req); err != nil || strings.TrimSpace(req.PubgID) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "pubg_id required"})
			return
		}

		opts := database.TxOptions{MaxRetries: cfg.TxMaxRetries, LockTimeoutMillis: cfg.LockTimeoutMillis}
		if err := store.Block(c.Request.Context(), strings.TrimSpace(req.PubgID), opts); err != nil {
			admin.LogAdminAction(db, adminUsername, c.ClientIP(), "/api/v1/admin/block", "block_user", map[string]interface{}{"pubg_id": req.PubgID}, false)
			respondError(c, err)
			return
		}

		admin.LogAdminAction(db, adminUsername, c.ClientIP(), "/api/v1/admin/block", "block_user", map[string]interface{}{"pubg_id": req.PubgID}, true)
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// ArchiveParticipants moves all live participants to the archive
func ArchiveParticipants(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminUsername := c.GetString("admin_username")

		moved, err := tournament.ArchiveAllParticipants(c.Request.Context(), db, rdb, cfg)
		if err != nil {
			admin.LogAdminAction(db, adminUsername, c.ClientIP(), "/api/v1/admin/archive", "archive_participants", nil, false)
			respondError(c, err)
			return
		}

		admin.LogAdminAction(db, adminUsername, c.ClientIP(), "/api/v1/admin/archive", "archive_participants", map[string]interface{}{"moved": moved}, true)
		c.JSON(http.StatusOK, gin.H{"message": "Participants archived", "moved": moved})
	}
}
