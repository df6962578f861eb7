package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/pubgarena/backend/internal/config"
	"github.com/pubgarena/backend/internal/tournament"
	"github.com/pubgarena/backend/internal/ws"
	"github.com/redis/go-redis/v9"
)

// GetTournaments lists all tournaments with participant counts
func GetTournaments(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ttl := time.Duration(cfg.TournamentCacheTTLSec) * time.Second
		entries, err := tournament.List(c.Request.Context(), db, rdb, ttl)
		if err != nil {
			log.Printf("[TOURNAMENT] Failed to fetch tournaments: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.JSON(http.StatusOK, entries)
	}
}

// JoinTournament assigns a seat and debits the entry fee
func JoinTournament(allocator *tournament.Allocator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			PubgID       string `json:"pubg_id"`
			TournamentID int    `json:"tournament_id"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}

		req.PubgID = strings.TrimSpace(req.PubgID)
		if req.PubgID == "" || req.TournamentID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "pubg_id and tournament_id required"})
			return
		}

		result, err := allocator.Join(c.Request.Context(), req.PubgID, req.TournamentID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "seat": result.Seat})
	}
}

// TournamentFeed upgrades to a websocket streaming participant events for one
// tournament
func TournamentFeed() gin.HandlerFunc {
	return func(c *gin.Context) {
		tournamentID, err := strconv.Atoi(c.Param("id"))
		if err != nil || tournamentID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tournament id"})
			return
		}

		if err := ws.FeedHub.Serve(c.Writer, c.Request, tournamentID); err != nil {
			log.Printf("[WS] Upgrade failed: %v", err)
		}
	}
}
