package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/pubgarena/backend/internal/tournament"
	"github.com/pubgarena/backend/internal/users"
)

// GetPlayers returns all current tournament participants
func GetPlayers(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		participants, err := tournament.ListParticipants(db)
		if err != nil {
			log.Printf("[PLAYERS] Failed to fetch participants: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		players := make([]gin.H, 0, len(participants))
		for _, p := range participants {
			players = append(players, gin.H{
				"id":       p.PubgID,
				"slot":     p.Seat,
				"nickname": p.Nickname,
			})
		}

		c.JSON(http.StatusOK, players)
	}
}

// GetUser returns the profile for a single user
func GetUser(store *users.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		pubgID := strings.TrimSpace(c.Query("pubg_id"))
		if pubgID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "pubg_id required"})
			return
		}

		user, err := store.Get(pubgID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

// GetCurrentTournament returns the latest tournament a user has joined,
// including the seat and room credentials once distributed
func GetCurrentTournament(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			PubgID string `json:"pubg_id"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}

		entry, err := tournament.CurrentForUser(db, strings.TrimSpace(req.PubgID))
		if err != nil {
			respondError(c, err)
			return
		}
		if entry == nil {
			c.JSON(http.StatusOK, nil)
			return
		}

		c.JSON(http.StatusOK, entry)
	}
}

// FindSeat returns the seat currently held by a user
func FindSeat(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		pubgID := c.Param("pubg_id")

		seat, err := tournament.FindSeat(db, pubgID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"seat": seat})
	}
}
