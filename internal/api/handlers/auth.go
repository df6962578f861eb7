package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pubgarena/backend/internal/users"
)

// Register creates a new player account with a zero balance
func Register(store *users.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			PubgID   string `json:"pubg_id"`
			Nickname string `json:"nickname"`
			Phone    string `json:"phone"`
			Password string `json:"password"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}

		req.PubgID = strings.TrimSpace(req.PubgID)
		req.Phone = strings.TrimSpace(req.Phone)
		if req.PubgID == "" || req.Phone == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "pubg_id, phone and password required"})
			return
		}

		if err := store.Register(req.PubgID, req.Nickname, req.Phone, req.Password); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// Login verifies player credentials
func Login(store *users.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			PubgID   string `json:"pubg_id"`
			Password string `json:"password"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}

		user, err := store.Login(strings.TrimSpace(req.PubgID), req.Password)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
	}
}
