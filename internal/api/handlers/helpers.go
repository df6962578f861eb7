package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pubgarena/backend/internal/database"
	"github.com/pubgarena/backend/internal/ledger"
	"github.com/pubgarena/backend/internal/payment"
	"github.com/pubgarena/backend/internal/tournament"
	"github.com/pubgarena/backend/internal/users"
)

// respondError maps a domain error to its HTTP status and user-facing
// message. Internal storage details never leave the process.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, users.ErrNotFound), errors.Is(err, ledger.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, tournament.ErrTournamentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Tournament not found"})
	case errors.Is(err, tournament.ErrParticipantNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
	case errors.Is(err, tournament.ErrTournamentFull):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tournament full"})
	case errors.Is(err, tournament.ErrAlreadyJoined):
		c.JSON(http.StatusConflict, gin.H{"error": "Already joined this tournament"})
	case errors.Is(err, ledger.ErrInsufficientFunds):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Not enough balance"})
	case errors.Is(err, ledger.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
	case errors.Is(err, users.ErrDuplicateUser):
		c.JSON(http.StatusConflict, gin.H{"error": "User with this phone or pubg_id already exists"})
	case errors.Is(err, users.ErrBlocked):
		c.JSON(http.StatusForbidden, gin.H{"error": "User is blocked"})
	case errors.Is(err, users.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, payment.ErrBadPayload):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
	case database.IsTransient(err):
		// Nothing committed; the caller can safely retry.
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Temporarily unavailable, please retry"})
	default:
		log.Printf("[API] Internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
