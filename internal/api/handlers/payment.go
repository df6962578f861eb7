package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pubgarena/backend/internal/config"
	"github.com/pubgarena/backend/internal/payment"
	"github.com/pubgarena/backend/internal/users"
	"github.com/redis/go-redis/v9"
)

// CreatePayment creates a hosted gateway invoice for a balance top-up
func CreatePayment(store *users.Store, rdb *redis.Client, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			AmountUSD   float64 `json:"amountUsd"`
			PayCurrency string  `json:"payCurrency"`
			PubgID      string  `json:"pubg_id"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}

		req.PubgID = strings.TrimSpace(req.PubgID)
		if req.AmountUSD <= 0 || req.PayCurrency == "" || req.PubgID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amountUsd, payCurrency and pubg_id required"})
			return
		}

		exists, err := store.Exists(req.PubgID)
		if err != nil {
			respondError(c, err)
			return
		}
		if !exists {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		ctx := c.Request.Context()

		// Rate limit invoice creation per user
		if rdb != nil && cfg.PaymentRateLimitSecs > 0 {
			key := fmt.Sprintf("payment_rate:%s", req.PubgID)
			ok, err := rdb.SetNX(ctx, key, "1", time.Duration(cfg.PaymentRateLimitSecs)*time.Second).Result()
			if err == nil && !ok {
				c.JSON(http.StatusTooManyRequests, gin.H{"error": "payment rate limit exceeded"})
				return
			}
		}

		if payment.Default == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "payments not configured"})
			return
		}

		invoice, err := payment.Default.CreateInvoice(ctx, req.PubgID, req.AmountUSD, req.PayCurrency)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create payment"})
			return
		}

		c.JSON(http.StatusOK, invoice)
	}
}
