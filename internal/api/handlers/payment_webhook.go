package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pubgarena/backend/internal/database"
	"github.com/pubgarena/backend/internal/payment"
)

// PaymentWebhook handles gateway IPN callbacks. Response codes follow the
// gateway's retry contract: 2xx/4xx acknowledge the delivery (the input can
// never be processed, retrying is pointless), 5xx asks the gateway to retry
// later because nothing was committed.
func PaymentWebhook(ingestor *payment.Ingestor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload payment.CallbackPayload
		if err := c.BindJSON(&payload); err != nil {
			log.Printf("[WEBHOOK] Invalid payload: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}

		log.Printf("[WEBHOOK] Callback: order_id=%s status=%s amount=%v",
			payload.OrderID, payload.PaymentStatus, float64(payload.PriceAmount))

		outcome, err := ingestor.HandleCallback(c.Request.Context(), &payload)
		if err != nil {
			switch {
			case errors.Is(err, payment.ErrBadPayload):
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			case errors.Is(err, payment.ErrUserUnknown):
				// Permanent failure: a 404 will not trigger a retry storm,
				// and the reference stays unconsumed.
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			case database.IsTransient(err):
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "temporarily unavailable"})
			default:
				log.Printf("[WEBHOOK] Processing failed: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			}
			return
		}

		if outcome.Duplicate {
			c.JSON(http.StatusOK, gin.H{"message": "already processed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "webhook processed"})
	}
}
