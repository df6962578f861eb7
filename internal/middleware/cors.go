package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/pubgarena/backend/internal/config"
)

// CORS returns a permissive CORS middleware for browser clients.
func CORS(cfg *config.Config) gin.HandlerFunc {
	origin := "*"
	if cfg.Environment == "production" && cfg.FrontendURL != "" {
		origin = cfg.FrontendURL
	}

	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
