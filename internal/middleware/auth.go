package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"salon-booking-api/internal/auth"
)

const ClaimsKey = "worker"

// WorkerAuth guards staff endpoints. Expects "Authorization: Bearer <jwt>"
// and attaches the parsed claims to the request context.
func WorkerAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := ""
		if h := c.GetHeader("Authorization"); h != "" {
			raw = strings.TrimPrefix(h, "Bearer ")
		}
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
			return
		}

		claims, err := auth.ParseToken(raw, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// Worker returns the authenticated worker's claims. Only valid behind
// WorkerAuth.
func Worker(c *gin.Context) *auth.Claims {
	return c.MustGet(ClaimsKey).(*auth.Claims)
}
