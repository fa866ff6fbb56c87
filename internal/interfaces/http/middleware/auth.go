package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vidbrief/internal/domain/services"
)

// Context keys populated by JWTAuth for downstream handlers.
const (
	ContextUserID   = "user_id"
	ContextUserPlan = "user_plan"
	ContextEmail    = "user_email"
)

func JWTAuth(jwtService services.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Authorization required",
				"message": "Please provide a valid bearer token in the authorization header",
			})
			c.Abort()
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid authorization header format",
				"message": "Use: Authorization: Bearer <your-jwt-token>",
			})
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(tokenParts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserPlan, claims.Plan)
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}
