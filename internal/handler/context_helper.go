package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/eduhubvn/moderation-api/internal/middleware"
	"github.com/eduhubvn/moderation-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ClaimsKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}
