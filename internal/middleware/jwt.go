package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eduhubvn/moderation-api/internal/models"
	appErrors "github.com/eduhubvn/moderation-api/pkg/errors"
	"github.com/eduhubvn/moderation-api/pkg/response"
)

// ClaimsKey is the gin context key holding the validated token claims.
const ClaimsKey = "claims"

type tokenValidator interface {
	ValidateToken(tokenString string) (*models.JWTClaims, error)
}

// JWT validates the bearer token and stores the claims on the context.
func JWT(tokens tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireApprover rejects callers whose token lacks the approve capability.
// The flag is minted by the main backend; this service only enforces it.
func RequireApprover() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if !claims.CanApprove {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "account is not allowed to decide revision requests"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// Claims returns the validated claims stored by the JWT middleware.
func Claims(c *gin.Context) (*models.JWTClaims, bool) {
	value, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.JWTClaims)
	return claims, ok
}
