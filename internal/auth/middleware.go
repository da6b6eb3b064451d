package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/notSure-ded/healthCare/pkg/types"
)

const callerContextKey = "caller"

// Middleware returns a gin middleware that validates the bearer token and
// stores the caller identity in the request context
func Middleware(tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header || tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Bearer token required",
			})
			c.Abort()
			return
		}

		claims, err := tokens.ValidateAccessToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid token",
			})
			c.Abort()
			return
		}

		if !claims.IsActive {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Account is inactive",
			})
			c.Abort()
			return
		}

		c.Set(callerContextKey, claims)
		c.Next()
	}
}

// CallerFromContext returns the authenticated caller stored by Middleware,
// or nil if the request is unauthenticated
func CallerFromContext(c *gin.Context) *types.UserClaims {
	if v, exists := c.Get(callerContextKey); exists {
		if claims, ok := v.(*types.UserClaims); ok {
			return claims
		}
	}
	return nil
}
