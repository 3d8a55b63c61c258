package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TokenClaims is what a validated token asserts about the caller.
type TokenClaims struct {
	UserID      uuid.UUID
	IsSuperuser bool
}

// TokenValidator validates JWT tokens.
type TokenValidator interface {
	ValidateToken(token string) (*TokenClaims, error)
}

const (
	ContextUserID    = "user_id"
	ContextSuperuser = "is_superuser"
)

// AuthMiddleware rejects requests without a valid bearer token and stores
// the caller's identity on the context.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, validator)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid authorization header"})
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextSuperuser, claims.IsSuperuser)
		c.Next()
	}
}

// OptionalAuthMiddleware stores the caller's identity when a valid token
// is presented but lets anonymous requests through. Read endpoints use it
// to decorate responses with per-user flags.
func OptionalAuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := bearerClaims(c, validator); ok {
			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextSuperuser, claims.IsSuperuser)
		}
		c.Next()
	}
}

func bearerClaims(c *gin.Context, validator TokenValidator) (*TokenClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := validator.ValidateToken(parts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}
