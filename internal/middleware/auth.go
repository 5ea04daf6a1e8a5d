package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"loanlens/internal/domain"
	"loanlens/internal/service"
)

const (
	ContextKeyOfficerID = "officer_id"
	ContextKeyEmail     = "email"
	ContextKeyRole      = "role"
	ContextKeyClaims    = "claims"
)

func abortJSON(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   gin.H{"code": code, "message": msg},
	})
}

// AuthMiddleware validates the bearer access token and injects the officer
// into the request context.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abortJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid authorization header")
			return
		}

		claims, err := authService.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			abortJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
			return
		}

		c.Set(ContextKeyOfficerID, claims.OfficerID)
		c.Set(ContextKeyEmail, claims.Email)
		c.Set(ContextKeyRole, string(claims.Role))
		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// RequireRole rejects officers whose role is not listed.
func RequireRole(roles ...domain.OfficerRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetRole(c)
		if role == "" {
			abortJSON(c, http.StatusForbidden, "FORBIDDEN", "role not found in context")
			return
		}
		for _, r := range roles {
			if domain.OfficerRole(role) == r {
				c.Next()
				return
			}
		}
		abortJSON(c, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
	}
}

// GetOfficerID extracts the authenticated officer's ID from the Gin context.
func GetOfficerID(c *gin.Context) (uuid.UUID, error) {
	val, exists := c.Get(ContextKeyOfficerID)
	if !exists {
		return uuid.Nil, domain.ErrUnauthorized
	}
	id, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return id, nil
}

// GetRole extracts the officer role string from the Gin context.
func GetRole(c *gin.Context) string {
	val, exists := c.Get(ContextKeyRole)
	if !exists {
		return ""
	}
	s, _ := val.(string)
	return s
}
