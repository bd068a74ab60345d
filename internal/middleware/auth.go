package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"smartclinic-server/internal/models"
	"smartclinic-server/internal/services"
	"smartclinic-server/internal/utils"
)

const (
	sessionKey = "session"
	userIDKey  = "userID"
	roleKey    = "userRole"
)

// SessionResolver turns a bearer token into an authenticated session.
type SessionResolver interface {
	ResolveToken(ctx context.Context, token string) (*services.Session, error)
}

// AuthMiddleware creates a middleware for bearer token authentication.
func AuthMiddleware(auth SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Unauthorized(c, "Not authenticated")
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			utils.Unauthorized(c, "Invalid authorization header format")
			return
		}

		session, err := auth.ResolveToken(c.Request.Context(), parts[1])
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}

		c.Set(sessionKey, session)
		c.Set(userIDKey, session.User.ID)
		c.Set(roleKey, session.User.Role)

		c.Next()
	}
}

// RoleAuthMiddleware creates a middleware for role-based authorization.
// It should be used *after* AuthMiddleware.
func RoleAuthMiddleware(allowedRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetUserRoleFromContext(c)
		if !ok {
			utils.InternalServerError(c, "User role not found in context. AuthMiddleware might be missing.")
			return
		}

		for _, allowedRole := range allowedRoles {
			if role == allowedRole {
				c.Next()
				return
			}
		}

		c.Error(services.ErrForbidden)
		c.Abort()
	}
}

// GetSessionFromContext returns the session stored by AuthMiddleware.
func GetSessionFromContext(c *gin.Context) (*services.Session, bool) {
	value, exists := c.Get(sessionKey)
	if !exists {
		return nil, false
	}
	session, ok := value.(*services.Session)
	return session, ok
}

// Helper function to get user ID from context
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return "", false
	}
	idStr, ok := userID.(string)
	return idStr, ok
}

// Helper function to get user role from context
func GetUserRoleFromContext(c *gin.Context) (models.Role, bool) {
	userRole, exists := c.Get(roleKey)
	if !exists {
		return "", false
	}
	role, ok := userRole.(models.Role)
	return role, ok
}
