package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agencyhub/backend/internal/domain/identity"
	"github.com/agencyhub/backend/internal/interfaces/http/dto"
)

// RequirePermission allows the request only when the authenticated user's
// role grants the given permission.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetJWTRole(c)
		if role == "" {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if !identity.RoleHasPermission(identity.Role(role), permission) {
			handlePermissionDenied(c)
			return
		}
		c.Next()
	}
}

// RequireAnyPermission allows the request when the role grants at least one
// of the given permissions.
func RequireAnyPermission(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetJWTRole(c)
		if role == "" {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		for _, permission := range permissions {
			if identity.RoleHasPermission(identity.Role(role), permission) {
				c.Next()
				return
			}
		}
		handlePermissionDenied(c)
	}
}

func handlePermissionDenied(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden, "Access denied: insufficient permissions", GetRequestID(c)))
}
