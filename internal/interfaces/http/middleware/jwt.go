package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agencyhub/backend/internal/infrastructure/auth"
	"github.com/agencyhub/backend/internal/interfaces/http/dto"
)

// Context keys set by the JWT middleware
const (
	JWTClaimsKey   = "jwt_claims"
	JWTUserIDKey   = "jwt_user_id"
	JWTAgencyIDKey = "jwt_agency_id"
	JWTRoleKey     = "jwt_role"
	JWTEmailKey    = "jwt_email"
)

// ClaimsVerifier performs post-signature checks on access claims,
// such as blacklist lookups after logout or a password change.
type ClaimsVerifier interface {
	VerifyAccessClaims(ctx context.Context, claims *auth.Claims) error
}

// JWTMiddlewareConfig configures the JWT auth middleware
type JWTMiddlewareConfig struct {
	JWTService       *auth.JWTService
	Verifier         ClaimsVerifier
	SkipPaths        []string
	SkipPathPrefixes []string
	Logger           *zap.Logger
}

// JWTAuthMiddleware validates the Bearer token and stores the claims in the
// request context. Requests matching a skip path pass through untouched.
func JWTAuthMiddleware(config JWTMiddlewareConfig) gin.HandlerFunc {
	skip := make(map[string]bool, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if skip[path] {
			c.Next()
			return
		}
		for _, prefix := range config.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		token, ok := extractBearerToken(c)
		if !ok {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Missing or malformed authorization header")
			return
		}

		claims, err := config.JWTService.ValidateAccessToken(token)
		if err != nil {
			handleAuthError(c, err)
			return
		}

		if config.Verifier != nil {
			if err := config.Verifier.VerifyAccessClaims(c.Request.Context(), claims); err != nil {
				handleAuthError(c, err)
				return
			}
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTAgencyIDKey, claims.AgencyID)
		c.Set(JWTRoleKey, claims.Role)
		c.Set(JWTEmailKey, claims.Email)
		c.Next()
	}
}

func extractBearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func handleAuthError(c *gin.Context, err error) {
	code := dto.ErrCodeInvalidToken
	message := "Invalid token"

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code = dto.ErrCodeTokenExpired
		message = "Token has expired"
	case errors.Is(err, auth.ErrInvalidTokenType):
		code = dto.ErrCodeInvalidTokenType
		message = "Invalid token type"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		code = dto.ErrCodeTokenNotValid
		message = "Token is not yet valid"
	case errors.Is(err, auth.ErrTokenBlacklisted):
		code = dto.ErrCodeTokenRevoked
		message = "Token has been revoked"
	}

	abortUnauthorized(c, code, message)
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

// GetJWTClaims returns the validated claims from the request context
func GetJWTClaims(c *gin.Context) (*auth.Claims, bool) {
	value, exists := c.Get(JWTClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}

// GetJWTUserID returns the authenticated user's ID
func GetJWTUserID(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(c.GetString(JWTUserIDKey))
}

// GetJWTAgencyID returns the authenticated user's agency ID
func GetJWTAgencyID(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(c.GetString(JWTAgencyIDKey))
}

// GetJWTRole returns the authenticated user's role
func GetJWTRole(c *gin.Context) string {
	return c.GetString(JWTRoleKey)
}
