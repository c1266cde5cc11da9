package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/agencyhub/backend/internal/application/identity"
	"github.com/agencyhub/backend/internal/interfaces/http/dto"
)

// Context keys set by the API key middleware
const (
	APIKeyKey         = "api_key"
	APIKeyAgencyIDKey = "api_key_agency_id"
)

// APIKeyHeader is the header carrying the bot API key
const APIKeyHeader = "X-API-Key"

// APIKeyAuth authenticates bot requests with an agency API key. The key is
// read from the X-API-Key header, falling back to a Bearer token.
func APIKeyAuth(keys *identityapp.APIKeyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := c.GetHeader(APIKeyHeader)
		if secret == "" {
			secret, _ = extractBearerToken(c)
		}
		if secret == "" {
			abortUnauthorized(c, dto.ErrCodeInvalidAPIKey, "Missing API key")
			return
		}

		key, err := keys.AuthenticateAPIKey(c.Request.Context(), secret)
		if err != nil {
			abortUnauthorized(c, dto.ErrCodeInvalidAPIKey, "Invalid or revoked API key")
			return
		}

		c.Set(APIKeyKey, key)
		c.Set(APIKeyAgencyIDKey, key.AgencyID.String())
		c.Next()
	}
}

// RequireScope allows the request only when the API key grants the scope
func RequireScope(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := GetAPIKey(c)
		if !ok {
			abortUnauthorized(c, dto.ErrCodeInvalidAPIKey, "Missing API key")
			return
		}
		if !key.HasScope(scope) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeMissingScope, "API key does not grant scope: "+scope, GetRequestID(c)))
			return
		}
		c.Next()
	}
}

// GetAPIKey returns the authenticated API key from the request context
func GetAPIKey(c *gin.Context) (*identityapp.APIKeyDTO, bool) {
	value, exists := c.Get(APIKeyKey)
	if !exists {
		return nil, false
	}
	key, ok := value.(*identityapp.APIKeyDTO)
	return key, ok
}

// GetAPIKeyAgencyID returns the agency that owns the authenticated API key
func GetAPIKeyAgencyID(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(c.GetString(APIKeyAgencyIDKey))
}
