package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/agencyhub/backend/internal/application/identity"
	"github.com/agencyhub/backend/internal/domain/identity"
	"github.com/agencyhub/backend/internal/interfaces/http/middleware"
)

// APIKeyHandler serves bot API key management endpoints
type APIKeyHandler struct {
	BaseHandler
	keys *identityapp.APIKeyService
}

func NewAPIKeyHandler(keys *identityapp.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{keys: keys}
}

func (h *APIKeyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	keys := rg.Group("/api-keys", middleware.RequirePermission(identity.PermAPIKeysManage))
	keys.GET("", h.List)
	keys.POST("", h.Create)
	keys.DELETE("/:id", h.Revoke)
}

// Create issues an API key. The raw secret is returned only here.
func (h *APIKeyHandler) Create(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	actorID, ok := h.userID(c)
	if !ok {
		return
	}

	var input identityapp.CreateAPIKeyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}
	input.CreatedBy = actorID
	input.RequestIP = c.ClientIP()

	key, err := h.keys.CreateAPIKey(c.Request.Context(), agencyID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, key)
}

// List returns the agency's API keys
func (h *APIKeyHandler) List(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	filter, ok := h.bindList(c)
	if !ok {
		return
	}

	page, err := h.keys.ListAPIKeys(c.Request.Context(), agencyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Revoke permanently disables an API key
func (h *APIKeyHandler) Revoke(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	actorID, ok := h.userID(c)
	if !ok {
		return
	}
	keyID, ok := h.bindID(c)
	if !ok {
		return
	}

	key, err := h.keys.RevokeAPIKey(c.Request.Context(), agencyID, actorID, keyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, key)
}
