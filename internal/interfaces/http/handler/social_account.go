package handler

import (
	"github.com/gin-gonic/gin"

	socialapp "github.com/agencyhub/backend/internal/application/social"
	"github.com/agencyhub/backend/internal/domain/identity"
	"github.com/agencyhub/backend/internal/interfaces/http/middleware"
)

// SocialAccountHandler serves social account connection endpoints
type SocialAccountHandler struct {
	BaseHandler
	accounts *socialapp.AccountService
}

func NewSocialAccountHandler(accounts *socialapp.AccountService) *SocialAccountHandler {
	return &SocialAccountHandler{accounts: accounts}
}

func (h *SocialAccountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	accounts := rg.Group("/social-accounts")
	accounts.GET("", middleware.RequirePermission(identity.PermSocialRead), h.List)
	accounts.POST("", middleware.RequirePermission(identity.PermSocialWrite), h.Connect)
	accounts.GET("/:id", middleware.RequirePermission(identity.PermSocialRead), h.Get)
	accounts.POST("/:id/refresh", middleware.RequirePermission(identity.PermSocialWrite), h.Refresh)
	accounts.DELETE("/:id", middleware.RequirePermission(identity.PermSocialWrite), h.Disconnect)
}

// Connect links a platform account to a client
func (h *SocialAccountHandler) Connect(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	actorID, ok := h.userID(c)
	if !ok {
		return
	}

	var input socialapp.ConnectAccountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}
	input.ConnectedBy = actorID
	input.RequestIP = c.ClientIP()

	account, err := h.accounts.ConnectAccount(c.Request.Context(), agencyID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account)
}

// List returns the agency's connected accounts
func (h *SocialAccountHandler) List(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	filter, ok := h.bindList(c)
	if !ok {
		return
	}

	page, err := h.accounts.ListAccounts(c.Request.Context(), agencyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns a single connected account
func (h *SocialAccountHandler) Get(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	accountID, ok := h.bindID(c)
	if !ok {
		return
	}

	account, err := h.accounts.GetAccount(c.Request.Context(), agencyID, accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// Refresh exchanges the account's refresh token for fresh credentials
func (h *SocialAccountHandler) Refresh(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	actorID, ok := h.userID(c)
	if !ok {
		return
	}
	accountID, ok := h.bindID(c)
	if !ok {
		return
	}

	account, err := h.accounts.RefreshAccount(c.Request.Context(), agencyID, actorID, accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// Disconnect revokes the connection and wipes stored tokens
func (h *SocialAccountHandler) Disconnect(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	actorID, ok := h.userID(c)
	if !ok {
		return
	}
	accountID, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.accounts.DisconnectAccount(c.Request.Context(), agencyID, actorID, accountID, c.ClientIP()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
