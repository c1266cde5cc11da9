package handler

import (
	"github.com/gin-gonic/gin"

	campaignapp "github.com/agencyhub/backend/internal/application/campaign"
	clientapp "github.com/agencyhub/backend/internal/application/client"
	socialapp "github.com/agencyhub/backend/internal/application/social"
	"github.com/agencyhub/backend/internal/domain/identity"
	"github.com/agencyhub/backend/internal/interfaces/http/middleware"
)

// ClientHandler serves client (brand) management endpoints
type ClientHandler struct {
	BaseHandler
	clients   *clientapp.Service
	campaigns *campaignapp.CampaignService
	accounts  *socialapp.AccountService
}

func NewClientHandler(clients *clientapp.Service, campaigns *campaignapp.CampaignService, accounts *socialapp.AccountService) *ClientHandler {
	return &ClientHandler{clients: clients, campaigns: campaigns, accounts: accounts}
}

func (h *ClientHandler) RegisterRoutes(rg *gin.RouterGroup) {
	clients := rg.Group("/clients")
	clients.GET("", middleware.RequirePermission(identity.PermClientsRead), h.List)
	clients.POST("", middleware.RequirePermission(identity.PermClientsWrite), h.Create)
	clients.GET("/:id", middleware.RequirePermission(identity.PermClientsRead), h.Get)
	clients.PUT("/:id", middleware.RequirePermission(identity.PermClientsWrite), h.Update)
	clients.POST("/:id/archive", middleware.RequirePermission(identity.PermClientsWrite), h.Archive)
	clients.POST("/:id/restore", middleware.RequirePermission(identity.PermClientsWrite), h.Restore)
	clients.DELETE("/:id", middleware.RequirePermission(identity.PermClientsWrite), h.Delete)
	clients.GET("/:id/campaigns", middleware.RequirePermission(identity.PermCampaignsRead), h.Campaigns)
	clients.GET("/:id/accounts", middleware.RequirePermission(identity.PermSocialRead), h.Accounts)
}

// Create adds a client, enforcing the plan's client limit
func (h *ClientHandler) Create(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	actorID, ok := h.userID(c)
	if !ok {
		return
	}

	var input clientapp.CreateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}
	input.CreatedBy = actorID
	input.RequestIP = c.ClientIP()

	client, err := h.clients.CreateClient(c.Request.Context(), agencyID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, client)
}

// List returns the agency's clients
func (h *ClientHandler) List(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	filter, ok := h.bindList(c)
	if !ok {
		return
	}

	page, err := h.clients.ListClients(c.Request.Context(), agencyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns a single client with its brand profile
func (h *ClientHandler) Get(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	clientID, ok := h.bindID(c)
	if !ok {
		return
	}

	client, err := h.clients.GetClient(c.Request.Context(), agencyID, clientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// Update updates a client's profile and brand guidance
func (h *ClientHandler) Update(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	actorID, ok := h.userID(c)
	if !ok {
		return
	}
	clientID, ok := h.bindID(c)
	if !ok {
		return
	}

	var input clientapp.UpdateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}
	input.ActorID = actorID
	input.RequestIP = c.ClientIP()

	client, err := h.clients.UpdateClient(c.Request.Context(), agencyID, clientID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// Archive hides a client from active work without deleting history
func (h *ClientHandler) Archive(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	actorID, ok := h.userID(c)
	if !ok {
		return
	}
	clientID, ok := h.bindID(c)
	if !ok {
		return
	}

	client, err := h.clients.ArchiveClient(c.Request.Context(), agencyID, actorID, clientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// Restore brings an archived client back into active work
func (h *ClientHandler) Restore(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	actorID, ok := h.userID(c)
	if !ok {
		return
	}
	clientID, ok := h.bindID(c)
	if !ok {
		return
	}

	client, err := h.clients.RestoreClient(c.Request.Context(), agencyID, actorID, clientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// Delete removes a client that has no campaigns
func (h *ClientHandler) Delete(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	actorID, ok := h.userID(c)
	if !ok {
		return
	}
	clientID, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.clients.DeleteClient(c.Request.Context(), agencyID, actorID, clientID, c.ClientIP()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Campaigns returns the client's campaigns
func (h *ClientHandler) Campaigns(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	clientID, ok := h.bindID(c)
	if !ok {
		return
	}
	filter, ok := h.bindList(c)
	if !ok {
		return
	}

	campaigns, err := h.campaigns.ListByClient(c.Request.Context(), agencyID, clientID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, campaigns)
}

// Accounts returns the client's connected social accounts
func (h *ClientHandler) Accounts(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	clientID, ok := h.bindID(c)
	if !ok {
		return
	}
	filter, ok := h.bindList(c)
	if !ok {
		return
	}

	accounts, err := h.accounts.ListByClient(c.Request.Context(), agencyID, clientID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, accounts)
}
