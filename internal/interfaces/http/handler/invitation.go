package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/agencyhub/backend/internal/application/identity"
	"github.com/agencyhub/backend/internal/domain/identity"
	"github.com/agencyhub/backend/internal/interfaces/http/middleware"
)

// InvitationHandler serves team invitation endpoints
type InvitationHandler struct {
	BaseHandler
	invitations *identityapp.InvitationService
}

func NewInvitationHandler(invitations *identityapp.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitations: invitations}
}

func (h *InvitationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invites := rg.Group("/invitations")
	invites.GET("", middleware.RequirePermission(identity.PermUsersRead), h.List)
	invites.POST("", middleware.RequirePermission(identity.PermInvitesWrite), h.Create)
	invites.DELETE("/:id", middleware.RequirePermission(identity.PermInvitesWrite), h.Revoke)
	// Accept is public: the caller has a token but no account yet
	invites.POST("/accept", h.Accept)
}

// Create issues an invitation. The raw token is returned only here.
func (h *InvitationHandler) Create(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	actorID, ok := h.userID(c)
	if !ok {
		return
	}

	var input identityapp.CreateInvitationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}
	input.InvitedBy = actorID
	input.RequestIP = c.ClientIP()

	invitation, err := h.invitations.CreateInvitation(c.Request.Context(), agencyID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invitation)
}

// List returns the agency's invitations
func (h *InvitationHandler) List(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	filter, ok := h.bindList(c)
	if !ok {
		return
	}

	page, err := h.invitations.ListInvitations(c.Request.Context(), agencyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Revoke cancels a pending invitation
func (h *InvitationHandler) Revoke(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	actorID, ok := h.userID(c)
	if !ok {
		return
	}
	invitationID, ok := h.bindID(c)
	if !ok {
		return
	}

	invitation, err := h.invitations.RevokeInvitation(c.Request.Context(), agencyID, actorID, invitationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invitation)
}

// Accept redeems an invite token, creating the account and signing in
func (h *InvitationHandler) Accept(c *gin.Context) {
	var input identityapp.AcceptInvitationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}
	input.RequestIP = c.ClientIP()

	result, err := h.invitations.AcceptInvitation(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}
