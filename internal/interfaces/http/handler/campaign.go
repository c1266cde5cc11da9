package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	campaignapp "github.com/agencyhub/backend/internal/application/campaign"
	"github.com/agencyhub/backend/internal/domain/identity"
	"github.com/agencyhub/backend/internal/interfaces/http/middleware"
)

// CampaignHandler serves campaign management endpoints
type CampaignHandler struct {
	BaseHandler
	campaigns *campaignapp.CampaignService
	posts     *campaignapp.PostService
}

func NewCampaignHandler(campaigns *campaignapp.CampaignService, posts *campaignapp.PostService) *CampaignHandler {
	return &CampaignHandler{campaigns: campaigns, posts: posts}
}

func (h *CampaignHandler) RegisterRoutes(rg *gin.RouterGroup) {
	campaigns := rg.Group("/campaigns")
	campaigns.GET("", middleware.RequirePermission(identity.PermCampaignsRead), h.List)
	campaigns.GET("/overlapping", middleware.RequirePermission(identity.PermCampaignsRead), h.Overlapping)
	campaigns.POST("", middleware.RequirePermission(identity.PermCampaignsWrite), h.Create)
	campaigns.GET("/:id", middleware.RequirePermission(identity.PermCampaignsRead), h.Get)
	campaigns.PUT("/:id", middleware.RequirePermission(identity.PermCampaignsWrite), h.Update)
	campaigns.POST("/:id/activate", middleware.RequirePermission(identity.PermCampaignsWrite), h.Activate)
	campaigns.POST("/:id/pause", middleware.RequirePermission(identity.PermCampaignsWrite), h.Pause)
	campaigns.POST("/:id/complete", middleware.RequirePermission(identity.PermCampaignsWrite), h.Complete)
	campaigns.POST("/:id/archive", middleware.RequirePermission(identity.PermCampaignsWrite), h.Archive)
	campaigns.DELETE("/:id", middleware.RequirePermission(identity.PermCampaignsWrite), h.Delete)
	campaigns.GET("/:id/posts", middleware.RequirePermission(identity.PermPostsRead), h.Posts)
}

// Create creates a draft campaign for an active client
func (h *CampaignHandler) Create(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	actorID, ok := h.userID(c)
	if !ok {
		return
	}

	var input campaignapp.CreateCampaignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}
	input.CreatedBy = actorID
	input.RequestIP = c.ClientIP()

	camp, err := h.campaigns.CreateCampaign(c.Request.Context(), agencyID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, camp)
}

// List returns the agency's campaigns
func (h *CampaignHandler) List(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	filter, ok := h.bindList(c)
	if !ok {
		return
	}

	page, err := h.campaigns.ListCampaigns(c.Request.Context(), agencyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

type dateRangeRequest struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To   time.Time `form:"to" binding:"required" time_format:"2006-01-02"`
}

// Overlapping returns campaigns whose window intersects a date range
func (h *CampaignHandler) Overlapping(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}

	var req dateRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	filter, ok := h.bindList(c)
	if !ok {
		return
	}

	campaigns, err := h.campaigns.ListOverlapping(c.Request.Context(), agencyID, req.From, req.To, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, campaigns)
}

// Get returns a single campaign
func (h *CampaignHandler) Get(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	campaignID, ok := h.bindID(c)
	if !ok {
		return
	}

	camp, err := h.campaigns.GetCampaign(c.Request.Context(), agencyID, campaignID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, camp)
}

// Update updates a draft or paused campaign
func (h *CampaignHandler) Update(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	actorID, ok := h.userID(c)
	if !ok {
		return
	}
	campaignID, ok := h.bindID(c)
	if !ok {
		return
	}

	var input campaignapp.UpdateCampaignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}
	input.ActorID = actorID
	input.RequestIP = c.ClientIP()

	camp, err := h.campaigns.UpdateCampaign(c.Request.Context(), agencyID, campaignID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, camp)
}

func (h *CampaignHandler) Activate(c *gin.Context) { h.transition(c, h.campaigns.Activate) }
func (h *CampaignHandler) Pause(c *gin.Context)    { h.transition(c, h.campaigns.Pause) }
func (h *CampaignHandler) Complete(c *gin.Context) { h.transition(c, h.campaigns.Complete) }
func (h *CampaignHandler) Archive(c *gin.Context)  { h.transition(c, h.campaigns.Archive) }

// Delete removes a draft campaign
func (h *CampaignHandler) Delete(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	actorID, ok := h.userID(c)
	if !ok {
		return
	}
	campaignID, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.campaigns.DeleteCampaign(c.Request.Context(), agencyID, actorID, campaignID, c.ClientIP()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Posts returns the campaign's posts
func (h *CampaignHandler) Posts(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	campaignID, ok := h.bindID(c)
	if !ok {
		return
	}
	filter, ok := h.bindList(c)
	if !ok {
		return
	}

	posts, err := h.posts.ListByCampaign(c.Request.Context(), agencyID, campaignID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, posts)
}

func (h *CampaignHandler) transition(c *gin.Context, op func(ctx context.Context, agencyID, actorID, campaignID uuid.UUID) (*campaignapp.CampaignDTO, error)) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	actorID, ok := h.userID(c)
	if !ok {
		return
	}
	campaignID, ok := h.bindID(c)
	if !ok {
		return
	}

	camp, err := op(c.Request.Context(), agencyID, actorID, campaignID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, camp)
}
