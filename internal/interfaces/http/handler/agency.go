package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/agencyhub/backend/internal/application/identity"
	"github.com/agencyhub/backend/internal/domain/identity"
	"github.com/agencyhub/backend/internal/interfaces/http/middleware"
)

// AgencyHandler serves the authenticated agency's profile endpoints
type AgencyHandler struct {
	BaseHandler
	agencies *identityapp.AgencyService
}

func NewAgencyHandler(agencies *identityapp.AgencyService) *AgencyHandler {
	return &AgencyHandler{agencies: agencies}
}

func (h *AgencyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	agency := rg.Group("/agency")
	agency.GET("", middleware.RequirePermission(identity.PermAgencyRead), h.Get)
	agency.PUT("", middleware.RequirePermission(identity.PermAgencyWrite), h.Update)
	agency.GET("/stats", middleware.RequirePermission(identity.PermAgencyRead), h.Stats)
}

// Get returns the caller's agency profile
func (h *AgencyHandler) Get(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}

	agency, err := h.agencies.GetAgency(c.Request.Context(), agencyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, agency)
}

// Update updates the agency profile
func (h *AgencyHandler) Update(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var input identityapp.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}
	input.ActorID = userID
	input.RequestIP = c.ClientIP()

	agency, err := h.agencies.UpdateProfile(c.Request.Context(), agencyID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, agency)
}

// Stats returns entity counts for the agency dashboard
func (h *AgencyHandler) Stats(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}

	stats, err := h.agencies.Stats(c.Request.Context(), agencyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
