package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	generationapp "github.com/agencyhub/backend/internal/application/generation"
	"github.com/agencyhub/backend/internal/domain/generation"
	"github.com/agencyhub/backend/internal/domain/identity"
	"github.com/agencyhub/backend/internal/interfaces/http/middleware"
)

// BotHandler serves the external bot API. Requests authenticate with an
// agency API key instead of a user session; the key's scopes gate access.
type BotHandler struct {
	BaseHandler
	jobs *generationapp.JobService
}

func NewBotHandler(jobs *generationapp.JobService) *BotHandler {
	return &BotHandler{jobs: jobs}
}

func (h *BotHandler) RegisterRoutes(rg *gin.RouterGroup) {
	jobs := rg.Group("/generation/jobs")
	jobs.POST("", middleware.RequireScope(identity.APIKeyScopeGenerate), h.CreateJob)
	jobs.GET("", middleware.RequireScope(identity.APIKeyScopeJobsRead), h.ListJobs)
	jobs.GET("/:id", middleware.RequireScope(identity.APIKeyScopeJobsRead), h.GetJob)
}

// keyAgencyID resolves the agency from the authenticated API key
func (h *BotHandler) keyAgencyID(c *gin.Context) (uuid.UUID, bool) {
	id, err := middleware.GetAPIKeyAgencyID(c)
	if err != nil {
		h.Unauthorized(c, "API key authentication required")
		return uuid.Nil, false
	}
	return id, true
}

// CreateJob queues a generation job on behalf of the bot. The API key is
// recorded as the creator.
func (h *BotHandler) CreateJob(c *gin.Context) {
	agencyID, ok := h.keyAgencyID(c)
	if !ok {
		return
	}
	key, ok := middleware.GetAPIKey(c)
	if !ok {
		h.Unauthorized(c, "API key authentication required")
		return
	}

	var req createJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	job, err := h.jobs.CreateJob(c.Request.Context(), generationapp.CreateJobInput{
		AgencyID:  agencyID,
		ClientID:  req.ClientID,
		CreatedBy: key.ID,
		Type:      generation.JobType(req.Type),
		Brief:     req.Brief,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, job)
}

// ListJobs returns the key's agency generation jobs
func (h *BotHandler) ListJobs(c *gin.Context) {
	agencyID, ok := h.keyAgencyID(c)
	if !ok {
		return
	}
	filter, ok := h.bindList(c)
	if !ok {
		return
	}

	page, err := h.jobs.ListJobs(c.Request.Context(), agencyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetJob returns a job with its steps and generated drafts
func (h *BotHandler) GetJob(c *gin.Context) {
	agencyID, ok := h.keyAgencyID(c)
	if !ok {
		return
	}
	jobID, ok := h.bindID(c)
	if !ok {
		return
	}

	job, err := h.jobs.GetJob(c.Request.Context(), agencyID, jobID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, job)
}
