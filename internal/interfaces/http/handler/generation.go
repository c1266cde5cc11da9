package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	generationapp "github.com/agencyhub/backend/internal/application/generation"
	"github.com/agencyhub/backend/internal/domain/generation"
	"github.com/agencyhub/backend/internal/domain/identity"
	"github.com/agencyhub/backend/internal/interfaces/http/middleware"
)

// GenerationHandler serves AI content generation job endpoints
type GenerationHandler struct {
	BaseHandler
	jobs *generationapp.JobService
}

func NewGenerationHandler(jobs *generationapp.JobService) *GenerationHandler {
	return &GenerationHandler{jobs: jobs}
}

func (h *GenerationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	jobs := rg.Group("/generation/jobs")
	jobs.GET("", middleware.RequirePermission(identity.PermGenerateRead), h.List)
	jobs.POST("", middleware.RequirePermission(identity.PermGenerateWrite), h.Create)
	jobs.GET("/stats", middleware.RequirePermission(identity.PermGenerateRead), h.QueueStats)
	jobs.GET("/:id", middleware.RequirePermission(identity.PermGenerateRead), h.Get)
	jobs.POST("/:id/cancel", middleware.RequirePermission(identity.PermGenerateWrite), h.Cancel)
}

type createJobRequest struct {
	ClientID uuid.UUID `json:"client_id" binding:"required"`
	Type     string    `json:"type" binding:"required"`
	Brief    string    `json:"brief" binding:"required"`
}

// Create queues a generation job, reserving its estimated token cost
func (h *GenerationHandler) Create(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	actorID, ok := h.userID(c)
	if !ok {
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
		CreatedBy: actorID,
		Type:      generation.JobType(req.Type),
		Brief:     req.Brief,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, job)
}

// List returns the agency's generation jobs
func (h *GenerationHandler) List(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
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

// Get returns a job with its steps
func (h *GenerationHandler) Get(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
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

// Cancel cancels a queued or running job and releases reserved tokens
func (h *GenerationHandler) Cancel(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	jobID, ok := h.bindID(c)
	if !ok {
		return
	}

	job, err := h.jobs.CancelJob(c.Request.Context(), agencyID, jobID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, job)
}

// QueueStats returns queue depth counters for operators
func (h *GenerationHandler) QueueStats(c *gin.Context) {
	stats, err := h.jobs.QueueStats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
