package handler

import (
	"github.com/gin-gonic/gin"

	tourapp "github.com/agencyhub/backend/internal/application/tour"
)

// TourHandler serves the caller's onboarding tour progress. No extra
// permission checks: users only ever touch their own progress.
type TourHandler struct {
	BaseHandler
	tours *tourapp.Service
}

func NewTourHandler(tours *tourapp.Service) *TourHandler {
	return &TourHandler{tours: tours}
}

func (h *TourHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tours := rg.Group("/tours")
	tours.GET("", h.List)
	tours.POST("/steps", h.RecordStep)
	tours.POST("/:key/dismiss", h.Dismiss)
	tours.POST("/:key/reset", h.Reset)
}

// List returns all tour progress for the caller
func (h *TourHandler) List(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	progress, err := h.tours.ListProgress(c.Request.Context(), agencyID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, progress)
}

// RecordStep marks a tour step as seen, optionally completing the tour
func (h *TourHandler) RecordStep(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var input tourapp.RecordStepInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}

	progress, err := h.tours.RecordStep(c.Request.Context(), agencyID, userID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, progress)
}

// Dismiss hides a tour without completing it
func (h *TourHandler) Dismiss(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	progress, err := h.tours.Dismiss(c.Request.Context(), agencyID, userID, c.Param("key"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, progress)
}

// Reset clears a tour's progress so it starts over
func (h *TourHandler) Reset(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	progress, err := h.tours.Reset(c.Request.Context(), agencyID, userID, c.Param("key"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, progress)
}
