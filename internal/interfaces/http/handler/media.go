package handler

import (
	"github.com/gin-gonic/gin"

	campaignapp "github.com/agencyhub/backend/internal/application/campaign"
	"github.com/agencyhub/backend/internal/domain/identity"
	"github.com/agencyhub/backend/internal/interfaces/http/middleware"
)

// MediaHandler serves presigned media upload and download endpoints
type MediaHandler struct {
	BaseHandler
	media *campaignapp.MediaService
}

func NewMediaHandler(media *campaignapp.MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

func (h *MediaHandler) RegisterRoutes(rg *gin.RouterGroup) {
	media := rg.Group("/media")
	media.POST("/uploads", middleware.RequirePermission(identity.PermPostsWrite), h.RequestUpload)
	media.POST("/uploads/confirm", middleware.RequirePermission(identity.PermPostsWrite), h.ConfirmUpload)
	media.POST("/download-urls", middleware.RequirePermission(identity.PermPostsRead), h.DownloadURLs)
	media.DELETE("", middleware.RequirePermission(identity.PermPostsWrite), h.Delete)
}

type uploadRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

// RequestUpload issues a presigned upload URL for a new media object
func (h *MediaHandler) RequestUpload(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}

	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	ticket, err := h.media.RequestUpload(c.Request.Context(), agencyID, req.ContentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ticket)
}

type storageKeyRequest struct {
	StorageKey string `json:"storage_key" binding:"required"`
}

// ConfirmUpload verifies the client completed the presigned upload
func (h *MediaHandler) ConfirmUpload(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}

	var req storageKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	if err := h.media.ConfirmUpload(c.Request.Context(), agencyID, req.StorageKey); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

type downloadURLsRequest struct {
	StorageKeys []string `json:"storage_keys" binding:"required,min=1"`
}

// DownloadURLs issues presigned download URLs for stored media
func (h *MediaHandler) DownloadURLs(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}

	var req downloadURLsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	urls, err := h.media.DownloadURLs(c.Request.Context(), agencyID, req.StorageKeys)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, urls)
}

// Delete removes a media object owned by the agency
func (h *MediaHandler) Delete(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}

	var req storageKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	if err := h.media.DeleteMedia(c.Request.Context(), agencyID, req.StorageKey); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
