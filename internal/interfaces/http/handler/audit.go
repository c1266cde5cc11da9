package handler

import (
	"github.com/gin-gonic/gin"

	appaudit "github.com/agencyhub/backend/internal/application/audit"
	"github.com/agencyhub/backend/internal/domain/identity"
	"github.com/agencyhub/backend/internal/interfaces/http/middleware"
)

// AuditHandler serves the agency audit trail
type AuditHandler struct {
	BaseHandler
	audit *appaudit.Service
}

func NewAuditHandler(audit *appaudit.Service) *AuditHandler {
	return &AuditHandler{audit: audit}
}

func (h *AuditHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/audit-logs", middleware.RequirePermission(identity.PermAuditRead), h.List)
}

// List returns audit log entries, optionally filtered by entity or action
func (h *AuditHandler) List(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	filter, ok := h.bindList(c)
	if !ok {
		return
	}

	if entityType := c.Query("entity_type"); entityType != "" {
		filter.Filters["entity_type"] = entityType
	}
	if action := c.Query("action"); action != "" {
		filter.Filters["action"] = action
	}

	page, err := h.audit.List(c.Request.Context(), agencyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
