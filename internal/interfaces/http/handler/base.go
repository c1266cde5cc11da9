package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/agencyhub/backend/internal/infrastructure/logger"
	"github.com/agencyhub/backend/internal/interfaces/http/dto"
	"github.com/agencyhub/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides response helpers shared by all handlers
type BaseHandler struct{}

func (h *BaseHandler) requestID(c *gin.Context) string {
	return middleware.GetRequestID(c)
}

// agencyID returns the authenticated agency, aborting with 401 when the
// claims are missing or malformed.
func (h *BaseHandler) agencyID(c *gin.Context) (uuid.UUID, bool) {
	id, err := middleware.GetJWTAgencyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, false
	}
	return id, true
}

func (h *BaseHandler) userID(c *gin.Context) (uuid.UUID, bool) {
	id, err := middleware.GetJWTUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, false
	}
	return id, true
}

// actorID returns the authenticated user as an optional actor reference
// for audit trails. Nil when the request is not user-authenticated.
func (h *BaseHandler) actorID(c *gin.Context) *uuid.UUID {
	id, err := middleware.GetJWTUserID(c)
	if err != nil {
		return nil
	}
	return &id
}

// bindID parses the :id path parameter, aborting with 400 on bad input
func (h *BaseHandler) bindID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.ValidationError(c, err)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}

// bindList parses common pagination query parameters into a filter
func (h *BaseHandler) bindList(c *gin.Context) (shared.Filter, bool) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return shared.Filter{}, false
	}
	return req.ToFilter(), true
}

func (h *BaseHandler) Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data interface{}, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

func (h *BaseHandler) Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func (h *BaseHandler) Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, dto.NewErrorResponseWithRequestID(code, message, h.requestID(c)))
}

func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

func (h *BaseHandler) Forbidden(c *gin.Context, message string) {
	h.Error(c, http.StatusForbidden, dto.ErrCodeForbidden, message)
}

func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

func (h *BaseHandler) Conflict(c *gin.Context, message string) {
	h.Error(c, http.StatusConflict, dto.ErrCodeConflict, message)
}

func (h *BaseHandler) UnprocessableEntity(c *gin.Context, code, message string) {
	h.Error(c, http.StatusUnprocessableEntity, code, message)
}

func (h *BaseHandler) InternalError(c *gin.Context) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
}

// ValidationError renders binding failures with per-field details when the
// error came from the validator, or a generic 400 otherwise.
func (h *BaseHandler) ValidationError(c *gin.Context, err error) {
	details := middleware.FormatValidationErrors(err)
	if details == nil {
		h.BadRequest(c, "Invalid request payload")
		return
	}
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse("Request validation failed", details, h.requestID(c)))
}

// HandleError maps application errors onto the response envelope. Domain
// errors carry their own code; anything else becomes an opaque 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, dto.GetHTTPStatus(domainErr.Code), domainErr.Code, domainErr.Message)
		return
	}
	logger.GetGinLogger(c).Error("unhandled application error", zap.Error(err))
	h.InternalError(c)
}
