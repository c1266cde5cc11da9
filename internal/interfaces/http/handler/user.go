package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/agencyhub/backend/internal/application/identity"
	"github.com/agencyhub/backend/internal/domain/identity"
	"github.com/agencyhub/backend/internal/interfaces/http/middleware"
)

// UserHandler serves team member management endpoints
type UserHandler struct {
	BaseHandler
	users *identityapp.UserService
}

func NewUserHandler(users *identityapp.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.GET("", middleware.RequirePermission(identity.PermUsersRead), h.List)
	users.POST("", middleware.RequirePermission(identity.PermUsersWrite), h.Create)
	users.GET("/:id", middleware.RequirePermission(identity.PermUsersRead), h.Get)
	users.PUT("/:id", middleware.RequirePermission(identity.PermUsersWrite), h.Update)
	users.PUT("/:id/role", middleware.RequirePermission(identity.PermUsersWrite), h.ChangeRole)
	users.POST("/:id/activate", middleware.RequirePermission(identity.PermUsersWrite), h.Activate)
	users.POST("/:id/deactivate", middleware.RequirePermission(identity.PermUsersWrite), h.Deactivate)
	users.POST("/:id/reset-password", middleware.RequirePermission(identity.PermUsersWrite), h.ResetPassword)
	users.DELETE("/:id", middleware.RequirePermission(identity.PermUsersWrite), h.Delete)
}

// List returns the agency's team members
func (h *UserHandler) List(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	filter, ok := h.bindList(c)
	if !ok {
		return
	}

	page, err := h.users.ListUsers(c.Request.Context(), agencyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Create adds a team member directly, without an invitation
func (h *UserHandler) Create(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	actorID, ok := h.userID(c)
	if !ok {
		return
	}

	var input identityapp.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}
	input.ActorID = actorID
	input.RequestIP = c.ClientIP()

	user, err := h.users.CreateUser(c.Request.Context(), agencyID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// Get returns a single team member
func (h *UserHandler) Get(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	userID, ok := h.bindID(c)
	if !ok {
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), agencyID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Update updates a team member's profile
func (h *UserHandler) Update(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	userID, ok := h.bindID(c)
	if !ok {
		return
	}

	var input identityapp.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}

	user, err := h.users.UpdateUser(c.Request.Context(), agencyID, userID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

type changeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// ChangeRole changes a team member's role, keeping at least one OWNER
func (h *UserHandler) ChangeRole(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	actorID, ok := h.userID(c)
	if !ok {
		return
	}
	userID, ok := h.bindID(c)
	if !ok {
		return
	}

	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	user, err := h.users.ChangeRole(c.Request.Context(), agencyID, actorID, userID, req.Role, c.ClientIP())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Activate re-enables a deactivated team member
func (h *UserHandler) Activate(c *gin.Context) {
	h.lifecycle(c, h.users.Activate)
}

// Deactivate disables a team member's access
func (h *UserHandler) Deactivate(c *gin.Context) {
	h.lifecycle(c, h.users.Deactivate)
}

type resetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required"`
}

// ResetPassword sets a new password for a team member
func (h *UserHandler) ResetPassword(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	actorID, ok := h.userID(c)
	if !ok {
		return
	}
	userID, ok := h.bindID(c)
	if !ok {
		return
	}

	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	if err := h.users.ResetPassword(c.Request.Context(), agencyID, actorID, userID, req.NewPassword); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Delete removes a team member
func (h *UserHandler) Delete(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	actorID, ok := h.userID(c)
	if !ok {
		return
	}
	userID, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.users.DeleteUser(c.Request.Context(), agencyID, actorID, userID, c.ClientIP()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *UserHandler) lifecycle(c *gin.Context, op func(ctx context.Context, agencyID, actorID, userID uuid.UUID) (*identityapp.UserDTO, error)) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	actorID, ok := h.userID(c)
	if !ok {
		return
	}
	userID, ok := h.bindID(c)
	if !ok {
		return
	}

	user, err := op(c.Request.Context(), agencyID, actorID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}
