package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/agencyhub/backend/internal/application/identity"
	"github.com/agencyhub/backend/internal/interfaces/http/middleware"
)

// AuthHandler serves registration, login, and session endpoints
type AuthHandler struct {
	BaseHandler
	auth      *identityapp.AuthService
	agencies  *identityapp.AgencyService
	rateLimit gin.HandlerFunc
}

func NewAuthHandler(auth *identityapp.AuthService, agencies *identityapp.AgencyService) *AuthHandler {
	return &AuthHandler{auth: auth, agencies: agencies}
}

// UseRateLimit applies a stricter limit to the credential endpoints
func (h *AuthHandler) UseRateLimit(mw gin.HandlerFunc) *AuthHandler {
	h.rateLimit = mw
	return h
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	if h.rateLimit != nil {
		auth.Use(h.rateLimit)
	}
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.POST("/refresh", h.Refresh)
	auth.POST("/logout", h.Logout)
	auth.GET("/me", h.Me)
	auth.POST("/change-password", h.ChangePassword)
}

// Register creates a new agency with its owner account
func (h *AuthHandler) Register(c *gin.Context) {
	var input identityapp.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}
	input.RequestIP = c.ClientIP()

	result, err := h.agencies.Register(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Login exchanges credentials for a token pair
func (h *AuthHandler) Login(c *gin.Context) {
	var input identityapp.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}
	input.RequestIP = c.ClientIP()

	result, err := h.auth.Login(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh rotates the token pair using a refresh token
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	tokens, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tokens)
}

// Logout revokes the current access token
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.GetJWTClaims(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.auth.Logout(c.Request.Context(), claims); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	user, err := h.auth.Me(c.Request.Context(), agencyID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ChangePassword changes the caller's password and revokes older tokens
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var input identityapp.ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}
	input.RequestIP = c.ClientIP()

	if err := h.auth.ChangePassword(c.Request.Context(), agencyID, userID, input); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
