package handler

import (
	"github.com/gin-gonic/gin"

	billingapp "github.com/agencyhub/backend/internal/application/billing"
	"github.com/agencyhub/backend/internal/domain/billing"
	"github.com/agencyhub/backend/internal/domain/identity"
	"github.com/agencyhub/backend/internal/interfaces/http/middleware"
)

// BillingHandler serves plan, subscription, and token balance endpoints
type BillingHandler struct {
	BaseHandler
	subscriptions *billingapp.SubscriptionService
	tokens        *billingapp.TokenService
}

func NewBillingHandler(subscriptions *billingapp.SubscriptionService, tokens *billingapp.TokenService) *BillingHandler {
	return &BillingHandler{subscriptions: subscriptions, tokens: tokens}
}

func (h *BillingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	bill := rg.Group("/billing")
	bill.GET("/plans", middleware.RequirePermission(identity.PermBillingRead), h.Plans)
	bill.GET("/subscription", middleware.RequirePermission(identity.PermBillingRead), h.Subscription)
	bill.POST("/checkout", middleware.RequirePermission(identity.PermBillingManage), h.Checkout)
	bill.POST("/portal", middleware.RequirePermission(identity.PermBillingManage), h.Portal)
	bill.POST("/cancel", middleware.RequirePermission(identity.PermBillingManage), h.Cancel)
	bill.GET("/tokens/balance", middleware.RequirePermission(identity.PermBillingRead), h.Balance)
	bill.GET("/tokens/history", middleware.RequirePermission(identity.PermBillingRead), h.History)
}

// Plans returns the plan catalog
func (h *BillingHandler) Plans(c *gin.Context) {
	h.Success(c, h.subscriptions.ListPlans())
}

// Subscription returns the agency's current subscription
func (h *BillingHandler) Subscription(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}

	sub, err := h.subscriptions.GetSubscription(c.Request.Context(), agencyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sub)
}

type checkoutRequest struct {
	PlanCode     string `json:"plan_code" binding:"required"`
	CustomerName string `json:"customer_name"`
}

// Checkout starts a hosted checkout session for a plan change
func (h *BillingHandler) Checkout(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}

	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	email := ""
	if claims, found := middleware.GetJWTClaims(c); found {
		email = claims.Email
	}

	session, err := h.subscriptions.StartCheckout(c.Request.Context(), billingapp.StartCheckoutInput{
		AgencyID:      agencyID,
		PlanCode:      billing.PlanCode(req.PlanCode),
		CustomerName:  req.CustomerName,
		CustomerEmail: email,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, session)
}

// Portal opens the hosted billing portal for invoice and card management
func (h *BillingHandler) Portal(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}

	session, err := h.subscriptions.OpenBillingPortal(c.Request.Context(), agencyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, session)
}

// Cancel cancels the subscription at the end of the current period
func (h *BillingHandler) Cancel(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}

	if _, err := h.subscriptions.CancelSubscription(c.Request.Context(), agencyID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Balance returns the agency's token balance
func (h *BillingHandler) Balance(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}

	balance, err := h.tokens.Balance(c.Request.Context(), agencyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balance)
}

// History returns the agency's token ledger entries
func (h *BillingHandler) History(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	filter, ok := h.bindList(c)
	if !ok {
		return
	}

	page, err := h.tokens.History(c.Request.Context(), agencyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
