package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	billingapp "github.com/agencyhub/backend/internal/application/billing"
	"github.com/agencyhub/backend/internal/interfaces/http/dto"
)

const maxWebhookBody = 1 << 20

// StripeWebhookHandler receives billing lifecycle events from Stripe.
// Registered outside JWT auth; the signature header is the authentication.
type StripeWebhookHandler struct {
	BaseHandler
	webhooks *billingapp.StripeWebhookService
	logger   *zap.Logger
}

func NewStripeWebhookHandler(webhooks *billingapp.StripeWebhookService, logger *zap.Logger) *StripeWebhookHandler {
	return &StripeWebhookHandler{webhooks: webhooks, logger: logger}
}

func (h *StripeWebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/billing/webhooks/stripe", h.Handle)
}

// Handle verifies the event signature and applies the event. Processing
// failures return 500 so Stripe retries; bad signatures do not.
func (h *StripeWebhookHandler) Handle(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		h.BadRequest(c, "Could not read webhook payload")
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Missing Stripe-Signature header")
		return
	}

	result, err := h.webhooks.ProcessWebhook(c.Request.Context(), payload, signature)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.logger.Debug("stripe webhook handled",
		zap.String("event_id", result.EventID),
		zap.String("event_type", result.EventType),
		zap.Bool("processed", result.Processed),
	)
	h.Success(c, result)
}
