package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/tidywork/studio-service/internal/payments"
)

// CheckoutCompleter reconciles a verified completed-checkout event.
type CheckoutCompleter interface {
	HandleCheckoutCompleted(ctx context.Context, completed payments.CompletedCheckout) error
}

// WebhookHandler receives raw payment-provider events. Signature failures are
// rejected without touching any state.
type WebhookHandler struct {
	completer     CheckoutCompleter
	webhookSecret string
	logger        *zap.Logger
}

// NewWebhookHandler constructs handler.
func NewWebhookHandler(completer CheckoutCompleter, webhookSecret string, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{completer: completer, webhookSecret: webhookSecret, logger: logger}
}

// HandleStripe handles POST /api/stripe/webhook.
func (h *WebhookHandler) HandleStripe(c *fiber.Ctx) error {
	if h.webhookSecret == "" {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Missing STRIPE_WEBHOOK_SECRET",
		})
	}

	signature := c.Get("Stripe-Signature")
	if signature == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing stripe-signature header",
		})
	}

	completed, err := payments.ParseCompletedCheckout(c.Body(), signature, h.webhookSecret)
	if err != nil {
		h.logger.Warn("rejected stripe webhook", zap.Error(err))
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	// Other verified event types are acknowledged without action.
	if completed != nil {
		if err := h.completer.HandleCheckoutCompleted(c.Context(), *completed); err != nil {
			return err
		}
	}

	return c.JSON(fiber.Map{"received": true})
}
