package handlers

import (
	"github.com/gofiber/fiber/v2"

	"staffing-portal/errors"
)

// StripeWebhook receives provider events. Signature failures answer 400;
// processing failures answer 500 so the provider redelivers. Events the
// flow does not act on are acknowledged with 200.
func (h *Handler) StripeWebhook(c *fiber.Ctx) error {
	event, err := h.gateway.VerifyWebhook(c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		h.log.WithError(err).Warn("webhook rejected")
		return errors.RaiseBadRequestError(c, "invalid webhook signature")
	}

	if err := h.svc.HandleGatewayEvent(c.Context(), event); err != nil {
		return errors.RaiseInternalServerError(c, "webhook processing failed")
	}

	return c.JSON(fiber.Map{"received": true})
}
