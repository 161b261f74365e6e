package payment

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/raffleworks/raffleworks/pkg/config"
	paysvc "github.com/raffleworks/raffleworks/pkg/service/payment"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeWebhook returns a Fiber handler for incoming Stripe webhook events.
// It verifies the signature, then reconciles the matching ledger
// transaction for payment-intent outcomes. Unhandled event types are
// acknowledged so Stripe stops redelivering them.
func StripeWebhook(svc *paysvc.Service, cfg *config.Stripe) fiber.Handler {
	return func(c *fiber.Ctx) error {
		signature := c.Get("Stripe-Signature")
		if signature == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Missing Stripe-Signature header",
			})
		}
		payload := c.Body()
		if len(payload) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Empty request body",
			})
		}

		event, err := webhook.ConstructEvent(payload, signature, cfg.SigningSecret)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Error verifying webhook signature: %v", err),
			})
		}

		switch event.Type {
		case "payment_intent.succeeded", "payment_intent.payment_failed":
			var intent stripe.PaymentIntent
			if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": fmt.Sprintf("Error parsing payment intent: %v", err),
				})
			}
			succeeded := event.Type == "payment_intent.succeeded"
			if err := svc.ReconcileIntent(c.Context(), intent.ID, succeeded); err != nil {
				log.Errorf("webhook reconciliation failed for %s: %v", intent.ID, err)
				return c.SendStatus(fiber.StatusInternalServerError)
			}
		default:
			log.Debugf("ignoring stripe event type %s", event.Type)
		}

		return c.SendStatus(fiber.StatusOK)
	}
}
