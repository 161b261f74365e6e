package payment

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/raffleworks/raffleworks/pkg/config"
	"github.com/raffleworks/raffleworks/pkg/domain"
	"github.com/raffleworks/raffleworks/pkg/middleware"
	"github.com/raffleworks/raffleworks/pkg/provider"
	paysvc "github.com/raffleworks/raffleworks/pkg/service/payment"
	"github.com/raffleworks/raffleworks/webapi/common"
)

// Routes registers HTTP routes for card-payment operations.
func Routes(
	app *fiber.App,
	svc *paysvc.Service,
	cfg *config.App,
) {
	app.Post(
		"/payments/intent",
		middleware.JwtProtected(cfg.Jwt),
		CreateIntent(svc),
	)
	app.Post(
		"/payments/confirm",
		middleware.JwtProtected(cfg.Jwt),
		Confirm(svc),
	)
	app.Post(
		"/payments/finalize",
		middleware.JwtProtected(cfg.Jwt),
		Finalize(svc),
	)
	app.Post(
		"/payments/stripe/webhook",
		StripeWebhook(svc, cfg.Stripe),
	)
}

// CreateIntent returns a Fiber handler that creates a payment intent for a
// subscription plan.
// @Summary Create a subscription payment intent
// @Tags payments
// @Accept json
// @Produce json
// @Success 201 {object} common.Response "Intent created"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Router /payments/intent [post]
// @Security Bearer
func CreateIntent(svc *paysvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.UserID(c)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		input, err := common.BindAndValidate[CreateIntentRequest](c)
		if input == nil {
			return err
		}

		clientSecret, subscriptionID, err := svc.CreateIntent(
			c.Context(), userID, input.PlanRef, input.IdempotencyKey,
		)
		if err != nil {
			log.Warnf("create intent failed: %v", err)
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Intent created", CreateIntentResponse{
			ClientSecret:    clientSecret,
			SubscriptionRef: subscriptionID.String(),
		})
	}
}

// Confirm returns a Fiber handler that confirms a card payment against the
// gateway with bounded retry. Only a succeeded intent is reported as such;
// every other gateway status surfaces as a not-completed problem.
// @Summary Confirm a card payment
// @Tags payments
// @Accept json
// @Produce json
// @Success 200 {object} common.Response "Payment confirmed"
// @Failure 422 {object} common.ProblemDetails "Payment not completed"
// @Failure 502 {object} common.ProblemDetails "Gateway error"
// @Router /payments/confirm [post]
// @Security Bearer
func Confirm(svc *paysvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := middleware.UserID(c); err != nil {
			return common.DomainErrorJSON(c, err)
		}
		input, err := common.BindAndValidate[ConfirmRequest](c)
		if input == nil {
			return err
		}

		intent, err := svc.Confirm(c.Context(), input.ClientSecret, input.PaymentMethod)
		if err != nil {
			log.Warnf("confirm failed: %v", err)
			return common.DomainErrorJSON(c, err)
		}
		if intent.Status != provider.StatusSucceeded {
			return common.DomainErrorJSON(c, domain.ErrNotCompleted)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Payment confirmed", ConfirmResponse{
			PaymentIntentID: intent.ID,
			Status:          intent.Status,
		})
	}
}

// Finalize returns a Fiber handler that exchanges a confirmed payment for
// an activated subscription, idempotently.
// @Summary Finalize a subscription purchase
// @Tags payments
// @Accept json
// @Produce json
// @Success 200 {object} common.Response "Subscription activated"
// @Failure 502 {object} common.ProblemDetails "Finalization failed"
// @Router /payments/finalize [post]
// @Security Bearer
func Finalize(svc *paysvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := middleware.UserID(c); err != nil {
			return common.DomainErrorJSON(c, err)
		}
		input, err := common.BindAndValidate[FinalizeRequest](c)
		if input == nil {
			return err
		}

		subscriptionRef, err := uuid.Parse(input.SubscriptionRef)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid subscription ref", err.Error())
		}

		id, err := svc.Finalize(
			c.Context(), subscriptionRef, input.PaymentIntentID,
			input.PlanRef, input.IdempotencyKey,
		)
		if err != nil {
			log.Warnf("finalize failed for %s: %v", subscriptionRef, err)
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Subscription activated", FinalizeResponse{
			SubscriptionID: id.String(),
		})
	}
}
