package webapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/raffleworks/raffleworks/pkg/app"
	"github.com/raffleworks/raffleworks/webapi/common"
	"github.com/raffleworks/raffleworks/webapi/payment"
	"github.com/raffleworks/raffleworks/webapi/review"
	"github.com/raffleworks/raffleworks/webapi/transaction"
)

// SetupApp builds the Fiber application with all routes and middleware.
func SetupApp(a *app.App) *fiber.App {
	cfg := a.Config
	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
			return common.ErrorResponseJSON(c, status, "Internal Server Error", err.Error())
		},
	})

	fiberApp.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimit.MaxRequests,
		Expiration: cfg.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ErrorResponseJSON(c, fiber.StatusTooManyRequests, "Too Many Requests", "Rate limit exceeded")
		},
	}))
	fiberApp.Use(recover.New())

	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("App is working! 🚀")
	})

	transaction.Routes(fiberApp, a.TransactionService, cfg)
	review.Routes(fiberApp, a.ReviewService, cfg)
	payment.Routes(fiberApp, a.PaymentService, cfg)

	return fiberApp
}
