package review

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/raffleworks/raffleworks/pkg/config"
	"github.com/raffleworks/raffleworks/pkg/middleware"
	reviewsvc "github.com/raffleworks/raffleworks/pkg/service/review"
	"github.com/raffleworks/raffleworks/webapi/common"
)

// Routes registers HTTP routes for transaction review operations.
func Routes(
	app *fiber.App,
	svc *reviewsvc.Service,
	cfg *config.App,
) {
	app.Post(
		"/transactions/:id/approve",
		middleware.JwtProtected(cfg.Jwt),
		Approve(svc),
	)
	app.Post(
		"/transactions/:id/reject",
		middleware.JwtProtected(cfg.Jwt),
		Reject(svc),
	)
}

// Approve returns a Fiber handler that approves a pending transaction and
// issues its raffle entries.
// @Summary Approve a pending transaction
// @Description Transitions a pending manual/QR transaction to approved and issues raffle entries.
// @Tags review
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} common.Response "Transaction approved"
// @Failure 400 {object} common.ProblemDetails "Wrong review path for this payment method"
// @Failure 409 {object} common.ProblemDetails "Already reviewed or lost a concurrency race"
// @Failure 422 {object} common.ProblemDetails "Entry issuance failed"
// @Router /transactions/{id}/approve [post]
// @Security Bearer
func Approve(svc *reviewsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reviewerID, err := middleware.ReviewerID(c)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		txID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid transaction id", err.Error())
		}
		input, err := common.BindAndValidate[ApproveRequest](c)
		if input == nil {
			return err
		}

		created, err := svc.Approve(c.Context(), txID, reviewerID, strings.TrimSpace(input.Comment))
		if err != nil {
			log.Warnf("approve failed for %s: %v", txID, err)
			return common.DomainErrorJSON(c, err)
		}

		ids := make([]string, 0, len(created))
		for _, id := range created {
			ids = append(ids, id.String())
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction approved", ApproveResponse{
			CreatedEntryIDs: ids,
		})
	}
}

// Reject returns a Fiber handler that rejects a pending transaction.
// @Summary Reject a pending transaction
// @Description Transitions a pending manual/QR transaction to rejected. A reason is mandatory.
// @Tags review
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} common.Response "Transaction rejected"
// @Failure 400 {object} common.ProblemDetails "Missing rejection reason"
// @Failure 409 {object} common.ProblemDetails "Already reviewed or lost a concurrency race"
// @Router /transactions/{id}/reject [post]
// @Security Bearer
func Reject(svc *reviewsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reviewerID, err := middleware.ReviewerID(c)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		txID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid transaction id", err.Error())
		}
		input, err := common.BindAndValidate[RejectRequest](c)
		if input == nil {
			return err
		}

		if err := svc.Reject(
			c.Context(), txID, reviewerID,
			strings.TrimSpace(input.RejectionReason),
			strings.TrimSpace(input.Comment),
		); err != nil {
			log.Warnf("reject failed for %s: %v", txID, err)
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction rejected", fiber.Map{"ok": true})
	}
}
