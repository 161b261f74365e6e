package transaction

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/raffleworks/raffleworks/pkg/config"
	"github.com/raffleworks/raffleworks/pkg/domain"
	"github.com/raffleworks/raffleworks/pkg/dto"
	"github.com/raffleworks/raffleworks/pkg/middleware"
	txsvc "github.com/raffleworks/raffleworks/pkg/service/transaction"
	"github.com/raffleworks/raffleworks/webapi/common"
)

// Routes registers HTTP routes for ledger transactions.
func Routes(
	app *fiber.App,
	svc *txsvc.Service,
	cfg *config.App,
) {
	app.Post(
		"/transactions",
		middleware.JwtProtected(cfg.Jwt),
		Create(svc),
	)
	app.Get(
		"/transactions/pending",
		middleware.JwtProtected(cfg.Jwt),
		PendingQueue(svc),
	)
	app.Get(
		"/transactions/:id",
		middleware.JwtProtected(cfg.Jwt),
		Get(svc),
	)
}

// Create returns a Fiber handler that records a pending transaction.
// @Summary Record a pending transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Success 201 {object} common.Response "Transaction recorded"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 422 {object} common.ProblemDetails "Raffle closed"
// @Router /transactions [post]
// @Security Bearer
func Create(svc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.UserID(c)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		input, err := common.BindAndValidate[CreateRequest](c)
		if input == nil {
			return err
		}

		raffleID, err := parseOptionalID(input.RaffleID)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid raffle id", err.Error())
		}
		subscriptionID, err := parseOptionalID(input.SubscriptionID)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid subscription id", err.Error())
		}

		created, err := svc.CreatePending(
			c.Context(), userID,
			domain.MethodKind(input.MethodKind),
			domain.Purpose(input.Purpose),
			input.Amount, input.Currency,
			raffleID, subscriptionID,
			input.ReceiptURL, input.Metadata,
		)
		if err != nil {
			log.Warnf("failed to record pending transaction: %v", err)
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Transaction recorded", toDTO(created))
	}
}

// Get returns a Fiber handler that fetches one transaction.
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} common.Response "Transaction fetched"
// @Failure 404 {object} common.ProblemDetails "Not found"
// @Router /transactions/{id} [get]
// @Security Bearer
func Get(svc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := middleware.ReviewerID(c); err != nil {
			return common.DomainErrorJSON(c, err)
		}
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid transaction id", err.Error())
		}
		tx, err := svc.Get(c.Context(), id)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction fetched", toDTO(tx))
	}
}

// PendingQueue returns a Fiber handler that lists the review queue.
// @Summary List pending transactions awaiting review
// @Tags transactions
// @Produce json
// @Success 200 {object} common.Response "Pending transactions fetched"
// @Router /transactions/pending [get]
// @Security Bearer
func PendingQueue(svc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := middleware.ReviewerID(c); err != nil {
			return common.DomainErrorJSON(c, err)
		}
		queue, err := svc.PendingQueue(c.Context())
		if err != nil {
			log.Errorf("failed to list pending transactions: %v", err)
			return common.DomainErrorJSON(c, err)
		}
		dtos := make([]*TransactionDTO, 0, len(queue))
		for _, tx := range queue {
			dtos = append(dtos, toDTO(tx))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Pending transactions fetched", dtos)
	}
}

func parseOptionalID(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func toDTO(tx *dto.TransactionRead) *TransactionDTO {
	out := &TransactionDTO{
		ID:              tx.ID.String(),
		UserID:          tx.UserID.String(),
		MethodKind:      tx.MethodKind,
		Purpose:         tx.Purpose,
		Amount:          tx.Amount,
		Currency:        tx.Currency,
		PaymentIntentID: tx.PaymentIntentID,
		ReceiptURL:      tx.ReceiptURL,
		Status:          tx.Status,
		ReviewedAt:      tx.ReviewedAt,
		AdminComment:    tx.AdminComment,
		RejectionReason: tx.RejectionReason,
		Metadata:        tx.Metadata,
		CreatedAt:       tx.CreatedAt,
	}
	if tx.RaffleID != nil {
		s := tx.RaffleID.String()
		out.RaffleID = &s
	}
	if tx.SubscriptionID != nil {
		s := tx.SubscriptionID.String()
		out.SubscriptionID = &s
	}
	if tx.ReviewedBy != nil {
		s := tx.ReviewedBy.String()
		out.ReviewedBy = &s
	}
	return out
}
