// Package transaction covers the ledger boundary operations around review:
// recording a pending transaction from the purchase flow and reading the
// reviewer queue.
package transaction

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/raffleworks/raffleworks/pkg/domain"
	"github.com/raffleworks/raffleworks/pkg/dto"
	rafflerepo "github.com/raffleworks/raffleworks/pkg/repository/raffle"
	txrepo "github.com/raffleworks/raffleworks/pkg/repository/transaction"
)

// Service provides pending-transaction creation and ledger reads.
type Service struct {
	ledger  txrepo.Repository
	raffles rafflerepo.Repository
	logger  *slog.Logger
}

// New creates a transaction service.
func New(ledger txrepo.Repository, raffles rafflerepo.Repository, logger *slog.Logger) *Service {
	return &Service{ledger: ledger, raffles: raffles, logger: logger}
}

// CreatePending records a new pending transaction for the purchase flow.
// The purpose/reference invariant is enforced here, the raffle must accept
// entries, and the user-supplied tickets_requested metadata is coerced at
// this boundary rather than deep inside the issuer.
func (s *Service) CreatePending(
	ctx context.Context,
	userID uuid.UUID,
	kind domain.MethodKind,
	purpose domain.Purpose,
	amount float64,
	currency string,
	raffleID, subscriptionID *uuid.UUID,
	receiptURL *string,
	metadata map[string]any,
) (*dto.TransactionRead, error) {
	log := s.logger.With(
		"handler", "transaction.CreatePending",
		"user_id", userID,
		"purpose", purpose,
	)

	tx, err := domain.NewPaymentTransaction(
		userID, kind, purpose, amount, currency, raffleID, subscriptionID,
	)
	if err != nil {
		return nil, err
	}

	if raffleID != nil {
		raffle, err := s.raffles.Get(ctx, *raffleID)
		if err != nil {
			return nil, err
		}
		if !raffle.AcceptingNew {
			return nil, domain.ErrRaffleClosed
		}
	}

	if metadata != nil {
		// Coerce the user-influenced ticket count once, here, so everything
		// downstream reads a sane integer.
		metadata["tickets_requested"] = domain.CoerceTicketCount(metadata["tickets_requested"])
	}

	create := dto.TransactionCreate{
		ID:             tx.ID,
		UserID:         tx.UserID,
		MethodKind:     string(tx.MethodKind),
		Purpose:        string(tx.Purpose),
		Amount:         tx.Amount,
		Currency:       tx.Currency,
		RaffleID:       tx.RaffleID,
		SubscriptionID: tx.SubscriptionID,
		ReceiptURL:     receiptURL,
		Metadata:       metadata,
	}
	if err := s.ledger.Insert(ctx, create); err != nil {
		log.Error("failed to insert pending transaction", "error", err)
		return nil, err
	}

	log.Info("pending transaction recorded", "transaction_id", tx.ID)
	return s.ledger.Get(ctx, tx.ID)
}

// Get retrieves a transaction by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*dto.TransactionRead, error) {
	return s.ledger.Get(ctx, id)
}

// PendingQueue lists pending transactions awaiting review, oldest first,
// restricted to the reviewable payment methods.
func (s *Service) PendingQueue(ctx context.Context) ([]*dto.TransactionRead, error) {
	all, err := s.ledger.ListByStatus(ctx, domain.StatusPending)
	if err != nil {
		return nil, err
	}
	queue := make([]*dto.TransactionRead, 0, len(all))
	for _, tx := range all {
		if domain.MethodKind(tx.MethodKind).Reviewable() {
			queue = append(queue, tx)
		}
	}
	return queue, nil
}
