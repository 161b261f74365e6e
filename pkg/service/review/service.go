// Package review orchestrates approve/reject decisions on pending payment
// transactions: it validates preconditions, transitions the ledger status
// through a guarded compare-and-set, triggers entry issuance, and reverts
// the status when issuance fails partway.
package review

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/raffleworks/raffleworks/pkg/domain"
	"github.com/raffleworks/raffleworks/pkg/dto"
	entryrepo "github.com/raffleworks/raffleworks/pkg/repository/entry"
	txrepo "github.com/raffleworks/raffleworks/pkg/repository/transaction"
)

// Service is the transaction reviewer.
type Service struct {
	ledger  txrepo.Repository
	entries entryrepo.Repository
	logger  *slog.Logger
}

// New creates a reviewer service over the ledger store and entry issuer.
func New(ledger txrepo.Repository, entries entryrepo.Repository, logger *slog.Logger) *Service {
	return &Service{ledger: ledger, entries: entries, logger: logger}
}

// Approve transitions a pending manual/QR transaction to approved and, for
// raffle-purpose transactions, issues the requested entries. Issuance runs
// one ticket at a time; if ticket k of n fails, tickets 1..k-1 stay issued
// and only the transaction status is reverted to pending with an
// explanatory admin note, so a human can retry from the queue.
func (s *Service) Approve(
	ctx context.Context,
	txID, reviewerID uuid.UUID,
	comment string,
) ([]uuid.UUID, error) {
	log := s.logger.With(
		"handler", "review.Approve",
		"transaction_id", txID,
		"reviewer_id", reviewerID,
	)

	tx, err := s.load(ctx, txID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	fields := dto.ReviewFields{
		ReviewedBy: &reviewerID,
		ReviewedAt: &now,
	}
	if comment != "" {
		fields.AdminComment = &comment
	}
	if err := s.ledger.CompareAndSetStatus(
		ctx, txID, domain.StatusPending, domain.StatusApproved, fields,
	); err != nil {
		log.Warn("approval transition failed", "error", err)
		return nil, err
	}

	// Subscription-purpose (and other) transactions: approval alone is the
	// terminal effect on this path.
	if tx.RaffleID == nil {
		log.Info("transaction approved, no entries to issue")
		return []uuid.UUID{}, nil
	}

	count := domain.CoerceTicketCount(tx.Metadata["tickets_requested"])
	created := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		ids, err := s.entries.Issue(
			ctx, *tx.RaffleID, tx.UserID, 1, domain.SourceManualPurchase, nil,
		)
		if err != nil {
			s.revert(ctx, txID, err, log)
			return nil, fmt.Errorf("%w: %v", domain.ErrIssuanceFailed, err)
		}
		created = append(created, ids...)
	}

	if err := s.ledger.CompareAndSetStatus(
		ctx, txID, domain.StatusApproved, domain.StatusCompleted, fields,
	); err != nil {
		// Entries exist and the approval is stamped; surface the write
		// failure instead of pretending the transition happened.
		log.Error("failed to mark transaction completed", "error", err)
		return created, err
	}

	log.Info("transaction approved", "entries_issued", len(created))
	return created, nil
}

// Reject transitions a pending manual/QR transaction to rejected. The
// rejection reason is mandatory; rejected is terminal and has no side
// effects beyond the ledger write.
func (s *Service) Reject(
	ctx context.Context,
	txID, reviewerID uuid.UUID,
	reason, comment string,
) error {
	log := s.logger.With(
		"handler", "review.Reject",
		"transaction_id", txID,
		"reviewer_id", reviewerID,
	)

	if strings.TrimSpace(reason) == "" {
		return domain.ErrMissingReason
	}

	if _, err := s.load(ctx, txID); err != nil {
		return err
	}

	now := time.Now().UTC()
	fields := dto.ReviewFields{
		ReviewedBy:      &reviewerID,
		ReviewedAt:      &now,
		RejectionReason: &reason,
	}
	if comment != "" {
		fields.AdminComment = &comment
	}
	if err := s.ledger.CompareAndSetStatus(
		ctx, txID, domain.StatusPending, domain.StatusRejected, fields,
	); err != nil {
		log.Warn("rejection transition failed", "error", err)
		return err
	}
	log.Info("transaction rejected", "reason", reason)
	return nil
}

// load fetches the transaction and checks the review preconditions: the
// payment method must be reviewable and the status still pending.
func (s *Service) load(ctx context.Context, txID uuid.UUID) (*dto.TransactionRead, error) {
	tx, err := s.ledger.Get(ctx, txID)
	if err != nil {
		return nil, err
	}
	if !domain.MethodKind(tx.MethodKind).Reviewable() {
		return nil, domain.ErrInvalidMethodKind
	}
	if domain.TransactionStatus(tx.Status) != domain.StatusPending {
		return nil, domain.ErrAlreadyReviewed
	}
	return tx, nil
}

// revert is the compensating action for a failed issuance: the transaction
// returns to pending with reviewer fields cleared and the failure recorded
// in the admin comment, so it reappears in the review queue with context.
func (s *Service) revert(ctx context.Context, txID uuid.UUID, cause error, log *slog.Logger) {
	note := fmt.Sprintf("entry issuance failed: %v", cause)
	fields := dto.ReviewFields{AdminComment: &note}
	if err := s.ledger.CompareAndSetStatus(
		ctx, txID, domain.StatusApproved, domain.StatusPending, fields,
	); err != nil {
		log.Error("failed to revert transaction to pending", "error", err, "cause", cause)
		return
	}
	log.Warn("transaction reverted to pending", "cause", cause)
}
