package transaction

import (
	"context"

	"github.com/google/uuid"
	"github.com/raffleworks/raffleworks/pkg/domain"
	"github.com/raffleworks/raffleworks/pkg/dto"
)

// Repository is the ledger store: the single source of truth for payment
// transaction status. Rows are append-only; status moves only through
// CompareAndSetStatus so concurrent reviewers cannot both act on the same
// transaction.
type Repository interface {
	// Insert creates a new transaction row in pending.
	Insert(ctx context.Context, create dto.TransactionCreate) error

	// Get retrieves a transaction by its ID, or domain.ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (*dto.TransactionRead, error)

	// GetByPaymentIntentID retrieves a transaction by its gateway
	// payment-intent id, or domain.ErrNotFound.
	GetByPaymentIntentID(ctx context.Context, intentID string) (*dto.TransactionRead, error)

	// ListByStatus lists transactions in the given status, oldest first.
	ListByStatus(ctx context.Context, status domain.TransactionStatus) ([]*dto.TransactionRead, error)

	// CompareAndSetStatus transitions the transaction's status and writes the
	// review fields in one guarded update. It succeeds only if the stored
	// status still equals expected at write time; a lost race yields
	// domain.ErrConflict, a missing row domain.ErrNotFound.
	CompareAndSetStatus(
		ctx context.Context,
		id uuid.UUID,
		expected, next domain.TransactionStatus,
		fields dto.ReviewFields,
	) error
}
