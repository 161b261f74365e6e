package entry

import (
	"context"

	"github.com/google/uuid"
	"github.com/raffleworks/raffleworks/pkg/domain"
	"github.com/raffleworks/raffleworks/pkg/dto"
)

// Repository issues and reads raffle entries. Issue is the entry issuer
// contract: cap check and inserts happen in one atomic unit, so two
// concurrent issuances for the same user and raffle cannot both squeeze
// past a single remaining cap slot.
type Repository interface {
	// Issue creates count entries for the user in the raffle and returns the
	// created entry ids. Either all count entries are persisted or none are.
	// Fails with domain.ErrCapExceeded when any of the requested entries
	// would exceed the raffle's per-user cap, domain.ErrRaffleClosed when
	// the raffle is not accepting entries.
	Issue(
		ctx context.Context,
		raffleID, userID uuid.UUID,
		count int,
		source domain.EntrySource,
		subscriptionID *uuid.UUID,
	) ([]uuid.UUID, error)

	// ListByUser lists a user's entries in a raffle, by ticket number.
	ListByUser(ctx context.Context, raffleID, userID uuid.UUID) ([]*dto.EntryRead, error)
}
