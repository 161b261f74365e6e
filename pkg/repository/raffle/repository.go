package raffle

import (
	"context"

	"github.com/google/uuid"
	"github.com/raffleworks/raffleworks/pkg/domain"
)

// Repository is the raffle lookup boundary: whether a raffle currently
// accepts entries and its per-user entry cap (nil = unlimited). Raffle
// administration itself lives outside the payment core.
type Repository interface {
	// Get retrieves a raffle by ID, or domain.ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (*domain.Raffle, error)
}
