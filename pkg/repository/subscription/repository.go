package subscription

import (
	"context"

	"github.com/google/uuid"
	"github.com/raffleworks/raffleworks/pkg/dto"
)

// Repository stores subscriptions and performs the idempotent activation
// exchange used by the finalizer.
type Repository interface {
	// Create inserts a new pending subscription.
	Create(ctx context.Context, create dto.SubscriptionCreate) error

	// Get retrieves a subscription by ID, or domain.ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (*dto.SubscriptionRead, error)

	// GetByIdempotencyKey retrieves the subscription activated with the
	// given key, or domain.ErrNotFound when no activation used it yet.
	GetByIdempotencyKey(ctx context.Context, key string) (*dto.SubscriptionRead, error)

	// Activate marks the subscription active, recording the idempotency key
	// and optional confirmed payment-intent id, all in one transaction. The
	// key is unique across activations: a replay with a key that already
	// activated a subscription returns that subscription unchanged instead
	// of activating twice.
	Activate(
		ctx context.Context,
		id uuid.UUID,
		idempotencyKey string,
		paymentIntentID *string,
	) (*dto.SubscriptionRead, error)
}
