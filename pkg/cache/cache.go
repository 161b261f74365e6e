package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// IdempotencyStore remembers which subscription a finalize idempotency key
// produced, so replays can short-circuit before touching storage. It is an
// optimization layer only: the durable guard is the unique idempotency-key
// column on subscription activations.
type IdempotencyStore interface {
	// Get returns the subscription id recorded for the key, and whether one
	// was found.
	Get(ctx context.Context, key string) (uuid.UUID, bool, error)

	// Set records the subscription id for the key with a TTL.
	Set(ctx context.Context, key string, subscriptionID uuid.UUID, ttl time.Duration) error
}
