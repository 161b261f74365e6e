package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Intent is the gateway's view of a payment intent, returned unchanged to
// callers. Only StatusSucceeded counts as true success; every other status,
// including ones the gateway considers complete in its own terms, must be
// treated as not completed.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
}

// StatusSucceeded is the only intent status treated as payment success.
const StatusSucceeded = "succeeded"

// ErrorKind buckets gateway errors for the retry classifier.
type ErrorKind string

const (
	// KindConnection covers network-level failures reaching the gateway.
	KindConnection ErrorKind = "connection"
	// KindRateLimit covers gateway rate limiting.
	KindRateLimit ErrorKind = "rate_limit"
	// KindIdempotency covers idempotency conflicts the gateway itself flags
	// as retryable.
	KindIdempotency ErrorKind = "idempotency"
	// KindInternal covers internal gateway errors.
	KindInternal ErrorKind = "internal"
	// KindProcessing covers generic processing errors.
	KindProcessing ErrorKind = "processing"
	// KindCardDeclined covers declines; never retried.
	KindCardDeclined ErrorKind = "card_declined"
	// KindInvalidRequest covers validation errors; never retried.
	KindInvalidRequest ErrorKind = "invalid_request"
	// KindUnknown covers everything else; treated as terminal.
	KindUnknown ErrorKind = "unknown"
)

// Error is a typed gateway error carrying the gateway's kind and code.
type Error struct {
	Kind ErrorKind
	Code string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("gateway error (%s/%s): %v", e.Kind, e.Code, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Transient reports whether retrying the same idempotent call may succeed.
func (e *Error) Transient() bool {
	switch e.Kind {
	case KindConnection, KindRateLimit, KindIdempotency, KindInternal, KindProcessing:
		return true
	}
	return false
}

// IsTransient is the retry classifier for gateway calls: true only for typed
// gateway errors whose kind is retryable.
func IsTransient(err error) bool {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Transient()
	}
	return false
}

// Gateway abstracts the card-payment gateway. Implementations must keep
// ConfirmIntent idempotent per intent (the intent carries its own
// idempotency key), which is what makes the bounded retry safe.
type Gateway interface {
	// CreateIntent creates a payment intent for the user. The caller's
	// idempotency key makes replays return the original intent.
	CreateIntent(
		ctx context.Context,
		userID uuid.UUID,
		amount int64,
		currency string,
		idempotencyKey string,
		metadata map[string]string,
	) (*Intent, error)

	// ConfirmIntent confirms a previously created intent with the given
	// payment method handle.
	ConfirmIntent(ctx context.Context, intentID, paymentMethod string) (*Intent, error)
}

// IntentIDFromClientSecret extracts the intent id from a client secret of
// the form "<intent id>_secret_<nonce>".
func IntentIDFromClientSecret(clientSecret string) string {
	if i := strings.Index(clientSecret, "_secret"); i > 0 {
		return clientSecret[:i]
	}
	return clientSecret
}
