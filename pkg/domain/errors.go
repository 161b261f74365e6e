package domain

import "errors"

// Common domain errors
var (
	// ErrNotFound is returned when a requested resource is not found
	ErrNotFound = errors.New("resource not found")
	// ErrConflict is returned when a compare-and-set write lost a concurrency
	// race: another caller already transitioned the record.
	ErrConflict = errors.New("concurrent update conflict")
	// ErrInvalidMethodKind is returned when a transaction is sent down the
	// wrong review path for its payment method (card payments are reconciled
	// through the gateway, not manual review).
	ErrInvalidMethodKind = errors.New("payment method not reviewable through this path")
	// ErrAlreadyReviewed is returned when the transaction has already left
	// the pending state.
	ErrAlreadyReviewed = errors.New("transaction already reviewed")
	// ErrMissingReason is returned when a rejection carries no reason.
	ErrMissingReason = errors.New("rejection reason is required")
	// ErrCapExceeded is returned when issuing entries would push a user over
	// the raffle's per-user limit.
	ErrCapExceeded = errors.New("per-user entry cap exceeded")
	// ErrRaffleClosed is returned when the raffle is not accepting entries.
	ErrRaffleClosed = errors.New("raffle is not accepting entries")
	// ErrIssuanceFailed wraps an entry-issuance error surfaced from an
	// approval; the transaction has been reverted to pending.
	ErrIssuanceFailed = errors.New("entry issuance failed")
	// ErrTransientGateway is returned after the bounded retry budget against
	// the payment gateway is exhausted. Callers must not retry automatically.
	ErrTransientGateway = errors.New("transient gateway error, retries exhausted")
	// ErrTerminalGateway is returned for gateway errors that retrying cannot
	// fix (declines, validation failures).
	ErrTerminalGateway = errors.New("terminal gateway error")
	// ErrNotCompleted is returned when the gateway reports any payment status
	// other than succeeded.
	ErrNotCompleted = errors.New("payment not completed")
	// ErrFinalizationFailed wraps a downstream error while exchanging a
	// confirmed payment for an activated subscription.
	ErrFinalizationFailed = errors.New("subscription finalization failed")
	// ErrUnauthorized is returned when the caller is not an authorized reviewer.
	ErrUnauthorized = errors.New("unauthorized")
)
