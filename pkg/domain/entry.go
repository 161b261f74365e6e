package domain

import (
	"time"

	"github.com/google/uuid"
)

// RaffleEntry is a single numbered ticket held by a user in a raffle.
// Entries are created only as a side effect of a successful approval or a
// subscription grant and are never mutated or deleted afterwards.
type RaffleEntry struct {
	ID             uuid.UUID
	RaffleID       uuid.UUID
	UserID         uuid.UUID
	TicketNumber   int
	Source         EntrySource
	SubscriptionID *uuid.UUID
	Created        time.Time
}

// Raffle is the reviewer-facing view of a raffle: whether it currently
// accepts entries and its per-user entry cap (nil = unlimited).
type Raffle struct {
	ID           uuid.UUID
	Status       string
	AcceptingNew bool
	PerUserCap   *int
}

// SubscriptionStatus is the lifecycle state of a subscription.
type SubscriptionStatus string

const (
	SubscriptionPending SubscriptionStatus = "pending"
	SubscriptionActive  SubscriptionStatus = "active"
)

// Subscription is the slice of the subscription entity the payment core
// touches: identity, plan, status, and the idempotency key of the
// activation that created it.
type Subscription struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	PlanRef        string
	Status         SubscriptionStatus
	IdempotencyKey *string
	ActivatedAt    *time.Time
	Created        time.Time
	Updated        time.Time
}
