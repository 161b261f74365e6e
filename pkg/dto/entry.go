package dto

import (
	"time"

	"github.com/google/uuid"
)

// EntryRead is a read-optimized DTO for raffle entries.
type EntryRead struct {
	ID             uuid.UUID
	RaffleID       uuid.UUID
	UserID         uuid.UUID
	TicketNumber   int
	Source         string
	SubscriptionID *uuid.UUID
	CreatedAt      time.Time
}

// SubscriptionRead is a read-optimized DTO for subscriptions.
type SubscriptionRead struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	PlanRef        string
	Status         string
	IdempotencyKey *string
	ActivatedAt    *time.Time
	CreatedAt      time.Time
}

// SubscriptionCreate is a DTO for creating a pending subscription during
// payment-intent creation.
type SubscriptionCreate struct {
	ID      uuid.UUID
	UserID  uuid.UUID
	PlanRef string
}
