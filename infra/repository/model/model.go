// Package model holds the GORM persistence models for the payment core.
// All repositories share these so cross-entity queries (cap checks, ticket
// numbering) run against one schema.
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Transaction is the persisted payment-transaction ledger row. Rows are
// append-only: status and review fields mutate, nothing is ever deleted.
type Transaction struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	MethodKind      string     `gorm:"type:varchar(32);not null;column:method_kind"`
	Purpose         string     `gorm:"type:varchar(32);not null;default:'other'"`
	Amount          float64    `gorm:"type:decimal(12,2);not null"`
	Currency        string     `gorm:"type:varchar(3);not null;default:'USD'"`
	RaffleID        *uuid.UUID `gorm:"type:uuid;index"`
	SubscriptionID  *uuid.UUID `gorm:"type:uuid;index"`
	PaymentIntentID *string    `gorm:"type:varchar(64);column:payment_intent_id;index"`
	ReceiptURL      *string    `gorm:"type:text;column:receipt_url"`
	Status          string     `gorm:"type:varchar(32);not null;default:'pending';index"`
	ReviewedBy      *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt      *time.Time
	AdminComment    *string           `gorm:"type:text"`
	RejectionReason *string           `gorm:"type:text"`
	Metadata        datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "payment_transactions"
}

// Entry is a persisted raffle entry. Ticket numbers are unique per raffle,
// enforced by the composite unique index.
type Entry struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RaffleID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_entries_raffle_ticket,priority:1;index:idx_entries_raffle_user,priority:1"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index:idx_entries_raffle_user,priority:2"`
	TicketNumber   int        `gorm:"not null;uniqueIndex:idx_entries_raffle_ticket,priority:2"`
	Source         string     `gorm:"type:varchar(32);not null"`
	SubscriptionID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt      time.Time
}

// TableName specifies the table name for the Entry model.
func (Entry) TableName() string {
	return "raffle_entries"
}

// Raffle is the slice of the raffle table the payment core reads: entry
// acceptance state and the per-user cap (NULL = unlimited).
type Raffle struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title      string    `gorm:"type:varchar(255)"`
	Status     string    `gorm:"type:varchar(32);not null;default:'open'"`
	PerUserCap *int      `gorm:"column:per_user_cap"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName specifies the table name for the Raffle model.
func (Raffle) TableName() string {
	return "raffles"
}

// RaffleStatusOpen is the only raffle status that accepts new entries.
const RaffleStatusOpen = "open"

// Subscription is a persisted subscription. The unique idempotency key is
// the durable guard against double activation.
type Subscription struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index"`
	PlanRef         string    `gorm:"type:varchar(64);not null;column:plan_ref"`
	Status          string    `gorm:"type:varchar(32);not null;default:'pending'"`
	IdempotencyKey  *string   `gorm:"type:varchar(128);uniqueIndex"`
	PaymentIntentID *string   `gorm:"type:varchar(64);column:payment_intent_id"`
	ActivatedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName specifies the table name for the Subscription model.
func (Subscription) TableName() string {
	return "subscriptions"
}
