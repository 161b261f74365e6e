package dto

import (
	"time"

	"github.com/google/uuid"
)

// TransactionRead is a read-optimized DTO for transaction queries and API responses.
type TransactionRead struct {
	ID              uuid.UUID      // Unique transaction identifier
	UserID          uuid.UUID      // User who owns the transaction
	MethodKind      string         // card, manual_transfer, qr_code
	Purpose         string         // raffle_ticket, subscription, other
	Amount          float64        // Monetary amount in main units
	Currency        string         // ISO currency code
	RaffleID        *uuid.UUID     // Set for raffle-ticket purchases
	SubscriptionID  *uuid.UUID     // Set for subscription purchases
	PaymentIntentID *string        // External gateway payment-intent id
	ReceiptURL      *string        // Uploaded receipt reference
	Status          string         // pending, approved, rejected, completed, failed
	ReviewedBy      *uuid.UUID     // Reviewer id, set once status leaves pending
	ReviewedAt      *time.Time     // Review timestamp
	AdminComment    *string        // Reviewer note or issuance-failure note
	RejectionReason *string        // Mandatory on rejection
	Metadata        map[string]any // Free-form, may carry tickets_requested
	CreatedAt       time.Time      // Timestamp of transaction creation
}

// TransactionCreate is a DTO for inserting a new pending transaction.
type TransactionCreate struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	MethodKind      string
	Purpose         string
	Amount          float64
	Currency        string
	RaffleID        *uuid.UUID
	SubscriptionID  *uuid.UUID
	PaymentIntentID *string
	ReceiptURL      *string
	Metadata        map[string]any
}

// ReviewFields carries the reviewer-audit columns written together with a
// status transition. Nil pointers clear the corresponding column, which is
// how the compensating revert returns a transaction to a clean pending state.
type ReviewFields struct {
	ReviewedBy      *uuid.UUID
	ReviewedAt      *time.Time
	AdminComment    *string
	RejectionReason *string
}
