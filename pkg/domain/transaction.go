package domain

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// TransactionStatus is the lifecycle state of a payment transaction.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusApproved  TransactionStatus = "approved"
	StatusRejected  TransactionStatus = "rejected"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
)

// validTransitions encodes the transaction state machine. Reviewers move
// pending through approved; the approved→pending edge is the compensating
// revert taken when entry issuance fails. The direct pending→completed and
// pending→failed edges belong to gateway reconciliation of card payments,
// which never pass through human review.
var validTransitions = map[TransactionStatus][]TransactionStatus{
	StatusPending:  {StatusApproved, StatusRejected, StatusCompleted, StatusFailed},
	StatusApproved: {StatusCompleted, StatusFailed, StatusPending},
	StatusFailed:   {StatusPending},
}

// CanTransition reports whether moving from one status to another is legal.
func (s TransactionStatus) CanTransition(to TransactionStatus) bool {
	for _, next := range validTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s TransactionStatus) Terminal() bool {
	return len(validTransitions[s]) == 0
}

// MethodKind identifies how a payment was made.
type MethodKind string

const (
	MethodCard           MethodKind = "card"
	MethodManualTransfer MethodKind = "manual_transfer"
	MethodQRCode         MethodKind = "qr_code"
)

// Reviewable reports whether the payment method goes through human review.
// Card payments are reconciled via the gateway confirmation path instead.
func (k MethodKind) Reviewable() bool {
	return k == MethodManualTransfer || k == MethodQRCode
}

// Purpose identifies what a payment transaction pays for.
type Purpose string

const (
	PurposeRaffleTicket Purpose = "raffle_ticket"
	PurposeSubscription Purpose = "subscription"
	PurposeOther        Purpose = "other"
)

// EntrySource tags how a raffle entry came to exist.
type EntrySource string

const (
	SourceManualPurchase    EntrySource = "manual_purchase"
	SourceSubscriptionGrant EntrySource = "subscription_grant"
)

// PaymentTransaction is the append-only ledger record of a payment. Rows are
// created pending by the purchase flow and mutated only by the reviewer or
// the gateway reconciliation path; they are never deleted.
type PaymentTransaction struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	MethodKind      MethodKind
	Purpose         Purpose
	Amount          float64
	Currency        string
	RaffleID        *uuid.UUID
	SubscriptionID  *uuid.UUID
	PaymentIntentID *string
	ReceiptURL      *string
	Status          TransactionStatus
	ReviewedBy      *uuid.UUID
	ReviewedAt      *time.Time
	AdminComment    *string
	RejectionReason *string
	Metadata        map[string]any
	Created         time.Time
	Updated         time.Time
}

// NewPaymentTransaction builds a pending transaction, enforcing the
// purpose/reference invariant: raffle-ticket transactions must reference a
// raffle, subscription transactions a subscription.
func NewPaymentTransaction(
	userID uuid.UUID,
	kind MethodKind,
	purpose Purpose,
	amount float64,
	currency string,
	raffleID, subscriptionID *uuid.UUID,
) (*PaymentTransaction, error) {
	if amount < 0 {
		return nil, fmt.Errorf("amount must be non-negative, got %v", amount)
	}
	switch purpose {
	case PurposeRaffleTicket:
		if raffleID == nil {
			return nil, fmt.Errorf("raffle ticket transaction requires a raffle reference")
		}
	case PurposeSubscription:
		if subscriptionID == nil {
			return nil, fmt.Errorf("subscription transaction requires a subscription reference")
		}
	}
	now := time.Now().UTC()
	return &PaymentTransaction{
		ID:             uuid.New(),
		UserID:         userID,
		MethodKind:     kind,
		Purpose:        purpose,
		Amount:         amount,
		Currency:       currency,
		RaffleID:       raffleID,
		SubscriptionID: subscriptionID,
		Status:         StatusPending,
		Created:        now,
		Updated:        now,
	}, nil
}

// TicketsRequested reads the requested ticket count from the transaction
// metadata. The value is user-influenced, so it is coerced defensively:
// absent, non-numeric, or below 1 all collapse to 1.
func (t *PaymentTransaction) TicketsRequested() int {
	return CoerceTicketCount(t.Metadata["tickets_requested"])
}

// CoerceTicketCount applies the defensive default rule for the
// tickets_requested metadata value at the boundary where it is accepted.
func CoerceTicketCount(raw any) int {
	n := 1
	switch v := raw.(type) {
	case int:
		n = v
	case int64:
		n = int(v)
	case float64:
		n = int(v)
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 1
		}
		n = int(parsed)
	default:
		return 1
	}
	if n < 1 {
		return 1
	}
	return n
}
