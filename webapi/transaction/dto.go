package transaction

import "time"

// CreateRequest is the body for recording a pending transaction from the
// purchase flow.
type CreateRequest struct {
	MethodKind     string         `json:"method_kind" validate:"required,oneof=card manual_transfer qr_code"`
	Purpose        string         `json:"purpose" validate:"required,oneof=raffle_ticket subscription other"`
	Amount         float64        `json:"amount" validate:"gte=0"`
	Currency       string         `json:"currency" validate:"required,len=3"`
	RaffleID       *string        `json:"raffle_id" validate:"omitempty,uuid4"`
	SubscriptionID *string        `json:"subscription_id" validate:"omitempty,uuid4"`
	ReceiptURL     *string        `json:"receipt_url" validate:"omitempty,url"`
	Metadata       map[string]any `json:"metadata"`
}

// TransactionDTO is the wire shape of a ledger transaction.
type TransactionDTO struct {
	ID              string         `json:"id"`
	UserID          string         `json:"user_id"`
	MethodKind      string         `json:"method_kind"`
	Purpose         string         `json:"purpose"`
	Amount          float64        `json:"amount"`
	Currency        string         `json:"currency"`
	RaffleID        *string        `json:"raffle_id,omitempty"`
	SubscriptionID  *string        `json:"subscription_id,omitempty"`
	PaymentIntentID *string        `json:"payment_intent_id,omitempty"`
	ReceiptURL      *string        `json:"receipt_url,omitempty"`
	Status          string         `json:"status"`
	ReviewedBy      *string        `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time     `json:"reviewed_at,omitempty"`
	AdminComment    *string        `json:"admin_comment,omitempty"`
	RejectionReason *string        `json:"rejection_reason,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}
