package review

// ApproveRequest is the body for approving a pending transaction.
type ApproveRequest struct {
	Comment string `json:"comment" validate:"omitempty,max=1000"`
}

// RejectRequest is the body for rejecting a pending transaction. The
// rejection reason is mandatory.
type RejectRequest struct {
	RejectionReason string `json:"rejection_reason" validate:"required"`
	Comment         string `json:"comment" validate:"omitempty,max=1000"`
}

// ApproveResponse carries the entry ids created by an approval (empty for
// subscription-purpose transactions).
type ApproveResponse struct {
	CreatedEntryIDs []string `json:"created_entry_ids"`
}
