package payment

// CreateIntentRequest is the body for creating a subscription payment intent.
type CreateIntentRequest struct {
	PlanRef        string `json:"plan_ref" validate:"required"`
	IdempotencyKey string `json:"idempotency_key" validate:"required,min=8,max=128"`
}

// CreateIntentResponse carries the gateway client secret and the pending
// subscription reference.
type CreateIntentResponse struct {
	ClientSecret    string `json:"client_secret"`
	SubscriptionRef string `json:"subscription_ref"`
}

// ConfirmRequest is the body for confirming a card payment server-side.
type ConfirmRequest struct {
	ClientSecret  string `json:"client_secret" validate:"required"`
	PaymentMethod string `json:"payment_method" validate:"required"`
}

// ConfirmResponse is the gateway's result, passed through unchanged.
type ConfirmResponse struct {
	PaymentIntentID string `json:"payment_intent_id"`
	Status          string `json:"status"`
}

// FinalizeRequest is the body for exchanging a confirmed payment for an
// activated subscription.
type FinalizeRequest struct {
	SubscriptionRef string  `json:"subscription_ref" validate:"required,uuid4"`
	PaymentIntentID *string `json:"payment_intent_id" validate:"omitempty"`
	PlanRef         string  `json:"plan_ref" validate:"required"`
	IdempotencyKey  string  `json:"idempotency_key" validate:"required,min=8,max=128"`
}

// FinalizeResponse carries the activated subscription id.
type FinalizeResponse struct {
	SubscriptionID string `json:"subscription_id"`
}
