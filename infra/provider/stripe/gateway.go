// Package stripe implements the payment gateway provider against the
// Stripe API, translating SDK errors into the typed gateway errors the
// retry classifier understands.
package stripe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/raffleworks/raffleworks/pkg/config"
	"github.com/raffleworks/raffleworks/pkg/provider"
	"github.com/stripe/stripe-go/v82"
)

// Gateway implements provider.Gateway using the Stripe API.
type Gateway struct {
	client *stripe.Client
	cfg    *config.Stripe
	logger *slog.Logger
}

// New creates a Stripe gateway with the given configuration and logger.
func New(cfg *config.Stripe, logger *slog.Logger) *Gateway {
	client := stripe.NewClient(cfg.ApiKey)
	return &Gateway{client: client, cfg: cfg, logger: logger}
}

// CreateIntent implements provider.Gateway. The caller's idempotency key is
// attached to the request, so a replayed create returns the original intent
// instead of opening a second charge.
func (g *Gateway) CreateIntent(
	ctx context.Context,
	userID uuid.UUID,
	amount int64,
	currency string,
	idempotencyKey string,
	metadata map[string]string,
) (*provider.Intent, error) {
	params := &stripe.PaymentIntentCreateParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		Metadata: metadata,
	}
	if params.Metadata == nil {
		params.Metadata = map[string]string{}
	}
	params.Metadata["user_id"] = userID.String()
	if idempotencyKey != "" {
		params.IdempotencyKey = stripe.String(idempotencyKey)
	}

	log := g.logger.With(
		"handler", "stripe.CreateIntent",
		"user_id", userID,
		"amount", amount,
		"currency", currency,
	)
	pi, err := g.client.V1PaymentIntents.Create(ctx, params)
	if err != nil {
		log.Error("stripe: failed to create payment intent", "err", err)
		return nil, classify(err)
	}
	return mapIntent(pi), nil
}

// ConfirmIntent implements provider.Gateway. Confirmation reuses the
// intent's own idempotency key on the Stripe side, which is what makes the
// caller's bounded retry safe.
func (g *Gateway) ConfirmIntent(
	ctx context.Context,
	intentID, paymentMethod string,
) (*provider.Intent, error) {
	params := &stripe.PaymentIntentConfirmParams{
		PaymentMethod: stripe.String(paymentMethod),
	}
	log := g.logger.With(
		"handler", "stripe.ConfirmIntent",
		"payment_intent_id", intentID,
	)
	pi, err := g.client.V1PaymentIntents.Confirm(ctx, intentID, params)
	if err != nil {
		log.Warn("stripe: confirm attempt failed", "err", err)
		return nil, classify(err)
	}
	return mapIntent(pi), nil
}

func mapIntent(pi *stripe.PaymentIntent) *provider.Intent {
	return &provider.Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
	}
}

// classify maps a Stripe SDK error onto the provider error taxonomy.
// Anything that is not a *stripe.Error is assumed to be a network-level
// failure and therefore transient.
func classify(err error) error {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return &provider.Error{
			Kind: provider.KindConnection,
			Code: "api_connection_error",
			Err:  err,
		}
	}

	kind := provider.KindUnknown
	switch {
	case se.Code == stripe.ErrorCodeRateLimit || se.HTTPStatusCode == 429:
		kind = provider.KindRateLimit
	case se.Type == stripe.ErrorTypeIdempotency:
		kind = provider.KindIdempotency
	case se.Type == stripe.ErrorTypeAPI:
		kind = provider.KindInternal
	case se.Code == stripe.ErrorCodeProcessingError:
		kind = provider.KindProcessing
	case se.Type == stripe.ErrorTypeCard:
		kind = provider.KindCardDeclined
	case se.Type == stripe.ErrorTypeInvalidRequest:
		kind = provider.KindInvalidRequest
	}
	return &provider.Error{
		Kind: kind,
		Code: string(se.Code),
		Err:  fmt.Errorf("%s: %s", se.Type, se.Msg),
	}
}
