// Package payment holds the card-payment side of the core: gateway intent
// creation, the bounded-retry confirmation client, idempotent subscription
// finalization, and webhook reconciliation of card transactions.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/raffleworks/raffleworks/pkg/cache"
	"github.com/raffleworks/raffleworks/pkg/domain"
	"github.com/raffleworks/raffleworks/pkg/dto"
	"github.com/raffleworks/raffleworks/pkg/provider"
	subrepo "github.com/raffleworks/raffleworks/pkg/repository/subscription"
	txrepo "github.com/raffleworks/raffleworks/pkg/repository/transaction"
	"github.com/raffleworks/raffleworks/pkg/retry"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultMaxAttempts bounds gateway confirmation retries.
	DefaultMaxAttempts = 3
	// DefaultBackoff is the linear backoff unit between attempts: the n-th
	// failed attempt waits n × DefaultBackoff.
	DefaultBackoff = 500 * time.Millisecond

	idempotencyTTL = 24 * time.Hour
)

// Plan is a purchasable subscription plan: the amount is in the smallest
// currency unit, the way the gateway wants it.
type Plan struct {
	Ref      string
	Amount   int64
	Currency string
}

// Service wires the gateway, subscription store, and ledger together for
// the card-payment flow.
type Service struct {
	gateway     provider.Gateway
	subs        subrepo.Repository
	ledger      txrepo.Repository
	idem        cache.IdempotencyStore
	plans       map[string]Plan
	inflight    singleflight.Group
	maxAttempts int
	backoff     time.Duration
	logger      *slog.Logger
}

// New creates a payment service. plans maps plan refs to their pricing.
func New(
	gateway provider.Gateway,
	subs subrepo.Repository,
	ledger txrepo.Repository,
	idem cache.IdempotencyStore,
	plans map[string]Plan,
	logger *slog.Logger,
) *Service {
	return &Service{
		gateway:     gateway,
		subs:        subs,
		ledger:      ledger,
		idem:        idem,
		plans:       plans,
		maxAttempts: DefaultMaxAttempts,
		backoff:     DefaultBackoff,
		logger:      logger,
	}
}

// WithRetryPolicy overrides the confirmation retry bound and backoff unit.
func (s *Service) WithRetryPolicy(maxAttempts int, backoff time.Duration) *Service {
	s.maxAttempts = maxAttempts
	s.backoff = backoff
	return s
}

// CreateIntent creates a pending subscription for the plan plus a gateway
// payment intent carrying the caller's idempotency key, and records the
// pending card transaction in the ledger. Returns the intent client secret
// and the subscription reference.
func (s *Service) CreateIntent(
	ctx context.Context,
	userID uuid.UUID,
	planRef, idempotencyKey string,
) (clientSecret string, subscriptionID uuid.UUID, err error) {
	log := s.logger.With(
		"handler", "payment.CreateIntent",
		"user_id", userID,
		"plan_ref", planRef,
	)

	plan, ok := s.plans[planRef]
	if !ok {
		return "", uuid.Nil, fmt.Errorf("unknown plan %q", planRef)
	}

	subscriptionID = uuid.New()
	if err = s.subs.Create(ctx, dto.SubscriptionCreate{
		ID:      subscriptionID,
		UserID:  userID,
		PlanRef: planRef,
	}); err != nil {
		log.Error("failed to create pending subscription", "error", err)
		return "", uuid.Nil, fmt.Errorf("failed to create pending subscription: %w", err)
	}

	intent, err := s.gateway.CreateIntent(
		ctx, userID, plan.Amount, plan.Currency, idempotencyKey,
		map[string]string{
			"subscription_id": subscriptionID.String(),
			"plan_ref":        planRef,
		},
	)
	if err != nil {
		log.Error("failed to create payment intent", "error", err)
		return "", uuid.Nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	tx, err := domain.NewPaymentTransaction(
		userID, domain.MethodCard, domain.PurposeSubscription,
		float64(plan.Amount)/100, plan.Currency, nil, &subscriptionID,
	)
	if err != nil {
		return "", uuid.Nil, err
	}
	if err = s.ledger.Insert(ctx, dto.TransactionCreate{
		ID:              tx.ID,
		UserID:          tx.UserID,
		MethodKind:      string(tx.MethodKind),
		Purpose:         string(tx.Purpose),
		Amount:          tx.Amount,
		Currency:        tx.Currency,
		SubscriptionID:  tx.SubscriptionID,
		PaymentIntentID: &intent.ID,
	}); err != nil {
		log.Error("failed to record pending transaction", "error", err)
		return "", uuid.Nil, fmt.Errorf("failed to record pending transaction: %w", err)
	}

	log.Info("payment intent created", "payment_intent_id", intent.ID)
	return intent.ClientSecret, subscriptionID, nil
}

// Confirm confirms a client-initiated card payment against the gateway,
// retrying transient failures with linear backoff. Each attempt reuses the
// same intent, whose own idempotency key makes the retry safe. The gateway
// result is returned unchanged; callers must treat any status other than
// succeeded as not completed.
func (s *Service) Confirm(
	ctx context.Context,
	clientSecret, paymentMethod string,
) (*provider.Intent, error) {
	intentID := provider.IntentIDFromClientSecret(clientSecret)
	log := s.logger.With(
		"handler", "payment.Confirm",
		"payment_intent_id", intentID,
	)

	intent, err := retry.Do(
		ctx, s.maxAttempts, s.backoff, provider.IsTransient,
		func(ctx context.Context) (*provider.Intent, error) {
			return s.gateway.ConfirmIntent(ctx, intentID, paymentMethod)
		},
	)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		if provider.IsTransient(err) {
			log.Warn("confirmation retries exhausted", "error", err)
			return nil, fmt.Errorf("%w: %v", domain.ErrTransientGateway, err)
		}
		log.Warn("confirmation failed", "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrTerminalGateway, err)
	}

	log.Info("payment intent confirmed", "status", intent.Status)
	return intent, nil
}

// Finalize exchanges a confirmed card payment for an activated
// subscription. It is safe to call twice with the same idempotency key: the
// replay observes the already-activated subscription and returns the same
// id. No internal retry happens here; retries belong to Confirm.
func (s *Service) Finalize(
	ctx context.Context,
	subscriptionID uuid.UUID,
	paymentIntentID *string,
	planRef, idempotencyKey string,
) (uuid.UUID, error) {
	log := s.logger.With(
		"handler", "payment.Finalize",
		"subscription_id", subscriptionID,
		"plan_ref", planRef,
	)

	if id, ok, err := s.idem.Get(ctx, idempotencyKey); err == nil && ok {
		log.Info("finalize replay served from idempotency store")
		return id, nil
	}

	// Collapse concurrent finalize calls for the same key onto one flight;
	// the unique key column on activations remains the durable guard.
	result, err, _ := s.inflight.Do(idempotencyKey, func() (any, error) {
		if existing, err := s.subs.GetByIdempotencyKey(ctx, idempotencyKey); err == nil {
			return existing.ID, nil
		} else if !errors.Is(err, domain.ErrNotFound) {
			return uuid.Nil, err
		}

		activated, err := s.subs.Activate(ctx, subscriptionID, idempotencyKey, paymentIntentID)
		if err != nil {
			return uuid.Nil, err
		}
		return activated.ID, nil
	})
	if err != nil {
		log.Error("finalization failed", "error", err)
		return uuid.Nil, fmt.Errorf("%w: %v", domain.ErrFinalizationFailed, err)
	}
	id := result.(uuid.UUID)

	if err := s.idem.Set(ctx, idempotencyKey, id, idempotencyTTL); err != nil {
		log.Warn("failed to record idempotency key", "error", err)
	}

	if paymentIntentID != nil {
		s.reconcile(ctx, *paymentIntentID, true, log)
	}

	log.Info("subscription activated", "activated_id", id)
	return id, nil
}

// ReconcileIntent settles the ledger transaction matching a gateway payment
// intent, driven by the gateway's webhook events.
func (s *Service) ReconcileIntent(ctx context.Context, intentID string, succeeded bool) error {
	log := s.logger.With(
		"handler", "payment.ReconcileIntent",
		"payment_intent_id", intentID,
		"succeeded", succeeded,
	)
	s.reconcile(ctx, intentID, succeeded, log)
	return nil
}

func (s *Service) reconcile(ctx context.Context, intentID string, succeeded bool, log *slog.Logger) {
	tx, err := s.ledger.GetByPaymentIntentID(ctx, intentID)
	if err != nil {
		// The purchase flow owns transaction creation; a missing row is not
		// ours to fix.
		if !errors.Is(err, domain.ErrNotFound) {
			log.Error("failed to load transaction for reconciliation", "error", err)
		}
		return
	}
	next := domain.StatusCompleted
	if !succeeded {
		next = domain.StatusFailed
	}
	err = s.ledger.CompareAndSetStatus(
		ctx, tx.ID, domain.StatusPending, next, dto.ReviewFields{},
	)
	switch {
	case err == nil:
		log.Info("transaction reconciled", "transaction_id", tx.ID, "status", next)
	case errors.Is(err, domain.ErrConflict):
		// Already settled by an earlier webhook delivery or finalize call.
	default:
		log.Error("failed to reconcile transaction", "transaction_id", tx.ID, "error", err)
	}
}
