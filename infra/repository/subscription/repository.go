package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/raffleworks/raffleworks/pkg/domain"
	"github.com/raffleworks/raffleworks/pkg/dto"
	repo "github.com/raffleworks/raffleworks/pkg/repository/subscription"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/raffleworks/raffleworks/infra/repository/model"
)

type repository struct {
	db *gorm.DB
}

// New creates a subscription repository using the provided *gorm.DB.
func New(db *gorm.DB) repo.Repository {
	return &repository{db: db}
}

// Create implements subscription.Repository.
func (r *repository) Create(
	ctx context.Context,
	create dto.SubscriptionCreate,
) error {
	sub := model.Subscription{
		ID:      create.ID,
		UserID:  create.UserID,
		PlanRef: create.PlanRef,
		Status:  string(domain.SubscriptionPending),
	}
	return r.db.WithContext(ctx).Create(&sub).Error
}

// Get implements subscription.Repository.
func (r *repository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*dto.SubscriptionRead, error) {
	var sub model.Subscription
	if err := r.db.WithContext(
		ctx,
	).First(
		&sub,
		"id = ?",
		id,
	).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return mapModelToReadDTO(&sub), nil
}

// GetByIdempotencyKey implements subscription.Repository.
func (r *repository) GetByIdempotencyKey(
	ctx context.Context,
	key string,
) (*dto.SubscriptionRead, error) {
	var sub model.Subscription
	if err := r.db.WithContext(
		ctx,
	).Where(
		"idempotency_key = ?",
		key,
	).First(
		&sub,
	).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return mapModelToReadDTO(&sub), nil
}

// Activate implements subscription.Repository. The replay check and the
// activation write share one transaction, and the unique index on
// idempotency_key backstops any race the check misses: a concurrent
// duplicate fails the insert-side constraint and resolves to the original
// activation on re-read.
func (r *repository) Activate(
	ctx context.Context,
	id uuid.UUID,
	idempotencyKey string,
	paymentIntentID *string,
) (*dto.SubscriptionRead, error) {
	var out *dto.SubscriptionRead
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Subscription
		err := tx.Where(
			"idempotency_key = ?",
			idempotencyKey,
		).First(
			&existing,
		).Error
		if err == nil {
			out = mapModelToReadDTO(&existing)
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var sub model.Subscription
		if err := tx.Clauses(
			clause.Locking{Strength: "UPDATE"},
		).First(
			&sub,
			"id = ?",
			id,
		).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		now := time.Now().UTC()
		updates := map[string]any{
			"status":            string(domain.SubscriptionActive),
			"idempotency_key":   idempotencyKey,
			"payment_intent_id": paymentIntentID,
			"activated_at":      now,
		}
		if err := tx.Model(&sub).Updates(updates).Error; err != nil {
			return err
		}
		sub.Status = string(domain.SubscriptionActive)
		sub.IdempotencyKey = &idempotencyKey
		sub.PaymentIntentID = paymentIntentID
		sub.ActivatedAt = &now
		out = mapModelToReadDTO(&sub)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func mapModelToReadDTO(sub *model.Subscription) *dto.SubscriptionRead {
	return &dto.SubscriptionRead{
		ID:             sub.ID,
		UserID:         sub.UserID,
		PlanRef:        sub.PlanRef,
		Status:         sub.Status,
		IdempotencyKey: sub.IdempotencyKey,
		ActivatedAt:    sub.ActivatedAt,
		CreatedAt:      sub.CreatedAt,
	}
}
