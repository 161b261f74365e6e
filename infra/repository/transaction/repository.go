package transaction

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/raffleworks/raffleworks/pkg/domain"
	"github.com/raffleworks/raffleworks/pkg/dto"
	repo "github.com/raffleworks/raffleworks/pkg/repository/transaction"
	"gorm.io/gorm"

	"github.com/raffleworks/raffleworks/infra/repository/model"
)

type repository struct {
	db *gorm.DB
}

// New creates a ledger-store repository using the provided *gorm.DB.
func New(db *gorm.DB) repo.Repository {
	return &repository{db: db}
}

// Insert implements transaction.Repository.
func (r *repository) Insert(
	ctx context.Context,
	create dto.TransactionCreate,
) error {
	tx := mapCreateDTOToModel(create)
	return r.db.WithContext(ctx).Create(&tx).Error
}

// Get implements transaction.Repository.
func (r *repository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*dto.TransactionRead, error) {
	var tx model.Transaction
	if err := r.db.WithContext(
		ctx,
	).First(
		&tx,
		"id = ?",
		id,
	).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return mapModelToReadDTO(&tx), nil
}

// GetByPaymentIntentID implements transaction.Repository.
func (r *repository) GetByPaymentIntentID(
	ctx context.Context,
	intentID string,
) (*dto.TransactionRead, error) {
	var tx model.Transaction
	if err := r.db.WithContext(
		ctx,
	).Where(
		"payment_intent_id = ?",
		intentID,
	).First(
		&tx,
	).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return mapModelToReadDTO(&tx), nil
}

// ListByStatus implements transaction.Repository.
func (r *repository) ListByStatus(
	ctx context.Context,
	status domain.TransactionStatus,
) ([]*dto.TransactionRead, error) {
	var txs []model.Transaction
	if err := r.db.WithContext(
		ctx,
	).Where(
		"status = ?",
		string(status),
	).Order(
		"created_at asc",
	).Find(
		&txs,
	).Error; err != nil {
		return nil, err
	}
	result := make([]*dto.TransactionRead, 0, len(txs))
	for i := range txs {
		result = append(result, mapModelToReadDTO(&txs[i]))
	}
	return result, nil
}

// CompareAndSetStatus implements transaction.Repository. The status guard
// lives in the WHERE clause, so the check and the write are one statement;
// there is no read-then-write window for a concurrent reviewer to slip
// through.
func (r *repository) CompareAndSetStatus(
	ctx context.Context,
	id uuid.UUID,
	expected, next domain.TransactionStatus,
	fields dto.ReviewFields,
) error {
	updates := map[string]any{
		"status":           string(next),
		"reviewed_by":      fields.ReviewedBy,
		"reviewed_at":      fields.ReviewedAt,
		"admin_comment":    fields.AdminComment,
		"rejection_reason": fields.RejectionReason,
	}
	res := r.db.WithContext(
		ctx,
	).Model(
		&model.Transaction{},
	).Where(
		"id = ? AND status = ?",
		id,
		string(expected),
	).Updates(
		updates,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Zero rows means the row is gone or the status moved under us;
		// tell the caller which.
		var count int64
		if err := r.db.WithContext(
			ctx,
		).Model(
			&model.Transaction{},
		).Where(
			"id = ?",
			id,
		).Count(
			&count,
		).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}
	return nil
}
