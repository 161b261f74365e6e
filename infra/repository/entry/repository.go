package entry

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/raffleworks/raffleworks/pkg/domain"
	"github.com/raffleworks/raffleworks/pkg/dto"
	repo "github.com/raffleworks/raffleworks/pkg/repository/entry"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/raffleworks/raffleworks/infra/repository/model"
)

type repository struct {
	db *gorm.DB
}

// New creates an entry repository using the provided *gorm.DB.
func New(db *gorm.DB) repo.Repository {
	return &repository{db: db}
}

// Issue implements entry.Repository. The raffle row is locked for the
// duration of the transaction, which serializes concurrent issuance for the
// same raffle: the cap check, ticket numbering, and inserts all happen
// under that lock, so two simultaneous approvals cannot both take the last
// cap slot or the same ticket number.
func (r *repository) Issue(
	ctx context.Context,
	raffleID, userID uuid.UUID,
	count int,
	source domain.EntrySource,
	subscriptionID *uuid.UUID,
) ([]uuid.UUID, error) {
	if count < 1 {
		count = 1
	}
	created := make([]uuid.UUID, 0, count)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var raffle model.Raffle
		if err := tx.Clauses(
			clause.Locking{Strength: "UPDATE"},
		).First(
			&raffle,
			"id = ?",
			raffleID,
		).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if raffle.Status != model.RaffleStatusOpen {
			return domain.ErrRaffleClosed
		}

		if raffle.PerUserCap != nil {
			var held int64
			if err := tx.Model(
				&model.Entry{},
			).Where(
				"raffle_id = ? AND user_id = ?",
				raffleID,
				userID,
			).Count(
				&held,
			).Error; err != nil {
				return err
			}
			if held+int64(count) > int64(*raffle.PerUserCap) {
				return domain.ErrCapExceeded
			}
		}

		var maxNumber int
		if err := tx.Model(
			&model.Entry{},
		).Where(
			"raffle_id = ?",
			raffleID,
		).Select(
			"COALESCE(MAX(ticket_number), 0)",
		).Scan(
			&maxNumber,
		).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		entries := make([]model.Entry, count)
		for i := range entries {
			id := uuid.New()
			entries[i] = model.Entry{
				ID:             id,
				RaffleID:       raffleID,
				UserID:         userID,
				TicketNumber:   maxNumber + i + 1,
				Source:         string(source),
				SubscriptionID: subscriptionID,
				CreatedAt:      now,
			}
			created = append(created, id)
		}
		return tx.Create(&entries).Error
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ListByUser implements entry.Repository.
func (r *repository) ListByUser(
	ctx context.Context,
	raffleID, userID uuid.UUID,
) ([]*dto.EntryRead, error) {
	var entries []model.Entry
	if err := r.db.WithContext(
		ctx,
	).Where(
		"raffle_id = ? AND user_id = ?",
		raffleID,
		userID,
	).Order(
		"ticket_number asc",
	).Find(
		&entries,
	).Error; err != nil {
		return nil, err
	}
	result := make([]*dto.EntryRead, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		result = append(result, &dto.EntryRead{
			ID:             e.ID,
			RaffleID:       e.RaffleID,
			UserID:         e.UserID,
			TicketNumber:   e.TicketNumber,
			Source:         e.Source,
			SubscriptionID: e.SubscriptionID,
			CreatedAt:      e.CreatedAt,
		})
	}
	return result, nil
}
