package raffle

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/raffleworks/raffleworks/pkg/domain"
	repo "github.com/raffleworks/raffleworks/pkg/repository/raffle"
	"gorm.io/gorm"

	"github.com/raffleworks/raffleworks/infra/repository/model"
)

type repository struct {
	db *gorm.DB
}

// New creates a raffle lookup repository using the provided *gorm.DB.
func New(db *gorm.DB) repo.Repository {
	return &repository{db: db}
}

// Get implements raffle.Repository.
func (r *repository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Raffle, error) {
	var raffle model.Raffle
	if err := r.db.WithContext(
		ctx,
	).First(
		&raffle,
		"id = ?",
		id,
	).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &domain.Raffle{
		ID:           raffle.ID,
		Status:       raffle.Status,
		AcceptingNew: raffle.Status == model.RaffleStatusOpen,
		PerUserCap:   raffle.PerUserCap,
	}, nil
}
