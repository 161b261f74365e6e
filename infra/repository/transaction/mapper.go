package transaction

import (
	"github.com/google/uuid"
	"github.com/raffleworks/raffleworks/pkg/dto"
	"gorm.io/datatypes"

	"github.com/raffleworks/raffleworks/infra/repository/model"
)

func mapCreateDTOToModel(create dto.TransactionCreate) model.Transaction {
	id := create.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	var meta datatypes.JSONMap
	if create.Metadata != nil {
		meta = datatypes.JSONMap(create.Metadata)
	}
	return model.Transaction{
		ID:              id,
		UserID:          create.UserID,
		MethodKind:      create.MethodKind,
		Purpose:         create.Purpose,
		Amount:          create.Amount,
		Currency:        create.Currency,
		RaffleID:        create.RaffleID,
		SubscriptionID:  create.SubscriptionID,
		PaymentIntentID: create.PaymentIntentID,
		ReceiptURL:      create.ReceiptURL,
		Status:          "pending",
		Metadata:        meta,
	}
}

func mapModelToReadDTO(tx *model.Transaction) *dto.TransactionRead {
	var meta map[string]any
	if tx.Metadata != nil {
		meta = map[string]any(tx.Metadata)
	}
	return &dto.TransactionRead{
		ID:              tx.ID,
		UserID:          tx.UserID,
		MethodKind:      tx.MethodKind,
		Purpose:         tx.Purpose,
		Amount:          tx.Amount,
		Currency:        tx.Currency,
		RaffleID:        tx.RaffleID,
		SubscriptionID:  tx.SubscriptionID,
		PaymentIntentID: tx.PaymentIntentID,
		ReceiptURL:      tx.ReceiptURL,
		Status:          tx.Status,
		ReviewedBy:      tx.ReviewedBy,
		ReviewedAt:      tx.ReviewedAt,
		AdminComment:    tx.AdminComment,
		RejectionReason: tx.RejectionReason,
		Metadata:        meta,
		CreatedAt:       tx.CreatedAt,
	}
}
