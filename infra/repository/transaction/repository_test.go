package transaction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/raffleworks/raffleworks/pkg/domain"
	"github.com/raffleworks/raffleworks/pkg/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDb.Close() })
	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func transactionRows(id, userID uuid.UUID, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "method_kind", "purpose", "amount", "currency",
		"status", "created_at",
	}).AddRow(
		id.String(), userID.String(), "manual_transfer", "raffle_ticket",
		25.0, "USD", status, time.Now(),
	)
}

func TestRepository_Insert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New(db)

	mock.ExpectExec(`INSERT INTO "payment_transactions"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Insert(context.Background(), dto.TransactionCreate{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		MethodKind: string(domain.MethodManualTransfer),
		Purpose:    string(domain.PurposeRaffleTicket),
		Amount:     25,
		Currency:   "USD",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := New(db)
		id, userID := uuid.New(), uuid.New()

		mock.ExpectQuery(`SELECT (.+) FROM "payment_transactions" WHERE id =(.+)`).
			WithArgs(id, 1).
			WillReturnRows(transactionRows(id, userID, "pending"))

		tx, err := repo.Get(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, tx.ID)
		assert.Equal(t, "pending", tx.Status)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := New(db)
		id := uuid.New()

		mock.ExpectQuery(`SELECT (.+) FROM "payment_transactions" WHERE id =(.+)`).
			WithArgs(id, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.Get(context.Background(), id)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRepository_GetByPaymentIntentID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New(db)
	id, userID := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "payment_transactions" WHERE payment_intent_id =(.+)`).
		WithArgs("pi_123", 1).
		WillReturnRows(transactionRows(id, userID, "pending"))

	tx, err := repo.GetByPaymentIntentID(context.Background(), "pi_123")
	require.NoError(t, err)
	assert.Equal(t, id, tx.ID)
}

func TestRepository_ListByStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New(db)
	userID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "user_id", "method_kind", "status"}).
		AddRow(uuid.New().String(), userID.String(), "manual_transfer", "pending").
		AddRow(uuid.New().String(), userID.String(), "qr_code", "pending")
	mock.ExpectQuery(`SELECT (.+) FROM "payment_transactions" WHERE status =(.+)ORDER BY created_at asc`).
		WithArgs("pending").
		WillReturnRows(rows)

	txs, err := repo.ListByStatus(context.Background(), domain.StatusPending)
	require.NoError(t, err)
	assert.Len(t, txs, 2)
}

func TestRepository_CompareAndSetStatus(t *testing.T) {
	id := uuid.New()
	reviewerID := uuid.New()
	now := time.Now().UTC()
	fields := dto.ReviewFields{ReviewedBy: &reviewerID, ReviewedAt: &now}

	t.Run("guarded update succeeds", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := New(db)

		mock.ExpectExec(`UPDATE "payment_transactions" SET (.+) WHERE id = (.+) AND status = (.+)`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.CompareAndSetStatus(
			context.Background(), id, domain.StatusPending, domain.StatusApproved, fields,
		)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("status moved concurrently", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := New(db)

		mock.ExpectExec(`UPDATE "payment_transactions" SET (.+) WHERE id = (.+) AND status = (.+)`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count(.+) FROM "payment_transactions" WHERE id =(.+)`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		err := repo.CompareAndSetStatus(
			context.Background(), id, domain.StatusPending, domain.StatusApproved, fields,
		)
		require.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("row missing", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := New(db)

		mock.ExpectExec(`UPDATE "payment_transactions" SET (.+) WHERE id = (.+) AND status = (.+)`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count(.+) FROM "payment_transactions" WHERE id =(.+)`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		err := repo.CompareAndSetStatus(
			context.Background(), id, domain.StatusPending, domain.StatusApproved, fields,
		)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("database error propagates", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := New(db)

		mock.ExpectExec(`UPDATE "payment_transactions" SET (.+)`).
			WillReturnError(errors.New("connection reset"))

		err := repo.CompareAndSetStatus(
			context.Background(), id, domain.StatusPending, domain.StatusApproved, fields,
		)
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrConflict)
	})
}
