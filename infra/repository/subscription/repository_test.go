package subscription

import (
	"context"
	"testing"

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

func subscriptionRows(id, userID uuid.UUID, status string, key *string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "plan_ref", "status", "idempotency_key",
	}).AddRow(id.String(), userID.String(), "monthly", status, key)
}

func TestRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New(db)

	mock.ExpectExec(`INSERT INTO "subscriptions"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), dto.SubscriptionCreate{
		ID:      uuid.New(),
		UserID:  uuid.New(),
		PlanRef: "monthly",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByIdempotencyKey(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := New(db)
		id, userID := uuid.New(), uuid.New()
		key := "fin-key-0001"

		mock.ExpectQuery(`SELECT (.+) FROM "subscriptions" WHERE idempotency_key =(.+)`).
			WithArgs(key, 1).
			WillReturnRows(subscriptionRows(id, userID, "active", &key))

		sub, err := repo.GetByIdempotencyKey(context.Background(), key)
		require.NoError(t, err)
		assert.Equal(t, id, sub.ID)
		assert.Equal(t, "active", sub.Status)
	})

	t.Run("unused key", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := New(db)

		mock.ExpectQuery(`SELECT (.+) FROM "subscriptions" WHERE idempotency_key =(.+)`).
			WithArgs("unused", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetByIdempotencyKey(context.Background(), "unused")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRepository_Activate(t *testing.T) {
	id, userID := uuid.New(), uuid.New()
	key := "fin-key-0001"
	intentID := "pi_123"

	t.Run("first activation", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := New(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM "subscriptions" WHERE idempotency_key =(.+)`).
			WithArgs(key, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectQuery(`SELECT (.+) FROM "subscriptions" WHERE id =(.+)FOR UPDATE`).
			WithArgs(id, 1).
			WillReturnRows(subscriptionRows(id, userID, "pending", nil))
		mock.ExpectExec(`UPDATE "subscriptions" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		sub, err := repo.Activate(context.Background(), id, key, &intentID)
		require.NoError(t, err)
		assert.Equal(t, string(domain.SubscriptionActive), sub.Status)
		require.NotNil(t, sub.IdempotencyKey)
		assert.Equal(t, key, *sub.IdempotencyKey)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("replayed key returns the original activation", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := New(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM "subscriptions" WHERE idempotency_key =(.+)`).
			WithArgs(key, 1).
			WillReturnRows(subscriptionRows(id, userID, "active", &key))
		mock.ExpectCommit()

		sub, err := repo.Activate(context.Background(), id, key, &intentID)
		require.NoError(t, err)
		assert.Equal(t, id, sub.ID)
		assert.Equal(t, "active", sub.Status)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown subscription", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := New(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM "subscriptions" WHERE idempotency_key =(.+)`).
			WithArgs(key, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectQuery(`SELECT (.+) FROM "subscriptions" WHERE id =(.+)FOR UPDATE`).
			WithArgs(id, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		_, err := repo.Activate(context.Background(), id, key, nil)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}
