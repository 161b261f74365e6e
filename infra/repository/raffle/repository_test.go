package raffle

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/raffleworks/raffleworks/pkg/domain"
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

func TestRepository_Get(t *testing.T) {
	tests := []struct {
		name          string
		status        string
		wantAccepting bool
	}{
		{"open raffle accepts entries", "open", true},
		{"closed raffle does not", "closed", false},
		{"drawn raffle does not", "drawn", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := New(db)
			id := uuid.New()
			perUserCap := 10

			rows := sqlmock.NewRows([]string{"id", "title", "status", "per_user_cap"}).
				AddRow(id.String(), "Summer Raffle", tt.status, &perUserCap)
			mock.ExpectQuery(`SELECT (.+) FROM "raffles" WHERE id =(.+)`).
				WithArgs(id, 1).
				WillReturnRows(rows)

			raffle, err := repo.Get(context.Background(), id)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAccepting, raffle.AcceptingNew)
			require.NotNil(t, raffle.PerUserCap)
			assert.Equal(t, 10, *raffle.PerUserCap)
		})
	}

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := New(db)
		id := uuid.New()

		mock.ExpectQuery(`SELECT (.+) FROM "raffles" WHERE id =(.+)`).
			WithArgs(id, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.Get(context.Background(), id)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}
