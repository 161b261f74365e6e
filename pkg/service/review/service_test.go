package review

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/raffleworks/raffleworks/internal/fixtures/mocks"
	"github.com/raffleworks/raffleworks/pkg/domain"
	"github.com/raffleworks/raffleworks/pkg/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func pendingTx(raffleID *uuid.UUID, tickets any) *dto.TransactionRead {
	tx := &dto.TransactionRead{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		MethodKind: string(domain.MethodManualTransfer),
		Purpose:    string(domain.PurposeRaffleTicket),
		Amount:     25.00,
		Currency:   "USD",
		RaffleID:   raffleID,
		Status:     string(domain.StatusPending),
	}
	if tickets != nil {
		tx.Metadata = map[string]any{"tickets_requested": tickets}
	}
	return tx
}

func TestService_Approve_IssuesRequestedEntries(t *testing.T) {
	ledger := mocks.NewMockTransactionRepository(t)
	entries := mocks.NewMockEntryRepository(t)
	svc := New(ledger, entries, testLogger())

	raffleID := uuid.New()
	tx := pendingTx(&raffleID, 2)
	reviewerID := uuid.New()
	first, second := uuid.New(), uuid.New()

	ledger.On("Get", mock.Anything, tx.ID).Return(tx, nil)
	ledger.On(
		"CompareAndSetStatus",
		mock.Anything, tx.ID, domain.StatusPending, domain.StatusApproved, mock.Anything,
	).Return(nil)
	entries.On(
		"Issue",
		mock.Anything, raffleID, tx.UserID, 1, domain.SourceManualPurchase, (*uuid.UUID)(nil),
	).Return([]uuid.UUID{first}, nil).Once()
	entries.On(
		"Issue",
		mock.Anything, raffleID, tx.UserID, 1, domain.SourceManualPurchase, (*uuid.UUID)(nil),
	).Return([]uuid.UUID{second}, nil).Once()
	ledger.On(
		"CompareAndSetStatus",
		mock.Anything, tx.ID, domain.StatusApproved, domain.StatusCompleted, mock.Anything,
	).Return(nil)

	created, err := svc.Approve(context.Background(), tx.ID, reviewerID, "looks good")
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first, second}, created)
}

func TestService_Approve_DefaultsToOneTicket(t *testing.T) {
	tests := []struct {
		name    string
		tickets any
	}{
		{"absent", nil},
		{"non-numeric", "a lot"},
		{"below one", 0},
		{"negative", -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := mocks.NewMockTransactionRepository(t)
			entries := mocks.NewMockEntryRepository(t)
			svc := New(ledger, entries, testLogger())

			raffleID := uuid.New()
			tx := pendingTx(&raffleID, tt.tickets)

			ledger.On("Get", mock.Anything, tx.ID).Return(tx, nil)
			ledger.On(
				"CompareAndSetStatus",
				mock.Anything, tx.ID, domain.StatusPending, domain.StatusApproved, mock.Anything,
			).Return(nil)
			entries.On(
				"Issue",
				mock.Anything, raffleID, tx.UserID, 1, domain.SourceManualPurchase, (*uuid.UUID)(nil),
			).Return([]uuid.UUID{uuid.New()}, nil).Once()
			ledger.On(
				"CompareAndSetStatus",
				mock.Anything, tx.ID, domain.StatusApproved, domain.StatusCompleted, mock.Anything,
			).Return(nil)

			created, err := svc.Approve(context.Background(), tx.ID, uuid.New(), "")
			require.NoError(t, err)
			assert.Len(t, created, 1)
		})
	}
}

func TestService_Approve_CapExceededRevertsToPending(t *testing.T) {
	ledger := mocks.NewMockTransactionRepository(t)
	entries := mocks.NewMockEntryRepository(t)
	svc := New(ledger, entries, testLogger())

	raffleID := uuid.New()
	tx := pendingTx(&raffleID, 1)

	ledger.On("Get", mock.Anything, tx.ID).Return(tx, nil)
	ledger.On(
		"CompareAndSetStatus",
		mock.Anything, tx.ID, domain.StatusPending, domain.StatusApproved, mock.Anything,
	).Return(nil)
	entries.On(
		"Issue",
		mock.Anything, raffleID, tx.UserID, 1, domain.SourceManualPurchase, (*uuid.UUID)(nil),
	).Return(nil, domain.ErrCapExceeded)
	ledger.On(
		"CompareAndSetStatus",
		mock.Anything, tx.ID, domain.StatusApproved, domain.StatusPending,
		mock.MatchedBy(func(f dto.ReviewFields) bool {
			// The revert clears the reviewer stamp and records the cause.
			return f.ReviewedBy == nil && f.AdminComment != nil
		}),
	).Return(nil)

	created, err := svc.Approve(context.Background(), tx.ID, uuid.New(), "")
	require.ErrorIs(t, err, domain.ErrIssuanceFailed)
	assert.Nil(t, created)
}

func TestService_Approve_PartialIssuanceKeepsEarlierTickets(t *testing.T) {
	ledger := mocks.NewMockTransactionRepository(t)
	entries := mocks.NewMockEntryRepository(t)
	svc := New(ledger, entries, testLogger())

	raffleID := uuid.New()
	tx := pendingTx(&raffleID, 3)

	ledger.On("Get", mock.Anything, tx.ID).Return(tx, nil)
	ledger.On(
		"CompareAndSetStatus",
		mock.Anything, tx.ID, domain.StatusPending, domain.StatusApproved, mock.Anything,
	).Return(nil)
	entries.On(
		"Issue",
		mock.Anything, raffleID, tx.UserID, 1, domain.SourceManualPurchase, (*uuid.UUID)(nil),
	).Return([]uuid.UUID{uuid.New()}, nil).Twice()
	entries.On(
		"Issue",
		mock.Anything, raffleID, tx.UserID, 1, domain.SourceManualPurchase, (*uuid.UUID)(nil),
	).Return(nil, domain.ErrCapExceeded).Once()
	ledger.On(
		"CompareAndSetStatus",
		mock.Anything, tx.ID, domain.StatusApproved, domain.StatusPending, mock.Anything,
	).Return(nil)

	_, err := svc.Approve(context.Background(), tx.ID, uuid.New(), "")
	require.ErrorIs(t, err, domain.ErrIssuanceFailed)
	// Issued tickets stay issued; only the status reverted. The mock
	// expectations above pin exactly two successful Issue calls.
	entries.AssertNumberOfCalls(t, "Issue", 3)
}

func TestService_Approve_LostRaceReturnsConflict(t *testing.T) {
	ledger := mocks.NewMockTransactionRepository(t)
	entries := mocks.NewMockEntryRepository(t)
	svc := New(ledger, entries, testLogger())

	raffleID := uuid.New()
	tx := pendingTx(&raffleID, 1)

	ledger.On("Get", mock.Anything, tx.ID).Return(tx, nil)
	ledger.On(
		"CompareAndSetStatus",
		mock.Anything, tx.ID, domain.StatusPending, domain.StatusApproved, mock.Anything,
	).Return(domain.ErrConflict)

	_, err := svc.Approve(context.Background(), tx.ID, uuid.New(), "")
	require.ErrorIs(t, err, domain.ErrConflict)
	entries.AssertNotCalled(t, "Issue")
}

func TestService_Approve_Preconditions(t *testing.T) {
	tests := []struct {
		name    string
		method  domain.MethodKind
		status  domain.TransactionStatus
		wantErr error
	}{
		{"card payments skip review", domain.MethodCard, domain.StatusPending, domain.ErrInvalidMethodKind},
		{"already approved", domain.MethodQRCode, domain.StatusApproved, domain.ErrAlreadyReviewed},
		{"already rejected", domain.MethodManualTransfer, domain.StatusRejected, domain.ErrAlreadyReviewed},
		{"already completed", domain.MethodManualTransfer, domain.StatusCompleted, domain.ErrAlreadyReviewed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := mocks.NewMockTransactionRepository(t)
			entries := mocks.NewMockEntryRepository(t)
			svc := New(ledger, entries, testLogger())

			raffleID := uuid.New()
			tx := pendingTx(&raffleID, 1)
			tx.MethodKind = string(tt.method)
			tx.Status = string(tt.status)

			ledger.On("Get", mock.Anything, tx.ID).Return(tx, nil)

			_, err := svc.Approve(context.Background(), tx.ID, uuid.New(), "")
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_Approve_NotFound(t *testing.T) {
	ledger := mocks.NewMockTransactionRepository(t)
	entries := mocks.NewMockEntryRepository(t)
	svc := New(ledger, entries, testLogger())

	id := uuid.New()
	ledger.On("Get", mock.Anything, id).Return(nil, domain.ErrNotFound)

	_, err := svc.Approve(context.Background(), id, uuid.New(), "")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_Approve_SubscriptionPurposeIssuesNothing(t *testing.T) {
	ledger := mocks.NewMockTransactionRepository(t)
	entries := mocks.NewMockEntryRepository(t)
	svc := New(ledger, entries, testLogger())

	subID := uuid.New()
	tx := pendingTx(nil, nil)
	tx.Purpose = string(domain.PurposeSubscription)
	tx.SubscriptionID = &subID

	ledger.On("Get", mock.Anything, tx.ID).Return(tx, nil)
	ledger.On(
		"CompareAndSetStatus",
		mock.Anything, tx.ID, domain.StatusPending, domain.StatusApproved, mock.Anything,
	).Return(nil)

	created, err := svc.Approve(context.Background(), tx.ID, uuid.New(), "")
	require.NoError(t, err)
	assert.Empty(t, created)
	entries.AssertNotCalled(t, "Issue")
}

func TestService_Reject(t *testing.T) {
	t.Run("records reason and comment", func(t *testing.T) {
		ledger := mocks.NewMockTransactionRepository(t)
		svc := New(ledger, mocks.NewMockEntryRepository(t), testLogger())

		raffleID := uuid.New()
		tx := pendingTx(&raffleID, 1)
		reviewerID := uuid.New()

		ledger.On("Get", mock.Anything, tx.ID).Return(tx, nil)
		ledger.On(
			"CompareAndSetStatus",
			mock.Anything, tx.ID, domain.StatusPending, domain.StatusRejected,
			mock.MatchedBy(func(f dto.ReviewFields) bool {
				return f.RejectionReason != nil && *f.RejectionReason == "receipt unreadable" &&
					f.ReviewedBy != nil && *f.ReviewedBy == reviewerID
			}),
		).Return(nil)

		err := svc.Reject(context.Background(), tx.ID, reviewerID, "receipt unreadable", "blurry photo")
		require.NoError(t, err)
	})

	t.Run("blank reason is refused before any write", func(t *testing.T) {
		ledger := mocks.NewMockTransactionRepository(t)
		svc := New(ledger, mocks.NewMockEntryRepository(t), testLogger())

		err := svc.Reject(context.Background(), uuid.New(), uuid.New(), "   ", "")
		require.ErrorIs(t, err, domain.ErrMissingReason)
		ledger.AssertNotCalled(t, "CompareAndSetStatus")
	})

	t.Run("lost race returns conflict", func(t *testing.T) {
		ledger := mocks.NewMockTransactionRepository(t)
		svc := New(ledger, mocks.NewMockEntryRepository(t), testLogger())

		raffleID := uuid.New()
		tx := pendingTx(&raffleID, 1)

		ledger.On("Get", mock.Anything, tx.ID).Return(tx, nil)
		ledger.On(
			"CompareAndSetStatus",
			mock.Anything, tx.ID, domain.StatusPending, domain.StatusRejected, mock.Anything,
		).Return(domain.ErrConflict)

		err := svc.Reject(context.Background(), tx.ID, uuid.New(), "duplicate", "")
		require.ErrorIs(t, err, domain.ErrConflict)
	})
}
