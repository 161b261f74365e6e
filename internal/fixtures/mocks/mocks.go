// Package mocks provides testify mocks for the repository and provider
// interfaces used across service tests.
package mocks

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/raffleworks/raffleworks/pkg/domain"
	"github.com/raffleworks/raffleworks/pkg/dto"
	"github.com/raffleworks/raffleworks/pkg/provider"
	"github.com/stretchr/testify/mock"
)

// MockTransactionRepository mocks the ledger store.
type MockTransactionRepository struct {
	mock.Mock
}

// NewMockTransactionRepository creates a MockTransactionRepository that
// asserts its expectations on test cleanup.
func NewMockTransactionRepository(t *testing.T) *MockTransactionRepository {
	m := &MockTransactionRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTransactionRepository) Insert(ctx context.Context, create dto.TransactionCreate) error {
	args := m.Called(ctx, create)
	return args.Error(0)
}

func (m *MockTransactionRepository) Get(ctx context.Context, id uuid.UUID) (*dto.TransactionRead, error) {
	args := m.Called(ctx, id)
	if tx := args.Get(0); tx != nil {
		return tx.(*dto.TransactionRead), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTransactionRepository) GetByPaymentIntentID(ctx context.Context, intentID string) (*dto.TransactionRead, error) {
	args := m.Called(ctx, intentID)
	if tx := args.Get(0); tx != nil {
		return tx.(*dto.TransactionRead), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTransactionRepository) ListByStatus(ctx context.Context, status domain.TransactionStatus) ([]*dto.TransactionRead, error) {
	args := m.Called(ctx, status)
	if txs := args.Get(0); txs != nil {
		return txs.([]*dto.TransactionRead), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTransactionRepository) CompareAndSetStatus(
	ctx context.Context,
	id uuid.UUID,
	expected, next domain.TransactionStatus,
	fields dto.ReviewFields,
) error {
	args := m.Called(ctx, id, expected, next, fields)
	return args.Error(0)
}

// MockEntryRepository mocks the entry issuer.
type MockEntryRepository struct {
	mock.Mock
}

// NewMockEntryRepository creates a MockEntryRepository that asserts its
// expectations on test cleanup.
func NewMockEntryRepository(t *testing.T) *MockEntryRepository {
	m := &MockEntryRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockEntryRepository) Issue(
	ctx context.Context,
	raffleID, userID uuid.UUID,
	count int,
	source domain.EntrySource,
	subscriptionID *uuid.UUID,
) ([]uuid.UUID, error) {
	args := m.Called(ctx, raffleID, userID, count, source, subscriptionID)
	if ids := args.Get(0); ids != nil {
		return ids.([]uuid.UUID), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEntryRepository) ListByUser(ctx context.Context, raffleID, userID uuid.UUID) ([]*dto.EntryRead, error) {
	args := m.Called(ctx, raffleID, userID)
	if entries := args.Get(0); entries != nil {
		return entries.([]*dto.EntryRead), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockRaffleRepository mocks the raffle lookup boundary.
type MockRaffleRepository struct {
	mock.Mock
}

// NewMockRaffleRepository creates a MockRaffleRepository that asserts its
// expectations on test cleanup.
func NewMockRaffleRepository(t *testing.T) *MockRaffleRepository {
	m := &MockRaffleRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRaffleRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Raffle, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*domain.Raffle), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockSubscriptionRepository mocks the subscription store.
type MockSubscriptionRepository struct {
	mock.Mock
}

// NewMockSubscriptionRepository creates a MockSubscriptionRepository that
// asserts its expectations on test cleanup.
func NewMockSubscriptionRepository(t *testing.T) *MockSubscriptionRepository {
	m := &MockSubscriptionRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, create dto.SubscriptionCreate) error {
	args := m.Called(ctx, create)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) Get(ctx context.Context, id uuid.UUID) (*dto.SubscriptionRead, error) {
	args := m.Called(ctx, id)
	if sub := args.Get(0); sub != nil {
		return sub.(*dto.SubscriptionRead), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSubscriptionRepository) GetByIdempotencyKey(ctx context.Context, key string) (*dto.SubscriptionRead, error) {
	args := m.Called(ctx, key)
	if sub := args.Get(0); sub != nil {
		return sub.(*dto.SubscriptionRead), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSubscriptionRepository) Activate(
	ctx context.Context,
	id uuid.UUID,
	idempotencyKey string,
	paymentIntentID *string,
) (*dto.SubscriptionRead, error) {
	args := m.Called(ctx, id, idempotencyKey, paymentIntentID)
	if sub := args.Get(0); sub != nil {
		return sub.(*dto.SubscriptionRead), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockGateway mocks the payment gateway.
type MockGateway struct {
	mock.Mock
}

// NewMockGateway creates a MockGateway that asserts its expectations on
// test cleanup.
func NewMockGateway(t *testing.T) *MockGateway {
	m := &MockGateway{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockGateway) CreateIntent(
	ctx context.Context,
	userID uuid.UUID,
	amount int64,
	currency string,
	idempotencyKey string,
	metadata map[string]string,
) (*provider.Intent, error) {
	args := m.Called(ctx, userID, amount, currency, idempotencyKey, metadata)
	if intent := args.Get(0); intent != nil {
		return intent.(*provider.Intent), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGateway) ConfirmIntent(ctx context.Context, intentID, paymentMethod string) (*provider.Intent, error) {
	args := m.Called(ctx, intentID, paymentMethod)
	if intent := args.Get(0); intent != nil {
		return intent.(*provider.Intent), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockIdempotencyStore mocks the finalize idempotency cache.
type MockIdempotencyStore struct {
	mock.Mock
}

// NewMockIdempotencyStore creates a MockIdempotencyStore that asserts its
// expectations on test cleanup.
func NewMockIdempotencyStore(t *testing.T) *MockIdempotencyStore {
	m := &MockIdempotencyStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockIdempotencyStore) Get(ctx context.Context, key string) (uuid.UUID, bool, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(uuid.UUID), args.Bool(1), args.Error(2)
}

func (m *MockIdempotencyStore) Set(ctx context.Context, key string, subscriptionID uuid.UUID, ttl time.Duration) error {
	args := m.Called(ctx, key, subscriptionID, ttl)
	return args.Error(0)
}
