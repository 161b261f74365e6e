package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryEntry struct {
	subscriptionID uuid.UUID
	expiresAt      time.Time
}

// MemoryIdempotencyStore implements cache.IdempotencyStore in process
// memory. Suitable for single-instance deployments and tests; multi-instance
// deployments should use the Redis store.
type MemoryIdempotencyStore struct {
	entries map[string]memoryEntry
	mu      sync.RWMutex
}

// NewMemoryIdempotencyStore creates a new in-memory idempotency store.
func NewMemoryIdempotencyStore() *MemoryIdempotencyStore {
	store := &MemoryIdempotencyStore{
		entries: make(map[string]memoryEntry),
	}
	go store.cleanup()
	return store
}

// Get retrieves the subscription id recorded for the key.
func (s *MemoryIdempotencyStore) Get(
	ctx context.Context,
	key string,
) (uuid.UUID, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return uuid.Nil, false, nil
	}
	return entry.subscriptionID, true, nil
}

// Set records the subscription id for the key.
func (s *MemoryIdempotencyStore) Set(
	ctx context.Context,
	key string,
	subscriptionID uuid.UUID,
	ttl time.Duration,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{
		subscriptionID: subscriptionID,
		expiresAt:      time.Now().Add(ttl),
	}
	return nil
}

func (s *MemoryIdempotencyStore) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		s.mu.Lock()
		for key, entry := range s.entries {
			if now.After(entry.expiresAt) {
				delete(s.entries, key)
			}
		}
		s.mu.Unlock()
	}
}
