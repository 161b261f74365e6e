package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryIdempotencyStore(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		store := NewMemoryIdempotencyStore()
		id := uuid.New()

		require.NoError(t, store.Set(ctx, "key-1", id, time.Minute))

		got, ok, err := store.Get(ctx, "key-1")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, id, got)
	})

	t.Run("miss", func(t *testing.T) {
		store := NewMemoryIdempotencyStore()

		_, ok, err := store.Get(ctx, "absent")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("expired entry is a miss", func(t *testing.T) {
		store := NewMemoryIdempotencyStore()
		require.NoError(t, store.Set(ctx, "key-1", uuid.New(), -time.Second))

		_, ok, err := store.Get(ctx, "key-1")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("overwrite takes the latest id", func(t *testing.T) {
		store := NewMemoryIdempotencyStore()
		first, second := uuid.New(), uuid.New()

		require.NoError(t, store.Set(ctx, "key-1", first, time.Minute))
		require.NoError(t, store.Set(ctx, "key-1", second, time.Minute))

		got, ok, _ := store.Get(ctx, "key-1")
		assert.True(t, ok)
		assert.Equal(t, second, got)
	})

	t.Run("concurrent access", func(t *testing.T) {
		store := NewMemoryIdempotencyStore()
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				key := string(rune('a' + i%10))
				_ = store.Set(ctx, key, uuid.New(), time.Minute)
				_, _, _ = store.Get(ctx, key)
			}(i)
		}
		wg.Wait()
	})
}
