package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"catalog/internal/cache"
)

func TestMemoryStore_GetSet(t *testing.T) {
	store := cache.NewMemoryStore()
	ctx := context.Background()

	_, ok := store.Get(ctx, "missing")
	assert.False(t, ok)

	assert.True(t, store.Set(ctx, "k", "v", 0))
	val, ok := store.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "v", val)
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	store := cache.NewMemoryStore()
	ctx := context.Background()

	store.Set(ctx, "short", "v", time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	_, ok := store.Get(ctx, "short")
	assert.False(t, ok)

	store.Set(ctx, "forever", "v", 0)
	_, ok = store.Get(ctx, "forever")
	assert.True(t, ok)
}

func TestMemoryStore_DeletePattern(t *testing.T) {
	store := cache.NewMemoryStore()
	ctx := context.Background()

	store.Set(ctx, "products:list:a", "1", 0)
	store.Set(ctx, "products:list:b", "2", 0)
	store.Set(ctx, "product:1", "3", 0)

	count := store.DeletePattern(ctx, "products:list:*")
	assert.Equal(t, 2, count)
	assert.Equal(t, 1, store.Len())
	assert.True(t, store.Has("product:1"))

	count = store.DeletePattern(ctx, "product:1")
	assert.Equal(t, 1, count)
	assert.Equal(t, 0, store.Len())
}
