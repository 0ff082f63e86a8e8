package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSetNX(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	assert.True(t, store.SetNX("k", "a", time.Minute))
	assert.False(t, store.SetNX("k", "b", time.Minute))

	v, ok := store.Get("k")
	require.True(t, ok)
	assert.Equal(t, "a", v)

	now = now.Add(2 * time.Minute)
	assert.True(t, store.SetNX("k", "b", time.Minute))
}

func TestMemoryStoreCompareAndDelete(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	store.Set("k", "a", time.Minute)
	assert.False(t, store.CompareAndDelete("k", "b"))
	assert.True(t, store.CompareAndDelete("k", "a"))
	_, ok := store.Get("k")
	assert.False(t, ok)
}

func TestMemoryLocker(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	locker := NewMemoryLocker(store)
	ctx := context.Background()

	release, err := locker.TryLock(ctx, "scheduler", time.Minute)
	require.NoError(t, err)

	_, err = locker.TryLock(ctx, "scheduler", time.Minute)
	assert.ErrorIs(t, err, ErrLockHeld)

	release()
	release2, err := locker.TryLock(ctx, "scheduler", time.Minute)
	require.NoError(t, err)
	release2()
}

func TestMemoryLockerReleaseAfterTakeover(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	locker := NewMemoryLocker(store)

	release, err := locker.TryLock(context.Background(), "scheduler", time.Second)
	require.NoError(t, err)

	now = now.Add(2 * time.Second)
	_, err = locker.TryLock(context.Background(), "scheduler", time.Minute)
	require.NoError(t, err)

	// stale release must not free the new holder's lock
	release()
	_, err = locker.TryLock(context.Background(), "scheduler", time.Minute)
	assert.ErrorIs(t, err, ErrLockHeld)
}
