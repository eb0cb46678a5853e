package predcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "current:karachi")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set(ctx, "current:karachi", []byte(`{"aqi":150}`), time.Minute))

	got, ok, err := store.Get(ctx, "current:karachi")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte(`{"aqi":150}`), got)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))

	current = current.Add(30 * time.Second)
	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)

	current = current.Add(31 * time.Second)
	_, ok, err = store.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	value := []byte("original")
	require.NoError(t, store.Set(ctx, "k", value, 0))
	value[0] = 'X'

	got, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("original"), got)
}
