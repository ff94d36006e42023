package kv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetAbsentKey(t *testing.T) {
	store := NewMemoryStore(0)

	value, ok, err := store.Get(context.Background(), KeyProducts)

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, value)
}

func TestMemoryStore_SetThenGet(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, KeyProducts, []byte(`[{"id":"p1"}]`)))

	value, ok, err := store.Get(ctx, KeyProducts)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"id":"p1"}]`, string(value))
}

func TestMemoryStore_SetOverwritesWholeValue(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, KeyOrders, []byte(`["a"]`)))
	require.NoError(t, store.Set(ctx, KeyOrders, []byte(`["b","c"]`)))

	value, ok, err := store.Get(ctx, KeyOrders)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `["b","c"]`, string(value))
}

func TestMemoryStore_FailNextSetKeepsPreviousValue(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, KeyProducts, []byte(`["old"]`)))
	store.FailNextSet("storage unavailable")

	err := store.Set(ctx, KeyProducts, []byte(`["new"]`))
	require.Error(t, err)

	// Failed write means the whole collection was not written.
	value, ok, getErr := store.Get(ctx, KeyProducts)
	require.NoError(t, getErr)
	assert.True(t, ok)
	assert.JSONEq(t, `["old"]`, string(value))

	// The failure is one-shot.
	require.NoError(t, store.Set(ctx, KeyProducts, []byte(`["new"]`)))
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, KeyUser, []byte(`{"id":"u1"}`)))

	value, _, err := store.Get(ctx, KeyUser)
	require.NoError(t, err)
	value[0] = 'X'

	again, _, err := store.Get(ctx, KeyUser)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"u1"}`, string(again))
}

func TestMemoryStore_LatencyHonorsContextCancellation(t *testing.T) {
	store := NewMemoryStore(time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, _, err := store.Get(ctx, KeyProducts)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
