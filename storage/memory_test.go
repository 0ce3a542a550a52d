package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()

	_, ok, err := kv.Get(ctx, "cart:a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "cart:a", "[]"))
	v, ok, err := kv.Get(ctx, "cart:a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)

	require.NoError(t, kv.Remove(ctx, "cart:a"))
	_, ok, _ = kv.Get(ctx, "cart:a")
	assert.False(t, ok)

	// removing a missing key is fine
	require.NoError(t, kv.Remove(ctx, "cart:a"))
}
