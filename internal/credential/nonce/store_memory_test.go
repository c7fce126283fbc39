package nonce

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryKV_TakeIsOneShot(t *testing.T) {
	ctx := context.Background()
	kv := NewInMemoryKV()
	require.NoError(t, kv.Put(ctx, "k", "v", time.Minute))

	v, ok, err := kv.Take(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	_, ok, err = kv.Take(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInMemoryKV_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	kv := NewInMemoryKV().WithClock(func() time.Time { return now })

	require.NoError(t, kv.Put(ctx, "k", "v", 300*time.Second))

	now = now.Add(299 * time.Second)
	_, ok, _ := kv.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok, _ = kv.Get(ctx, "k")
	assert.False(t, ok)
}

func TestInMemoryKV_Delete(t *testing.T) {
	ctx := context.Background()
	kv := NewInMemoryKV()
	require.NoError(t, kv.Put(ctx, "k", "v", time.Minute))
	require.NoError(t, kv.Delete(ctx, "k"))
	_, ok, _ := kv.Get(ctx, "k")
	assert.False(t, ok)
}

func TestNewNonceIsRandomHex(t *testing.T) {
	a, err := New()
	require.NoError(t, err)
	b, err := New()
	require.NoError(t, err)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	assert.Equal(t, "issuance:E1:v1", IssuanceKey("v1", "E1"))
}
