package cache

import (
	"context"
	"testing"
	"time"

	"comercia/pkg/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *MemoryCache {
	t.Helper()
	config := &Config{}
	setDefaults(config)
	c := NewMemoryCache(config, log.MustNewDevelopmentLogger())
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestMemoryCacheGetSet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	value, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), value)

	// Stored bytes are copies, callers cannot mutate cached state.
	value[0] = 'x'
	value, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), value)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryCacheDelete(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))

	exists, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryCacheDeletePattern(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, Key("role", "tenant-1", "a"), []byte("1"), time.Minute))
	require.NoError(t, c.Set(ctx, Key("role", "tenant-1", "b"), []byte("2"), time.Minute))
	require.NoError(t, c.Set(ctx, Key("role", "tenant-2", "c"), []byte("3"), time.Minute))

	require.NoError(t, c.DeletePattern(ctx, "role:tenant-1:*"))

	_, err := c.Get(ctx, Key("role", "tenant-1", "a"))
	assert.ErrorIs(t, err, ErrKeyNotFound)
	_, err = c.Get(ctx, Key("role", "tenant-2", "c"))
	assert.NoError(t, err)
}

func TestMemoryCacheIncrement(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	n, err := c.Increment(ctx, "counter", 1, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = c.Increment(ctx, "counter", 2, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestMemoryCacheJSON(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, c.SetJSON(ctx, "p", payload{Name: "ana", Count: 2}, time.Minute))

	var back payload
	require.NoError(t, c.GetJSON(ctx, "p", &back))
	assert.Equal(t, payload{Name: "ana", Count: 2}, back)
}

func TestKeyJoinsParts(t *testing.T) {
	assert.Equal(t, "role:tenant-1:role-9", Key("role", "tenant-1", "role-9"))
}
