package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_NilFailsSafe(t *testing.T) {
	var c *Client
	ctx := context.Background()

	v, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, v)
	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.Error(t, c.Ping(ctx))
	assert.NoError(t, c.Close())
}

func TestClient_UnreachableBehavesLikeMiss(t *testing.T) {
	// Nothing listens on port 1.
	c := New("127.0.0.1:1", "", 0)
	defer c.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	v, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, v)
	assert.NoError(t, c.Delete(ctx, "k", "k2"))
}

func TestMemory_SetGetDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, m.Set(ctx, "b", []byte("2"), 0))

	v, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)

	require.NoError(t, m.Delete(ctx, "a", "b", "missing"))
	v, _ = m.Get(ctx, "a")
	assert.Nil(t, v)
	v, _ = m.Get(ctx, "b")
	assert.Nil(t, v)
}

func TestMemory_Expiry(t *testing.T) {
	m := NewMemory()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Minute))

	now = now.Add(59 * time.Second)
	v, _ := m.Get(ctx, "k")
	assert.Equal(t, []byte("v"), v)

	now = now.Add(time.Second)
	v, _ = m.Get(ctx, "k")
	assert.Nil(t, v)
}

func TestMemory_Incr(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	n, err := m.Incr(ctx, "gen")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = m.Incr(ctx, "gen")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// Counters are readable like any other value, as with redis INCR.
	v, _ := m.Get(ctx, "gen")
	assert.Equal(t, []byte("2"), v)

	require.NoError(t, m.Set(ctx, "word", []byte("abc"), 0))
	_, err = m.Incr(ctx, "word")
	assert.Error(t, err)
}

func TestClient_IncrFailsSafe(t *testing.T) {
	var nilClient *Client
	n, err := nilClient.Incr(context.Background(), "gen")
	assert.NoError(t, err)
	assert.Zero(t, n)

	c := New("127.0.0.1:1", "", 0)
	defer c.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	n, err = c.Incr(ctx, "gen")
	assert.NoError(t, err)
	assert.Zero(t, n)
}
