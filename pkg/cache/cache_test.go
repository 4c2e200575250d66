package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGet(t *testing.T) {
	c := New(time.Minute, 0, 10)

	c.Set("key", "value")

	got, found := c.Get("key")
	require.True(t, found)
	assert.Equal(t, "value", got)
}

func TestGetMissingKey(t *testing.T) {
	c := New(time.Minute, 0, 10)

	_, found := c.Get("missing")
	assert.False(t, found)
}

func TestExpiration(t *testing.T) {
	c := New(time.Minute, 0, 10)

	c.SetWithExpiration("key", "value", 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	_, found := c.Get("key")
	assert.False(t, found)
}

func TestZeroExpirationNeverExpires(t *testing.T) {
	c := New(0, 0, 10)

	c.Set("key", "value")
	_, found := c.Get("key")
	assert.True(t, found)
}

func TestDelete(t *testing.T) {
	c := New(time.Minute, 0, 10)

	c.Set("key", "value")
	c.Delete("key")

	_, found := c.Get("key")
	assert.False(t, found)
}

func TestFlush(t *testing.T) {
	c := New(time.Minute, 0, 10)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Flush()

	assert.Equal(t, 0, c.Count())
}

func TestMaxItemsEvicts(t *testing.T) {
	c := New(time.Minute, 0, 2)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	assert.Equal(t, 2, c.Count())
	_, found := c.Get("c")
	assert.True(t, found, "newest item survives eviction")
}

func TestOverwriteExistingKeyDoesNotEvict(t *testing.T) {
	c := New(time.Minute, 0, 2)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 3)

	assert.Equal(t, 2, c.Count())
	got, found := c.Get("a")
	require.True(t, found)
	assert.Equal(t, 3, got)
}
