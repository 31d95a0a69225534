package memcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGet(t *testing.T) {
	c := New[string, float64]()
	c.Set("BITCOIN", 45000.0)

	val, ok := c.Get("BITCOIN")
	require.True(t, ok)
	assert.Equal(t, 45000.0, val)

	_, ok = c.Get("UNKNOWN")
	assert.False(t, ok)
}

func TestCache_Delete(t *testing.T) {
	c := New[string, int]()
	c.Set("a", 1)
	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestCache_KeysAndLen(t *testing.T) {
	c := New[string, int]()
	c.Set("a", 1)
	c.Set("b", 2)
	assert.ElementsMatch(t, []string{"a", "b"}, c.Keys())
	assert.Equal(t, 2, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestCache_TTLExpiry(t *testing.T) {
	c := NewWithTTL[string, float64](10 * time.Millisecond)
	c.Set("BITCOIN", 45000.0)

	val, ok := c.Get("BITCOIN")
	require.True(t, ok)
	assert.Equal(t, 45000.0, val)

	time.Sleep(20 * time.Millisecond)

	_, ok = c.Get("BITCOIN")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCache_ZeroTTLNeverExpires(t *testing.T) {
	c := NewWithTTL[string, int](0)
	c.Set("a", 1)
	time.Sleep(5 * time.Millisecond)
	_, ok := c.Get("a")
	assert.True(t, ok)
}
