package urlcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const backendExpiry = 7 * 24 * time.Hour

func newTestCache(at *time.Time) *Cache {
	c := New()
	c.now = func() time.Time { return *at }
	return c
}

func TestGet_HitBeforeSoftExpiry(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	c := newTestCache(&now)

	c.Put("u1/avatar.webp", 128, "https://signed/128", backendExpiry)

	now = now.Add(SoftTTL - time.Minute)
	url, ok := c.Get("u1/avatar.webp", 128)
	require.True(t, ok)
	assert.Equal(t, "https://signed/128", url)
}

func TestGet_MissAfterSoftExpiryEvenBeforeBackendExpiry(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	c := newTestCache(&now)

	c.Put("u1/avatar.webp", 128, "https://signed/128", backendExpiry)

	// past the soft window but far inside the 7-day signature life
	now = now.Add(SoftTTL + time.Minute)
	_, ok := c.Get("u1/avatar.webp", 128)
	assert.False(t, ok)
}

func TestGet_MissForUnknownKey(t *testing.T) {
	now := time.Now()
	c := newTestCache(&now)

	_, ok := c.Get("u1/avatar.webp", 128)
	assert.False(t, ok)
}

func TestPut_ShortBackendExpiryWins(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	c := newTestCache(&now)

	c.Put("u1/avatar.webp", 128, "https://signed/128", time.Hour)

	now = now.Add(31 * time.Minute)
	_, ok := c.Get("u1/avatar.webp", 128)
	assert.False(t, ok, "soft expiry must stay below the backend expiry")
}

func TestInvalidate_RemovesAllSizesOfOnePath(t *testing.T) {
	now := time.Now()
	c := newTestCache(&now)

	c.Put("u1/avatar.webp", 64, "a", backendExpiry)
	c.Put("u1/avatar.webp", 128, "b", backendExpiry)
	c.Put("u2/avatar.webp", 128, "c", backendExpiry)

	c.Invalidate("u1/avatar.webp")

	_, ok := c.Get("u1/avatar.webp", 64)
	assert.False(t, ok)
	_, ok = c.Get("u1/avatar.webp", 128)
	assert.False(t, ok)

	url, ok := c.Get("u2/avatar.webp", 128)
	require.True(t, ok)
	assert.Equal(t, "c", url)
	assert.Equal(t, 1, c.Len())
}

func TestInvalidate_DoesNotMatchPathPrefixOfOtherAssets(t *testing.T) {
	now := time.Now()
	c := newTestCache(&now)

	c.Put("u1/a", 64, "a", backendExpiry)
	c.Put("u1/ab", 64, "b", backendExpiry)

	c.Invalidate("u1/a")

	_, ok := c.Get("u1/a", 64)
	assert.False(t, ok)
	url, ok := c.Get("u1/ab", 64)
	require.True(t, ok)
	assert.Equal(t, "b", url)
}
