// Package urlcache caches signed asset URLs under a soft TTL kept well below
// the backend signature lifetime, so a cached URL is never served after the
// backend would reject it.
package urlcache

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// SoftTTL is the cache-side expiry. The backend signs URLs for 7 days; the
// cache forgets them after 6 hours, a 1/28 safety ratio.
const SoftTTL = 6 * time.Hour

type cached struct {
	url       string
	expiresAt time.Time
}

// Cache is an unbounded (path, size) -> URL map for the process lifetime.
// Keys are naturally few and removed by Invalidate when the underlying asset
// changes, so no eviction policy is needed.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cached
	ttl     time.Duration
	now     func() time.Time
}

func New() *Cache {
	return &Cache{
		entries: make(map[string]cached),
		ttl:     SoftTTL,
		now:     time.Now,
	}
}

func key(assetPath string, size int) string {
	return fmt.Sprintf("%s#%d", assetPath, size)
}

// Get returns the cached URL for (assetPath, size) if it has not passed the
// soft expiry. A miss returns ("", false); the caller requests a fresh URL
// and calls Put.
func (c *Cache) Get(assetPath string, size int) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key(assetPath, size)]
	if !ok || !c.now().Before(e.expiresAt) {
		return "", false
	}
	return e.url, true
}

// Put stores url under (assetPath, size). The soft TTL must stay strictly
// below the backend-declared expiry; when a backend ever signs for less than
// the soft window, the shorter lifetime wins.
func (c *Cache) Put(assetPath string, size int, url string, backendExpiry time.Duration) {
	ttl := c.ttl
	if backendExpiry <= ttl {
		ttl = backendExpiry / 2
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key(assetPath, size)] = cached{url: url, expiresAt: c.now().Add(ttl)}
}

// Invalidate removes every cached size of assetPath, leaving other assets
// untouched. Called whenever the underlying asset changes or is deleted.
func (c *Cache) Invalidate(assetPath string) {
	prefix := assetPath + "#"

	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
}

// Len reports the number of cached URLs, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
