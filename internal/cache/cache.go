// Package cache memoizes token decryption: a bounded, time-limited map from
// wire token string to decoded claims. It saves the Engine the AEAD open and
// JSON decode on repeat validations and nothing else — revocation and
// temporal checks always re-run on the hit path.
package cache

import (
	"sync"
	"time"

	"github.com/MrEthical07/goSeal/token"
)

type entry struct {
	claims    *token.Claims
	expiresAt time.Time
}

// Cache is a mutex-guarded FIFO cache. Eviction follows insertion order,
// not access order: when full, the oldest-inserted entry is dropped.
// Expired entries are evicted lazily on lookup.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	entries map[string]entry
	order   []string // insertion order; may hold keys already invalidated
}

// New returns a cache holding at most maxSize entries, each valid for ttl
// after insertion.
func New(maxSize int, ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		maxSize: maxSize,
		entries: make(map[string]entry, maxSize),
	}
}

// Get returns the cached claims for a token string. A hit past its expiry
// is removed and reported as a miss.
func (c *Cache) Get(tok string) (*token.Claims, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[tok]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.entries, tok)
		c.compactLocked()
		return nil, false
	}
	return e.claims, true
}

// Set inserts or refreshes an entry. When the cache is at capacity the
// oldest-inserted resident entry is evicted first. Refreshing an existing
// key updates its value and expiry but keeps its insertion position.
func (c *Cache) Set(tok string, claims *token.Claims) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[tok]; exists {
		c.entries[tok] = entry{claims: claims, expiresAt: time.Now().Add(c.ttl)}
		return
	}

	for len(c.entries) >= c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		// Keys invalidated since insertion linger in order; skip them.
		if _, resident := c.entries[oldest]; resident {
			delete(c.entries, oldest)
		}
	}

	c.entries[tok] = entry{claims: claims, expiresAt: time.Now().Add(c.ttl)}
	c.order = append(c.order, tok)
}

// Invalidate removes a single entry. Unknown tokens are a no-op.
func (c *Cache) Invalidate(tok string) {
	c.mu.Lock()
	delete(c.entries, tok)
	c.compactLocked()
	c.mu.Unlock()
}

// compactLocked drops dead keys from the order slice once they outnumber
// residents, so deletions below capacity cannot grow it without bound.
// Caller must hold mu.
func (c *Cache) compactLocked() {
	if len(c.order) <= 2*c.maxSize {
		return
	}
	live := c.order[:0]
	for _, tok := range c.order {
		if _, resident := c.entries[tok]; resident {
			live = append(live, tok)
		}
	}
	c.order = live
}

// Purge empties the cache.
func (c *Cache) Purge() {
	c.mu.Lock()
	c.entries = make(map[string]entry, c.maxSize)
	c.order = nil
	c.mu.Unlock()
}

// Len reports the resident entry count.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
