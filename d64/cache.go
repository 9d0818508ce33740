package d64

import (
	"sync"

	"github.com/TheusHen/D64/d64/block"
)

// DefaultCacheSize bounds a KeyCache created with a non-positive size.
const DefaultCacheSize = 1024

type scheduleEntry struct {
	enc *block.RoundKeys
	dec *block.RoundKeys
}

// KeyCache memoizes round-key schedules by normalized key. It is safe for
// concurrent use. Schedules are never modified after derivation, so cached
// values are shared between callers.
type KeyCache struct {
	mu      sync.RWMutex
	max     int
	entries map[block.Key]scheduleEntry
}

// NewKeyCache creates a cache holding at most max schedules.
func NewKeyCache(max int) *KeyCache {
	if max <= 0 {
		max = DefaultCacheSize
	}
	return &KeyCache{max: max, entries: make(map[block.Key]scheduleEntry)}
}

// Get returns the encryption and decryption schedules for k, deriving them on a miss.
func (c *KeyCache) Get(k block.Key) (enc, dec *block.RoundKeys) {
	c.mu.RLock()
	e, ok := c.entries[k]
	c.mu.RUnlock()
	if ok {
		return e.enc, e.dec
	}

	enc = block.DeriveRoundKeys(k)
	dec = enc.Reverse()

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[k]; ok {
		return e.enc, e.dec
	}
	if len(c.entries) >= c.max {
		// Evict an arbitrary entry.
		for victim := range c.entries {
			delete(c.entries, victim)
			break
		}
	}
	c.entries[k] = scheduleEntry{enc: enc, dec: dec}
	return enc, dec
}

// Len returns the number of cached schedules.
func (c *KeyCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
