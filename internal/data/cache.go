package data

import (
	"sync"
	"time"

	"ix-simulation/internal/model"
)

// CacheEntry represents a cached simulation output
type CacheEntry struct {
	Output    *model.SimulationOutput
	ExpiresAt time.Time
}

// ResultCache keeps recent simulation outputs keyed by simulation id so
// clients can fetch a run again after the POST that produced it.
type ResultCache struct {
	mu    sync.RWMutex
	store map[string]*CacheEntry
	ttl   time.Duration
	now   func() time.Time

	stop chan struct{}
	once sync.Once
}

// DefaultCacheTTL applies when NewResultCache gets a non-positive ttl.
const DefaultCacheTTL = time.Hour

// NewResultCache creates a cache and starts its cleanup goroutine.
// Call Close to stop it.
func NewResultCache(ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	c := &ResultCache{
		store: make(map[string]*CacheEntry),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	go c.cleanup(cleanupInterval(ttl))
	return c
}

// Get retrieves a cached output if available and not expired
func (c *ResultCache) Get(id string) (*model.SimulationOutput, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.store[id]
	if !exists {
		return nil, false
	}
	if c.now().After(entry.ExpiresAt) {
		return nil, false
	}
	return entry.Output, true
}

// Set stores an output under its id. Outputs without an id are ignored.
func (c *ResultCache) Set(out *model.SimulationOutput) {
	if c == nil || out == nil || out.ID == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[out.ID] = &CacheEntry{
		Output:    out,
		ExpiresAt: c.now().Add(c.ttl),
	}
}

// Len counts entries, expired ones included until the next sweep.
func (c *ResultCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Clear removes all entries from the cache
func (c *ResultCache) Clear() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]*CacheEntry)
}

// Close stops the cleanup goroutine. Safe to call more than once.
func (c *ResultCache) Close() {
	if c == nil {
		return
	}
	c.once.Do(func() { close(c.stop) })
}

func (c *ResultCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, entry := range c.store {
		if now.After(entry.ExpiresAt) {
			delete(c.store, key)
		}
	}
}

// cleanup periodically removes expired entries
func (c *ResultCache) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.stop:
			return
		}
	}
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl < 5*time.Minute {
		return ttl
	}
	return 5 * time.Minute
}
