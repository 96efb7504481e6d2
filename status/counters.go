package status

import (
	"maps"
	"slices"
	"sync"
	"sync/atomic"
)

// Counter names written by the engine
const (
	Ticks          = "engine.ticks"
	Swaps          = "engine.swaps"
	SwapsRejected  = "engine.swaps_rejected"
	Shuffles       = "engine.shuffles"
	Matches        = "match.completed"
	SpecialMatches = "match.special"
	Consumed       = "token.consumed"
	Exploded       = "token.exploded"
)

// Counters is a named set of atomic counters
// Lookup locks; the returned pointer is updated lock-free
type Counters struct {
	mu    sync.RWMutex
	items map[string]*atomic.Int64
}

// NewCounters creates an empty set
func NewCounters() *Counters {
	return &Counters{
		items: make(map[string]*atomic.Int64),
	}
}

// Get returns the counter for key, creating it on first use
func (c *Counters) Get(key string) *atomic.Int64 {
	c.mu.RLock()
	if ptr, ok := c.items[key]; ok {
		c.mu.RUnlock()
		return ptr
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if ptr, ok := c.items[key]; ok {
		return ptr
	}
	ptr := new(atomic.Int64)
	c.items[key] = ptr
	return ptr
}

// Inc adds one to key
func (c *Counters) Inc(key string) {
	c.Get(key).Add(1)
}

// Value returns the current value of key, zero when never written
func (c *Counters) Value(key string) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if ptr, ok := c.items[key]; ok {
		return ptr.Load()
	}
	return 0
}

// Range calls fn for every counter in key order
func (c *Counters) Range(fn func(key string, value int64)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, k := range slices.Sorted(maps.Keys(c.items)) {
		fn(k, c.items[k].Load())
	}
}

// Snapshot copies every counter
func (c *Counters) Snapshot() map[string]int64 {
	out := make(map[string]int64)
	c.Range(func(key string, value int64) {
		out[key] = value
	})
	return out
}
