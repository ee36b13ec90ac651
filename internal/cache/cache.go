package cache

import (
	"sync"
	"time"
)

// Default bounds applied when Options leaves them unset.
const (
	DefaultMaxItems = 500
	DefaultTTL      = 24 * time.Hour
)

// Payload is the normalized generation result stored in the cache. Callers
// always receive a copy; the store retains no shared references.
type Payload struct {
	ID       string `json:"id"`
	Content  string `json:"content"`
	Tokens   int    `json:"tokens"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

type entry struct {
	payload    Payload
	insertedAt time.Time
}

// Options configures a Cache at construction. Zero values select defaults.
type Options struct {
	MaxItems int           // maximum entry count, default 500
	TTL      time.Duration // entry lifetime, default 24h
	Disabled bool          // bypass Get/Set entirely

	// SweepInterval starts a background janitor that removes expired entries.
	// Zero disables it; correctness never depends on the sweep because Get
	// expires entries lazily.
	SweepInterval time.Duration
}

// Cache is a bounded, TTL-expiring, in-memory store for generation results.
// Eviction is strictly FIFO by insertion time: a Get never promotes an entry,
// and overwriting a key re-inserts it at the back of the eviction queue.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]entry
	order    []string // insertion order, oldest first
	maxItems int
	ttl      time.Duration
	disabled bool

	now  func() time.Time
	done chan struct{}
	wg   sync.WaitGroup
}

// New creates a Cache. The instance is intended to be constructed once at
// process start and shared for the process lifetime.
func New(opts Options) *Cache {
	maxItems := opts.MaxItems
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		entries:  make(map[string]entry),
		maxItems: maxItems,
		ttl:      ttl,
		disabled: opts.Disabled,
		now:      time.Now,
	}
	if opts.SweepInterval > 0 && !opts.Disabled {
		c.done = make(chan struct{})
		c.wg.Add(1)
		go c.sweep(opts.SweepInterval)
	}
	return c
}

// Get returns a copy of the cached payload for the request, or false on miss.
// An expired entry is purged eagerly and reported as a miss.
func (c *Cache) Get(req Request) (Payload, bool) {
	if c.disabled {
		return Payload{}, false
	}
	key := Key(req)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return Payload{}, false
	}
	if c.now().Sub(e.insertedAt) > c.ttl {
		c.removeLocked(key)
		return Payload{}, false
	}
	return e.payload, true
}

// Set normalizes and stores a generation result for the request. If the
// store is at capacity the oldest-inserted entry is evicted first. Writing to
// an existing key refreshes its insertion time and eviction position.
func (c *Cache) Set(req Request, raw Payload) {
	if c.disabled {
		return
	}
	key := Key(req)

	payload := raw
	payload.Provider = req.Provider
	if payload.Model == "" && req.Model != nil {
		payload.Model = *req.Model
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.removeLocked(key)
	} else if len(c.entries) >= c.maxItems {
		c.removeLocked(c.order[0])
	}
	c.entries[key] = entry{payload: payload, insertedAt: c.now()}
	c.order = append(c.order, key)
}

// Clear removes all entries unconditionally.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
	c.order = c.order[:0]
}

// Cleanup physically removes every expired entry. Safe to call at any time
// and safe to never call; Get already refuses expired entries.
func (c *Cache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, e := range c.entries {
		if now.Sub(e.insertedAt) > c.ttl {
			c.removeLocked(key)
		}
	}
}

// Stats is a read-only diagnostic snapshot of the cache. TTL is reported in
// milliseconds on the wire to match the configuration unit.
type Stats struct {
	TotalEntries   int   `json:"totalEntries"`
	ExpiredEntries int   `json:"expiredEntries"`
	MaxItems       int   `json:"maxItems"`
	TTLMillis      int64 `json:"ttl"`
	Disabled       bool  `json:"disabled"`
}

// GetStats reports current cache state. ExpiredEntries counts stale entries
// that have not been physically removed yet; computing it does not mutate
// the store.
func (c *Cache) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	expired := 0
	for _, e := range c.entries {
		if now.Sub(e.insertedAt) > c.ttl {
			expired++
		}
	}
	return Stats{
		TotalEntries:   len(c.entries),
		ExpiredEntries: expired,
		MaxItems:       c.maxItems,
		TTLMillis:      c.ttl.Milliseconds(),
		Disabled:       c.disabled,
	}
}

// Close stops the background sweep, if one was started. The cache remains
// usable afterwards.
func (c *Cache) Close() {
	if c.done == nil {
		return
	}
	close(c.done)
	c.wg.Wait()
	c.done = nil
}

// removeLocked deletes a key from both the map and the order queue.
// Caller holds c.mu.
func (c *Cache) removeLocked(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *Cache) sweep(interval time.Duration) {
	defer c.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.Cleanup()
		case <-c.done:
			return
		}
	}
}
