// internal/cache/response_cache.go
package cache

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/CreativeCreatives/creative-creatives/internal/utils"
)

const (
	// DefaultMaxSize bounds the number of live entries.
	DefaultMaxSize = 1000
	// DefaultTTL applies when Set is called without an explicit TTL.
	DefaultTTL = 30 * time.Minute
	// DefaultSweepInterval is how often expired entries are proactively
	// removed, independent of access patterns.
	DefaultSweepInterval = 5 * time.Minute
)

// Fields the key derivation drops before hashing. Callers inject these for
// tracing and they must not affect memoization.
var nondeterministicFields = map[string]bool{
	"timestamp": true,
	"requestId": true,
	"sessionId": true,
}

// Options control how an entry is stored.
type Options struct {
	TTL      time.Duration
	Tags     []string
	Provider string
	Model    string
}

// Entry is one cached response.
type Entry struct {
	Value     interface{}
	CreatedAt time.Time
	TTL       time.Duration
	Tags      []string
	Provider  string
	Model     string
}

func (e *Entry) expired(now time.Time) bool {
	return now.Sub(e.CreatedAt) > e.TTL
}

// ResponseCache memoizes expensive generation calls in memory. It is a pure
// optimization: every operation is safe to fail and a failure is only ever a
// miss, never an error to the caller.
type ResponseCache struct {
	mu       sync.RWMutex
	entries  map[string]*Entry
	maxSize  int
	stopOnce sync.Once
	stop     chan struct{}
}

// NewResponseCache creates a cache and starts its background expiry sweep.
func NewResponseCache(maxSize int, sweepInterval time.Duration) *ResponseCache {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}

	c := &ResponseCache{
		entries: make(map[string]*Entry),
		maxSize: maxSize,
		stop:    make(chan struct{}),
	}

	go c.sweepLoop(sweepInterval)
	return c
}

// Get returns the live value for key, or a miss when the key is absent or
// expired.
func (c *ResponseCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return nil, false
	}
	if entry.expired(time.Now()) {
		return nil, false
	}
	return entry.Value, true
}

// Set stores value under key, overwriting any existing entry. When the cache
// is at capacity and key is new, the single oldest-created entry is evicted
// first.
func (c *ResponseCache) Set(key string, value interface{}, opts Options) {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.evictOldestLocked()
	}

	c.entries[key] = &Entry{
		Value:     value,
		CreatedAt: time.Now(),
		TTL:       ttl,
		Tags:      opts.Tags,
		Provider:  opts.Provider,
		Model:     opts.Model,
	}
}

// evictOldestLocked removes the entry with the earliest CreatedAt. Eviction is
// oldest-created, not LRU.
func (c *ResponseCache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	for key, entry := range c.entries {
		if oldestKey == "" || entry.CreatedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.CreatedAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// InvalidateByTags removes every entry whose tag set intersects tags and
// returns the number of entries removed.
func (c *ResponseCache) InvalidateByTags(tags []string) int {
	wanted := make(map[string]bool, len(tags))
	for _, tag := range tags {
		wanted[tag] = true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.entries {
		for _, tag := range entry.Tags {
			if wanted[tag] {
				delete(c.entries, key)
				removed++
				break
			}
		}
	}
	return removed
}

// Len reports the current number of entries, expired or not.
func (c *ResponseCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stop terminates the background sweep. Safe to call more than once.
func (c *ResponseCache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}

func (c *ResponseCache) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *ResponseCache) removeExpired() {
	now := time.Now()

	// Collect first so the write lock is held only for the deletes.
	c.mu.RLock()
	var expired []string
	for key, entry := range c.entries {
		if entry.expired(now) {
			expired = append(expired, key)
		}
	}
	c.mu.RUnlock()

	if len(expired) == 0 {
		return
	}

	c.mu.Lock()
	for _, key := range expired {
		if entry, exists := c.entries[key]; exists && entry.expired(now) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()

	utils.GetLogger().Debug("cache sweep removed expired entries", map[string]interface{}{
		"removed": len(expired),
	})
}

// GenerateKey derives a deterministic key for params under namespace. Field
// order and injected trace fields (timestamp/requestId/sessionId) do not
// affect the result; any other difference does.
func (c *ResponseCache) GenerateKey(namespace string, params interface{}) string {
	serialized, err := json.Marshal(params)
	if err != nil {
		// Treated as a miss-shaped key: still deterministic per input string.
		utils.GetLogger().Warn("cache key serialization failed", map[string]interface{}{
			"namespace": namespace,
			"error":     err.Error(),
		})
		return fmt.Sprintf("%s:%08x", namespace, rollingHash(fmt.Sprintf("%v", params)))
	}

	var generic interface{}
	if err := json.Unmarshal(serialized, &generic); err != nil {
		return fmt.Sprintf("%s:%08x", namespace, rollingHash(string(serialized)))
	}

	normalized := normalizeParams(generic)
	// encoding/json emits map keys in sorted order, which makes the
	// serialization canonical once trace fields are stripped.
	canonical, err := json.Marshal(normalized)
	if err != nil {
		return fmt.Sprintf("%s:%08x", namespace, rollingHash(string(serialized)))
	}

	return fmt.Sprintf("%s:%08x", namespace, rollingHash(string(canonical)))
}

// normalizeParams walks the decoded structure, dropping known-nondeterministic
// fields from objects and recursing into arrays in order.
func normalizeParams(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, inner := range v {
			if nondeterministicFields[key] {
				continue
			}
			out[key] = normalizeParams(inner)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, inner := range v {
			out[i] = normalizeParams(inner)
		}
		return out
	default:
		return value
	}
}

// rollingHash is a cheap 32-bit string hash (djb2) that bounds key length.
func rollingHash(s string) uint32 {
	var h uint32 = 5381
	for i := 0; i < len(s); i++ {
		h = h*33 + uint32(s[i])
	}
	return h
}
