// internal/cache/response_cache_test.go
package cache

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, maxSize int) *ResponseCache {
	t.Helper()
	c := NewResponseCache(maxSize, time.Hour)
	t.Cleanup(c.Stop)
	return c
}

func TestGetSetRoundTrip(t *testing.T) {
	c := newTestCache(t, 10)

	c.Set("k1", "value", Options{TTL: time.Minute})

	got, ok := c.Get("k1")
	require.True(t, ok)
	assert.Equal(t, "value", got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestExpiredEntryIsAMiss(t *testing.T) {
	c := newTestCache(t, 10)

	c.Set("k1", "value", Options{TTL: time.Nanosecond})
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get("k1")
	assert.False(t, ok)
}

func TestSetOverwritesExistingEntry(t *testing.T) {
	c := newTestCache(t, 10)

	c.Set("k1", "old", Options{})
	c.Set("k1", "new", Options{})

	got, ok := c.Get("k1")
	require.True(t, ok)
	assert.Equal(t, "new", got)
	assert.Equal(t, 1, c.Len())
}

func TestCapacityEvictsOldestCreated(t *testing.T) {
	c := newTestCache(t, 3)

	c.Set("first", 1, Options{})
	time.Sleep(2 * time.Millisecond)
	c.Set("second", 2, Options{})
	time.Sleep(2 * time.Millisecond)
	c.Set("third", 3, Options{})
	time.Sleep(2 * time.Millisecond)

	// Reads must not protect an entry: eviction is oldest-created, not LRU.
	_, ok := c.Get("first")
	require.True(t, ok)

	c.Set("fourth", 4, Options{})

	_, ok = c.Get("first")
	assert.False(t, ok, "oldest entry should have been evicted")
	for _, key := range []string{"second", "third", "fourth"} {
		_, ok := c.Get(key)
		assert.True(t, ok, "entry %s should survive", key)
	}
	assert.Equal(t, 3, c.Len())
}

func TestInvalidateByTags(t *testing.T) {
	c := newTestCache(t, 10)

	c.Set("s1", 1, Options{Tags: []string{"storyboard", "marcus"}})
	c.Set("s2", 2, Options{Tags: []string{"storyboard"}})
	c.Set("c1", 3, Options{Tags: []string{"chat"}})
	c.Set("u1", 4, Options{})

	removed := c.InvalidateByTags([]string{"storyboard"})
	assert.Equal(t, 2, removed)

	_, ok := c.Get("c1")
	assert.True(t, ok)
	_, ok = c.Get("u1")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())

	assert.Equal(t, 0, c.InvalidateByTags([]string{"storyboard"}))
}

func TestRemoveExpiredSweep(t *testing.T) {
	c := newTestCache(t, 10)

	c.Set("short", 1, Options{TTL: time.Nanosecond})
	c.Set("long", 2, Options{TTL: time.Hour})
	time.Sleep(5 * time.Millisecond)

	c.removeExpired()

	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("long")
	assert.True(t, ok)
}

func TestGenerateKeyFormat(t *testing.T) {
	c := newTestCache(t, 10)

	key := c.GenerateKey("storyboard", map[string]interface{}{"brand": "Acme"})
	require.True(t, strings.HasPrefix(key, "storyboard:"))

	suffix := strings.TrimPrefix(key, "storyboard:")
	assert.Len(t, suffix, 8, "hash suffix should be 8 hex digits")
}

func TestGenerateKeyIgnoresTraceFields(t *testing.T) {
	c := newTestCache(t, 10)

	base := map[string]interface{}{
		"brand":    "Acme",
		"duration": 15,
	}
	traced := map[string]interface{}{
		"brand":     "Acme",
		"duration":  15,
		"timestamp": time.Now().Format(time.RFC3339),
		"requestId": "req-42",
		"sessionId": "sess-7",
	}

	assert.Equal(t, c.GenerateKey("sb", base), c.GenerateKey("sb", traced))
}

func TestGenerateKeyIgnoresNestedTraceFields(t *testing.T) {
	c := newTestCache(t, 10)

	key1 := c.GenerateKey("sb", map[string]interface{}{
		"brand": map[string]interface{}{"name": "Acme", "timestamp": "now"},
	})
	key2 := c.GenerateKey("sb", map[string]interface{}{
		"brand": map[string]interface{}{"name": "Acme"},
	})

	assert.Equal(t, key1, key2)
}

func TestGenerateKeyDistinguishesRealDifferences(t *testing.T) {
	c := newTestCache(t, 10)

	key1 := c.GenerateKey("sb", map[string]interface{}{"brand": "Acme", "duration": 15})
	key2 := c.GenerateKey("sb", map[string]interface{}{"brand": "Acme", "duration": 30})
	key3 := c.GenerateKey("other", map[string]interface{}{"brand": "Acme", "duration": 15})

	assert.NotEqual(t, key1, key2)
	assert.NotEqual(t, key1, key3)
}

func TestGenerateKeyStructOrMapEquivalent(t *testing.T) {
	c := newTestCache(t, 10)

	type params struct {
		Brand    string `json:"brand"`
		Duration int    `json:"duration"`
	}

	fromStruct := c.GenerateKey("sb", params{Brand: "Acme", Duration: 15})
	fromMap := c.GenerateKey("sb", map[string]interface{}{"duration": 15, "brand": "Acme"})

	assert.Equal(t, fromStruct, fromMap, "field ordering must not affect the key")
}

func TestGenerateKeyDeterministic(t *testing.T) {
	c := newTestCache(t, 10)

	params := map[string]interface{}{
		"goals": []string{"awareness", "downloads"},
		"brand": map[string]interface{}{"name": "Acme", "industry": "tools"},
	}

	first := c.GenerateKey("sb", params)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, c.GenerateKey("sb", params))
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := newTestCache(t, 100)

	done := make(chan struct{})
	for g := 0; g < 8; g++ {
		go func(g int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", i%50)
				c.Set(key, g, Options{Tags: []string{"load"}})
				c.Get(key)
			}
		}(g)
	}
	for g := 0; g < 8; g++ {
		<-done
	}

	assert.LessOrEqual(t, c.Len(), 100)
}
