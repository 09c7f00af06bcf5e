package remote

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/couchcryptid/crash-severity-service/internal/domain"
	"github.com/couchcryptid/crash-severity-service/internal/observability"
)

// CachedScorer wraps a Scorer with an in-memory LRU cache. Scoring is a pure
// function of the scenario, so equal scenarios share one entry.
type CachedScorer struct {
	inner   domain.Scorer
	cache   *lruCache[domain.PredictionResult]
	metrics *observability.Metrics
}

// NewCachedScorer creates a cache decorator around a scorer. metrics may be nil.
func NewCachedScorer(inner domain.Scorer, maxEntries int, metrics *observability.Metrics) *CachedScorer {
	return &CachedScorer{
		inner:   inner,
		cache:   newLRUCache[domain.PredictionResult](maxEntries),
		metrics: metrics,
	}
}

func (c *CachedScorer) Score(ctx context.Context, s domain.CrashScenario) (domain.PredictionResult, error) {
	key, err := cacheKey(s)
	if err != nil {
		return c.inner.Score(ctx, s)
	}
	if result, ok := c.cache.get(key); ok {
		c.count("hit")
		return result, nil
	}
	c.count("miss")

	result, err := c.inner.Score(ctx, s)
	if err != nil {
		// Failures are not cached so the next submission retries the backend.
		return result, err
	}
	c.cache.put(key, result)
	return result, nil
}

// CheckReadiness delegates to the wrapped scorer when it supports readiness.
func (c *CachedScorer) CheckReadiness(ctx context.Context) error {
	if rc, ok := c.inner.(interface {
		CheckReadiness(ctx context.Context) error
	}); ok {
		return rc.CheckReadiness(ctx)
	}
	return nil
}

// Len is the number of cached predictions.
func (c *CachedScorer) Len() int {
	return c.cache.len()
}

func (c *CachedScorer) count(result string) {
	if c.metrics != nil {
		c.metrics.RemoteCache.WithLabelValues(result).Inc()
	}
}

// cacheKey is the canonical JSON of the scenario; struct fields marshal in
// declaration order.
func cacheKey(s domain.CrashScenario) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// lruCache is a mutex-guarded LRU map. The list is intrusive: head is the
// most recently used entry and tail the next to be evicted.
type lruCache[V any] struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*lruEntry[V]
	head     *lruEntry[V]
	tail     *lruEntry[V]
}

type lruEntry[V any] struct {
	key        string
	value      V
	prev, next *lruEntry[V]
}

func newLRUCache[V any](capacity int) *lruCache[V] {
	return &lruCache[V]{
		capacity: max(1, capacity),
		items:    make(map[string]*lruEntry[V]),
	}
}

func (c *lruCache[V]) get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.unlink(e)
	c.pushFront(e)
	return e.value, true
}

func (c *lruCache[V]) put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		e.value = value
		c.unlink(e)
		c.pushFront(e)
		return
	}

	e := &lruEntry[V]{key: key, value: value}
	c.items[key] = e
	c.pushFront(e)

	if len(c.items) > c.capacity {
		oldest := c.tail
		c.unlink(oldest)
		delete(c.items, oldest.key)
	}
}

func (c *lruCache[V]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *lruCache[V]) pushFront(e *lruEntry[V]) {
	e.prev, e.next = nil, c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache[V]) unlink(e *lruEntry[V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
	e.prev, e.next = nil, nil
}
