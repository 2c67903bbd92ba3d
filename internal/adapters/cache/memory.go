package cache

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"
)

// Default in-memory cache configuration constants.
const (
	defaultMaxSize = 50000
)

// Option applies a configuration option to the in-memory cache.
type Option func(*memoryCache)

// WithMaxSize bounds the number of fingerprints kept in memory.
// maxSize <= 0 means unbounded.
func WithMaxSize(maxSize int) Option {
	return func(c *memoryCache) {
		c.maxSize = maxSize
	}
}

// memoryCache implements Cache with FIFO eviction once maxSize is reached.
type memoryCache struct {
	mu      sync.Mutex
	seen    map[string]*list.Element
	order   *list.List // front = oldest
	maxSize int
	size    atomic.Int64
}

// NewMemory creates a bounded in-memory fingerprint cache.
func NewMemory(opts ...Option) Cache {
	c := &memoryCache{
		seen:    make(map[string]*list.Element),
		order:   list.New(),
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *memoryCache) SeenAndRecord(_ context.Context, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.seen[key]; ok {
		return true
	}
	if c.maxSize > 0 && len(c.seen) >= c.maxSize {
		if oldest := c.order.Front(); oldest != nil {
			delete(c.seen, oldest.Value.(string))
			c.order.Remove(oldest)
			c.size.Add(-1)
		}
	}
	c.seen[key] = c.order.PushBack(key)
	c.size.Add(1)
	return false
}

func (c *memoryCache) Forget(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.seen[key]; ok {
		delete(c.seen, key)
		c.order.Remove(el)
		c.size.Add(-1)
	}
}

func (c *memoryCache) Size() int64 {
	return c.size.Load()
}
