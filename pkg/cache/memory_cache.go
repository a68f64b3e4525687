package cache

import (
	"context"
	"path"
	"sync"
	"time"

	"comercia/pkg/log"
)

type memoryItem struct {
	value     []byte
	expiresAt time.Time
	counter   int64
	isCounter bool
}

func (i *memoryItem) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && now.After(i.expiresAt)
}

// MemoryCache is a process-local Client used in tests and single-node
// deployments. Eviction is best effort: expired entries are dropped lazily
// on access and by a background sweep.
type MemoryCache struct {
	mu     sync.RWMutex
	items  map[string]*memoryItem
	config *Config
	logger log.Logger
	done   chan struct{}
	closed sync.Once
}

func NewMemoryCache(config *Config, logger log.Logger) *MemoryCache {
	c := &MemoryCache{
		items:  make(map[string]*memoryItem),
		config: config,
		logger: logger,
		done:   make(chan struct{}),
	}
	go c.sweep()
	return c
}

func (c *MemoryCache) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case now := <-ticker.C:
			c.mu.Lock()
			for key, item := range c.items {
				if item.expired(now) {
					delete(c.items, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

func (c *MemoryCache) ttlOrDefault(ttl time.Duration) time.Time {
	if ttl == 0 {
		ttl = c.config.DefaultTTL
	}
	if ttl < 0 {
		return time.Time{}
	}
	return time.Now().Add(ttl)
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || item.expired(time.Now()) {
		return nil, ErrKeyNotFound
	}

	value := make([]byte, len(item.value))
	copy(value, item.value)
	return value, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.items) >= c.config.MaxSize {
		c.evictOneLocked()
	}
	c.items[key] = &memoryItem{value: stored, expiresAt: c.ttlOrDefault(ttl)}
	return nil
}

// evictOneLocked drops an expired entry if one exists, otherwise an
// arbitrary entry. Good enough for a bounded local cache.
func (c *MemoryCache) evictOneLocked() {
	now := time.Now()
	for key, item := range c.items {
		if item.expired(now) {
			delete(c.items, key)
			return
		}
	}
	for key := range c.items {
		delete(c.items, key)
		return
	}
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	return ok && !item.expired(time.Now()), nil
}

func (c *MemoryCache) DeletePattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.items {
		if ok, _ := path.Match(pattern, key); ok {
			delete(c.items, key)
		}
	}
	return nil
}

func (c *MemoryCache) Increment(_ context.Context, key string, delta int64, ttl time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[key]
	if !ok || item.expired(time.Now()) {
		item = &memoryItem{isCounter: true, expiresAt: c.ttlOrDefault(ttl)}
		c.items[key] = item
	}
	item.counter += delta
	return item.counter, nil
}

func (c *MemoryCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}

func (c *MemoryCache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func (c *MemoryCache) Close() error {
	c.closed.Do(func() { close(c.done) })
	return nil
}

func (c *MemoryCache) Ping(_ context.Context) error {
	return nil
}
