package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultCleanupInterval = 30 * time.Second

// InMemoryCategoryTreeCache keeps serialized category trees in process memory.
// State is not shared between instances, so a move committed on one instance
// is only seen by the others once their entries expire.
type InMemoryCategoryTreeCache struct {
	entries         sync.Map // map[uuid.UUID]*treeEntry
	logger          *zap.Logger
	cleanupInterval time.Duration
	stopCh          chan struct{}
	stopped         int32

	hits   int64
	misses int64
}

type treeEntry struct {
	data      []byte
	expiresAt time.Time
}

func (e *treeEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// InMemoryOption configures an InMemoryCategoryTreeCache
type InMemoryOption func(*InMemoryCategoryTreeCache)

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryOption {
	return func(c *InMemoryCategoryTreeCache) {
		c.logger = logger
	}
}

// WithCleanupInterval sets how often expired entries are swept
func WithCleanupInterval(d time.Duration) InMemoryOption {
	return func(c *InMemoryCategoryTreeCache) {
		if d > 0 {
			c.cleanupInterval = d
		}
	}
}

// NewInMemoryCategoryTreeCache creates the cache and starts its sweeper.
// Call Close to stop the sweeper.
func NewInMemoryCategoryTreeCache(opts ...InMemoryOption) *InMemoryCategoryTreeCache {
	c := &InMemoryCategoryTreeCache{
		logger:          zap.NewNop(),
		cleanupInterval: defaultCleanupInterval,
		stopCh:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.cleanupExpired()
	return c
}

// Get returns the cached tree for tenantID
func (c *InMemoryCategoryTreeCache) Get(_ context.Context, tenantID uuid.UUID) ([]byte, bool, error) {
	value, ok := c.entries.Load(tenantID)
	if !ok {
		atomic.AddInt64(&c.misses, 1)
		return nil, false, nil
	}
	entry := value.(*treeEntry)
	if entry.expired(time.Now()) {
		c.entries.Delete(tenantID)
		atomic.AddInt64(&c.misses, 1)
		return nil, false, nil
	}
	atomic.AddInt64(&c.hits, 1)
	return entry.data, true, nil
}

// Set stores data for tenantID. A zero ttl keeps the entry until invalidated.
func (c *InMemoryCategoryTreeCache) Set(_ context.Context, tenantID uuid.UUID, data []byte, ttl time.Duration) error {
	entry := &treeEntry{data: append([]byte(nil), data...)}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	c.entries.Store(tenantID, entry)
	return nil
}

// Invalidate drops the cached tree for tenantID
func (c *InMemoryCategoryTreeCache) Invalidate(_ context.Context, tenantID uuid.UUID) error {
	c.entries.Delete(tenantID)
	return nil
}

// Stats returns hit and miss counters
func (c *InMemoryCategoryTreeCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// Close stops the background sweeper
func (c *InMemoryCategoryTreeCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

func (c *InMemoryCategoryTreeCache) cleanupExpired() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case now := <-ticker.C:
			c.sweep(now)
		}
	}
}

func (c *InMemoryCategoryTreeCache) sweep(now time.Time) {
	removed := 0
	c.entries.Range(func(key, value any) bool {
		if value.(*treeEntry).expired(now) {
			c.entries.Delete(key)
			removed++
		}
		return true
	})
	if removed > 0 {
		c.logger.Debug("Swept expired category trees", zap.Int("removed", removed))
	}
}
