package cache

import (
	"context"
	"fmt"
	"io"

	appcatalog "github.com/erp/catalog/internal/application/catalog"
	"go.uber.org/zap"
)

// TreeCache is a category tree cache that owns resources to release
type TreeCache interface {
	appcatalog.CategoryTreeCache
	io.Closer
}

// TreeCacheFactory creates category tree caches based on configuration
type TreeCacheFactory struct {
	redisConfig           RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// TreeCacheFactoryOption is a functional option for configuring the factory
type TreeCacheFactoryOption func(*TreeCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) TreeCacheFactoryOption {
	return func(f *TreeCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// the in-memory cache. Fallback is allowed by default.
func WithInMemoryFallback(allow bool) TreeCacheFactoryOption {
	return func(f *TreeCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewTreeCacheFactory creates a new factory
func NewTreeCacheFactory(cfg RedisConfig, opts ...TreeCacheFactoryOption) *TreeCacheFactory {
	f := &TreeCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateCache tries Redis first and falls back to memory when allowed
func (f *TreeCacheFactory) CreateCache(ctx context.Context) (TreeCache, error) {
	if f.redisConfig.Addr != "" {
		redisCache, err := NewRedisCategoryTreeCache(ctx, f.redisConfig)
		if err == nil {
			f.logger.Info("Using Redis category tree cache", zap.String("addr", f.redisConfig.Addr))
			return redisCache, nil
		}
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("redis required for category tree cache but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory category tree cache. "+
			"Instances will serve stale trees until their entries expire.",
			zap.Error(err),
		)
	}

	return NewInMemoryCategoryTreeCache(WithInMemoryLogger(f.logger)), nil
}

var (
	_ TreeCache = (*InMemoryCategoryTreeCache)(nil)
	_ TreeCache = (*RedisCategoryTreeCache)(nil)
)
