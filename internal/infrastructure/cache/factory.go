package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/amazonstore/backend/internal/domain/report"
	"github.com/amazonstore/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const pingTimeout = 5 * time.Second

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address(), err)
	}
	return client, nil
}

// DashboardCacheFactory chooses between the Redis and in-memory dashboard caches
type DashboardCacheFactory struct {
	cfg                   config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*DashboardCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *DashboardCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to process memory.
// Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *DashboardCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewDashboardCacheFactory creates a new factory
func NewDashboardCacheFactory(cfg config.RedisConfig, opts ...FactoryOption) *DashboardCacheFactory {
	f := &DashboardCacheFactory{
		cfg:                   cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns the Redis cache when Redis is enabled and reachable, and the
// in-memory cache otherwise. The returned close function releases the Redis client.
func (f *DashboardCacheFactory) Create(ctx context.Context) (report.DashboardCache, func() error, error) {
	noop := func() error { return nil }
	if !f.cfg.Enabled {
		f.logger.Info("redis disabled, using in-memory dashboard cache")
		return NewInMemoryDashboardCache(f.cfg.DashboardTTL), noop, nil
	}

	client, err := NewRedisClient(ctx, &f.cfg)
	if err == nil {
		f.logger.Info("using Redis dashboard cache", zap.String("addr", f.cfg.Address()))
		return NewRedisDashboardCache(client, "", f.cfg.DashboardTTL), client.Close, nil
	}
	if !f.allowInMemoryFallback {
		return nil, nil, err
	}

	f.logger.Warn("redis unavailable, falling back to in-memory dashboard cache", zap.Error(err))
	return NewInMemoryDashboardCache(f.cfg.DashboardTTL), noop, nil
}
