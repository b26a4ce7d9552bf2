package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/amazonstore/backend/internal/domain/report"
	"github.com/redis/go-redis/v9"
)

// DefaultDashboardKey is the Redis key holding the serialized dashboard
const DefaultDashboardKey = "amazonstore:dashboard:v1"

// RedisDashboardCache keeps the dashboard in Redis so that every server
// instance and the importer share one copy
type RedisDashboardCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisDashboardCache creates a cache on an existing client. An empty key selects DefaultDashboardKey.
func NewRedisDashboardCache(client *redis.Client, key string, ttl time.Duration) *RedisDashboardCache {
	if key == "" {
		key = DefaultDashboardKey
	}
	return &RedisDashboardCache{client: client, key: key, ttl: ttl}
}

// Get returns the cached dashboard, or false when the key is absent
func (c *RedisDashboardCache) Get(ctx context.Context) (*report.Dashboard, bool, error) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached dashboard: %w", err)
	}

	var d report.Dashboard
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached dashboard: %w", err)
	}
	return &d, true, nil
}

// Set stores the dashboard for the configured TTL
func (c *RedisDashboardCache) Set(ctx context.Context, d *report.Dashboard) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode dashboard: %w", err)
	}
	if err := c.client.Set(ctx, c.key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache dashboard: %w", err)
	}
	return nil
}

// InvalidateDashboard drops the cached dashboard
func (c *RedisDashboardCache) InvalidateDashboard(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate dashboard: %w", err)
	}
	return nil
}

var _ report.DashboardCache = (*RedisDashboardCache)(nil)
