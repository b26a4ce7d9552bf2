package cache

import (
	"context"
	"sync"
	"time"

	"github.com/amazonstore/backend/internal/domain/report"
)

// InMemoryDashboardCache keeps the dashboard in process memory.
// Suitable for a single server instance; an importer running in another
// process cannot invalidate it, so entries rely on the TTL.
type InMemoryDashboardCache struct {
	mu        sync.RWMutex
	dashboard *report.Dashboard
	expiresAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

// NewInMemoryDashboardCache creates a new in-memory dashboard cache
func NewInMemoryDashboardCache(ttl time.Duration) *InMemoryDashboardCache {
	return &InMemoryDashboardCache{ttl: ttl, now: time.Now}
}

// Get returns the cached dashboard while it has not expired
func (c *InMemoryDashboardCache) Get(_ context.Context) (*report.Dashboard, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.dashboard == nil || !c.now().Before(c.expiresAt) {
		return nil, false, nil
	}
	cp := *c.dashboard
	return &cp, true, nil
}

// Set stores a copy of the dashboard
func (c *InMemoryDashboardCache) Set(_ context.Context, d *report.Dashboard) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cp := *d
	c.dashboard = &cp
	c.expiresAt = c.now().Add(c.ttl)
	return nil
}

// InvalidateDashboard drops the cached dashboard
func (c *InMemoryDashboardCache) InvalidateDashboard(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.dashboard = nil
	return nil
}

var _ report.DashboardCache = (*InMemoryDashboardCache)(nil)
