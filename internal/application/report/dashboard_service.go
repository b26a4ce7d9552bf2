package report

import (
	"context"
	"fmt"
	"time"

	"github.com/amazonstore/backend/internal/domain/report"
	"go.uber.org/zap"
)

// DashboardService builds the store overview from stored orders.
// Results are served from the cache when one is configured.
type DashboardService struct {
	repo   report.DashboardRepository
	cache  report.DashboardCache
	logger *zap.Logger
	now    func() time.Time
}

// DashboardOption configures a DashboardService
type DashboardOption func(*DashboardService)

// WithCache serves dashboards from cache until invalidated
func WithCache(cache report.DashboardCache) DashboardOption {
	return func(s *DashboardService) {
		s.cache = cache
	}
}

// WithLogger sets the logger used for cache failures
func WithLogger(logger *zap.Logger) DashboardOption {
	return func(s *DashboardService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(repo report.DashboardRepository, opts ...DashboardOption) *DashboardService {
	s := &DashboardService{
		repo:   repo,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the cached dashboard or computes a fresh one.
// Cache errors are logged and never fail the request.
func (s *DashboardService) Get(ctx context.Context) (*report.Dashboard, error) {
	if s.cache != nil {
		d, ok, err := s.cache.Get(ctx)
		switch {
		case err != nil:
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		case ok:
			return d, nil
		}
	}

	d, err := s.Compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, d); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return d, nil
}

// Refresh drops the cached dashboard and rebuilds it
func (s *DashboardService) Refresh(ctx context.Context) (*report.Dashboard, error) {
	if s.cache != nil {
		if err := s.cache.InvalidateDashboard(ctx); err != nil {
			s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
		}
	}
	return s.Get(ctx)
}

// Compute queries every dashboard section without touching the cache
func (s *DashboardService) Compute(ctx context.Context) (*report.Dashboard, error) {
	d := &report.Dashboard{GeneratedAt: s.now().UTC()}
	var err error

	if d.Totals, err = s.repo.Totals(ctx); err != nil {
		return nil, fmt.Errorf("dashboard totals: %w", err)
	}
	if d.OrderStats, err = s.repo.OrderStats(ctx); err != nil {
		return nil, fmt.Errorf("dashboard order stats: %w", err)
	}
	if d.StatusStats, err = s.repo.StatusBreakdown(ctx, report.StatusBreakdownLimit); err != nil {
		return nil, fmt.Errorf("dashboard status breakdown: %w", err)
	}
	if d.PaymentStats, err = s.repo.PaymentBreakdown(ctx, report.PaymentBreakdownLimit); err != nil {
		return nil, fmt.Errorf("dashboard payment breakdown: %w", err)
	}
	if d.TopProducts, err = s.repo.TopProducts(ctx, report.TopProductsLimit); err != nil {
		return nil, fmt.Errorf("dashboard top products: %w", err)
	}
	if d.TopCustomers, err = s.repo.TopCustomers(ctx, report.TopCustomersLimit); err != nil {
		return nil, fmt.Errorf("dashboard top customers: %w", err)
	}
	if d.MonthlySales, err = s.repo.MonthlySales(ctx, report.MonthlySalesMonths); err != nil {
		return nil, fmt.Errorf("dashboard monthly sales: %w", err)
	}
	return d, nil
}
