package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amazonstore/backend/internal/domain/report"
	"github.com/amazonstore/backend/internal/domain/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type MockDashboardRepository struct {
	mock.Mock
}

func (m *MockDashboardRepository) Totals(ctx context.Context) (store.EntityCounts, error) {
	args := m.Called(ctx)
	return args.Get(0).(store.EntityCounts), args.Error(1)
}

func (m *MockDashboardRepository) OrderStats(ctx context.Context) (report.OrderStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(report.OrderStats), args.Error(1)
}

func (m *MockDashboardRepository) StatusBreakdown(ctx context.Context, limit int) ([]report.Breakdown, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]report.Breakdown), args.Error(1)
}

func (m *MockDashboardRepository) PaymentBreakdown(ctx context.Context, limit int) ([]report.Breakdown, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]report.Breakdown), args.Error(1)
}

func (m *MockDashboardRepository) TopProducts(ctx context.Context, limit int) ([]report.ProductRanking, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]report.ProductRanking), args.Error(1)
}

func (m *MockDashboardRepository) TopCustomers(ctx context.Context, limit int) ([]report.CustomerRanking, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]report.CustomerRanking), args.Error(1)
}

func (m *MockDashboardRepository) MonthlySales(ctx context.Context, months int) ([]report.MonthlySales, error) {
	args := m.Called(ctx, months)
	return args.Get(0).([]report.MonthlySales), args.Error(1)
}

type MockDashboardCache struct {
	mock.Mock
}

func (m *MockDashboardCache) Get(ctx context.Context) (*report.Dashboard, bool, error) {
	args := m.Called(ctx)
	d, _ := args.Get(0).(*report.Dashboard)
	return d, args.Bool(1), args.Error(2)
}

func (m *MockDashboardCache) Set(ctx context.Context, d *report.Dashboard) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDashboardCache) InvalidateDashboard(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func expectFullDashboard(repo *MockDashboardRepository) {
	repo.On("Totals", mock.Anything).Return(store.EntityCounts{Orders: 2, OrderItems: 3}, nil)
	repo.On("OrderStats", mock.Anything).Return(report.OrderStats{
		TotalOrders:  2,
		TotalRevenue: decimal.RequireFromString("150.00"),
	}, nil)
	repo.On("StatusBreakdown", mock.Anything, report.StatusBreakdownLimit).
		Return([]report.Breakdown{{Key: "Delivered", Count: 2}}, nil)
	repo.On("PaymentBreakdown", mock.Anything, report.PaymentBreakdownLimit).
		Return([]report.Breakdown{{Key: "Credit Card", Count: 2}}, nil)
	repo.On("TopProducts", mock.Anything, report.TopProductsLimit).
		Return([]report.ProductRanking{{ProductID: "P1", TotalQuantity: 3}}, nil)
	repo.On("TopCustomers", mock.Anything, report.TopCustomersLimit).
		Return([]report.CustomerRanking{{CustomerID: "C1", OrderCount: 2}}, nil)
	repo.On("MonthlySales", mock.Anything, report.MonthlySalesMonths).
		Return([]report.MonthlySales{}, nil)
}

func fixedClock() time.Time {
	return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestDashboardService_Compute(t *testing.T) {
	repo := new(MockDashboardRepository)
	expectFullDashboard(repo)

	svc := NewDashboardService(repo)
	svc.now = fixedClock

	d, err := svc.Compute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, fixedClock(), d.GeneratedAt)
	assert.Equal(t, int64(2), d.Totals.Orders)
	assert.True(t, d.OrderStats.TotalRevenue.Equal(decimal.RequireFromString("150")))
	assert.Len(t, d.StatusStats, 1)
	assert.Len(t, d.PaymentStats, 1)
	assert.Equal(t, "P1", d.TopProducts[0].ProductID)
	assert.Equal(t, "C1", d.TopCustomers[0].CustomerID)
	repo.AssertExpectations(t)
}

func TestDashboardService_ComputeError(t *testing.T) {
	repo := new(MockDashboardRepository)
	repo.On("Totals", mock.Anything).Return(store.EntityCounts{}, nil)
	repo.On("OrderStats", mock.Anything).Return(report.OrderStats{}, errors.New("db down"))

	_, err := NewDashboardService(repo).Compute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dashboard order stats")
	repo.AssertNotCalled(t, "StatusBreakdown", mock.Anything, mock.Anything)
}

func TestDashboardService_Get(t *testing.T) {
	t.Run("cache hit skips the repository", func(t *testing.T) {
		repo := new(MockDashboardRepository)
		cache := new(MockDashboardCache)
		cached := &report.Dashboard{GeneratedAt: fixedClock()}
		cache.On("Get", mock.Anything).Return(cached, true, nil)

		d, err := NewDashboardService(repo, WithCache(cache)).Get(context.Background())
		require.NoError(t, err)
		assert.Same(t, cached, d)
		repo.AssertNotCalled(t, "Totals", mock.Anything)
	})

	t.Run("cache miss computes and stores", func(t *testing.T) {
		repo := new(MockDashboardRepository)
		expectFullDashboard(repo)
		cache := new(MockDashboardCache)
		cache.On("Get", mock.Anything).Return(nil, false, nil)
		cache.On("Set", mock.Anything, mock.AnythingOfType("*report.Dashboard")).Return(nil)

		d, err := NewDashboardService(repo, WithCache(cache)).Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(2), d.Totals.Orders)
		cache.AssertExpectations(t)
	})

	t.Run("cache failures are logged, not returned", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		repo := new(MockDashboardRepository)
		expectFullDashboard(repo)
		cache := new(MockDashboardCache)
		cache.On("Get", mock.Anything).Return(nil, false, errors.New("redis down"))
		cache.On("Set", mock.Anything, mock.Anything).Return(errors.New("redis down"))

		svc := NewDashboardService(repo, WithCache(cache), WithLogger(zap.New(core)))
		d, err := svc.Get(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, d)
		assert.Equal(t, 1, logs.FilterMessage("dashboard cache read failed").Len())
		assert.Equal(t, 1, logs.FilterMessage("dashboard cache write failed").Len())
	})
}

func TestDashboardService_Refresh(t *testing.T) {
	repo := new(MockDashboardRepository)
	expectFullDashboard(repo)
	cache := new(MockDashboardCache)
	cache.On("InvalidateDashboard", mock.Anything).Return(nil)
	cache.On("Get", mock.Anything).Return(nil, false, nil)
	cache.On("Set", mock.Anything, mock.Anything).Return(nil)

	_, err := NewDashboardService(repo, WithCache(cache)).Refresh(context.Background())
	require.NoError(t, err)
	cache.AssertCalled(t, "InvalidateDashboard", mock.Anything)
	repo.AssertCalled(t, "Totals", mock.Anything)
}
