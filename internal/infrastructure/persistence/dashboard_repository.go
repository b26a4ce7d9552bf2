package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/amazonstore/backend/internal/domain/report"
	"github.com/amazonstore/backend/internal/domain/store"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SQLite sums money columns as floating point, so aggregates are rounded back to cents
const moneyPlaces = 2

// GormDashboardRepository implements report.DashboardRepository using GORM
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewGormDashboardRepository creates a new GormDashboardRepository
func NewGormDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// Totals returns the row count of every store table
func (r *GormDashboardRepository) Totals(ctx context.Context) (store.EntityCounts, error) {
	return countTables(r.db.WithContext(ctx))
}

// OrderStats aggregates order totals; an empty table yields zeros
func (r *GormDashboardRepository) OrderStats(ctx context.Context) (report.OrderStats, error) {
	type statsResult struct {
		TotalOrders  int64
		TotalRevenue decimal.Decimal
		AvgOrder     decimal.Decimal
		MaxOrder     decimal.Decimal
		MinOrder     decimal.Decimal
	}

	var result statsResult
	err := r.db.WithContext(ctx).Table("orders").
		Select(`
			COUNT(*) as total_orders,
			COALESCE(SUM(total_amount), 0) as total_revenue,
			COALESCE(AVG(total_amount), 0) as avg_order,
			COALESCE(MAX(total_amount), 0) as max_order,
			COALESCE(MIN(total_amount), 0) as min_order
		`).
		Scan(&result).Error
	if err != nil {
		return report.OrderStats{}, fmt.Errorf("failed to aggregate orders: %w", err)
	}

	return report.OrderStats{
		TotalOrders:  result.TotalOrders,
		TotalRevenue: result.TotalRevenue.Round(moneyPlaces),
		AvgOrder:     result.AvgOrder.Round(moneyPlaces),
		MaxOrder:     result.MaxOrder.Round(moneyPlaces),
		MinOrder:     result.MinOrder.Round(moneyPlaces),
	}, nil
}

// StatusBreakdown returns the most frequent order statuses
func (r *GormDashboardRepository) StatusBreakdown(ctx context.Context, limit int) ([]report.Breakdown, error) {
	return r.breakdown(ctx, "status", limit)
}

// PaymentBreakdown returns the most frequent payment methods
func (r *GormDashboardRepository) PaymentBreakdown(ctx context.Context, limit int) ([]report.Breakdown, error) {
	return r.breakdown(ctx, "payment_method", limit)
}

func (r *GormDashboardRepository) breakdown(ctx context.Context, column string, limit int) ([]report.Breakdown, error) {
	type bucketResult struct {
		Bucket     string
		OrderCount int64
		Total      decimal.Decimal
	}

	var results []bucketResult
	err := r.db.WithContext(ctx).Table("orders").
		Select(column + " as bucket, COUNT(*) as order_count, COALESCE(SUM(total_amount), 0) as total").
		Group(column).
		Order("order_count DESC, " + column).
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group orders by %s: %w", column, err)
	}

	buckets := make([]report.Breakdown, len(results))
	for i, res := range results {
		buckets[i] = report.Breakdown{Key: res.Bucket, Count: res.OrderCount, Total: res.Total.Round(moneyPlaces)}
	}
	return buckets, nil
}

// TopProducts ranks products by quantity sold, with revenue from line totals
func (r *GormDashboardRepository) TopProducts(ctx context.Context, limit int) ([]report.ProductRanking, error) {
	var results []report.ProductRanking
	err := r.db.WithContext(ctx).Table("order_items oi").
		Select(`
			oi.product_id as product_id,
			p.name as product_name,
			COALESCE(SUM(oi.quantity), 0) as total_quantity,
			COALESCE(SUM(oi.line_total), 0) as total_revenue
		`).
		Joins("JOIN products p ON p.product_id = oi.product_id").
		Group("oi.product_id, p.name").
		Order("total_quantity DESC, oi.product_id").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank products: %w", err)
	}
	for i := range results {
		results[i].TotalRevenue = results[i].TotalRevenue.Round(moneyPlaces)
	}
	return results, nil
}

// TopCustomers ranks customers by the sum of their order totals
func (r *GormDashboardRepository) TopCustomers(ctx context.Context, limit int) ([]report.CustomerRanking, error) {
	var results []report.CustomerRanking
	err := r.db.WithContext(ctx).Table("orders o").
		Select(`
			c.customer_id as customer_id,
			c.name as name,
			c.country as country,
			COALESCE(SUM(o.total_amount), 0) as total_spent,
			COUNT(o.order_id) as order_count
		`).
		Joins("JOIN customers c ON c.customer_id = o.customer_id").
		Group("c.customer_id, c.name, c.country").
		Order("total_spent DESC, c.customer_id").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank customers: %w", err)
	}
	for i := range results {
		results[i].TotalSpent = results[i].TotalSpent.Round(moneyPlaces)
	}
	return results, nil
}

// MonthlySales returns revenue per calendar month for the most recent months, newest first
func (r *GormDashboardRepository) MonthlySales(ctx context.Context, months int) ([]report.MonthlySales, error) {
	type monthResult struct {
		Month      string
		OrderCount int64
		Revenue    decimal.Decimal
	}

	bucket := monthBucket(r.db.Dialector.Name())
	var results []monthResult
	err := r.db.WithContext(ctx).Table("orders").
		Select(bucket + " as month, COUNT(*) as order_count, COALESCE(SUM(total_amount), 0) as revenue").
		Group(bucket).
		Order("month DESC").
		Limit(months).
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group orders by month: %w", err)
	}

	sales := make([]report.MonthlySales, 0, len(results))
	for _, res := range results {
		month, err := time.Parse("2006-01", res.Month)
		if err != nil {
			return nil, fmt.Errorf("unexpected month bucket %q: %w", res.Month, err)
		}
		sales = append(sales, report.MonthlySales{
			Month:   month,
			Orders:  res.OrderCount,
			Revenue: res.Revenue.Round(moneyPlaces),
		})
	}
	return sales, nil
}

// monthBucket returns a YYYY-MM expression over orders.order_date for the dialect
func monthBucket(dialect string) string {
	switch dialect {
	case "mysql":
		return "DATE_FORMAT(order_date, '%Y-%m')"
	case "sqlite":
		return "strftime('%Y-%m', order_date)"
	default:
		return "to_char(order_date, 'YYYY-MM')"
	}
}
