package report

import (
	"context"
	"time"

	"github.com/amazonstore/backend/internal/domain/store"
	"github.com/shopspring/decimal"
)

// Dashboard ranking sizes
const (
	StatusBreakdownLimit  = 5
	PaymentBreakdownLimit = 5
	TopProductsLimit      = 10
	TopCustomersLimit     = 10
	MonthlySalesMonths    = 6
)

// OrderStats aggregates TotalAmount over all orders
type OrderStats struct {
	TotalOrders  int64           `json:"total_orders"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	AvgOrder     decimal.Decimal `json:"avg_order"`
	MaxOrder     decimal.Decimal `json:"max_order"`
	MinOrder     decimal.Decimal `json:"min_order"`
}

// Breakdown is a count and revenue bucket keyed by status or payment method
type Breakdown struct {
	Key   string          `json:"key"`
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// ProductRanking ranks products by quantity sold
type ProductRanking struct {
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	TotalQuantity int64           `json:"total_quantity"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}

// CustomerRanking ranks customers by amount spent
type CustomerRanking struct {
	CustomerID string          `json:"customer_id"`
	Name       string          `json:"name"`
	Country    string          `json:"country"`
	TotalSpent decimal.Decimal `json:"total_spent"`
	OrderCount int64           `json:"order_count"`
}

// MonthlySales is the revenue of one calendar month
type MonthlySales struct {
	Month   time.Time       `json:"month"`
	Orders  int64           `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Dashboard is the read model behind the store overview page
type Dashboard struct {
	GeneratedAt  time.Time          `json:"generated_at"`
	Totals       store.EntityCounts `json:"totals"`
	OrderStats   OrderStats         `json:"order_stats"`
	StatusStats  []Breakdown        `json:"status_stats"`
	PaymentStats []Breakdown        `json:"payment_stats"`
	TopProducts  []ProductRanking   `json:"top_products"`
	TopCustomers []CustomerRanking  `json:"top_customers"`
	MonthlySales []MonthlySales     `json:"monthly_sales"`
}

// DashboardRepository computes the dashboard aggregates from stored orders
type DashboardRepository interface {
	Totals(ctx context.Context) (store.EntityCounts, error)
	OrderStats(ctx context.Context) (OrderStats, error)
	StatusBreakdown(ctx context.Context, limit int) ([]Breakdown, error)
	PaymentBreakdown(ctx context.Context, limit int) ([]Breakdown, error)
	TopProducts(ctx context.Context, limit int) ([]ProductRanking, error)
	TopCustomers(ctx context.Context, limit int) ([]CustomerRanking, error)
	MonthlySales(ctx context.Context, months int) ([]MonthlySales, error)
}

// DashboardCache stores the last computed dashboard.
// Get reports false when nothing usable is cached.
type DashboardCache interface {
	Get(ctx context.Context) (*Dashboard, bool, error)
	Set(ctx context.Context, d *Dashboard) error
	InvalidateDashboard(ctx context.Context) error
}
