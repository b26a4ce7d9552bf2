package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/amazonstore/backend/internal/domain/shared"
	"github.com/amazonstore/backend/internal/domain/store"
	"github.com/amazonstore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormListingRepository implements store.ListingRepository using GORM
type GormListingRepository struct {
	db *gorm.DB
}

// NewGormListingRepository creates a new GormListingRepository
func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// ListCustomers lists customers ordered by CustomerID unless a sort is requested
func (r *GormListingRepository) ListCustomers(ctx context.Context, filter shared.Filter) (shared.Paginated[store.Customer], error) {
	query := r.db.WithContext(ctx).Model(&models.CustomerModel{})
	query = applySearch(query, filter.Search, "customers.name", "customers.customer_id")
	query = applyEquals(query, filter, map[string]string{
		store.FilterCountry: "customers.country",
		store.FilterState:   "customers.state",
	})
	return listPage(query, filter, orderClause(filter, CustomerSortFields, "customers.customer_id"), (*models.CustomerModel).ToDomain)
}

// ListSellers lists sellers ordered by SellerID
func (r *GormListingRepository) ListSellers(ctx context.Context, filter shared.Filter) (shared.Paginated[store.Seller], error) {
	query := r.db.WithContext(ctx).Model(&models.SellerModel{})
	query = applySearch(query, filter.Search, "sellers.seller_id", "sellers.name")
	return listPage(query, filter, orderClause(filter, SellerSortFields, "sellers.seller_id"), (*models.SellerModel).ToDomain)
}

// ListBrands lists brands ordered by name
func (r *GormListingRepository) ListBrands(ctx context.Context, filter shared.Filter) (shared.Paginated[store.Brand], error) {
	query := r.db.WithContext(ctx).Model(&models.BrandModel{})
	query = applySearch(query, filter.Search, "brands.name")
	return listPage(query, filter, orderClause(filter, NameSortFields, "brands.name"), (*models.BrandModel).ToDomain)
}

// ListCategories lists categories ordered by name
func (r *GormListingRepository) ListCategories(ctx context.Context, filter shared.Filter) (shared.Paginated[store.Category], error) {
	query := r.db.WithContext(ctx).Model(&models.CategoryModel{})
	query = applySearch(query, filter.Search, "categories.name")
	return listPage(query, filter, orderClause(filter, NameSortFields, "categories.name"), (*models.CategoryModel).ToDomain)
}

// ListProducts lists products ordered by ProductID with brand and category loaded
func (r *GormListingRepository) ListProducts(ctx context.Context, filter shared.Filter) (shared.Paginated[store.Product], error) {
	query := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Joins("JOIN brands ON brands.id = products.brand_id").
		Joins("JOIN categories ON categories.id = products.category_id")
	query = applySearch(query, filter.Search, "products.name", "products.product_id")
	query = applyEquals(query, filter, map[string]string{
		store.FilterBrand:    "brands.name",
		store.FilterCategory: "categories.name",
	})
	return listPage(query, filter, orderClause(filter, ProductSortFields, "products.product_id"), (*models.ProductModel).ToDomain, "Brand", "Category")
}

// ListOrders lists orders newest first with the customer loaded
func (r *GormListingRepository) ListOrders(ctx context.Context, filter shared.Filter) (shared.Paginated[store.Order], error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Joins("JOIN customers ON customers.customer_id = orders.customer_id")
	query = applySearch(query, filter.Search, "orders.order_id", "customers.name")
	query = applyEquals(query, filter, map[string]string{
		store.FilterStatus:        "orders.status",
		store.FilterPaymentMethod: "orders.payment_method",
	})
	return listPage(query, filter, orderClause(filter, OrderSortFields, "orders.order_date DESC, orders.order_id"), (*models.OrderModel).ToDomain, "Customer")
}

// ListOrderItems lists order items by ID with the product loaded
func (r *GormListingRepository) ListOrderItems(ctx context.Context, filter shared.Filter) (shared.Paginated[store.OrderItem], error) {
	query := r.db.WithContext(ctx).Model(&models.OrderItemModel{}).
		Joins("JOIN products ON products.product_id = order_items.product_id").
		Joins("JOIN categories ON categories.id = products.category_id")
	query = applySearch(query, filter.Search, "order_items.order_id", "products.name")
	query = applyEquals(query, filter, map[string]string{
		store.FilterCategory: "categories.name",
		store.FilterOrderID:  "order_items.order_id",
	})
	return listPage(query, filter, orderClause(filter, OrderItemSortFields, "order_items.id"), (*models.OrderItemModel).ToDomain, "Product")
}

// listPage counts the filtered rows, resolves the requested page against the
// total and loads that page. Preloads are applied to the page query only.
func listPage[M any, D any](query *gorm.DB, filter shared.Filter, order string, toDomain func(*M) *D, preloads ...string) (shared.Paginated[D], error) {
	filter = filter.Normalized()
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[D]{}, fmt.Errorf("failed to count rows: %w", err)
	}
	page := shared.ClampPage(filter.Page, total, filter.PageSize)

	pageQuery := query.Order(order).Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	for _, p := range preloads {
		pageQuery = pageQuery.Preload(p)
	}

	var rows []M
	if err := pageQuery.Find(&rows).Error; err != nil {
		return shared.Paginated[D]{}, fmt.Errorf("failed to load page: %w", err)
	}

	items := make([]D, 0, len(rows))
	for i := range rows {
		items = append(items, *toDomain(&rows[i]))
	}
	return shared.NewPaginated(items, total, page, filter.PageSize), nil
}

// applySearch adds a case-insensitive substring match over any of the columns
func applySearch(query *gorm.DB, search string, columns ...string) *gorm.DB {
	search = strings.TrimSpace(search)
	if search == "" || len(columns) == 0 {
		return query
	}
	pattern := "%" + strings.ToLower(search) + "%"
	clauses := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		clauses[i] = "LOWER(" + col + ") LIKE ?"
		args[i] = pattern
	}
	return query.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

// applyEquals adds exact-match conditions for the filters a listing supports.
// Unknown filter keys are ignored.
func applyEquals(query *gorm.DB, filter shared.Filter, columns map[string]string) *gorm.DB {
	for key, value := range filter.Filters {
		col, ok := columns[key]
		if !ok || value == "" {
			continue
		}
		query = query.Where(col+" = ?", value)
	}
	return query
}
