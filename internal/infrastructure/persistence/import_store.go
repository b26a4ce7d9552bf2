package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/amazonstore/backend/internal/domain/store"
	"github.com/amazonstore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormImportStore implements store.ImportStore on top of a gorm handle,
// normally the transaction opened by GormImportTransactor.
type GormImportStore struct {
	db *gorm.DB
}

// NewGormImportStore creates a new GormImportStore
func NewGormImportStore(db *gorm.DB) *GormImportStore {
	return &GormImportStore{db: db}
}

// GormImportTransactor implements store.ImportTransactor
type GormImportTransactor struct {
	db *gorm.DB
}

// NewGormImportTransactor creates a new GormImportTransactor
func NewGormImportTransactor(db *gorm.DB) *GormImportTransactor {
	return &GormImportTransactor{db: db}
}

// RunInTransaction runs fn inside one database transaction.
// gorm rolls back when fn returns an error or panics.
func (t *GormImportTransactor) RunInTransaction(ctx context.Context, fn func(ctx context.Context, s store.ImportStore) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewGormImportStore(tx))
	})
}

// getOrCreate loads the row matching query, inserting candidate when none exists.
// The insert ignores unique conflicts; when it was ignored the stored row is read back.
func getOrCreate[T any](db *gorm.DB, candidate *T, query string, args ...any) (*T, bool, error) {
	var existing T
	err := db.Where(query, args...).Take(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(candidate)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return candidate, true, nil
	}

	if err := db.Where(query, args...).Take(&existing).Error; err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

// GetOrCreateCustomer resolves a customer by CustomerID
func (s *GormImportStore) GetOrCreateCustomer(ctx context.Context, candidate *store.Customer) (*store.Customer, bool, error) {
	m, created, err := getOrCreate(s.db.WithContext(ctx), models.CustomerModelFromDomain(candidate),
		"customer_id = ?", candidate.CustomerID)
	if err != nil {
		return nil, false, fmt.Errorf("customer %s: %w", candidate.CustomerID, err)
	}
	return m.ToDomain(), created, nil
}

// GetOrCreateSeller resolves a seller by SellerID
func (s *GormImportStore) GetOrCreateSeller(ctx context.Context, sellerID string) (*store.Seller, bool, error) {
	m, created, err := getOrCreate(s.db.WithContext(ctx), &models.SellerModel{SellerID: sellerID},
		"seller_id = ?", sellerID)
	if err != nil {
		return nil, false, fmt.Errorf("seller %s: %w", sellerID, err)
	}
	return m.ToDomain(), created, nil
}

// GetOrCreateBrand resolves a brand by name
func (s *GormImportStore) GetOrCreateBrand(ctx context.Context, name string) (*store.Brand, bool, error) {
	m, created, err := getOrCreate(s.db.WithContext(ctx), &models.BrandModel{Name: name}, "name = ?", name)
	if err != nil {
		return nil, false, fmt.Errorf("brand %q: %w", name, err)
	}
	return m.ToDomain(), created, nil
}

// GetOrCreateCategory resolves a category by name
func (s *GormImportStore) GetOrCreateCategory(ctx context.Context, name string) (*store.Category, bool, error) {
	m, created, err := getOrCreate(s.db.WithContext(ctx), &models.CategoryModel{Name: name}, "name = ?", name)
	if err != nil {
		return nil, false, fmt.Errorf("category %q: %w", name, err)
	}
	return m.ToDomain(), created, nil
}

// GetOrCreateProduct resolves a product by ProductID
func (s *GormImportStore) GetOrCreateProduct(ctx context.Context, candidate *store.Product) (*store.Product, bool, error) {
	m, created, err := getOrCreate(s.db.WithContext(ctx), models.ProductModelFromDomain(candidate),
		"product_id = ?", candidate.ProductID)
	if err != nil {
		return nil, false, fmt.Errorf("product %s: %w", candidate.ProductID, err)
	}
	return m.ToDomain(), created, nil
}

// GetOrCreateProductSeller resolves the (product, seller) link, creating it active
func (s *GormImportStore) GetOrCreateProductSeller(ctx context.Context, productID, sellerID string) (*store.ProductSeller, bool, error) {
	candidate := &models.ProductSellerModel{ProductID: productID, SellerID: sellerID, IsActive: true}
	m, created, err := getOrCreate(s.db.WithContext(ctx), candidate,
		"product_id = ? AND seller_id = ?", productID, sellerID)
	if err != nil {
		return nil, false, fmt.Errorf("product seller %s/%s: %w", productID, sellerID, err)
	}
	return m.ToDomain(), created, nil
}

// GetOrCreateOrder resolves an order by OrderID
func (s *GormImportStore) GetOrCreateOrder(ctx context.Context, candidate *store.Order) (*store.Order, bool, error) {
	m, created, err := getOrCreate(s.db.WithContext(ctx), models.OrderModelFromDomain(candidate),
		"order_id = ?", candidate.OrderID)
	if err != nil {
		return nil, false, fmt.Errorf("order %s: %w", candidate.OrderID, err)
	}
	return m.ToDomain(), created, nil
}

// GetOrCreateOrderItem resolves an order item by (order, product, seller)
func (s *GormImportStore) GetOrCreateOrderItem(ctx context.Context, candidate *store.OrderItem) (*store.OrderItem, bool, error) {
	m, created, err := getOrCreate(s.db.WithContext(ctx), models.OrderItemModelFromDomain(candidate),
		"order_id = ? AND product_id = ? AND seller_id = ?", candidate.OrderID, candidate.ProductID, candidate.SellerID)
	if err != nil {
		return nil, false, fmt.Errorf("order item %s/%s/%s: %w", candidate.OrderID, candidate.ProductID, candidate.SellerID, err)
	}
	return m.ToDomain(), created, nil
}

// CreateOrderItem inserts a new order item and sets its ID
func (s *GormImportStore) CreateOrderItem(ctx context.Context, item *store.OrderItem) error {
	m := models.OrderItemModelFromDomain(item)
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("order item %s/%s/%s: %w", item.OrderID, item.ProductID, item.SellerID, err)
	}
	item.ID = m.ID
	return nil
}

// Counts returns the row count of every store table
func (s *GormImportStore) Counts(ctx context.Context) (store.EntityCounts, error) {
	return countTables(s.db.WithContext(ctx))
}

func countTables(db *gorm.DB) (store.EntityCounts, error) {
	var counts store.EntityCounts
	targets := []struct {
		model any
		dest  *int64
	}{
		{&models.CustomerModel{}, &counts.Customers},
		{&models.SellerModel{}, &counts.Sellers},
		{&models.BrandModel{}, &counts.Brands},
		{&models.CategoryModel{}, &counts.Categories},
		{&models.ProductModel{}, &counts.Products},
		{&models.ProductSellerModel{}, &counts.ProductSellers},
		{&models.OrderModel{}, &counts.Orders},
		{&models.OrderItemModel{}, &counts.OrderItems},
	}
	for _, target := range targets {
		if err := db.Model(target.model).Count(target.dest).Error; err != nil {
			return store.EntityCounts{}, fmt.Errorf("failed to count rows: %w", err)
		}
	}
	return counts, nil
}
