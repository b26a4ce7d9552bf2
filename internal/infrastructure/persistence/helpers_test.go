package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/amazonstore/backend/internal/domain/store"
	"github.com/amazonstore/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupStoreTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := NewDatabase(&config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(context.Background()))
	t.Cleanup(func() { _ = db.Close() })

	return db.DB
}

// seedOrder stores a customer, seller, brand, category, product, link, order and one item
func seedOrder(t *testing.T, db *gorm.DB, orderID, customerID, productID, date string, quantity int, total string) {
	t.Helper()
	ctx := context.Background()
	s := NewGormImportStore(db)

	_, _, err := s.GetOrCreateCustomer(ctx, &store.Customer{CustomerID: customerID, Name: "Name " + customerID, Country: "US"})
	require.NoError(t, err)
	_, _, err = s.GetOrCreateSeller(ctx, "S1")
	require.NoError(t, err)
	brand, _, err := s.GetOrCreateBrand(ctx, "Acme")
	require.NoError(t, err)
	category, _, err := s.GetOrCreateCategory(ctx, "Home")
	require.NoError(t, err)
	_, _, err = s.GetOrCreateProduct(ctx, &store.Product{ProductID: productID, Name: "Product " + productID, BrandID: brand.ID, CategoryID: category.ID})
	require.NoError(t, err)
	_, _, err = s.GetOrCreateProductSeller(ctx, productID, "S1")
	require.NoError(t, err)

	orderDate, err := time.Parse(time.DateOnly, date)
	require.NoError(t, err)
	amount := decimal.RequireFromString(total)
	_, _, err = s.GetOrCreateOrder(ctx, &store.Order{
		OrderID:       orderID,
		OrderDate:     orderDate,
		CustomerID:    customerID,
		PaymentMethod: "Card",
		Status:        "Delivered",
		ShippingCost:  decimal.Zero,
		TotalAmount:   amount,
	})
	require.NoError(t, err)

	price := amount.Div(decimal.NewFromInt(int64(quantity)))
	require.NoError(t, s.CreateOrderItem(ctx, store.NewOrderItem(orderID, productID, "S1", quantity, price, decimal.Zero, decimal.Zero, decimal.Zero)))
}
