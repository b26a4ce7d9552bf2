package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amazonstore/backend/internal/domain/store"
	"github.com/amazonstore/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormImportStore_GetOrCreateCustomer(t *testing.T) {
	db := setupStoreTestDB(t)
	s := NewGormImportStore(db)
	ctx := context.Background()

	first, created, err := s.GetOrCreateCustomer(ctx, &store.Customer{CustomerID: "C1", Name: "Ann", City: "Austin", State: "TX", Country: "US"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Ann", first.Name)

	t.Run("existing customer keeps first values", func(t *testing.T) {
		again, created, err := s.GetOrCreateCustomer(ctx, &store.Customer{CustomerID: "C1", Name: "Other", City: "Boston"})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "Ann", again.Name)
		assert.Equal(t, "Austin", again.City)
	})
}

func TestGormImportStore_GetOrCreateBrand(t *testing.T) {
	db := setupStoreTestDB(t)
	s := NewGormImportStore(db)
	ctx := context.Background()

	a, created, err := s.GetOrCreateBrand(ctx, "Acme")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, a.ID)

	b, created, err := s.GetOrCreateBrand(ctx, "Acme")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, a.ID, b.ID)

	var count int64
	require.NoError(t, db.Model(&models.BrandModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGormImportStore_ProductSellerIsIdempotent(t *testing.T) {
	db := setupStoreTestDB(t)
	seedOrder(t, db, "O1", "C1", "P1", "2024-01-10", 1, "10")
	s := NewGormImportStore(db)
	ctx := context.Background()

	link, created, err := s.GetOrCreateProductSeller(ctx, "P1", "S1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.True(t, link.IsActive)

	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.ProductSellers)
}

func TestGormImportStore_GetOrCreateOrderItem(t *testing.T) {
	db := setupStoreTestDB(t)
	seedOrder(t, db, "O1", "C1", "P1", "2024-01-10", 2, "10")
	s := NewGormImportStore(db)
	ctx := context.Background()

	candidate := store.NewOrderItem("O1", "P1", "S1", 5, decimal.NewFromInt(1), decimal.Zero, decimal.Zero, decimal.Zero)
	item, created, err := s.GetOrCreateOrderItem(ctx, candidate)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 2, item.Quantity)
}

func TestGormImportStore_DiscountCheckConstraint(t *testing.T) {
	db := setupStoreTestDB(t)
	seedOrder(t, db, "O1", "C1", "P1", "2024-01-10", 1, "10")
	s := NewGormImportStore(db)
	ctx := context.Background()

	_, _, err := s.GetOrCreateProduct(ctx, &store.Product{ProductID: "P2", Name: "Other", BrandID: 1, CategoryID: 1})
	require.NoError(t, err)

	item := store.NewOrderItem("O1", "P2", "S1", 1, decimal.NewFromInt(10), decimal.RequireFromString("1.5"), decimal.Zero, decimal.Zero)
	assert.Error(t, s.CreateOrderItem(ctx, item))
}

func TestGormImportTransactor_RollsBackOnError(t *testing.T) {
	db := setupStoreTestDB(t)
	tx := NewGormImportTransactor(db)
	ctx := context.Background()
	boom := errors.New("boom")

	err := tx.RunInTransaction(ctx, func(ctx context.Context, s store.ImportStore) error {
		if _, _, err := s.GetOrCreateCustomer(ctx, &store.Customer{CustomerID: "C1", Name: "Ann"}); err != nil {
			return err
		}
		if _, _, err := s.GetOrCreateOrder(ctx, &store.Order{OrderID: "O1", OrderDate: time.Now(), CustomerID: "C1"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	counts, err := NewGormImportStore(db).Counts(ctx)
	require.NoError(t, err)
	assert.Zero(t, counts.Total())
}

func TestGormImportTransactor_Commits(t *testing.T) {
	db := setupStoreTestDB(t)
	tx := NewGormImportTransactor(db)
	ctx := context.Background()

	err := tx.RunInTransaction(ctx, func(ctx context.Context, s store.ImportStore) error {
		_, _, err := s.GetOrCreateSeller(ctx, "S9")
		return err
	})
	require.NoError(t, err)

	var seller models.SellerModel
	require.NoError(t, db.Take(&seller, "seller_id = ?", "S9").Error)
	assert.Nil(t, seller.Name)
}
