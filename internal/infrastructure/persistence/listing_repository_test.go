package persistence

import (
	"context"
	"fmt"
	"testing"

	"github.com/amazonstore/backend/internal/domain/shared"
	"github.com/amazonstore/backend/internal/domain/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormListingRepository_ListCustomers(t *testing.T) {
	db := setupStoreTestDB(t)
	for i := 1; i <= 25; i++ {
		id := fmt.Sprintf("C%02d", i)
		seedOrder(t, db, "O"+id, id, "P1", "2024-01-10", 1, "10")
	}
	repo := NewGormListingRepository(db)
	ctx := context.Background()

	t.Run("first page holds twenty customers in id order", func(t *testing.T) {
		page, err := repo.ListCustomers(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(25), page.Total)
		assert.Equal(t, 2, page.TotalPages)
		require.Len(t, page.Items, 20)
		assert.Equal(t, "C01", page.Items[0].CustomerID)
	})

	t.Run("page past the end returns the last page", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Page = 7
		page, err := repo.ListCustomers(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, 2, page.Page)
		require.Len(t, page.Items, 5)
		assert.Equal(t, "C21", page.Items[0].CustomerID)
	})

	t.Run("search matches name case-insensitively", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "name c07"
		page, err := repo.ListCustomers(ctx, filter)
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "C07", page.Items[0].CustomerID)
	})

	t.Run("sorts by requested key descending", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.OrderBy = "customer_id"
		filter.OrderDir = "desc"
		page, err := repo.ListCustomers(ctx, filter)
		require.NoError(t, err)
		require.NotEmpty(t, page.Items)
		assert.Equal(t, "C25", page.Items[0].CustomerID)
	})

	t.Run("unknown sort key keeps id order", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.OrderBy = "customer_id; DROP TABLE customers"
		page, err := repo.ListCustomers(ctx, filter)
		require.NoError(t, err)
		require.NotEmpty(t, page.Items)
		assert.Equal(t, "C01", page.Items[0].CustomerID)
	})

	t.Run("filters by country", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters[store.FilterCountry] = "FR"
		page, err := repo.ListCustomers(ctx, filter)
		require.NoError(t, err)
		assert.Zero(t, page.Total)
		assert.Equal(t, 1, page.Page)
	})
}

func TestGormListingRepository_ListOrders(t *testing.T) {
	db := setupStoreTestDB(t)
	seedOrder(t, db, "O1", "C1", "P1", "2024-01-10", 1, "10")
	seedOrder(t, db, "O2", "C2", "P2", "2024-03-05", 1, "20")
	repo := NewGormListingRepository(db)
	ctx := context.Background()

	page, err := repo.ListOrders(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "O2", page.Items[0].OrderID)
	require.NotNil(t, page.Items[0].Customer)
	assert.Equal(t, "Name C2", page.Items[0].Customer.Name)

	filter := shared.DefaultFilter()
	filter.Search = "name c1"
	page, err = repo.ListOrders(ctx, filter)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "O1", page.Items[0].OrderID)
}

func TestGormListingRepository_ListProducts(t *testing.T) {
	db := setupStoreTestDB(t)
	seedOrder(t, db, "O1", "C1", "P2", "2024-01-10", 1, "10")
	seedOrder(t, db, "O2", "C1", "P1", "2024-01-11", 1, "10")
	repo := NewGormListingRepository(db)
	ctx := context.Background()

	filter := shared.DefaultFilter()
	filter.Filters[store.FilterBrand] = "Acme"
	page, err := repo.ListProducts(ctx, filter)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "P1", page.Items[0].ProductID)
	require.NotNil(t, page.Items[0].Brand)
	assert.Equal(t, "Acme", page.Items[0].Brand.Name)
	assert.Equal(t, "Home", page.Items[0].Category.Name)
}

func TestGormListingRepository_ListOrderItemsByCategory(t *testing.T) {
	db := setupStoreTestDB(t)
	seedOrder(t, db, "O1", "C1", "P1", "2024-01-10", 2, "10")
	repo := NewGormListingRepository(db)
	ctx := context.Background()

	filter := shared.DefaultFilter()
	filter.Filters[store.FilterCategory] = "Home"
	page, err := repo.ListOrderItems(ctx, filter)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.Items[0].Quantity)
	require.NotNil(t, page.Items[0].Product)
	assert.Equal(t, "Product P1", page.Items[0].Product.Name)

	filter.Filters[store.FilterCategory] = "Garden"
	page, err = repo.ListOrderItems(ctx, filter)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestGormListingRepository_BrandsAndCategories(t *testing.T) {
	db := setupStoreTestDB(t)
	seedOrder(t, db, "O1", "C1", "P1", "2024-01-10", 1, "10")
	repo := NewGormListingRepository(db)
	ctx := context.Background()

	brands, err := repo.ListBrands(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(1), brands.Total)

	categories, err := repo.ListCategories(ctx, shared.Filter{Search: "hom"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), categories.Total)

	sellers, err := repo.ListSellers(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, sellers.Items, 1)
	assert.Equal(t, "S1", sellers.Items[0].SellerID)
}
