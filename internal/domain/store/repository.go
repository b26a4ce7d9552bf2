package store

import (
	"context"

	"github.com/amazonstore/backend/internal/domain/shared"
)

// ImportStore is the storage surface used while importing a file.
// Every GetOrCreate method looks the entity up by its natural key and inserts
// the candidate only when it is absent; the returned bool reports whether a
// row was inserted. Existing rows are never updated.
type ImportStore interface {
	GetOrCreateCustomer(ctx context.Context, candidate *Customer) (*Customer, bool, error)
	GetOrCreateSeller(ctx context.Context, sellerID string) (*Seller, bool, error)
	GetOrCreateBrand(ctx context.Context, name string) (*Brand, bool, error)
	GetOrCreateCategory(ctx context.Context, name string) (*Category, bool, error)
	GetOrCreateProduct(ctx context.Context, candidate *Product) (*Product, bool, error)
	GetOrCreateProductSeller(ctx context.Context, productID, sellerID string) (*ProductSeller, bool, error)
	GetOrCreateOrder(ctx context.Context, candidate *Order) (*Order, bool, error)
	GetOrCreateOrderItem(ctx context.Context, candidate *OrderItem) (*OrderItem, bool, error)
	CreateOrderItem(ctx context.Context, item *OrderItem) error
	Counts(ctx context.Context) (EntityCounts, error)
}

// ImportTransactor runs fn against an ImportStore bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type ImportTransactor interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context, s ImportStore) error) error
}

// EntityCounts holds the number of stored rows per table
type EntityCounts struct {
	Customers      int64 `json:"customers"`
	Sellers        int64 `json:"sellers"`
	Brands         int64 `json:"brands"`
	Categories     int64 `json:"categories"`
	Products       int64 `json:"products"`
	ProductSellers int64 `json:"product_sellers"`
	Orders         int64 `json:"orders"`
	OrderItems     int64 `json:"order_items"`
}

// Total returns the number of rows across all tables
func (c EntityCounts) Total() int64 {
	return c.Customers + c.Sellers + c.Brands + c.Categories +
		c.Products + c.ProductSellers + c.Orders + c.OrderItems
}

// Listing filter keys understood by ListingRepository
const (
	FilterCountry       = "country"
	FilterState         = "state"
	FilterBrand         = "brand"
	FilterCategory      = "category"
	FilterStatus        = "status"
	FilterPaymentMethod = "payment_method"
	FilterOrderID       = "order_id"
)

// ListingRepository serves the read-only paginated listings of every table.
// A page past the end resolves to the last page and a page below one to the first.
type ListingRepository interface {
	ListCustomers(ctx context.Context, filter shared.Filter) (shared.Paginated[Customer], error)
	ListSellers(ctx context.Context, filter shared.Filter) (shared.Paginated[Seller], error)
	ListBrands(ctx context.Context, filter shared.Filter) (shared.Paginated[Brand], error)
	ListCategories(ctx context.Context, filter shared.Filter) (shared.Paginated[Category], error)
	ListProducts(ctx context.Context, filter shared.Filter) (shared.Paginated[Product], error)
	ListOrders(ctx context.Context, filter shared.Filter) (shared.Paginated[Order], error)
	ListOrderItems(ctx context.Context, filter shared.Filter) (shared.Paginated[OrderItem], error)
}

// ProductRepository persists products edited through product management
type ProductRepository interface {
	// FindByID returns the product with brand and category loaded, or shared.ErrNotFound
	FindByID(ctx context.Context, productID string) (*Product, error)

	// Create inserts a new product, resolving brand and category by name.
	// It returns shared.ErrAlreadyExists when the product ID is taken.
	Create(ctx context.Context, draft ProductDraft) (*Product, error)

	// Update rewrites name, brand and category of an existing product
	Update(ctx context.Context, draft ProductDraft) (*Product, error)

	// Delete removes the product together with its seller links and order items
	Delete(ctx context.Context, productID string) error
}
