package catalog

import (
	"context"
	"fmt"

	"github.com/amazonstore/backend/internal/domain/shared"
	"github.com/amazonstore/backend/internal/domain/store"
)

// Listing names accepted by ListingService
const (
	ListingCustomers  = "customers"
	ListingSellers    = "sellers"
	ListingBrands     = "brands"
	ListingCategories = "categories"
	ListingProducts   = "products"
	ListingOrders     = "orders"
	ListingOrderItems = "order_items"
)

// allowedFilters lists the exact-match filters each listing understands
var allowedFilters = map[string][]string{
	ListingCustomers:  {store.FilterCountry, store.FilterState},
	ListingSellers:    nil,
	ListingBrands:     nil,
	ListingCategories: nil,
	ListingProducts:   {store.FilterBrand, store.FilterCategory},
	ListingOrders:     {store.FilterStatus, store.FilterPaymentMethod},
	ListingOrderItems: {store.FilterCategory, store.FilterOrderID},
}

// AllowedFilters returns the filter keys of a listing
func AllowedFilters(listing string) []string {
	return allowedFilters[listing]
}

// ListingService serves the read-only table listings
type ListingService struct {
	repo store.ListingRepository
}

// NewListingService creates a new ListingService
func NewListingService(repo store.ListingRepository) *ListingService {
	return &ListingService{repo: repo}
}

// prepare normalizes paging and drops filters the listing does not support
func prepare(listing string, filter shared.Filter) shared.Filter {
	filter = filter.Normalized()
	kept := make(map[string]string)
	for _, key := range allowedFilters[listing] {
		if v, ok := filter.Filters[key]; ok && v != "" {
			kept[key] = v
		}
	}
	filter.Filters = kept
	return filter
}

// List dispatches to the named listing
func (s *ListingService) List(ctx context.Context, listing string, filter shared.Filter) (any, error) {
	filter = prepare(listing, filter)
	switch listing {
	case ListingCustomers:
		return s.repo.ListCustomers(ctx, filter)
	case ListingSellers:
		return s.repo.ListSellers(ctx, filter)
	case ListingBrands:
		return s.repo.ListBrands(ctx, filter)
	case ListingCategories:
		return s.repo.ListCategories(ctx, filter)
	case ListingProducts:
		return s.repo.ListProducts(ctx, filter)
	case ListingOrders:
		return s.repo.ListOrders(ctx, filter)
	case ListingOrderItems:
		return s.repo.ListOrderItems(ctx, filter)
	}
	return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Unknown listing %q", listing))
}
