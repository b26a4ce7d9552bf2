package persistence

import (
	"strings"

	"github.com/amazonstore/backend/internal/domain/shared"
)

// ValidateSortOrder normalizes a client sort direction to ASC or DESC.
// Anything other than desc sorts ascending.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "DESC") {
		return "DESC"
	}
	return "ASC"
}

// ValidateSortField maps a client sort key to its column through an allow-list.
// Returns "" when the key is empty or not allowed.
func ValidateSortField(sortField string, allowedFields map[string]string) string {
	return allowedFields[strings.TrimSpace(sortField)]
}

// orderClause builds the ORDER BY for a listing. A valid client sort is placed
// in front of the listing's natural order, which stays as the tiebreaker so
// pages remain stable.
func orderClause(filter shared.Filter, allowedFields map[string]string, natural string) string {
	col := ValidateSortField(filter.OrderBy, allowedFields)
	if col == "" {
		return natural
	}
	return col + " " + ValidateSortOrder(filter.OrderDir) + ", " + natural
}

// CustomerSortFields contains allowed sort keys for customers
var CustomerSortFields = map[string]string{
	"customer_id": "customers.customer_id",
	"name":        "customers.name",
	"city":        "customers.city",
	"state":       "customers.state",
	"country":     "customers.country",
}

// SellerSortFields contains allowed sort keys for sellers
var SellerSortFields = map[string]string{
	"seller_id": "sellers.seller_id",
	"name":      "sellers.name",
}

// NameSortFields contains allowed sort keys for brands and categories
var NameSortFields = map[string]string{
	"id":   "id",
	"name": "name",
}

// ProductSortFields contains allowed sort keys for products
var ProductSortFields = map[string]string{
	"product_id": "products.product_id",
	"name":       "products.name",
	"brand":      "brands.name",
	"category":   "categories.name",
}

// OrderSortFields contains allowed sort keys for orders
var OrderSortFields = map[string]string{
	"order_id":       "orders.order_id",
	"order_date":     "orders.order_date",
	"status":         "orders.status",
	"payment_method": "orders.payment_method",
	"shipping_cost":  "orders.shipping_cost",
	"total_amount":   "orders.total_amount",
}

// OrderItemSortFields contains allowed sort keys for order items
var OrderItemSortFields = map[string]string{
	"order_id":   "order_items.order_id",
	"product_id": "order_items.product_id",
	"quantity":   "order_items.quantity",
	"unit_price": "order_items.unit_price",
	"line_total": "order_items.line_total",
}
