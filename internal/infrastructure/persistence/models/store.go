package models

import (
	"time"

	"github.com/amazonstore/backend/internal/domain/store"
	"github.com/shopspring/decimal"
)

// CustomerModel is the persistence model for customers
type CustomerModel struct {
	CustomerID string `gorm:"column:customer_id;type:varchar(20);primaryKey"`
	Name       string `gorm:"column:name;type:varchar(255);not null;index"`
	City       string `gorm:"column:city;type:varchar(255);not null"`
	State      string `gorm:"column:state;type:varchar(255);not null"`
	Country    string `gorm:"column:country;type:varchar(255);not null;index"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer
func (m *CustomerModel) ToDomain() *store.Customer {
	return &store.Customer{
		CustomerID: m.CustomerID,
		Name:       m.Name,
		City:       m.City,
		State:      m.State,
		Country:    m.Country,
	}
}

// CustomerModelFromDomain converts a domain Customer to a persistence model
func CustomerModelFromDomain(c *store.Customer) *CustomerModel {
	return &CustomerModel{
		CustomerID: c.CustomerID,
		Name:       c.Name,
		City:       c.City,
		State:      c.State,
		Country:    c.Country,
	}
}

// SellerModel is the persistence model for sellers
type SellerModel struct {
	SellerID string  `gorm:"column:seller_id;type:varchar(20);primaryKey"`
	Name     *string `gorm:"column:name;type:varchar(255)"`
}

// TableName returns the table name for GORM
func (SellerModel) TableName() string {
	return "sellers"
}

// ToDomain converts the persistence model to a domain Seller
func (m *SellerModel) ToDomain() *store.Seller {
	return &store.Seller{SellerID: m.SellerID, Name: m.Name}
}

// BrandModel is the persistence model for brands
type BrandModel struct {
	ID   uint   `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;type:varchar(100);not null;uniqueIndex:uq_brands_name"`
}

// TableName returns the table name for GORM
func (BrandModel) TableName() string {
	return "brands"
}

// ToDomain converts the persistence model to a domain Brand
func (m *BrandModel) ToDomain() *store.Brand {
	return &store.Brand{ID: m.ID, Name: m.Name}
}

// CategoryModel is the persistence model for categories
type CategoryModel struct {
	ID   uint   `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;type:varchar(100);not null;uniqueIndex:uq_categories_name"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category
func (m *CategoryModel) ToDomain() *store.Category {
	return &store.Category{ID: m.ID, Name: m.Name}
}

// ProductModel is the persistence model for products
type ProductModel struct {
	ProductID  string         `gorm:"column:product_id;type:varchar(20);primaryKey"`
	Name       string         `gorm:"column:name;type:varchar(255);not null;index"`
	BrandID    uint           `gorm:"column:brand_id;not null;index"`
	CategoryID uint           `gorm:"column:category_id;not null;index"`
	Brand      *BrandModel    `gorm:"belongsTo:true;foreignKey:BrandID;references:ID;constraint:OnDelete:RESTRICT"`
	Category   *CategoryModel `gorm:"belongsTo:true;foreignKey:CategoryID;references:ID;constraint:OnDelete:RESTRICT"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product.
// Brand and Category are set only when they were preloaded.
func (m *ProductModel) ToDomain() *store.Product {
	p := &store.Product{
		ProductID:  m.ProductID,
		Name:       m.Name,
		BrandID:    m.BrandID,
		CategoryID: m.CategoryID,
	}
	if m.Brand != nil {
		p.Brand = m.Brand.ToDomain()
	}
	if m.Category != nil {
		p.Category = m.Category.ToDomain()
	}
	return p
}

// ProductModelFromDomain converts a domain Product to a persistence model without associations
func ProductModelFromDomain(p *store.Product) *ProductModel {
	return &ProductModel{
		ProductID:  p.ProductID,
		Name:       p.Name,
		BrandID:    p.BrandID,
		CategoryID: p.CategoryID,
	}
}

// ProductSellerModel links products and sellers
type ProductSellerModel struct {
	ID        uint          `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID string        `gorm:"column:product_id;type:varchar(20);not null;uniqueIndex:uq_product_sellers_product_seller,priority:1"`
	SellerID  string        `gorm:"column:seller_id;type:varchar(20);not null;uniqueIndex:uq_product_sellers_product_seller,priority:2;index"`
	IsActive  bool          `gorm:"column:is_active;not null;default:true"`
	Product   *ProductModel `gorm:"belongsTo:true;foreignKey:ProductID;references:ProductID;constraint:OnDelete:CASCADE"`
	Seller    *SellerModel  `gorm:"belongsTo:true;foreignKey:SellerID;references:SellerID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ProductSellerModel) TableName() string {
	return "product_sellers"
}

// ToDomain converts the persistence model to a domain ProductSeller
func (m *ProductSellerModel) ToDomain() *store.ProductSeller {
	return &store.ProductSeller{
		ID:        m.ID,
		ProductID: m.ProductID,
		SellerID:  m.SellerID,
		IsActive:  m.IsActive,
	}
}

// OrderModel is the persistence model for orders
type OrderModel struct {
	OrderID       string          `gorm:"column:order_id;type:varchar(20);primaryKey"`
	OrderDate     time.Time       `gorm:"column:order_date;type:date;not null;index"`
	CustomerID    string          `gorm:"column:customer_id;type:varchar(20);not null;index"`
	PaymentMethod string          `gorm:"column:payment_method;type:varchar(50);not null;index"`
	Status        string          `gorm:"column:status;type:varchar(50);not null;index"`
	ShippingCost  decimal.Decimal `gorm:"column:shipping_cost;type:decimal(10,2);not null"`
	TotalAmount   decimal.Decimal `gorm:"column:total_amount;type:decimal(12,2);not null"`
	Customer      *CustomerModel  `gorm:"belongsTo:true;foreignKey:CustomerID;references:CustomerID;constraint:OnDelete:RESTRICT"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *store.Order {
	o := &store.Order{
		OrderID:       m.OrderID,
		OrderDate:     m.OrderDate,
		CustomerID:    m.CustomerID,
		PaymentMethod: m.PaymentMethod,
		Status:        m.Status,
		ShippingCost:  m.ShippingCost,
		TotalAmount:   m.TotalAmount,
	}
	if m.Customer != nil {
		o.Customer = m.Customer.ToDomain()
	}
	return o
}

// OrderModelFromDomain converts a domain Order to a persistence model without associations
func OrderModelFromDomain(o *store.Order) *OrderModel {
	return &OrderModel{
		OrderID:       o.OrderID,
		OrderDate:     o.OrderDate,
		CustomerID:    o.CustomerID,
		PaymentMethod: o.PaymentMethod,
		Status:        o.Status,
		ShippingCost:  o.ShippingCost,
		TotalAmount:   o.TotalAmount,
	}
}

// OrderItemModel is the persistence model for order lines.
// Discount is a fraction in [0, 1] enforced by a check constraint.
type OrderItemModel struct {
	ID        uint            `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID   string          `gorm:"column:order_id;type:varchar(20);not null;uniqueIndex:uq_order_items_order_product_seller,priority:1"`
	ProductID string          `gorm:"column:product_id;type:varchar(20);not null;uniqueIndex:uq_order_items_order_product_seller,priority:2;index"`
	SellerID  string          `gorm:"column:seller_id;type:varchar(20);not null;uniqueIndex:uq_order_items_order_product_seller,priority:3;index"`
	Quantity  int             `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:decimal(10,2);not null"`
	Discount  decimal.Decimal `gorm:"column:discount;type:decimal(5,4);not null;default:0;check:chk_order_items_discount,discount >= 0 AND discount <= 1"`
	Tax       decimal.Decimal `gorm:"column:tax;type:decimal(10,2);not null;default:0"`
	LineTotal decimal.Decimal `gorm:"column:line_total;type:decimal(12,2);not null"`
	Order     *OrderModel     `gorm:"belongsTo:true;foreignKey:OrderID;references:OrderID;constraint:OnDelete:CASCADE"`
	Product   *ProductModel   `gorm:"belongsTo:true;foreignKey:ProductID;references:ProductID;constraint:OnDelete:CASCADE"`
	Seller    *SellerModel    `gorm:"belongsTo:true;foreignKey:SellerID;references:SellerID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem
func (m *OrderItemModel) ToDomain() *store.OrderItem {
	item := &store.OrderItem{
		ID:        m.ID,
		OrderID:   m.OrderID,
		ProductID: m.ProductID,
		SellerID:  m.SellerID,
		Quantity:  m.Quantity,
		UnitPrice: m.UnitPrice,
		Discount:  m.Discount,
		Tax:       m.Tax,
		LineTotal: m.LineTotal,
	}
	if m.Product != nil {
		item.Product = m.Product.ToDomain()
	}
	return item
}

// OrderItemModelFromDomain converts a domain OrderItem to a persistence model without associations
func OrderItemModelFromDomain(i *store.OrderItem) *OrderItemModel {
	return &OrderItemModel{
		ID:        i.ID,
		OrderID:   i.OrderID,
		ProductID: i.ProductID,
		SellerID:  i.SellerID,
		Quantity:  i.Quantity,
		UnitPrice: i.UnitPrice,
		Discount:  i.Discount,
		Tax:       i.Tax,
		LineTotal: i.LineTotal,
	}
}

// StoreModels returns every store model in dependency order, for AutoMigrate
func StoreModels() []any {
	return []any{
		&CustomerModel{},
		&SellerModel{},
		&BrandModel{},
		&CategoryModel{},
		&ProductModel{},
		&ProductSellerModel{},
		&OrderModel{},
		&OrderItemModel{},
	}
}
