package store

import (
	"strings"

	"github.com/amazonstore/backend/internal/domain/shared"
)

// Maximum lengths of natural keys and names, mirrored by the schema
const (
	MaxIDLength           = 20
	MaxNameLength         = 255
	MaxBrandNameLength    = 100
	MaxCategoryNameLength = 100
)

// Brand is deduplicated by name and carries a surrogate ID
type Brand struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Category is deduplicated by name and carries a surrogate ID
type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Product belongs to exactly one brand and one category
type Product struct {
	ProductID  string    `json:"product_id"`
	Name       string    `json:"name"`
	BrandID    uint      `json:"brand_id"`
	CategoryID uint      `json:"category_id"`
	Brand      *Brand    `json:"brand,omitempty"`
	Category   *Category `json:"category,omitempty"`
}

// ProductSeller links a product to a seller offering it
type ProductSeller struct {
	ID        uint   `json:"id"`
	ProductID string `json:"product_id"`
	SellerID  string `json:"seller_id"`
	IsActive  bool   `json:"is_active"`
}

// ProductDraft holds the editable attributes of a product managed outside the importer.
// Brand and category are referenced by name and resolved on save.
type ProductDraft struct {
	ProductID    string
	Name         string
	BrandName    string
	CategoryName string
}

// Validate checks the draft against the schema limits
func (d ProductDraft) Validate() error {
	switch {
	case strings.TrimSpace(d.ProductID) == "":
		return shared.NewDomainError("INVALID_PRODUCT_ID", "Product ID cannot be empty")
	case len(d.ProductID) > MaxIDLength:
		return shared.NewDomainError("INVALID_PRODUCT_ID", "Product ID cannot exceed 20 characters")
	case strings.TrimSpace(d.Name) == "":
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	case len(d.Name) > MaxNameLength:
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot exceed 255 characters")
	case strings.TrimSpace(d.BrandName) == "":
		return shared.NewDomainError("INVALID_BRAND", "Brand name cannot be empty")
	case len(d.BrandName) > MaxBrandNameLength:
		return shared.NewDomainError("INVALID_BRAND", "Brand name cannot exceed 100 characters")
	case strings.TrimSpace(d.CategoryName) == "":
		return shared.NewDomainError("INVALID_CATEGORY", "Category name cannot be empty")
	case len(d.CategoryName) > MaxCategoryNameLength:
		return shared.NewDomainError("INVALID_CATEGORY", "Category name cannot exceed 100 characters")
	}
	return nil
}
