package catalog

import (
	"strings"

	"github.com/amazonstore/backend/internal/domain/store"
)

// CreateProductRequest represents a request to add a product by hand
type CreateProductRequest struct {
	ProductID string `json:"product_id" binding:"required,max=20"`
	Name      string `json:"name" binding:"required,max=255"`
	Brand     string `json:"brand" binding:"required,max=100"`
	Category  string `json:"category" binding:"required,max=100"`
}

func (r CreateProductRequest) draft() store.ProductDraft {
	return store.ProductDraft{
		ProductID:    strings.TrimSpace(r.ProductID),
		Name:         strings.TrimSpace(r.Name),
		BrandName:    strings.TrimSpace(r.Brand),
		CategoryName: strings.TrimSpace(r.Category),
	}
}

// UpdateProductRequest represents a request to rename or reclassify a product
type UpdateProductRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Brand    string `json:"brand" binding:"required,max=100"`
	Category string `json:"category" binding:"required,max=100"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	BrandID    uint   `json:"brand_id"`
	Brand      string `json:"brand"`
	CategoryID uint   `json:"category_id"`
	Category   string `json:"category"`
}

// ToProductResponse converts a domain product to its response form
func ToProductResponse(p *store.Product) ProductResponse {
	resp := ProductResponse{
		ProductID:  p.ProductID,
		Name:       p.Name,
		BrandID:    p.BrandID,
		CategoryID: p.CategoryID,
	}
	if p.Brand != nil {
		resp.Brand = p.Brand.Name
	}
	if p.Category != nil {
		resp.Category = p.Category.Name
	}
	return resp
}
