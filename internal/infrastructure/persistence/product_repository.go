package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/amazonstore/backend/internal/domain/shared"
	"github.com/amazonstore/backend/internal/domain/store"
	"github.com/amazonstore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProductRepository implements store.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ProductID with brand and category loaded
func (r *GormProductRepository) FindByID(ctx context.Context, productID string) (*store.Product, error) {
	return findProduct(r.db.WithContext(ctx), productID)
}

// Create inserts a new product, creating its brand and category when they do not exist
func (r *GormProductRepository) Create(ctx context.Context, draft store.ProductDraft) (*store.Product, error) {
	var created *store.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.ProductModel{}).Where("product_id = ?", draft.ProductID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return shared.ErrAlreadyExists
		}

		m, err := r.resolveDraft(tx, draft)
		if err != nil {
			return err
		}
		if err := tx.Create(m).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}

		created, err = findProduct(tx, draft.ProductID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update rewrites name, brand and category of an existing product
func (r *GormProductRepository) Update(ctx context.Context, draft store.ProductDraft) (*store.Product, error) {
	var updated *store.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findProduct(tx, draft.ProductID); err != nil {
			return err
		}

		m, err := r.resolveDraft(tx, draft)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.ProductModel{}).
			Where("product_id = ?", draft.ProductID).
			Updates(map[string]any{
				"name":        m.Name,
				"brand_id":    m.BrandID,
				"category_id": m.CategoryID,
			}).Error; err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}

		updated, err = findProduct(tx, draft.ProductID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a product with its seller links and order items in one transaction
func (r *GormProductRepository) Delete(ctx context.Context, productID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&models.OrderItemModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete order items: %w", err)
		}
		if err := tx.Where("product_id = ?", productID).Delete(&models.ProductSellerModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete product sellers: %w", err)
		}
		res := tx.Where("product_id = ?", productID).Delete(&models.ProductModel{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// resolveDraft gets or creates the draft's brand and category and returns the product row
func (r *GormProductRepository) resolveDraft(tx *gorm.DB, draft store.ProductDraft) (*models.ProductModel, error) {
	brand, _, err := getOrCreate(tx, &models.BrandModel{Name: draft.BrandName}, "name = ?", draft.BrandName)
	if err != nil {
		return nil, fmt.Errorf("brand %q: %w", draft.BrandName, err)
	}
	category, _, err := getOrCreate(tx, &models.CategoryModel{Name: draft.CategoryName}, "name = ?", draft.CategoryName)
	if err != nil {
		return nil, fmt.Errorf("category %q: %w", draft.CategoryName, err)
	}
	return &models.ProductModel{
		ProductID:  draft.ProductID,
		Name:       draft.Name,
		BrandID:    brand.ID,
		CategoryID: category.ID,
	}, nil
}

func findProduct(db *gorm.DB, productID string) (*store.Product, error) {
	var m models.ProductModel
	if err := db.Preload("Brand").Preload("Category").
		Where("product_id = ?", productID).
		Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}
