package catalog

import (
	"context"
	"strings"

	"github.com/amazonstore/backend/internal/domain/shared"
	"github.com/amazonstore/backend/internal/domain/store"
	"go.uber.org/zap"
)

// DashboardInvalidator drops cached aggregates after catalog edits
type DashboardInvalidator interface {
	InvalidateDashboard(ctx context.Context) error
}

// ProductService handles product management outside the importer
type ProductService struct {
	productRepo store.ProductRepository
	listingRepo store.ListingRepository
	dashboard   DashboardInvalidator
	logger      *zap.Logger
}

// NewProductService creates a new ProductService. dashboard may be nil.
func NewProductService(
	productRepo store.ProductRepository,
	listingRepo store.ListingRepository,
	dashboard DashboardInvalidator,
	logger *zap.Logger,
) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		productRepo: productRepo,
		listingRepo: listingRepo,
		dashboard:   dashboard,
		logger:      logger,
	}
}

// List returns a page of products with brand and category
func (s *ProductService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[ProductResponse], error) {
	page, err := s.listingRepo.ListProducts(ctx, filter.Normalized())
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	items := make([]ProductResponse, len(page.Items))
	for i := range page.Items {
		items[i] = ToProductResponse(&page.Items[i])
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}

// GetByID returns a single product
func (s *ProductService) GetByID(ctx context.Context, productID string) (*ProductResponse, error) {
	p, err := s.productRepo.FindByID(ctx, strings.TrimSpace(productID))
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(p)
	return &resp, nil
}

// Create adds a product. Brand and category are created on first use.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	draft := req.draft()
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	p, err := s.productRepo.Create(ctx, draft)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "create", p.ProductID)

	resp := ToProductResponse(p)
	return &resp, nil
}

// Update changes name, brand and category of a product
func (s *ProductService) Update(ctx context.Context, productID string, req UpdateProductRequest) (*ProductResponse, error) {
	draft := CreateProductRequest{
		ProductID: productID,
		Name:      req.Name,
		Brand:     req.Brand,
		Category:  req.Category,
	}.draft()
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	p, err := s.productRepo.Update(ctx, draft)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "update", p.ProductID)

	resp := ToProductResponse(p)
	return &resp, nil
}

// Delete removes a product along with its seller links and order items
func (s *ProductService) Delete(ctx context.Context, productID string) error {
	productID = strings.TrimSpace(productID)
	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return err
	}
	s.invalidate(ctx, "delete", productID)
	return nil
}

func (s *ProductService) invalidate(ctx context.Context, op, productID string) {
	if s.dashboard == nil {
		return
	}
	if err := s.dashboard.InvalidateDashboard(ctx); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache",
			zap.String("operation", op),
			zap.String("product_id", productID),
			zap.Error(err),
		)
	}
}
