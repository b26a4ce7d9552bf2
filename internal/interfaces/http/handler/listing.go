package handler

import (
	"net/http"

	catalogapp "github.com/amazonstore/backend/internal/application/catalog"
	"github.com/amazonstore/backend/internal/domain/shared"
	"github.com/amazonstore/backend/internal/domain/store"
	"github.com/amazonstore/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// ListingHandler serves the read-only table listings
type ListingHandler struct {
	BaseHandler
	listings *catalogapp.ListingService
}

// NewListingHandler creates a new ListingHandler
func NewListingHandler(listings *catalogapp.ListingService) *ListingHandler {
	return &ListingHandler{listings: listings}
}

// Handler returns the gin handler for one listing.
// Query parameters: page, page_size, q and the listing's filters.
func (h *ListingHandler) Handler(listing string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.ListRequest
		if err := c.ShouldBindQuery(&req); err != nil {
			h.BindingError(c, err)
			return
		}

		filters := make(map[string]string)
		for _, key := range catalogapp.AllowedFilters(listing) {
			if v := c.Query(key); v != "" {
				filters[key] = v
			}
		}

		page, err := h.listings.List(c.Request.Context(), listing, req.ToFilter(filters))
		if err != nil {
			h.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, paginatedResponse(page))
	}
}

func paginatedResponse(page any) dto.Response {
	switch p := page.(type) {
	case shared.Paginated[store.Customer]:
		return dto.NewPaginatedResponse(p)
	case shared.Paginated[store.Seller]:
		return dto.NewPaginatedResponse(p)
	case shared.Paginated[store.Brand]:
		return dto.NewPaginatedResponse(p)
	case shared.Paginated[store.Category]:
		return dto.NewPaginatedResponse(p)
	case shared.Paginated[store.Product]:
		return dto.NewPaginatedResponse(p)
	case shared.Paginated[store.Order]:
		return dto.NewPaginatedResponse(p)
	case shared.Paginated[store.OrderItem]:
		return dto.NewPaginatedResponse(p)
	}
	return dto.NewSuccessResponse(page)
}
