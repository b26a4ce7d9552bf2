package handler

import (
	"context"

	"github.com/amazonstore/backend/internal/domain/report"
	"github.com/gin-gonic/gin"
)

// DashboardProvider serves the store overview
type DashboardProvider interface {
	Get(ctx context.Context) (*report.Dashboard, error)
	Refresh(ctx context.Context) (*report.Dashboard, error)
}

// DashboardHandler handles the dashboard endpoints
type DashboardHandler struct {
	BaseHandler
	dashboard DashboardProvider
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboard DashboardProvider) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Get returns the dashboard, cached when possible.
// GET /dashboard
func (h *DashboardHandler) Get(c *gin.Context) {
	d, err := h.dashboard.Get(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, d)
}

// Refresh rebuilds the dashboard from the database.
// POST /dashboard/refresh
func (h *DashboardHandler) Refresh(c *gin.Context) {
	d, err := h.dashboard.Refresh(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, d)
}
