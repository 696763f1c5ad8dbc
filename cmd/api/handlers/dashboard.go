package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sucupira/processmap/cmd/api/container"
	"github.com/sucupira/processmap/cmd/api/service"
	"github.com/sucupira/processmap/common/bootstrap"
)

// DashboardHandler serves the public landing-page aggregates
type DashboardHandler struct {
	components *bootstrap.Components
	dashboard  *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(c *container.Container) *DashboardHandler {
	return &DashboardHandler{
		components: c.Components,
		dashboard:  c.DashboardService,
	}
}

// View returns totals, per-status counts and recent processes
// GET /api/v1/dashboard?status=...
func (h *DashboardHandler) View(c echo.Context) error {
	view, err := h.dashboard.View(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}
