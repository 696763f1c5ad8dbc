package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/sucupira/processmap/cmd/api/container"
	"github.com/sucupira/processmap/cmd/api/handlers"
)

// RegisterSearchRoutes registers the public search and dashboard routes
func RegisterSearchRoutes(e *echo.Echo, c *container.Container) {
	search := handlers.NewSearchHandler(c)
	dashboard := handlers.NewDashboardHandler(c)

	busca := e.Group("/api/v1/busca")
	{
		busca.GET("", search.Search)
		busca.GET("/metadados", search.SearchByPayload)
		busca.GET("/sugestoes", search.Suggest)
	}

	e.GET("/api/v1/dashboard", dashboard.View)
}
