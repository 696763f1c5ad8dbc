package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/sucupira/processmap/cmd/api/container"
	"github.com/sucupira/processmap/cmd/api/handlers"
	"github.com/sucupira/processmap/cmd/api/middleware"
)

// RegisterCatalogRoutes registers the area and document routes
func RegisterCatalogRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewCatalogHandler(c)
	guard := middleware.RequireAuth(c.TokenIssuer)

	areas := e.Group("/api/v1/areas")
	{
		areas.GET("", h.ListAreas)
		areas.GET("/:id", h.GetArea)

		areas.POST("", h.CreateArea, guard)
		areas.DELETE("/:id", h.DeleteArea, guard)
	}

	documentos := e.Group("/api/v1/documentos")
	{
		documentos.GET("/:id", h.GetDocumento)

		documentos.POST("", h.CreateDocumento, guard)
		documentos.DELETE("/:id", h.DeleteDocumento, guard)
	}
}
