package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/sucupira/processmap/cmd/api/container"
	"github.com/sucupira/processmap/cmd/api/handlers"
	"github.com/sucupira/processmap/cmd/api/middleware"
)

// RegisterMapaRoutes registers the diagram and metadata routes
func RegisterMapaRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewMapaHandler(c)
	meta := handlers.NewMetadadosHandler(c)
	guard := middleware.RequireAuth(c.TokenIssuer)

	mapas := e.Group("/api/v1/mapas")
	{
		mapas.GET("/:id", h.GetMapa)
		mapas.GET("/:id/xml", h.ViewXML)
		mapas.GET("/:id/atividades/:atividade/metadados", meta.ListByKey)

		mapas.POST("", h.CreateMapa, guard)
		mapas.PATCH("/:id", h.UpdateMapa, guard)
		mapas.PUT("/:id/xml", h.SaveXML, guard)
		mapas.PUT("/:id/status", h.UpdateStatus, guard)
		mapas.POST("/:id/mover", h.MoveMapa, guard)
		mapas.DELETE("/:id", h.DeleteMapa, guard)
	}

	metadados := e.Group("/api/v1/metadados")
	{
		metadados.GET("", meta.ListAll)
		metadados.GET("/:id", meta.Get)

		metadados.POST("", meta.Upsert, guard)
		metadados.PATCH("/:id", meta.Update, guard)
		metadados.DELETE("/:id", meta.Delete, guard)
	}
}
