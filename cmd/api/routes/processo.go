package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/sucupira/processmap/cmd/api/container"
	"github.com/sucupira/processmap/cmd/api/handlers"
	"github.com/sucupira/processmap/cmd/api/middleware"
)

// RegisterProcessoRoutes registers the process tree routes
func RegisterProcessoRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewProcessoHandler(c)
	mapas := handlers.NewMapaHandler(c)
	catalog := handlers.NewCatalogHandler(c)
	guard := middleware.RequireAuth(c.TokenIssuer)

	// Public reads
	e.GET("/api/v1/hierarquia", h.Hierarchy)

	processos := e.Group("/api/v1/processos")
	{
		processos.GET("", h.ListRoots)
		processos.GET("/:id", h.GetProcesso)
		processos.GET("/:id/filhos", h.ListChildren)
		processos.GET("/:id/mapas", mapas.ListByProcesso)
		processos.GET("/:id/documentos", catalog.ListDocumentosByProcesso)

		processos.POST("", h.CreateProcesso, guard)
		processos.PATCH("/:id", h.UpdateProcesso, guard)
		processos.DELETE("/:id", h.DeleteProcesso, guard)
		processos.POST("/:id/mover-pai", h.MoveToParent, guard)
		processos.POST("/:id/mover-raiz", h.MoveToRoot, guard)
		processos.POST("/:id/mover-macro", h.MoveToMacro, guard)
	}

	macros := e.Group("/api/v1/macro-processos")
	{
		macros.GET("", h.ListMacroProcessos)
		macros.POST("", h.CreateMacroProcesso, guard)
		macros.DELETE("/:id", h.DeleteMacroProcesso, guard)
	}
}
