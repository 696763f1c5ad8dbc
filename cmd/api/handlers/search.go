package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sucupira/processmap/cmd/api/container"
	"github.com/sucupira/processmap/cmd/api/service"
	"github.com/sucupira/processmap/common/bootstrap"
)

// SearchHandler handles the unified search endpoints
type SearchHandler struct {
	components *bootstrap.Components
	search     *service.SearchService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(c *container.Container) *SearchHandler {
	return &SearchHandler{
		components: c.Components,
		search:     c.SearchService,
	}
}

// Search runs the multi-entity relevance query
// GET /api/v1/busca?q=...&sort=relevance|title|modified&kinds=processo,mapa
func (h *SearchHandler) Search(c echo.Context) error {
	query := c.QueryParam("q")
	order := c.QueryParam("sort")

	var kinds []string
	if raw := c.QueryParam("kinds"); raw != "" {
		kinds = strings.Split(raw, ",")
	}

	resp, err := h.search.Search(c.Request().Context(), query, order, kinds)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// SearchByPayload matches metadata including serialized payloads
// GET /api/v1/busca/metadados?q=...
func (h *SearchHandler) SearchByPayload(c echo.Context) error {
	hits, err := h.search.SearchByPayload(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"resultados": hits,
	})
}

// Suggest backs the type-ahead box
// GET /api/v1/busca/sugestoes?q=...
func (h *SearchHandler) Suggest(c echo.Context) error {
	suggestions, err := h.search.Suggest(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"sugestoes": suggestions,
	})
}
