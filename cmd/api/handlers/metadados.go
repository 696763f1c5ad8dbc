package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sucupira/processmap/cmd/api/container"
	"github.com/sucupira/processmap/cmd/api/service"
	"github.com/sucupira/processmap/common/bootstrap"
	"github.com/sucupira/processmap/common/models"
)

// MetadadosHandler handles diagram-activity metadata requests
type MetadadosHandler struct {
	components *bootstrap.Components
	metadata   *service.MetadataService
}

// NewMetadadosHandler creates a new metadata handler
func NewMetadadosHandler(c *container.Container) *MetadadosHandler {
	return &MetadadosHandler{
		components: c.Components,
		metadata:   c.MetadataService,
	}
}

// Upsert writes a metadata record by natural key
// POST /api/v1/metadados
func (h *MetadadosHandler) Upsert(c echo.Context) error {
	var req service.UpsertInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
	}

	m, err := h.metadata.Upsert(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

// Get fetches one record
// GET /api/v1/metadados/:id
func (h *MetadadosHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	m, err := h.metadata.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

// Update patches a record by surrogate id
// PATCH /api/v1/metadados/:id
func (h *MetadadosHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var patch models.MetadadosPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
	}

	m, err := h.metadata.UpdatePartial(c.Request().Context(), id, patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

// ListByKey lists the records of one activity of one diagram
// GET /api/v1/mapas/:id/atividades/:atividade/metadados
func (h *MetadadosHandler) ListByKey(c echo.Context) error {
	idMapa, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	atividade := c.Param("atividade")

	records, err := h.metadata.ListByKey(c.Request().Context(), idMapa, atividade)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"id_mapa":      idMapa,
		"id_atividade": atividade,
		"metadados":    records,
	})
}

// ListAll lists every metadata record
// GET /api/v1/metadados
func (h *MetadadosHandler) ListAll(c echo.Context) error {
	records, err := h.metadata.ListAll(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"metadados": records,
	})
}

// Delete removes one record
// DELETE /api/v1/metadados/:id
func (h *MetadadosHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.metadata.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
