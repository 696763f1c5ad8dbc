package handlers

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sucupira/processmap/cmd/api/container"
	"github.com/sucupira/processmap/cmd/api/service"
	"github.com/sucupira/processmap/common/bootstrap"
	"github.com/sucupira/processmap/common/models"
)

// MapaHandler handles diagram requests, including the canvas XML endpoints
type MapaHandler struct {
	components *bootstrap.Components
	diagrams   *service.DiagramService
}

// NewMapaHandler creates a new diagram handler
func NewMapaHandler(c *container.Container) *MapaHandler {
	return &MapaHandler{
		components: c.Components,
		diagrams:   c.DiagramService,
	}
}

// CreateMapa creates a diagram for a process
// POST /api/v1/mapas
func (h *MapaHandler) CreateMapa(c echo.Context) error {
	var req service.CreateMapaInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
	}

	m, err := h.diagrams.Create(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}

// GetMapa fetches one diagram
// GET /api/v1/mapas/:id
func (h *MapaHandler) GetMapa(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	m, err := h.diagrams.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

// ViewXML serves the raw diagram body for the canvas
// GET /api/v1/mapas/:id/xml
func (h *MapaHandler) ViewXML(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	m, err := h.diagrams.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	c.Response().Header().Set("Content-Disposition", "inline")
	return c.Blob(http.StatusOK, "application/xml", []byte(m.XML))
}

// SaveXML replaces the diagram body. The canvas posts the raw XML.
// PUT /api/v1/mapas/:id/xml
func (h *MapaHandler) SaveXML(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "could not read request body",
		})
	}

	m, err := h.diagrams.Save(c.Request().Context(), id, string(body))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":               m.ID,
		"data_modificacao": m.DataModificacao,
	})
}

// UpdateMapa patches title, status or body
// PATCH /api/v1/mapas/:id
func (h *MapaHandler) UpdateMapa(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var patch models.MapaPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
	}

	m, err := h.diagrams.Update(c.Request().Context(), id, patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

// UpdateStatus moves a diagram through its lifecycle
// PUT /api/v1/mapas/:id/status
func (h *MapaHandler) UpdateStatus(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req struct {
		Status models.MapaStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
	}

	m, err := h.diagrams.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

// MoveMapa reattaches a diagram to another process
// POST /api/v1/mapas/:id/mover
func (h *MapaHandler) MoveMapa(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req struct {
		IDProc int64 `json:"id_proc"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
	}

	m, err := h.diagrams.Move(c.Request().Context(), id, req.IDProc)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

// DeleteMapa removes a diagram and its metadata
// DELETE /api/v1/mapas/:id
func (h *MapaHandler) DeleteMapa(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.diagrams.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListByProcesso lists the diagrams of a process
// GET /api/v1/processos/:id/mapas
func (h *MapaHandler) ListByProcesso(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	mapas, err := h.diagrams.ListByProcesso(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"id_proc": id,
		"mapas":   mapas,
	})
}
