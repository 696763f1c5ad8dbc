package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sucupira/processmap/cmd/api/container"
	"github.com/sucupira/processmap/cmd/api/service"
	"github.com/sucupira/processmap/common/bootstrap"
)

// CatalogHandler handles areas and documents
type CatalogHandler struct {
	components *bootstrap.Components
	areas      *service.AreaService
	documents  *service.DocumentService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(c *container.Container) *CatalogHandler {
	return &CatalogHandler{
		components: c.Components,
		areas:      c.AreaService,
		documents:  c.DocumentService,
	}
}

// CreateArea creates an organizational area
// POST /api/v1/areas
func (h *CatalogHandler) CreateArea(c echo.Context) error {
	var req struct {
		NomeArea string `json:"nome_area"`
		Sigla    string `json:"sigla"`
		Tipo     string `json:"tipo"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
	}

	a, err := h.areas.Create(c.Request().Context(), req.NomeArea, req.Sigla, req.Tipo)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, a)
}

// GetArea fetches one area
// GET /api/v1/areas/:id
func (h *CatalogHandler) GetArea(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	a, err := h.areas.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

// ListAreas lists all areas
// GET /api/v1/areas
func (h *CatalogHandler) ListAreas(c echo.Context) error {
	areas, err := h.areas.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"areas": areas,
	})
}

// DeleteArea removes an area
// DELETE /api/v1/areas/:id
func (h *CatalogHandler) DeleteArea(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.areas.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateDocumento creates a reference document
// POST /api/v1/documentos
func (h *CatalogHandler) CreateDocumento(c echo.Context) error {
	var req struct {
		IDProc        *int64 `json:"id_proc"`
		NomeDocumento string `json:"nome_documento"`
		Link          string `json:"link"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
	}

	d, err := h.documents.Create(c.Request().Context(), req.IDProc, req.NomeDocumento, req.Link)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, d)
}

// GetDocumento fetches one document
// GET /api/v1/documentos/:id
func (h *CatalogHandler) GetDocumento(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	d, err := h.documents.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// ListDocumentosByProcesso lists the documents linked to a process
// GET /api/v1/processos/:id/documentos
func (h *CatalogHandler) ListDocumentosByProcesso(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	docs, err := h.documents.ListByProcesso(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"id_proc":    id,
		"documentos": docs,
	})
}

// DeleteDocumento removes a document
// DELETE /api/v1/documentos/:id
func (h *CatalogHandler) DeleteDocumento(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.documents.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
