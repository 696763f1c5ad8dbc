package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sucupira/processmap/cmd/api/container"
	"github.com/sucupira/processmap/cmd/api/service"
	"github.com/sucupira/processmap/common/bootstrap"
	"github.com/sucupira/processmap/common/models"
)

// ProcessoHandler handles process tree requests
type ProcessoHandler struct {
	components *bootstrap.Components
	tree       *service.TreeService
}

// NewProcessoHandler creates a new process handler
func NewProcessoHandler(c *container.Container) *ProcessoHandler {
	return &ProcessoHandler{
		components: c.Components,
		tree:       c.TreeService,
	}
}

// CreateProcesso creates a process node
// POST /api/v1/processos
func (h *ProcessoHandler) CreateProcesso(c echo.Context) error {
	ctx := c.Request().Context()

	var req service.CreateProcessoInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
	}

	p, err := h.tree.CreateProcesso(ctx, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// GetProcesso fetches one process
// GET /api/v1/processos/:id
func (h *ProcessoHandler) GetProcesso(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	p, err := h.tree.GetProcesso(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// ListRoots lists the processes without a parent
// GET /api/v1/processos
func (h *ProcessoHandler) ListRoots(c echo.Context) error {
	roots, err := h.tree.ListRoots(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"processos": roots,
	})
}

// ListChildren lists the direct children of a process
// GET /api/v1/processos/:id/filhos
func (h *ProcessoHandler) ListChildren(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	children, err := h.tree.ListChildren(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"id_pai": id,
		"filhos": children,
	})
}

// UpdateProcesso applies a sparse patch
// PATCH /api/v1/processos/:id
func (h *ProcessoHandler) UpdateProcesso(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var patch models.ProcessoPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
	}

	p, err := h.tree.UpdateProcesso(c.Request().Context(), id, patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// DeleteProcesso removes a process and its whole subtree
// DELETE /api/v1/processos/:id
func (h *ProcessoHandler) DeleteProcesso(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.tree.DeleteProcesso(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MoveToParent re-roots a process under another process
// POST /api/v1/processos/:id/mover-pai
func (h *ProcessoHandler) MoveToParent(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req struct {
		IDPai int64 `json:"id_pai"`
		Ordem *int  `json:"ordem"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
	}

	if err := h.tree.MoveToParent(c.Request().Context(), id, req.IDPai, req.Ordem); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":     id,
		"id_pai": req.IDPai,
	})
}

// MoveToRoot detaches a process from its parent
// POST /api/v1/processos/:id/mover-raiz
func (h *ProcessoHandler) MoveToRoot(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req struct {
		Ordem *int `json:"ordem"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
	}

	if err := h.tree.MoveToRoot(c.Request().Context(), id, req.Ordem); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":     id,
		"id_pai": nil,
	})
}

// MoveToMacro groups a root process under a macro-process
// POST /api/v1/processos/:id/mover-macro
func (h *ProcessoHandler) MoveToMacro(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req struct {
		MacroProcessoID int64 `json:"macro_processo_id"`
		Ordem           *int  `json:"ordem"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
	}

	if err := h.tree.MoveToMacro(c.Request().Context(), id, req.MacroProcessoID, req.Ordem); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":                id,
		"macro_processo_id": req.MacroProcessoID,
	})
}

// Hierarchy returns the full nested forest
// GET /api/v1/hierarquia
func (h *ProcessoHandler) Hierarchy(c echo.Context) error {
	view, err := h.tree.Hierarchy(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// CreateMacroProcesso creates a macro-process
// POST /api/v1/macro-processos
func (h *ProcessoHandler) CreateMacroProcesso(c echo.Context) error {
	var req struct {
		Titulo         string     `json:"titulo"`
		DataPublicacao *time.Time `json:"data_publicacao"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
	}

	m, err := h.tree.CreateMacroProcesso(c.Request().Context(), req.Titulo, req.DataPublicacao)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}

// ListMacroProcessos lists all macro-processes
// GET /api/v1/macro-processos
func (h *ProcessoHandler) ListMacroProcessos(c echo.Context) error {
	macros, err := h.tree.ListMacroProcessos(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"macro_processos": macros,
	})
}

// DeleteMacroProcesso removes a macro-process, keeping its processes
// DELETE /api/v1/macro-processos/:id
func (h *ProcessoHandler) DeleteMacroProcesso(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.tree.DeleteMacroProcesso(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
